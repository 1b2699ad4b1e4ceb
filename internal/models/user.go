package models

// Role represents user role in the organisation.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleClinician Role = "clinician"
)

// User is the account returned by the backend for the signed-in operator.
type User struct {
	ID             int    `json:"user_id"`
	FirstName      string `json:"prenom"`
	LastName       string `json:"nom"`
	Email          string `json:"email"`
	OrganisationID int    `json:"organisation_id"`
	Role           Role   `json:"role,omitempty"`
}

// DisplayName is "first last", or empty for a nil user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}
