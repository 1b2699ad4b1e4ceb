package models

// Patient is a patient record of the organisation.
type Patient struct {
	ID              int     `json:"patient_id"`
	OrganisationID  int     `json:"organisation_id"`
	InternalID      string  `json:"identifiant_interne"`
	LastName        string  `json:"nom"`
	FirstName       string  `json:"prenom"`
	BirthDate       *string `json:"date_naissance,omitempty"`
	SocialSecurity  *string `json:"numero_securite_sociale,omitempty"`
	Sex             *string `json:"sexe,omitempty"`
	Service         *string `json:"service,omitempty"`
	ReferringDoctor *string `json:"medecin_referent,omitempty"`
	Remark          *string `json:"remarque,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// PatientInput is the body for creating or updating a patient.
type PatientInput struct {
	InternalID      string `json:"identifiant_interne" binding:"required"`
	LastName        string `json:"nom" binding:"required"`
	FirstName       string `json:"prenom" binding:"required"`
	BirthDate       string `json:"date_naissance,omitempty"`
	SocialSecurity  string `json:"numero_securite_sociale,omitempty"`
	Sex             string `json:"sexe,omitempty"`
	Service         string `json:"service,omitempty"`
	ReferringDoctor string `json:"medecin_referent,omitempty"`
	Remark          string `json:"remarque,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// RecordID implements the record store key.
func (p Patient) RecordID() int { return p.ID }

// PatientUpdate carries the fields to change on an existing patient.
type PatientUpdate struct {
	InternalID      string `json:"identifiant_interne,omitempty"`
	LastName        string `json:"nom,omitempty"`
	FirstName       string `json:"prenom,omitempty"`
	BirthDate       string `json:"date_naissance,omitempty"`
	SocialSecurity  string `json:"numero_securite_sociale,omitempty"`
	Sex             string `json:"sexe,omitempty"`
	Service         string `json:"service,omitempty"`
	ReferringDoctor string `json:"medecin_referent,omitempty"`
	Remark          string `json:"remarque,omitempty"`
	Notes           string `json:"notes,omitempty"`
}
