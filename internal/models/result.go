package models

// Result is a recorded acquisition session.
type Result struct {
	SessionID       int     `json:"session_id"`
	Mode            string  `json:"mode"`
	StartedAt       string  `json:"started_at"`
	EndedAt         *string `json:"ended_at,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	AppVersion      *string `json:"app_version,omitempty"`
	DeviceID        *int    `json:"device_id,omitempty"`
	PatientID       *int    `json:"patient_id,omitempty"`
	ConsentID       *int    `json:"consent_id,omitempty"`
	CreatedByUserID *int    `json:"created_by_user_id,omitempty"`
	OrganisationID  int     `json:"organisation_id"`
}

// ResultInput is the body for creating or updating a session record.
type ResultInput struct {
	Mode            string  `json:"mode,omitempty"`
	StartedAt       string  `json:"started_at,omitempty"`
	EndedAt         *string `json:"ended_at,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	AppVersion      *string `json:"app_version,omitempty"`
	DeviceID        *int    `json:"device_id,omitempty"`
	PatientID       *int    `json:"patient_id,omitempty"`
	ConsentID       *int    `json:"consent_id,omitempty"`
	CreatedByUserID *int    `json:"created_by_user_id,omitempty"`
}

func (r Result) RecordID() int { return r.SessionID }
