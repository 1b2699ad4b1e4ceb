package models

// Device is an acquisition headset registered to the organisation.
type Device struct {
	ID             int    `json:"device_id"`
	Model          string `json:"marque_modele"`
	SerialNumber   string `json:"serial_number,omitempty"`
	ConnectionType string `json:"connection_type"`
	State          string `json:"etat"`
	OrganisationID int    `json:"organisation_id"`
}

// DeviceInput is the body for creating a device. Updates send only the
// fields to change.
type DeviceInput struct {
	Model          string `json:"marque_modele,omitempty"`
	SerialNumber   string `json:"serial_number,omitempty"`
	ConnectionType string `json:"connection_type,omitempty"`
	State          string `json:"etat,omitempty"`
}

func (d Device) RecordID() int { return d.ID }
