// Package domain holds DTOs for printer management contracts
package domain

import "time"

// Printer is the management view of one machine
type Printer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" example:"X1C rack 2"`
	BambuSerial string    `json:"bambu_serial,omitempty" example:"01S00C123456789"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status" example:"active"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssignSerialInput sets the dedicated serial column the event resolver
// prefers over the notes token
type AssignSerialInput struct {
	BambuSerial string `json:"bambu_serial" validate:"required,min=1,max=64" example:"01S00C123456789"`
}
