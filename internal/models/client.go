package models

import "time"

// Client statuses form a closed set; anything else is rejected on upsert.
const (
	ClientStatusLead      = "lead"
	ClientStatusActive    = "active"
	ClientStatusCompleted = "completed"
	ClientStatusOnHold    = "on-hold"
	ClientStatusWaitlist  = "waitlist"
)

// ValidClientStatus reports whether s is one of the five allowed statuses.
func ValidClientStatus(s string) bool {
	switch s {
	case ClientStatusLead, ClientStatusActive, ClientStatusCompleted,
		ClientStatusOnHold, ClientStatusWaitlist:
		return true
	}
	return false
}

// Client is a contact in the woodworker's own professional network, not the
// end customer of a project. Name is the only mandatory field.
type Client struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Motivation string    `json:"motivation,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
	Status     string    `json:"status"`
}

// UpsertClientRequest creates a client when ID is empty and fully replaces the
// existing record's fields (keyed on ID) otherwise.
type UpsertClientRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Motivation string `json:"motivation,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
	Status     string `json:"status,omitempty"`
}
