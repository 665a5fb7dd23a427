package models

import (
	"time"
)

// EventResponse holds one participant's non-voting answers for one event.
// At most one exists per (event, user) pair; resubmissions update it in
// place. Voting answers never appear here.
type EventResponse struct {
	ID             string          `json:"id"`
	EventID        string          `json:"event_id"`
	UserID         string          `json:"user_id"`
	UserEmail      string          `json:"user_email,omitempty"`
	FieldResponses []FieldResponse `json:"field_responses"`
	SubmittedAt    time.Time       `json:"submitted_at"`
}

// FieldResponse is one answered text or list field. Response is a string for
// text fields and a string array for list fields.
type FieldResponse struct {
	FieldID  string    `json:"fieldId"`
	Type     FieldType `json:"type"`
	Response any       `json:"response"`
}
