package models

// Attendee is the canonical attendee shape handed to the calendar backend
// at event creation. Raw strings from extraction (bare emails or display
// names) are normalized into this form by the booking executor; external
// attendees keep only a display name.
type Attendee struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Internal    bool   `json:"internal,omitempty"`
}
