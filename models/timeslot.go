package models

import (
	"fmt"
	"time"
)

// TimeSlot is a concrete bookable window. Rank and Reason are set only on
// alternative proposals (1-based, best first); the slot is immutable once
// produced.
type TimeSlot struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Rank   int       `json:"rank,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// Overlaps applies the half-open overlap test: touching boundaries do not
// conflict.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Label renders the slot for conversational display.
func (s TimeSlot) Label() string {
	return fmt.Sprintf("%s - %s",
		s.Start.Format("Mon Jan 2 15:04"),
		s.End.Format("15:04 MST"))
}

// BusyInterval is an attendee's blocked window as reported by the
// calendar backend. Tentative entries count as busy for conflict checks.
type BusyInterval struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Tentative bool      `json:"tentative,omitempty"`
}

// EventRef identifies an event created on the calendar backend.
type EventRef struct {
	ID      string `json:"id"`
	WebLink string `json:"webLink,omitempty"`
}
