package calendar

import (
	"context"
	"time"

	"meetwise/models"
)

// Provider is the calendar backend the orchestrator schedules against.
// Implementations own transport, auth and retry concerns; the core treats
// every call as succeed-or-fail exactly once.
type Provider interface {
	// FindBusyIntervals returns busy and tentative intervals per user over
	// exactly [start, end).
	FindBusyIntervals(ctx context.Context, userIDs []string, start, end time.Time) (map[string][]models.BusyInterval, error)

	// FindCandidateSlots asks the backend for candidate meeting windows for
	// the given attendees. Callers must not treat the returned ordering as
	// authoritative.
	FindCandidateSlots(ctx context.Context, organizer string, attendees []string, windowStart, windowEnd time.Time, durationMinutes, maxCandidates int) ([]models.TimeSlot, error)

	// CreateEvent books the meeting on the organizer's calendar.
	CreateEvent(ctx context.Context, organizer string, req *models.MeetingRequest, attendees []models.Attendee, slot models.TimeSlot) (*models.EventRef, error)

	// ResolveUserByName resolves a display name or email through the
	// directory. An empty result with a nil error means the user is not in
	// the directory (an external attendee).
	ResolveUserByName(ctx context.Context, nameOrEmail string) (string, error)
}
