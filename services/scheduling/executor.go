// File: services/scheduling/executor.go
package scheduling

import (
	"context"
	"strings"

	"meetwise/models"
	"meetwise/services/calendar"
	"meetwise/utils"

	"go.uber.org/zap"
)

// BookingExecutor issues the final create-event call. Provider failures
// come back as recoverable BookingErrors; a failed booking is a
// conversational event, never a process-fatal one.
type BookingExecutor struct {
	Calendar calendar.Provider
}

func NewBookingExecutor(cal calendar.Provider) *BookingExecutor {
	return &BookingExecutor{Calendar: cal}
}

// Execute normalizes attendees into the canonical shape and books the
// slot on the organizer's calendar.
func (x *BookingExecutor) Execute(ctx context.Context, organizer string, req *models.MeetingRequest, slot models.TimeSlot) (*models.EventRef, error) {
	logger := utils.GetLogger()

	attendees, err := x.normalizeAttendees(ctx, req.Attendees)
	if err != nil {
		logger.Error("attendee normalization failed", zap.Error(err))
		return nil, NewBookingError("failed to resolve attendees", err)
	}

	ref, err := x.Calendar.CreateEvent(ctx, organizer, req, attendees, slot)
	if err != nil {
		logger.Error("event creation failed",
			zap.String("organizer", organizer),
			zap.Time("start", slot.Start),
			zap.Error(err))
		return nil, NewBookingError("calendar event creation failed", err)
	}

	logger.Info("meeting booked",
		zap.String("organizer", organizer),
		zap.String("eventId", ref.ID),
		zap.Time("start", slot.Start))
	return ref, nil
}

// normalizeAttendees converts the raw extraction strings into structured
// attendees: bare addresses stay as-is, display names go through the
// directory, and unresolvable names ride along as external attendees. All
// attendees end up on the booking regardless of availability data.
func (x *BookingExecutor) normalizeAttendees(ctx context.Context, raw []string) ([]models.Attendee, error) {
	var attendees []models.Attendee
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		email, err := x.Calendar.ResolveUserByName(ctx, r)
		if err != nil {
			return nil, err
		}
		switch {
		case email != "":
			attendees = append(attendees, models.Attendee{Email: email, DisplayName: r, Internal: true})
		case strings.Contains(r, "@"):
			attendees = append(attendees, models.Attendee{Email: r})
		default:
			attendees = append(attendees, models.Attendee{DisplayName: r})
		}
	}
	return attendees, nil
}
