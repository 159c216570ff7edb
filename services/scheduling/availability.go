// File: services/scheduling/availability.go
package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"meetwise/models"
	"meetwise/services/calendar"
	"meetwise/utils"

	"go.uber.org/zap"
)

const (
	// maxAlternatives is how many ranked alternatives a busy outcome offers.
	maxAlternatives = 5
	// searchHorizonDays bounds the forward search for alternatives.
	searchHorizonDays = 7
	// maxProviderCandidates caps how many raw candidates we pull from the
	// calendar backend before re-validation.
	maxProviderCandidates = 40
	// nearbyWindow is the "close to the requested time" ranking bucket.
	nearbyWindow = 3 * time.Hour
)

// AvailabilityResult is the outcome of a reconciliation pass. When Busy is
// false the requested slot itself is usable and Alternatives stays empty.
type AvailabilityResult struct {
	Busy         bool
	Alternatives []models.TimeSlot
	// InternalAttendees are the directory-resolved emails that took part in
	// the conflict check; external attendees are carried to the booking but
	// have no availability data.
	InternalAttendees []string
	ExternalAttendees []string
}

// DefaultAvailabilityEngine reconciles a requested window against
// authoritative calendar data and proposes ranked alternatives.
type DefaultAvailabilityEngine struct {
	Calendar calendar.Provider
	Window   *TimeWindowPolicy
}

func NewDefaultAvailabilityEngine(cal calendar.Provider, window *TimeWindowPolicy) *DefaultAvailabilityEngine {
	return &DefaultAvailabilityEngine{Calendar: cal, Window: window}
}

// CheckAndPropose determines whether the requested window is free for all
// internal attendees and, if not, searches forward for alternatives.
func (e *DefaultAvailabilityEngine) CheckAndPropose(ctx context.Context, organizer string, req *models.MeetingRequest, now time.Time) (*AvailabilityResult, error) {
	logger := utils.GetLogger()

	start := *req.StartTime
	end := *req.ResolvedEnd()

	// An invalid window is rejected outright, never silently clamped; the
	// error names the violated constraint so the user can be told why.
	if err := e.Window.IsWithinBookableWindow(start, end, now); err != nil {
		return nil, err
	}

	internal, external, err := e.splitAttendees(ctx, organizer, req.Attendees)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attendees: %w", err)
	}

	result := &AvailabilityResult{
		InternalAttendees: internal,
		ExternalAttendees: external,
	}

	busyMap, err := e.Calendar.FindBusyIntervals(ctx, internal, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query busy intervals: %w", err)
	}

	requested := models.TimeSlot{Start: start, End: end}
	if !anyConflict(requested, busyMap) {
		// The requested slot stands as the sole proposal; no search runs.
		return result, nil
	}
	result.Busy = true

	alternatives, err := e.searchAlternatives(ctx, organizer, req, requested, internal, now)
	if err != nil {
		return nil, err
	}
	if len(alternatives) == 0 {
		logger.Info("no alternative slots survived re-validation",
			zap.String("organizer", organizer),
			zap.Time("requestedStart", start))
	}
	result.Alternatives = alternatives
	return result, nil
}

// splitAttendees partitions attendees into directory-resolved internal
// emails and opaque external identifiers. The organizer always counts as
// internal.
func (e *DefaultAvailabilityEngine) splitAttendees(ctx context.Context, organizer string, attendees []string) (internal, external []string, err error) {
	internal = append(internal, organizer)
	for _, a := range attendees {
		email, err := e.Calendar.ResolveUserByName(ctx, a)
		if err != nil {
			return nil, nil, err
		}
		if email == "" {
			external = append(external, a)
			continue
		}
		if email != organizer {
			internal = append(internal, email)
		}
	}
	return internal, external, nil
}

// anyConflict applies the half-open overlap rule against every interval;
// tentative counts as busy.
func anyConflict(requested models.TimeSlot, busyMap map[string][]models.BusyInterval) bool {
	for _, intervals := range busyMap {
		for _, b := range intervals {
			if requested.Overlaps(models.TimeSlot{Start: b.Start, End: b.End}) {
				return true
			}
		}
	}
	return false
}

// searchAlternatives pulls candidates from the calendar backend over the
// forward window and re-validates each one against manually fetched busy
// intervals. The backend's own ranking has been observed to mis-rank
// candidates under wide search domains, so it is never trusted as
// authoritative.
func (e *DefaultAvailabilityEngine) searchAlternatives(ctx context.Context, organizer string, req *models.MeetingRequest, requested models.TimeSlot, internal []string, now time.Time) ([]models.TimeSlot, error) {
	logger := utils.GetLogger()

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = int(requested.End.Sub(requested.Start) / time.Minute)
	}

	windowStart, _ := e.Window.ClampSearchWindow(requested.Start, now)
	if now.After(windowStart) {
		windowStart = now
	}
	windowEnd := windowStart.AddDate(0, 0, searchHorizonDays)

	candidates, err := e.Calendar.FindCandidateSlots(ctx, organizer, internal, windowStart, windowEnd, duration, maxProviderCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidate slots: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	busyMap, err := e.Calendar.FindBusyIntervals(ctx, internal, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to re-validate candidates: %w", err)
	}

	var survivors []models.TimeSlot
	for _, c := range candidates {
		if c.Start.Before(now) {
			continue
		}
		if err := e.Window.IsWithinBookableWindow(c.Start, c.End, now); err != nil {
			continue
		}
		if anyConflict(c, busyMap) {
			logger.Debug("dropping candidate that conflicts with busy data",
				zap.Time("start", c.Start))
			continue
		}
		survivors = append(survivors, c)
	}

	rankAlternatives(survivors, requested.Start, e.Window)
	if len(survivors) > maxAlternatives {
		survivors = survivors[:maxAlternatives]
	}
	for i := range survivors {
		survivors[i].Rank = i + 1
		survivors[i].Reason = rankReason(survivors[i], requested.Start, e.Window)
	}
	return survivors, nil
}

// rankAlternatives orders candidates by: within-3-hours bucket, then
// same-calendar-day bucket, then ascending absolute distance from the
// requested start.
func rankAlternatives(slots []models.TimeSlot, requestedStart time.Time, window *TimeWindowPolicy) {
	sort.SliceStable(slots, func(i, j int) bool {
		di := absDistance(slots[i].Start, requestedStart)
		dj := absDistance(slots[j].Start, requestedStart)

		nearI, nearJ := di <= nearbyWindow, dj <= nearbyWindow
		if nearI != nearJ {
			return nearI
		}

		sameI := window.SameDay(slots[i].Start, requestedStart)
		sameJ := window.SameDay(slots[j].Start, requestedStart)
		if sameI != sameJ {
			return sameI
		}

		return di < dj
	})
}

func rankReason(slot models.TimeSlot, requestedStart time.Time, window *TimeWindowPolicy) string {
	switch {
	case absDistance(slot.Start, requestedStart) <= nearbyWindow:
		return "close to your requested time"
	case window.SameDay(slot.Start, requestedStart):
		return "same day as requested"
	default:
		return "earliest available on a later day"
	}
}

func absDistance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
