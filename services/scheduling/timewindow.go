// File: services/scheduling/timewindow.go
package scheduling

import (
	"fmt"
	"time"
)

// TimeWindowPolicy encodes business-hours and "now" constraints. All
// fixed-offset arithmetic in the system lives here so a real timezone
// database can replace the single-offset model without touching the
// orchestrator.
type TimeWindowPolicy struct {
	BusinessStartMinutes int // minutes from local midnight, e.g. 9*60
	BusinessEndMinutes   int // e.g. 18*60
	UTCOffsetMinutes     int
}

func NewTimeWindowPolicy(businessStart, businessEnd, utcOffset int) *TimeWindowPolicy {
	return &TimeWindowPolicy{
		BusinessStartMinutes: businessStart,
		BusinessEndMinutes:   businessEnd,
		UTCOffsetMinutes:     utcOffset,
	}
}

// Location returns the fixed-offset location all local-time arithmetic
// uses.
func (p *TimeWindowPolicy) Location() *time.Location {
	return time.FixedZone("local", p.UTCOffsetMinutes*60)
}

// dayAnchor returns local midnight of t's calendar day.
func (p *TimeWindowPolicy) dayAnchor(t time.Time) time.Time {
	local := t.In(p.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location())
}

// windowOpen and windowClose are the business-hours bounds of t's day.
func (p *TimeWindowPolicy) windowOpen(t time.Time) time.Time {
	return p.dayAnchor(t).Add(time.Duration(p.BusinessStartMinutes) * time.Minute)
}

func (p *TimeWindowPolicy) windowClose(t time.Time) time.Time {
	return p.dayAnchor(t).Add(time.Duration(p.BusinessEndMinutes) * time.Minute)
}

// EffectiveEarliestStart is the earliest start allowed on day: the window
// open for a future day, now itself when the day is today and the window
// has already opened.
func (p *TimeWindowPolicy) EffectiveEarliestStart(day, now time.Time) time.Time {
	open := p.windowOpen(day)
	if p.SameDay(day, now) && now.After(open) {
		return now
	}
	return open
}

// IsWithinBookableWindow checks a candidate window against policy. A nil
// return means bookable; otherwise the error names the violated clause.
// An early start is a rejection, never a silent clamp.
func (p *TimeWindowPolicy) IsWithinBookableWindow(candidateStart, candidateEnd, now time.Time) error {
	if !candidateEnd.After(candidateStart) {
		return NewWindowError(WindowCodeEndBeforeStart,
			"the meeting end must be after its start")
	}

	earliest := p.EffectiveEarliestStart(candidateStart, now)
	if candidateStart.Before(earliest) {
		return NewWindowError(WindowCodeStartTooEarly,
			fmt.Sprintf("the requested start is earlier than the first bookable moment (%s)",
				earliest.In(p.Location()).Format("Mon Jan 2 15:04")))
	}

	if candidateEnd.After(p.windowClose(candidateStart)) {
		return NewWindowError(WindowCodeOutsideHours,
			fmt.Sprintf("meetings must finish by %s local time",
				p.windowClose(candidateStart).In(p.Location()).Format("15:04")))
	}

	return nil
}

// ClampSearchWindow returns the searchable portion of day: from the
// effective earliest start to the business-hours close.
func (p *TimeWindowPolicy) ClampSearchWindow(day, now time.Time) (time.Time, time.Time) {
	return p.EffectiveEarliestStart(day, now), p.windowClose(day)
}

// SameDay reports whether a and b fall on the same calendar day in the
// policy's offset.
func (p *TimeWindowPolicy) SameDay(a, b time.Time) bool {
	return p.dayAnchor(a).Equal(p.dayAnchor(b))
}
