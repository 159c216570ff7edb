package models

import "time"

// MeetingRequest captures what we know so far about a meeting being
// scheduled. Fields are pointers so "not yet known" is distinguishable
// from a zero value; attendees may be raw emails or display names until
// the calendar directory resolves them.
type MeetingRequest struct {
	Attendees       []string   `json:"attendees,omitempty"`
	Subject         string     `json:"subject,omitempty"`
	StartTime       *time.Time `json:"startTime,omitempty"` // absolute UTC
	EndTime         *time.Time `json:"endTime,omitempty"`   // absolute UTC
	DurationMinutes int        `json:"durationMinutes,omitempty"`
}

// Merge folds newer extraction results into the request. A field that is
// already known is never erased by an absent field from a later turn; a
// newly supplied non-empty field overwrites the old value.
func (r *MeetingRequest) Merge(update MeetingRequest) {
	if len(update.Attendees) > 0 {
		r.Attendees = update.Attendees
	}
	if update.Subject != "" {
		r.Subject = update.Subject
	}
	if update.StartTime != nil {
		r.StartTime = update.StartTime
	}
	if update.EndTime != nil {
		r.EndTime = update.EndTime
	}
	if update.DurationMinutes > 0 {
		r.DurationMinutes = update.DurationMinutes
	}
}

// IsComplete reports whether the request carries enough to check the
// calendar: attendees plus a start and either an end or a duration.
func (r *MeetingRequest) IsComplete() bool {
	return len(r.Attendees) > 0 && r.StartTime != nil &&
		(r.EndTime != nil || r.DurationMinutes > 0)
}

// MissingFields lists the unfilled required fields, most important first.
func (r *MeetingRequest) MissingFields() []string {
	var missing []string
	if len(r.Attendees) == 0 {
		missing = append(missing, "attendees")
	}
	if r.StartTime == nil {
		missing = append(missing, "startTime")
	}
	if r.EndTime == nil && r.DurationMinutes <= 0 {
		missing = append(missing, "duration")
	}
	return missing
}

// ResolvedEnd returns the effective end of the requested window, deriving
// it from duration when no explicit end was given.
func (r *MeetingRequest) ResolvedEnd() *time.Time {
	if r.EndTime != nil {
		return r.EndTime
	}
	if r.StartTime != nil && r.DurationMinutes > 0 {
		end := r.StartTime.Add(time.Duration(r.DurationMinutes) * time.Minute)
		return &end
	}
	return nil
}

// Clone returns a deep copy so session snapshots never alias live state.
func (r *MeetingRequest) Clone() *MeetingRequest {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Attendees = append([]string(nil), r.Attendees...)
	if r.StartTime != nil {
		t := *r.StartTime
		cp.StartTime = &t
	}
	if r.EndTime != nil {
		t := *r.EndTime
		cp.EndTime = &t
	}
	return &cp
}
