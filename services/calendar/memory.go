package calendar

import (
	"context"
	"strings"
	"sync"
	"time"

	"meetwise/models"

	"github.com/google/uuid"
)

// MemoryProvider is an in-process Provider used for local development and
// tests. Directory maps lowercased display names and emails to canonical
// addresses; busy intervals are seeded per user.
type MemoryProvider struct {
	mu        sync.RWMutex
	directory map[string]string
	busy      map[string][]models.BusyInterval
	events    []BookedEvent
}

// BookedEvent records a CreateEvent call for inspection.
type BookedEvent struct {
	Ref       models.EventRef
	Organizer string
	Attendees []models.Attendee
	Slot      models.TimeSlot
	Subject   string
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		directory: make(map[string]string),
		busy:      make(map[string][]models.BusyInterval),
	}
}

// AddUser registers a directory entry under both the display name and the
// email address.
func (p *MemoryProvider) AddUser(displayName, email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directory[strings.ToLower(displayName)] = email
	p.directory[strings.ToLower(email)] = email
}

// AddBusy seeds a busy interval for a user.
func (p *MemoryProvider) AddBusy(email string, interval models.BusyInterval) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy[email] = append(p.busy[email], interval)
}

// Events returns all bookings made so far.
func (p *MemoryProvider) Events() []BookedEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]BookedEvent(nil), p.events...)
}

func (p *MemoryProvider) FindBusyIntervals(ctx context.Context, userIDs []string, start, end time.Time) (map[string][]models.BusyInterval, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make(map[string][]models.BusyInterval, len(userIDs))
	window := models.TimeSlot{Start: start, End: end}
	for _, id := range userIDs {
		var intervals []models.BusyInterval
		for _, b := range p.busy[id] {
			if (models.TimeSlot{Start: b.Start, End: b.End}).Overlaps(window) {
				intervals = append(intervals, b)
			}
		}
		result[id] = intervals
	}
	return result, nil
}

// FindCandidateSlots walks the window on half-hour boundaries and returns
// slots where every listed attendee is free.
func (p *MemoryProvider) FindCandidateSlots(ctx context.Context, organizer string, attendees []string, windowStart, windowEnd time.Time, durationMinutes, maxCandidates int) ([]models.TimeSlot, error) {
	if durationMinutes <= 0 {
		durationMinutes = 30
	}
	duration := time.Duration(durationMinutes) * time.Minute
	step := 30 * time.Minute
	start := windowStart.Truncate(step)
	if start.Before(windowStart) {
		start = start.Add(step)
	}

	var candidates []models.TimeSlot
	for t := start; t.Add(duration).Before(windowEnd) || t.Add(duration).Equal(windowEnd); t = t.Add(step) {
		slot := models.TimeSlot{Start: t, End: t.Add(duration)}
		if p.allFree(attendees, slot) {
			candidates = append(candidates, slot)
			if maxCandidates > 0 && len(candidates) >= maxCandidates {
				break
			}
		}
	}
	return candidates, nil
}

func (p *MemoryProvider) allFree(attendees []string, slot models.TimeSlot) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, a := range attendees {
		for _, b := range p.busy[a] {
			if slot.Overlaps(models.TimeSlot{Start: b.Start, End: b.End}) {
				return false
			}
		}
	}
	return true
}

func (p *MemoryProvider) CreateEvent(ctx context.Context, organizer string, req *models.MeetingRequest, attendees []models.Attendee, slot models.TimeSlot) (*models.EventRef, error) {
	ref := models.EventRef{ID: uuid.New().String()}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, BookedEvent{
		Ref:       ref,
		Organizer: organizer,
		Attendees: attendees,
		Slot:      slot,
		Subject:   req.Subject,
	})
	for _, a := range attendees {
		if a.Email == "" {
			continue
		}
		p.busy[a.Email] = append(p.busy[a.Email], models.BusyInterval{Start: slot.Start, End: slot.End})
	}
	return &ref, nil
}

func (p *MemoryProvider) ResolveUserByName(ctx context.Context, nameOrEmail string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.directory[strings.ToLower(strings.TrimSpace(nameOrEmail))], nil
}
