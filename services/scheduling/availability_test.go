package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetwise/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCalendar is a scripted calendar.Provider that counts calls so tests
// can assert which queries actually ran.
type fakeCalendar struct {
	directory  map[string]string
	busy       map[string][]models.BusyInterval
	candidates []models.TimeSlot

	busyCalls      int
	candidateCalls int
	createCalls    int
	lastBusyUsers  []string

	createErr error
	events    []models.TimeSlot
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{
		directory: make(map[string]string),
		busy:      make(map[string][]models.BusyInterval),
	}
}

func (f *fakeCalendar) FindBusyIntervals(ctx context.Context, userIDs []string, start, end time.Time) (map[string][]models.BusyInterval, error) {
	f.busyCalls++
	f.lastBusyUsers = userIDs
	window := models.TimeSlot{Start: start, End: end}
	result := make(map[string][]models.BusyInterval)
	for _, id := range userIDs {
		for _, b := range f.busy[id] {
			if (models.TimeSlot{Start: b.Start, End: b.End}).Overlaps(window) {
				result[id] = append(result[id], b)
			}
		}
	}
	return result, nil
}

func (f *fakeCalendar) FindCandidateSlots(ctx context.Context, organizer string, attendees []string, windowStart, windowEnd time.Time, durationMinutes, maxCandidates int) ([]models.TimeSlot, error) {
	f.candidateCalls++
	return f.candidates, nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, organizer string, req *models.MeetingRequest, attendees []models.Attendee, slot models.TimeSlot) (*models.EventRef, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.events = append(f.events, slot)
	return &models.EventRef{ID: "evt-1"}, nil
}

func (f *fakeCalendar) ResolveUserByName(ctx context.Context, nameOrEmail string) (string, error) {
	return f.directory[nameOrEmail], nil
}

func availabilityFixture() (*DefaultAvailabilityEngine, *fakeCalendar, *models.MeetingRequest, time.Time) {
	cal := newFakeCalendar()
	cal.directory["alice@example.com"] = "alice@example.com"
	engine := NewDefaultAvailabilityEngine(cal, testPolicy())

	start := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)
	req := &models.MeetingRequest{
		Attendees:       []string{"alice@example.com"},
		StartTime:       &start,
		DurationMinutes: 30,
	}
	now := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	return engine, cal, req, now
}

func TestFreeSlotSkipsAlternativeSearch(t *testing.T) {
	engine, cal, req, now := availabilityFixture()

	result, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	require.NoError(t, err)

	assert.False(t, result.Busy)
	assert.Empty(t, result.Alternatives)
	assert.Equal(t, 1, cal.busyCalls)
	assert.Equal(t, 0, cal.candidateCalls, "a free requested slot must not trigger the alternatives search")
}

func TestConflictChecksOnlyInternalAttendees(t *testing.T) {
	engine, cal, req, now := availabilityFixture()
	req.Attendees = append(req.Attendees, "External Partner")

	result, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	require.NoError(t, err)

	assert.False(t, result.Busy)
	assert.ElementsMatch(t, []string{"org@example.com", "alice@example.com"}, cal.lastBusyUsers)
	assert.Equal(t, []string{"External Partner"}, result.ExternalAttendees)
}

func TestTentativeCountsAsBusy(t *testing.T) {
	engine, cal, req, now := availabilityFixture()
	cal.busy["alice@example.com"] = []models.BusyInterval{{
		Start:     time.Date(2026, 9, 2, 13, 45, 0, 0, time.UTC),
		End:       time.Date(2026, 9, 2, 14, 15, 0, 0, time.UTC),
		Tentative: true,
	}}

	result, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	require.NoError(t, err)
	assert.True(t, result.Busy)
}

func TestAlternativeRankingBuckets(t *testing.T) {
	engine, cal, req, now := availabilityFixture()
	// alice blocks the requested 14:00-14:30 window.
	cal.busy["alice@example.com"] = []models.BusyInterval{{
		Start: time.Date(2026, 9, 2, 13, 45, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 14, 15, 0, 0, time.UTC),
	}}

	at := func(day, h, m int) models.TimeSlot {
		start := time.Date(2026, 9, day, h, m, 0, 0, time.UTC)
		return models.TimeSlot{Start: start, End: start.Add(30 * time.Minute)}
	}
	// Deliberately mis-ordered, the way a wide provider search can return
	// them: next-day first, then 4h away, then the near ones.
	cal.candidates = []models.TimeSlot{
		at(3, 15, 0),  // next day, 25h away
		at(2, 10, 0),  // same day, 4h away
		at(2, 16, 0),  // same day, 2h away (within-3h bucket)
		at(2, 14, 30), // same day, 30min away (within-3h bucket)
	}

	result, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	require.NoError(t, err)
	require.True(t, result.Busy)
	require.Len(t, result.Alternatives, 4)

	starts := make([]time.Time, len(result.Alternatives))
	for i, s := range result.Alternatives {
		starts[i] = s.Start
		assert.Equal(t, i+1, s.Rank)
		assert.NotEmpty(t, s.Reason)
	}
	assert.True(t, starts[0].Equal(at(2, 14, 30).Start), "30min distance ranks first")
	assert.True(t, starts[1].Equal(at(2, 16, 0).Start), "2h distance ranks second, still in the within-3h bucket")
	assert.True(t, starts[2].Equal(at(2, 10, 0).Start), "4h same-day ranks third")
	assert.True(t, starts[3].Equal(at(3, 15, 0).Start), "next-day ranks last")
}

func TestAlternativesRevalidatedAgainstBusyData(t *testing.T) {
	engine, cal, req, now := availabilityFixture()
	cal.busy["alice@example.com"] = []models.BusyInterval{{
		Start: time.Date(2026, 9, 2, 13, 45, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 14, 15, 0, 0, time.UTC),
	}}

	conflicting := models.TimeSlot{
		Start: time.Date(2026, 9, 2, 13, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
	}
	afterHours := models.TimeSlot{
		Start: time.Date(2026, 9, 2, 17, 45, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 18, 15, 0, 0, time.UTC),
	}
	beforeNow := models.TimeSlot{
		Start: time.Date(2026, 9, 2, 7, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 7, 30, 0, 0, time.UTC),
	}
	good := models.TimeSlot{
		Start: time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC),
	}
	cal.candidates = []models.TimeSlot{conflicting, afterHours, beforeNow, good}

	result, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	require.NoError(t, err)
	require.True(t, result.Busy)
	require.Len(t, result.Alternatives, 1, "only the clean candidate survives re-validation")
	assert.True(t, result.Alternatives[0].Start.Equal(good.Start))
	assert.Equal(t, 2, cal.busyCalls, "one conflict check plus one re-validation fetch")
}

func TestBusyWithZeroSurvivorsReturnsEmptyList(t *testing.T) {
	engine, cal, req, now := availabilityFixture()
	cal.busy["alice@example.com"] = []models.BusyInterval{{
		Start: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
	}}
	cal.candidates = []models.TimeSlot{{
		Start: time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC),
	}}

	result, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	require.NoError(t, err)
	assert.True(t, result.Busy)
	assert.Empty(t, result.Alternatives)
}

func TestTopFiveAlternativesAreKept(t *testing.T) {
	engine, cal, req, now := availabilityFixture()
	cal.busy["alice@example.com"] = []models.BusyInterval{{
		Start: time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 2, 14, 30, 0, 0, time.UTC),
	}}
	for h := 9; h < 18; h++ {
		start := time.Date(2026, 9, 3, h, 0, 0, 0, time.UTC)
		cal.candidates = append(cal.candidates, models.TimeSlot{Start: start, End: start.Add(30 * time.Minute)})
	}

	result, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	require.NoError(t, err)
	require.True(t, result.Busy)
	assert.Len(t, result.Alternatives, 5)
	assert.Equal(t, 1, result.Alternatives[0].Rank)
	assert.Equal(t, 5, result.Alternatives[4].Rank)
}

func TestInvalidWindowRejectedBeforeProviderCalls(t *testing.T) {
	engine, cal, req, now := availabilityFixture()
	lateStart := time.Date(2026, 9, 2, 17, 45, 0, 0, time.UTC)
	req.StartTime = &lateStart

	_, err := engine.CheckAndPropose(context.Background(), "org@example.com", req, now)
	var we *WindowError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, WindowCodeOutsideHours, we.Code)
	assert.Equal(t, 0, cal.busyCalls)
	assert.Equal(t, 0, cal.candidateCalls)
}
