package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() *TimeWindowPolicy {
	// 09:00-18:00, UTC offset zero.
	return NewTimeWindowPolicy(9*60, 18*60, 0)
}

func windowCode(t *testing.T, err error) string {
	t.Helper()
	var we *WindowError
	require.True(t, errors.As(err, &we), "expected a WindowError, got %v", err)
	return we.Code
}

func TestBookableWindowAcceptsValidSlot(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	assert.NoError(t, p.IsWithinBookableWindow(start, start.Add(time.Hour), now))
}

func TestBookableWindowRejectsStartBeforeNow(t *testing.T) {
	p := testPolicy()
	// The window opened at 09:00 but it is already 11:00; 10:00 is in the past.
	now := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	err := p.IsWithinBookableWindow(start, start.Add(time.Hour), now)
	assert.Equal(t, WindowCodeStartTooEarly, windowCode(t, err))
}

func TestBookableWindowRejectsStartBeforeOpeningOnFutureDay(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 3, 7, 0, 0, 0, time.UTC)

	err := p.IsWithinBookableWindow(start, start.Add(time.Hour), now)
	assert.Equal(t, WindowCodeStartTooEarly, windowCode(t, err))
}

func TestBookableWindowRejectsEndBeforeStart(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	err := p.IsWithinBookableWindow(start, start.Add(-time.Hour), now)
	assert.Equal(t, WindowCodeEndBeforeStart, windowCode(t, err))

	err = p.IsWithinBookableWindow(start, start, now)
	assert.Equal(t, WindowCodeEndBeforeStart, windowCode(t, err))
}

func TestBookableWindowRejectsEndAfterClose(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 17, 30, 0, 0, time.UTC)

	err := p.IsWithinBookableWindow(start, start.Add(time.Hour), now)
	assert.Equal(t, WindowCodeOutsideHours, windowCode(t, err))
}

func TestBookableWindowHonorsFixedOffset(t *testing.T) {
	// UTC+2: business hours 09:00-18:00 local are 07:00-16:00 UTC.
	p := NewTimeWindowPolicy(9*60, 18*60, 120)
	now := time.Date(2026, 9, 1, 5, 0, 0, 0, time.UTC)

	start := time.Date(2026, 9, 1, 7, 30, 0, 0, time.UTC)
	assert.NoError(t, p.IsWithinBookableWindow(start, start.Add(time.Hour), now))

	late := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	err := p.IsWithinBookableWindow(late, late.Add(time.Hour), now)
	assert.Equal(t, WindowCodeOutsideHours, windowCode(t, err))
}

func TestEffectiveEarliestStart(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)

	// Today after opening: now itself.
	assert.True(t, p.EffectiveEarliestStart(now, now).Equal(now))

	// Today before opening: the window open.
	early := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
	open := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	assert.True(t, p.EffectiveEarliestStart(early, early).Equal(open))

	// A future day: its window open.
	future := time.Date(2026, 9, 4, 15, 0, 0, 0, time.UTC)
	assert.True(t, p.EffectiveEarliestStart(future, now).Equal(time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC)))
}

func TestClampSearchWindow(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	day := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)

	start, end := p.ClampSearchWindow(day, now)
	assert.True(t, start.Equal(time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)))
	assert.True(t, end.Equal(time.Date(2026, 9, 3, 18, 0, 0, 0, time.UTC)))
}
