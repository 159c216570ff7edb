package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParsesUTCTimestamps(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"attendees": ["alice@example.com"], "subject": "sync", "startTime": "2026-09-02T14:00:00Z", "durationMinutes": 30}`,
	}}
	e := NewDefaultSlotExtractor(llm, 0)

	res := e.Extract(context.Background(), "meet alice tomorrow at 2pm for 30 minutes", nil, time.Now())
	require.NotNil(t, res.Request.StartTime)
	assert.True(t, res.Request.StartTime.Equal(time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"alice@example.com"}, res.Request.Attendees)
	assert.Equal(t, 30, res.Request.DurationMinutes)
	assert.True(t, res.IsComplete)
	assert.Empty(t, res.MissingFields)
}

func TestExtractConvertsZonelessTimesFromSourceOffset(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"attendees": ["alice@example.com"], "startTime": "2026-09-02T14:00", "durationMinutes": 30}`,
	}}
	// Source timezone UTC+2: local 14:00 is 12:00 UTC.
	e := NewDefaultSlotExtractor(llm, 120)

	res := e.Extract(context.Background(), "tomorrow at 2pm", nil, time.Now())
	require.NotNil(t, res.Request.StartTime)
	assert.True(t, res.Request.StartTime.Equal(time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)))
}

func TestExtractRecomputesCompletenessLocally(t *testing.T) {
	// Model output lacks attendees regardless of what it might claim.
	llm := &scriptedLLM{responses: []string{
		`{"startTime": "2026-09-02T14:00:00Z", "durationMinutes": 30}`,
	}}
	e := NewDefaultSlotExtractor(llm, 0)

	res := e.Extract(context.Background(), "tomorrow at 2pm for half an hour", nil, time.Now())
	assert.False(t, res.IsComplete)
	assert.Equal(t, []string{"attendees"}, res.MissingFields)
}

func TestExtractDegradesOnMalformedOutput(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"sure, I'll schedule that for you!"}}
	e := NewDefaultSlotExtractor(llm, 0)

	res := e.Extract(context.Background(), "whatever", nil, time.Now())
	assert.False(t, res.IsComplete)
	assert.Equal(t, []string{"attendees", "startTime", "duration"}, res.MissingFields)
	assert.Empty(t, res.Request.Attendees)
	assert.Nil(t, res.Request.StartTime)
}

func TestExtractPromptCarriesCurrentClock(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{}`}}
	e := NewDefaultSlotExtractor(llm, 0)

	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	e.Extract(context.Background(), "tomorrow", nil, now)
	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.Contains(llm.prompts[0], "Tuesday, September 1 2026 at 10:30"))
}

func TestGenerateClarifyingQuestionPriority(t *testing.T) {
	e := NewDefaultSlotExtractor(&scriptedLLM{}, 0)

	q := e.GenerateClarifyingQuestion([]string{"duration", "attendees", "startTime"})
	assert.Contains(t, q, "invite")

	q = e.GenerateClarifyingQuestion([]string{"duration", "startTime"})
	assert.Contains(t, q, "When")

	q = e.GenerateClarifyingQuestion([]string{"duration"})
	assert.Contains(t, q, "long")
}
