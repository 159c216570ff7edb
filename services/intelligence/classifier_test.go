package ai

import (
	"context"
	"errors"
	"testing"

	"meetwise/models"

	"github.com/stretchr/testify/assert"
)

// scriptedLLM returns canned responses in order, recording every prompt.
type scriptedLLM struct {
	responses []string
	err       error
	prompts   []string
	calls     int
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func TestClassifyParsesWellFormedOutput(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"intent": "schedule_new", "confidence": 0.92}`,
	}}
	c := NewDefaultIntentClassifier(llm)

	cls := c.Classify(context.Background(), "set up a meeting with alice", nil)
	assert.Equal(t, models.IntentScheduleNew, cls.Intent)
	assert.InDelta(t, 0.92, cls.Confidence, 1e-9)
	assert.Empty(t, cls.Hints.SlotOrdinal)
}

func TestClassifyUnwrapsCodeFences(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"```json\n{\"intent\": \"select_slot\", \"confidence\": 0.8, \"slotOrdinal\": \"2\"}\n```",
	}}
	c := NewDefaultIntentClassifier(llm)

	cls := c.Classify(context.Background(), "the second one", nil)
	assert.Equal(t, models.IntentSelectSlot, cls.Intent)
	assert.Equal(t, "2", cls.Hints.SlotOrdinal)
}

func TestClassifyFallsBackOnGarbage(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"I think the user wants to schedule something."}}
	c := NewDefaultIntentClassifier(llm)

	cls := c.Classify(context.Background(), "hmm", nil)
	assert.Equal(t, models.IntentAskQuestion, cls.Intent)
	assert.InDelta(t, 0.5, cls.Confidence, 1e-9)
	assert.NotEmpty(t, cls.Context)
}

func TestClassifyFallsBackOnUnknownIntent(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"intent": "order_pizza", "confidence": 0.99}`}}
	c := NewDefaultIntentClassifier(llm)

	cls := c.Classify(context.Background(), "hello", nil)
	assert.Equal(t, models.IntentAskQuestion, cls.Intent)
	assert.InDelta(t, 0.5, cls.Confidence, 1e-9)
}

func TestClassifyFallsBackOnProviderError(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("boom")}
	c := NewDefaultIntentClassifier(llm)

	cls := c.Classify(context.Background(), "hello", []string{"User: hi"})
	assert.Equal(t, models.IntentAskQuestion, cls.Intent)
	assert.InDelta(t, 0.5, cls.Confidence, 1e-9)
}

func TestClassifyClampsOutOfRangeConfidence(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"intent": "confirm", "confidence": 3.5}`}}
	c := NewDefaultIntentClassifier(llm)

	cls := c.Classify(context.Background(), "yes", nil)
	assert.Equal(t, models.IntentConfirm, cls.Intent)
	assert.InDelta(t, 0.5, cls.Confidence, 1e-9)
}
