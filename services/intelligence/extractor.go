// File: services/intelligence/extractor.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"meetwise/models"
	"meetwise/utils"

	"go.uber.org/zap"
)

// DefaultSlotExtractor extracts meeting fields from an utterance. The
// model is told the current clock in the source timezone and instructed
// to emit absolute UTC timestamps; timestamps that come back without a
// zone are interpreted in the source offset and converted, so everything
// downstream compares UTC against UTC.
type DefaultSlotExtractor struct {
	LLM              TextCompletionProvider
	UTCOffsetMinutes int
}

type rawExtraction struct {
	Attendees       []string `json:"attendees"`
	Subject         string   `json:"subject"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationMinutes int      `json:"durationMinutes"`
}

func NewDefaultSlotExtractor(llm TextCompletionProvider, utcOffsetMinutes int) *DefaultSlotExtractor {
	return &DefaultSlotExtractor{LLM: llm, UTCOffsetMinutes: utcOffsetMinutes}
}

func (e *DefaultSlotExtractor) location() *time.Location {
	return time.FixedZone("local", e.UTCOffsetMinutes*60)
}

// Extract never fails: on malformed model output it returns an empty
// request with every required field reported missing, so the orchestrator
// falls through to a clarifying question.
func (e *DefaultSlotExtractor) Extract(ctx context.Context, utterance string, history []string, now time.Time) ExtractionResult {
	logger := utils.GetLogger()

	localNow := now.In(e.location())
	prompt := fmt.Sprintf(extractionPromptTemplate,
		localNow.Format("Monday, January 2 2006 at 15:04"),
		localNow.Format("UTC-07:00"),
		formatHistory(history),
		utterance,
	)

	text, err := e.LLM.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("slot extraction call failed", zap.Error(err))
		return emptyExtraction()
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &raw); err != nil {
		logger.Warn("slot extraction output not parseable",
			zap.String("output", truncate(text, 200)), zap.Error(err))
		return emptyExtraction()
	}

	req := models.MeetingRequest{
		Subject:         strings.TrimSpace(raw.Subject),
		DurationMinutes: raw.DurationMinutes,
	}
	for _, a := range raw.Attendees {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			req.Attendees = append(req.Attendees, trimmed)
		}
	}
	req.StartTime = e.parseTimestamp(raw.StartTime)
	req.EndTime = e.parseTimestamp(raw.EndTime)

	// Completeness is recomputed here from the parsed fields; the model's
	// own opinion of completeness is never consulted.
	return ExtractionResult{
		Request:       req,
		IsComplete:    req.IsComplete(),
		MissingFields: req.MissingFields(),
	}
}

// parseTimestamp accepts RFC3339 first, then zone-less layouts which are
// read in the source offset and converted to UTC.
func (e *DefaultSlotExtractor) parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		utc := t.UTC()
		return &utc
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, e.location()); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

func emptyExtraction() ExtractionResult {
	req := models.MeetingRequest{}
	return ExtractionResult{
		Request:       req,
		IsComplete:    false,
		MissingFields: req.MissingFields(),
	}
}

// GenerateClarifyingQuestion asks for the most structurally important
// missing fact first: attendees, then time, then duration.
func (e *DefaultSlotExtractor) GenerateClarifyingQuestion(missingFields []string) string {
	missing := make(map[string]bool, len(missingFields))
	for _, f := range missingFields {
		missing[f] = true
	}
	switch {
	case missing["attendees"]:
		return "Who should I invite to this meeting?"
	case missing["startTime"]:
		return "When would you like the meeting to take place?"
	case missing["duration"]:
		return "How long should the meeting be?"
	default:
		return "Could you tell me a bit more about the meeting you'd like to schedule?"
	}
}
