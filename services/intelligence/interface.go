package ai

import (
	"context"
	"fmt"
	"time"

	"meetwise/config"
	"meetwise/models"
)

// TextCompletionProvider abstracts the underlying language model. Which
// vendor backs it is a configuration concern, not a design one.
type TextCompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// IntentClassifier maps an utterance plus conversation history onto the
// closed intent set. It always returns a value; malformed model output
// degrades to an ask_question fallback rather than an error.
type IntentClassifier interface {
	Classify(ctx context.Context, utterance string, history []string) models.IntentClassification
}

// ExtractionResult is the extractor's parsed view of one utterance.
// IsComplete and MissingFields are recomputed from the structured fields,
// never taken from the model's self-report.
type ExtractionResult struct {
	Request       models.MeetingRequest
	IsComplete    bool
	MissingFields []string
}

// SlotExtractor pulls meeting fields out of an utterance. Relative
// expressions are resolved against now in the configured source timezone
// into absolute UTC timestamps.
type SlotExtractor interface {
	Extract(ctx context.Context, utterance string, history []string, now time.Time) ExtractionResult
	GenerateClarifyingQuestion(missingFields []string) string
}

// NewCompletionProvider builds the completion provider selected by
// configuration.
func NewCompletionProvider(cfg config.Config) (TextCompletionProvider, error) {
	switch cfg.AIProvider {
	case "gemini", "":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}
