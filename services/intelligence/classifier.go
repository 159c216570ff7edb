// File: services/intelligence/classifier.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"meetwise/models"
	"meetwise/utils"

	"go.uber.org/zap"
)

// DefaultIntentClassifier classifies turns through a completion provider
// with a strict JSON output contract.
type DefaultIntentClassifier struct {
	LLM TextCompletionProvider
}

// rawClassification mirrors the JSON schema the model is instructed to emit.
type rawClassification struct {
	Intent      string  `json:"intent"`
	Confidence  float64 `json:"confidence"`
	SlotOrdinal string  `json:"slotOrdinal"`
}

func NewDefaultIntentClassifier(llm TextCompletionProvider) *DefaultIntentClassifier {
	return &DefaultIntentClassifier{LLM: llm}
}

// Classify always returns a usable classification. Malformed or
// out-of-contract model output degrades to ask_question at confidence 0.5
// with the reason recorded on Context.
func (c *DefaultIntentClassifier) Classify(ctx context.Context, utterance string, history []string) models.IntentClassification {
	logger := utils.GetLogger()

	prompt := fmt.Sprintf(intentPromptTemplate, formatHistory(history), utterance)
	text, err := c.LLM.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("intent classification call failed, using fallback", zap.Error(err))
		return fallbackClassification("completion call failed")
	}

	var raw rawClassification
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &raw); err != nil {
		logger.Warn("intent classification output not parseable, using fallback",
			zap.String("output", truncate(text, 200)), zap.Error(err))
		return fallbackClassification("unparseable model output")
	}

	intent := models.Intent(raw.Intent)
	if !models.KnownIntents[intent] {
		logger.Warn("intent classification outside closed set, using fallback",
			zap.String("intent", raw.Intent))
		return fallbackClassification("unrecognized intent " + raw.Intent)
	}

	confidence := raw.Confidence
	if confidence < 0 || confidence > 1 {
		confidence = 0.5
	}

	return models.IntentClassification{
		Intent:     intent,
		Confidence: confidence,
		Hints:      models.IntentHints{SlotOrdinal: strings.TrimSpace(raw.SlotOrdinal)},
	}
}

func fallbackClassification(reason string) models.IntentClassification {
	return models.IntentClassification{
		Intent:     models.IntentAskQuestion,
		Confidence: 0.5,
		Context:    reason,
	}
}

// stripCodeFences unwraps ```json ... ``` blocks some models insist on.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func formatHistory(history []string) string {
	if len(history) == 0 {
		return "(no prior turns)"
	}
	const maxLines = 20
	if len(history) > maxLines {
		history = history[len(history)-maxLines:]
	}
	return strings.Join(history, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
