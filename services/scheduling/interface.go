package scheduling

import (
	"context"
	"time"

	"meetwise/models"
)

// AvailabilityEngine reconciles a requested window against the calendar
// and proposes ranked alternatives when it is taken.
type AvailabilityEngine interface {
	CheckAndPropose(ctx context.Context, organizer string, req *models.MeetingRequest, now time.Time) (*AvailabilityResult, error)
}

// Orchestrator drives one conversational turn end to end: classify,
// extract, reconcile, respond, book.
type Orchestrator interface {
	ProcessMessage(ctx context.Context, sessionID, userMessage, organizerEmail string) (*models.ChatTurnResult, error)
	GetSession(ctx context.Context, sessionID string) (*models.ConversationSession, error)
	ClearSession(ctx context.Context, sessionID string) error
}
