// File: services/scheduling/orchestrator.go
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"meetwise/models"
	ai "meetwise/services/intelligence"
	"meetwise/utils"

	"go.uber.org/zap"
)

const (
	retryResponse      = "I encountered an error while scheduling your meeting. Please try again."
	genericClarifyText = "I'm not sure I followed that. Could you rephrase what you'd like to do?"
)

// turnHandler processes one classified turn against the session. Handlers
// mutate the session in place and return the assistant's response;
// deleteSession signals that the session must be destroyed instead of
// saved.
type turnHandler func(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (response string, deleteSession bool)

// DefaultOrchestrator owns all session mutation. The dispatch table keeps
// the intent-to-action mapping closed and explicit.
type DefaultOrchestrator struct {
	Classifier   ai.IntentClassifier
	Extractor    ai.SlotExtractor
	Availability AvailabilityEngine
	Executor     *BookingExecutor
	Sessions     SessionStore
	LLM          ai.TextCompletionProvider

	// Now is the clock; overridable in tests.
	Now func() time.Time

	dispatch map[models.Intent]turnHandler
}

func NewDefaultOrchestrator(
	classifier ai.IntentClassifier,
	extractor ai.SlotExtractor,
	availability AvailabilityEngine,
	executor *BookingExecutor,
	sessions SessionStore,
	llm ai.TextCompletionProvider,
) *DefaultOrchestrator {
	o := &DefaultOrchestrator{
		Classifier:   classifier,
		Extractor:    extractor,
		Availability: availability,
		Executor:     executor,
		Sessions:     sessions,
		LLM:          llm,
		Now:          time.Now,
	}
	o.dispatch = map[models.Intent]turnHandler{
		models.IntentScheduleNew:    o.handleSchedule,
		models.IntentClarify:        o.handleSchedule,
		models.IntentConfirm:        o.handleConfirm,
		models.IntentSelectSlot:     o.handleSelectSlot,
		models.IntentModifyExisting: o.handleModifyExisting,
		models.IntentAskQuestion:    o.handleAskQuestion,
		models.IntentCancel:         o.handleCancel,
	}
	return o
}

// ProcessMessage runs one turn. Turns for the same session serialize on
// the store's per-session lock; different sessions run in parallel.
func (o *DefaultOrchestrator) ProcessMessage(ctx context.Context, sessionID, userMessage, organizerEmail string) (*models.ChatTurnResult, error) {
	logger := utils.GetLogger()

	lock := o.Sessions.TurnLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		session = &models.ConversationSession{SessionID: sessionID}
	}
	if organizerEmail != "" && session.OrganizerEmail == "" {
		session.OrganizerEmail = organizerEmail
	}

	cls := o.Classifier.Classify(ctx, userMessage, session.Context.ConversationHistory)
	session.LastIntent = cls.Intent
	logger.Debug("classified turn",
		zap.String("sessionId", sessionID),
		zap.String("intent", string(cls.Intent)),
		zap.Float64("confidence", cls.Confidence))

	result := &models.ChatTurnResult{Intent: cls.Intent}

	handler, ok := o.dispatch[cls.Intent]
	if !ok {
		handler = o.handleUnrecognized
	}
	response, deleteSession := handler(ctx, session, userMessage, cls, result)
	result.ResponseText = response

	if deleteSession {
		if err := o.Sessions.Delete(ctx, sessionID); err != nil {
			logger.Error("failed to delete session", zap.String("sessionId", sessionID), zap.Error(err))
		}
		return result, nil
	}

	// Exactly two lines per turn: the user's and the assistant's final
	// response, never intermediate text.
	session.Context.ConversationHistory = append(session.Context.ConversationHistory,
		"User: "+userMessage,
		"Assistant: "+response,
	)

	if err := o.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return result, nil
}

func (o *DefaultOrchestrator) GetSession(ctx context.Context, sessionID string) (*models.ConversationSession, error) {
	session, err := o.Sessions.Get(ctx, sessionID)
	if err != nil || session == nil {
		return session, err
	}
	// Inspection counts as activity where the store expires sessions.
	_ = o.Sessions.Touch(ctx, sessionID)
	return session, nil
}

func (o *DefaultOrchestrator) ClearSession(ctx context.Context, sessionID string) error {
	return o.Sessions.Delete(ctx, sessionID)
}

// handleSchedule covers schedule_new and clarify: extract, merge, and
// when the request is complete run the availability check.
func (o *DefaultOrchestrator) handleSchedule(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (string, bool) {
	logger := utils.GetLogger()
	now := o.Now()

	extraction := o.Extractor.Extract(ctx, userMessage, session.Context.ConversationHistory, now)

	if session.Context.PartialMeetingData == nil {
		session.Context.PartialMeetingData = &models.MeetingRequest{}
	}
	session.Context.PartialMeetingData.Merge(extraction.Request)

	req := session.Context.PartialMeetingData
	result.MeetingData = req.Clone()
	result.IsComplete = req.IsComplete()

	if !req.IsComplete() {
		return o.Extractor.GenerateClarifyingQuestion(req.MissingFields()), false
	}
	result.RequiresScheduling = true

	availability, err := o.Availability.CheckAndPropose(ctx, session.OrganizerEmail, req, now)
	if err != nil {
		var windowErr *WindowError
		if errors.As(err, &windowErr) {
			return fmt.Sprintf("That time won't work: %s. When else would suit you?", windowErr.Message), false
		}
		logger.Error("availability check failed",
			zap.String("sessionId", session.SessionID), zap.Error(err))
		return retryResponse, false
	}

	if !availability.Busy {
		slot := models.TimeSlot{Start: *req.StartTime, End: *req.ResolvedEnd()}
		session.Context.PendingBooking = &models.PendingBooking{Request: req.Clone(), Slot: slot}
		session.Context.ProposedSlots = nil
		return fmt.Sprintf("Everyone is free %s. Shall I book it?", slot.Label()), false
	}

	if len(availability.Alternatives) == 0 {
		return "That time is taken and I couldn't find an open slot in the next week. Could you suggest a different time?", false
	}

	session.Context.ProposedSlots = availability.Alternatives
	session.Context.PendingBooking = nil

	var sb strings.Builder
	sb.WriteString("That time is taken. Here are the best alternatives:\n")
	for _, slot := range availability.Alternatives {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", slot.Rank, slot.Label(), slot.Reason))
	}
	sb.WriteString("Which one works for you?")
	return sb.String(), false
}

// handleConfirm books the pending slot, if any.
func (o *DefaultOrchestrator) handleConfirm(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (string, bool) {
	pending := session.Context.PendingBooking
	if pending == nil {
		return "I don't have a meeting lined up to confirm. What would you like to schedule?", false
	}

	ref, err := o.Executor.Execute(ctx, session.OrganizerEmail, pending.Request, pending.Slot)
	if err != nil {
		// Session state stays intact so the user can just try again.
		return retryResponse, false
	}

	// Booking success keeps the session and its history for continuity.
	session.Context.PendingBooking = nil
	session.Context.PartialMeetingData = nil
	session.Context.ProposedSlots = nil

	return fmt.Sprintf("Done! Your meeting is booked for %s (event %s).", pending.Slot.Label(), ref.ID), false
}

// handleSelectSlot resolves the user's ordinal choice against the
// proposed alternatives.
func (o *DefaultOrchestrator) handleSelectSlot(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (string, bool) {
	proposed := session.Context.ProposedSlots
	if len(proposed) == 0 || session.Context.PartialMeetingData == nil {
		return "I don't have any slots on offer right now. Tell me who to invite and when, and I'll look for times.", false
	}

	ordinal, err := parseSlotOrdinal(cls.Hints.SlotOrdinal)
	if err != nil || ordinal < 1 || ordinal > len(proposed) {
		return fmt.Sprintf("I couldn't tell which slot you meant. Please pick a number between 1 and %d.", len(proposed)), false
	}

	slot := proposed[ordinal-1]
	session.Context.PendingBooking = &models.PendingBooking{
		Request: session.Context.PartialMeetingData.Clone(),
		Slot:    slot,
	}
	result.MeetingData = session.Context.PartialMeetingData.Clone()
	result.IsComplete = true

	return fmt.Sprintf("Great, option %d: %s. Shall I book it?", ordinal, slot.Label()), false
}

func (o *DefaultOrchestrator) handleModifyExisting(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (string, bool) {
	// Modification of already booked meetings is not supported yet.
	return "I can't change existing meetings yet. If you'd like, cancel this conversation and schedule a replacement.", false
}

// handleAskQuestion answers free-form questions grounded in recent
// history.
func (o *DefaultOrchestrator) handleAskQuestion(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (string, bool) {
	logger := utils.GetLogger()

	answer, err := o.LLM.Complete(ctx, ai.AnswerPrompt(session.Context.ConversationHistory, userMessage))
	if err != nil {
		logger.Warn("question answering failed", zap.Error(err))
		return "I can help you schedule meetings: tell me who to invite and when.", false
	}
	return strings.TrimSpace(answer), false
}

// handleCancel destroys the session entirely; the next message with this
// session ID starts fresh.
func (o *DefaultOrchestrator) handleCancel(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (string, bool) {
	return "No problem, I've cancelled that. Just say the word when you want to schedule something.", true
}

func (o *DefaultOrchestrator) handleUnrecognized(ctx context.Context, session *models.ConversationSession, userMessage string, cls models.IntentClassification, result *models.ChatTurnResult) (string, bool) {
	return genericClarifyText, false
}

// parseSlotOrdinal accepts digits only; anything else is a parse failure
// handled as a clarification, never a silent default.
func parseSlotOrdinal(hint string) (int, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return 0, fmt.Errorf("no slot ordinal hint")
	}
	for _, r := range hint {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("slot ordinal %q is not numeric", hint)
		}
	}
	return strconv.Atoi(hint)
}
