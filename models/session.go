package models

// PendingBooking pairs a completed meeting request with the slot the user
// is about to confirm.
type PendingBooking struct {
	Request *MeetingRequest `json:"request"`
	Slot    TimeSlot        `json:"slot"`
}

// SessionContext is the mutable conversational state carried between
// turns for one session.
type SessionContext struct {
	ConversationHistory []string        `json:"conversationHistory"`
	PartialMeetingData  *MeetingRequest `json:"partialMeetingData,omitempty"`
	ProposedSlots       []TimeSlot      `json:"proposedSlots,omitempty"`
	PendingBooking      *PendingBooking `json:"pendingBooking,omitempty"`
}

// ConversationSession is the per-conversation state. It is created lazily
// on the first message for a session ID and mutated only by the
// orchestrator.
type ConversationSession struct {
	SessionID      string         `json:"sessionId"`
	OrganizerEmail string         `json:"organizerEmail,omitempty"`
	LastIntent     Intent         `json:"lastIntent,omitempty"`
	Context        SessionContext `json:"context"`
}

// ChatTurnResult is what one processed turn reports back to the caller.
type ChatTurnResult struct {
	ResponseText       string          `json:"response"`
	Intent             Intent          `json:"intent"`
	MeetingData        *MeetingRequest `json:"meetingData,omitempty"`
	IsComplete         bool            `json:"isComplete"`
	RequiresScheduling bool            `json:"requiresScheduling"`
}
