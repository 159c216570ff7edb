package ai

import "fmt"

// Prompt templates for classification and extraction. Both demand bare
// JSON with a fixed schema; anything else is rejected by the caller in
// favor of a safe fallback.

const intentPromptTemplate = `You are the intent classifier for a meeting scheduling assistant.

Conversation so far:
%s

Latest user message: %q

Classify the latest message as exactly one of these intents:
- schedule_new: the user wants to set up a new meeting
- clarify: the user is supplying details for a meeting already being discussed
- confirm: the user is agreeing to book the slot just offered (e.g. "yes", "book it")
- select_slot: the user is choosing one of the offered alternatives (e.g. "the first one", "slot 2")
- modify_existing: the user wants to change an already booked meeting
- ask_question: the user is asking a question rather than scheduling
- cancel: the user wants to abandon the current scheduling conversation

Respond with ONLY a JSON object, no prose and no code fences:
{"intent": "<one of the intents above>", "confidence": <number between 0 and 1>, "slotOrdinal": "<digits only, e.g. "2", when the user names a choice; omit otherwise>"}`

const extractionPromptTemplate = `You are the information extractor for a meeting scheduling assistant.

The current date and time is %s (%s). Resolve relative expressions such as
"today" or "tomorrow at 2pm" against that clock, then convert the result
to UTC.

Conversation so far:
%s

Latest user message: %q

Extract any meeting details mentioned in the latest message. Respond with
ONLY a JSON object, no prose and no code fences:
{"attendees": ["email or name", ...], "subject": "<topic if stated>", "startTime": "<RFC3339 UTC, e.g. 2026-09-02T14:00:00Z>", "endTime": "<RFC3339 UTC>", "durationMinutes": <integer>}

Omit any field the message does not mention. Never invent attendees or
times that were not stated.`

const answerPromptTemplate = `You are a friendly meeting scheduling assistant.

Recent conversation:
%s

The user asked: %q

Answer briefly and helpfully. If the question is about scheduling, remind
the user you can check availability and book meetings for them.`

// AnswerPrompt builds the free-form answering prompt for ask_question
// turns, grounded in the recent history.
func AnswerPrompt(history []string, question string) string {
	return fmt.Sprintf(answerPromptTemplate, formatHistory(history), question)
}
