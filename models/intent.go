package models

// Intent is the closed set of dialogue intents the classifier may emit.
type Intent string

const (
	IntentScheduleNew    Intent = "schedule_new"
	IntentClarify        Intent = "clarify"
	IntentConfirm        Intent = "confirm"
	IntentSelectSlot     Intent = "select_slot"
	IntentModifyExisting Intent = "modify_existing"
	IntentAskQuestion    Intent = "ask_question"
	IntentCancel         Intent = "cancel"
)

// KnownIntents is used to validate model output against the closed set.
var KnownIntents = map[Intent]bool{
	IntentScheduleNew:    true,
	IntentClarify:        true,
	IntentConfirm:        true,
	IntentSelectSlot:     true,
	IntentModifyExisting: true,
	IntentAskQuestion:    true,
	IntentCancel:         true,
}

// IntentHints carries the optional structured hints the classifier may
// extract alongside the intent. SlotOrdinal is the only hint currently
// consumed (the 1-based choice when the user names a proposed slot).
type IntentHints struct {
	SlotOrdinal string `json:"slotOrdinal,omitempty"`
}

// IntentClassification is the per-turn classifier output. It is produced
// fresh every turn and only kept on the session as LastIntent for
// debugging.
type IntentClassification struct {
	Intent     Intent      `json:"intent"`
	Confidence float64     `json:"confidence"`
	Hints      IntentHints `json:"hints,omitzero"`
	Context    string      `json:"context,omitempty"` // explanatory note, e.g. fallback reason
}
