package learning

import "time"

// SuggestionType enumerates the kinds of automated suggestions the assistant
// makes.
type SuggestionType string

const (
	GapFill          SuggestionType = "gap_fill"
	BufferAdd        SuggestionType = "buffer_add"
	TimeEstimate     SuggestionType = "time_estimate"
	PriorityOrder    SuggestionType = "priority_order"
	NotificationHold SuggestionType = "notification_hold"
	MorningRoutine   SuggestionType = "morning_routine"
	GoalNudge        SuggestionType = "goal_nudge"
	ConflictResolve  SuggestionType = "conflict_resolve"
	RecoverySuggest  SuggestionType = "recovery_suggest"
)

// Response is how the user reacted to a suggestion.
type Response string

const (
	Accepted Response = "accepted"
	Rejected Response = "rejected"
	Modified Response = "modified"
	Ignored  Response = "ignored"
)

// IsOverride reports whether the response counts as the user overriding the
// suggestion. Ignoring a suggestion is not evidence against it.
func (r Response) IsOverride() bool {
	return r == Rejected || r == Modified
}

// Interaction is one logged (suggestion, response, context) triple.
// Immutable after logging.
type Interaction struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	SuggestionType SuggestionType `json:"suggestion_type"`
	Suggestion     string         `json:"suggestion"`
	Response       Response       `json:"response"`
	TargetID       string         `json:"target_id,omitempty"`
	Correction     string         `json:"correction,omitempty"`
	Context        Context        `json:"context"`
	HypothesisID   string         `json:"hypothesis_id,omitempty"`
}

// LogOptions carries the optional fields of LogInteraction.
type LogOptions struct {
	TargetID     string // entity the suggestion referred to
	Correction   string // free-text user correction
	HypothesisID string // set when the suggestion was itself a hypothesis test
}

// HypothesisStatus is the testing state machine's state. The three non-testing
// states are terminal.
type HypothesisStatus string

const (
	StatusTesting   HypothesisStatus = "testing"
	StatusConfirmed HypothesisStatus = "confirmed"
	StatusRejected  HypothesisStatus = "rejected"
	StatusStale     HypothesisStatus = "stale"
)

// Hypothesis is a candidate behavioral rule under test. Never deleted;
// terminal hypotheses are kept for audit but excluded from active queries.
// SourceInteractionIDs may dangle once the interaction log is pruned; they
// are audit references only and are never dereferenced.
type Hypothesis struct {
	ID                   string           `json:"id"`
	CreatedAt            time.Time        `json:"created_at"`
	SourceInteractionIDs []string         `json:"source_interaction_ids"`
	Observation          string           `json:"observation"`
	Hypothesis           string           `json:"hypothesis"`
	TestApproach         string           `json:"test_approach"`
	Trigger              TriggerCondition `json:"trigger"`
	TestsRun             int              `json:"tests_run"`
	Confirmations        int              `json:"confirmations"`
	Rejections           int              `json:"rejections"`
	ConfidenceRequired   int              `json:"confidence_required"`
	Status               HypothesisStatus `json:"status"`
	ResolvedAt           *time.Time       `json:"resolved_at,omitempty"`
	PatternID            string           `json:"pattern_id,omitempty"`
}

// TriggerType tags how a pattern's trigger is evaluated by the surrounding
// scheduler.
type TriggerType string

const (
	TriggerEventEnd    TriggerType = "event_end"
	TriggerGapDetected TriggerType = "gap_detected"
	TriggerTimeOfDay   TriggerType = "time_of_day"
)

// ActionType tags what a matched pattern asks the caller to do.
type ActionType string

const (
	SkipSuggestion     ActionType = "skip_suggestion"
	SuggestAlternative ActionType = "suggest_alternative"
	AdjustEstimate     ActionType = "adjust_estimate"
	AutoBlock          ActionType = "auto_block"
	AutoFix            ActionType = "auto_fix"
)

// Action is the modification a pattern applies to upcoming suggestions.
type Action struct {
	Type       ActionType `json:"type"`
	Suggestion string     `json:"suggestion,omitempty"` // for suggest_alternative
	Multiplier float64    `json:"multiplier,omitempty"` // for adjust_estimate
}

// PatternTrigger is the trigger condition a confirmed pattern carries,
// derived from its source hypothesis.
type PatternTrigger struct {
	Type           TriggerType    `json:"type"`
	SuggestionType SuggestionType `json:"suggestion_type"`
	Conditions     ContextMatch   `json:"conditions"`
}

// Pattern is a confirmed, trusted behavioral rule. Confidence grows on
// application and decays on contradiction; a pattern is only removed by an
// explicit RemovePattern call.
type Pattern struct {
	ID                    string         `json:"id"`
	Description           string         `json:"description"`
	Trigger               PatternTrigger `json:"trigger"`
	Action                Action         `json:"action"`
	Confidence            float64        `json:"confidence"`
	ConfirmedAt           time.Time      `json:"confirmed_at"`
	HypothesisID          string         `json:"hypothesis_id"`
	ApplicationCount      int            `json:"application_count"`
	OverridesSinceConfirm int            `json:"overrides_since_confirm"`
	LastApplied           *time.Time     `json:"last_applied,omitempty"`
	DecayWarningIssued    bool           `json:"decay_warning_issued"`
}

// NotificationType classifies queue entries for the delivery channel.
type NotificationType string

const (
	NotifyLearned      NotificationType = "learned"
	NotifyAutoAction   NotificationType = "auto_action"
	NotifyDecayWarning NotificationType = "decay_warning"
)

// Notification is one human-readable mailbox entry. Mutated only to set
// Dismissed.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Dismissed bool             `json:"dismissed"`
}
