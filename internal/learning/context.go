package learning

// TimeOfDay buckets the clock into the four slots suggestions are scheduled
// against.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// DayType distinguishes weekday from weekend scheduling behavior.
type DayType string

const (
	Weekday DayType = "weekday"
	Weekend DayType = "weekend"
)

// LoadLevel describes how full the user's day currently is.
type LoadLevel string

const (
	LoadLight    LoadLevel = "light"
	LoadModerate LoadLevel = "moderate"
	LoadHeavy    LoadLevel = "heavy"
)

// EnergyLevel is an optional signal about the user's current energy.
type EnergyLevel string

const (
	EnergyHigh         EnergyLevel = "high"
	EnergyMedium       EnergyLevel = "medium"
	EnergyLow          EnergyLevel = "low"
	EnergyPostFocusDip EnergyLevel = "post_focus_dip"
)

// Context is the situational snapshot captured at the moment a suggestion is
// shown. Optional fields use pointers: nil means the signal was unavailable,
// which is legal and simply never matches anything.
type Context struct {
	TimeOfDay            TimeOfDay    `json:"time_of_day"`
	DayOfWeek            int          `json:"day_of_week"` // 0 = Sunday
	DayType              DayType      `json:"day_type"`
	CurrentLoad          LoadLevel    `json:"current_load"`
	PreviousTaskType     string       `json:"previous_task_type,omitempty"`
	MinutesSincePrevious *int         `json:"minutes_since_previous,omitempty"`
	Energy               *EnergyLevel `json:"energy,omitempty"`
	RecentOverrideCount  int          `json:"recent_override_count"`
	ActiveGoalIDs        []string     `json:"active_goal_ids,omitempty"`
}

// ContextMatch is a partial context: a nil field is a wildcard, a non-nil
// field must equal the corresponding context dimension exactly. An energy
// matcher is only satisfied when the context actually carries an energy
// signal.
type ContextMatch struct {
	TimeOfDay   *TimeOfDay   `json:"time_of_day,omitempty"`
	DayType     *DayType     `json:"day_type,omitempty"`
	CurrentLoad *LoadLevel   `json:"current_load,omitempty"`
	Energy      *EnergyLevel `json:"energy,omitempty"`
}

// Matches reports whether ctx satisfies every present matcher dimension.
// An empty ContextMatch matches everything.
func (m ContextMatch) Matches(ctx Context) bool {
	if m.TimeOfDay != nil && *m.TimeOfDay != ctx.TimeOfDay {
		return false
	}
	if m.DayType != nil && *m.DayType != ctx.DayType {
		return false
	}
	if m.CurrentLoad != nil && *m.CurrentLoad != ctx.CurrentLoad {
		return false
	}
	if m.Energy != nil {
		if ctx.Energy == nil || *m.Energy != *ctx.Energy {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no dimension is constrained.
func (m ContextMatch) IsEmpty() bool {
	return m.TimeOfDay == nil && m.DayType == nil && m.CurrentLoad == nil && m.Energy == nil
}

// TriggerCondition pairs a suggestion type with the partial context that must
// hold for the condition to fire.
type TriggerCondition struct {
	SuggestionType SuggestionType `json:"suggestion_type"`
	Match          ContextMatch   `json:"match"`
}
