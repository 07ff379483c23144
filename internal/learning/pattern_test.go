package learning

import (
	"strings"
	"testing"
)

func TestInferTriggerType(t *testing.T) {
	dip := EnergyPostFocusDip

	tests := []struct {
		name string
		tc   TriggerCondition
		want TriggerType
	}{
		{"post-focus dip wins", TriggerCondition{SuggestionType: GapFill, Match: ContextMatch{Energy: &dip}}, TriggerEventEnd},
		{"gap fill without dip", TriggerCondition{SuggestionType: GapFill}, TriggerGapDetected},
		{"everything else", TriggerCondition{SuggestionType: BufferAdd}, TriggerTimeOfDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferTriggerType(tt.tc); got != tt.want {
				t.Errorf("inferTriggerType = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInferAction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Action
	}{
		{"recovery", "Suggest a short recovery break instead of a task.", Action{Type: SuggestAlternative, Suggestion: "recovery_break"}},
		{"protect", "Protect the quiet window until it ends.", Action{Type: SkipSuggestion}},
		{"do not", "Do not insert buffers for the next few plans.", Action{Type: SkipSuggestion}},
		{"percentage", "Increase time estimates by 20% for tasks and check.", Action{Type: AdjustEstimate, Multiplier: 1.2}},
		{"generic", "Propose an alternative ordering and compare acceptance.", Action{Type: SuggestAlternative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferAction(tt.text)
			if got != tt.want {
				t.Errorf("inferAction(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTemplateKeywordsRoundTrip(t *testing.T) {
	// Every template's test approach must infer a deliberate action, so a
	// confirmed hypothesis never promotes to something its text doesn't say.
	dip := EnergyPostFocusDip

	tests := []struct {
		st    SuggestionType
		match ContextMatch
		want  ActionType
	}{
		{GapFill, ContextMatch{Energy: &dip}, SuggestAlternative},
		{GapFill, ContextMatch{}, SuggestAlternative},
		{BufferAdd, ContextMatch{}, SkipSuggestion},
		{TimeEstimate, ContextMatch{}, AdjustEstimate},
		{NotificationHold, ContextMatch{}, SkipSuggestion},
		{MorningRoutine, ContextMatch{}, SkipSuggestion},
		{GoalNudge, ContextMatch{}, SkipSuggestion},
	}

	for _, tt := range tests {
		_, _, approach := buildTexts(tt.st, tt.match)
		got := inferAction(approach)
		if got.Type != tt.want {
			t.Errorf("%s: action = %s from %q, want %s", tt.st, got.Type, approach, tt.want)
		}
	}

	// The energy-aware gap-fill variant must carry the recovery parameter.
	_, _, approach := buildTexts(GapFill, ContextMatch{Energy: &dip})
	if got := inferAction(approach); got.Suggestion != "recovery_break" {
		t.Errorf("recovery variant action = %+v, want recovery_break suggestion", got)
	}
}

func TestDescribeMatch(t *testing.T) {
	tod := Afternoon
	dt := Weekday
	dip := EnergyPostFocusDip

	got := describeMatch(ContextMatch{TimeOfDay: &tod, DayType: &dt})
	if !strings.Contains(got, "afternoon") || !strings.Contains(got, "weekday") {
		t.Errorf("describeMatch = %q, want afternoon and weekday mentioned", got)
	}

	if got := describeMatch(ContextMatch{}); got != "in this situation" {
		t.Errorf("empty match description = %q", got)
	}

	if got := describeMatch(ContextMatch{Energy: &dip}); !strings.Contains(got, "focus dip") {
		t.Errorf("dip description = %q, want focus dip mentioned", got)
	}
}

func TestClampConfidence(t *testing.T) {
	if got := clamp01(1.07); got != 1.0 {
		t.Errorf("clamp01(1.07) = %f, want 1.0", got)
	}
	if got := clamp01(-0.05); got != 0.0 {
		t.Errorf("clamp01(-0.05) = %f, want 0.0", got)
	}
}
