package learning

import (
	"fmt"
	"strings"
)

// template holds the three narrative texts generated for a hypothesis. Each
// field is a fmt format string with one %s slot for the context description.
// The test-approach wording is load-bearing: pattern promotion infers the
// resulting action from its keywords (see inferAction).
type template struct {
	observation  string
	hypothesis   string
	testApproach string
}

var suggestionTemplates = map[SuggestionType]template{
	GapFill: {
		observation:  "You often decline gap-fill suggestions %s.",
		hypothesis:   "Free gaps %s should be left open rather than filled.",
		testApproach: "Offer a lighter alternative for the next few gaps %s and see whether it lands better.",
	},
	BufferAdd: {
		observation:  "You usually remove the buffers I add %s.",
		hypothesis:   "Extra buffer time is unwanted %s.",
		testApproach: "Do not insert buffers %s for the next few plans and confirm nothing overruns.",
	},
	TimeEstimate: {
		observation:  "You regularly extend my time estimates %s.",
		hypothesis:   "My estimates run short %s.",
		testApproach: "Increase time estimates by 20%% for tasks %s and check whether they stick.",
	},
	PriorityOrder: {
		observation:  "You keep reordering the priorities I propose %s.",
		hypothesis:   "My default ordering does not match how you want to work %s.",
		testApproach: "Propose an alternative ordering %s and compare acceptance.",
	},
	NotificationHold: {
		observation:  "You override notification holds %s.",
		hypothesis:   "Held notifications %s should stay held longer.",
		testApproach: "Protect the quiet window %s: do not surface held notifications until it ends.",
	},
	MorningRoutine: {
		observation:  "You skip the morning routine I schedule %s.",
		hypothesis:   "The scheduled morning routine does not fit %s.",
		testApproach: "Do not schedule the routine %s and verify mornings still start smoothly.",
	},
	GoalNudge: {
		observation:  "You dismiss goal nudges %s.",
		hypothesis:   "Goal nudges are unwelcome %s.",
		testApproach: "Do not send goal nudges %s and watch whether goal progress holds.",
	},
	ConflictResolve: {
		observation:  "You resolve conflicts differently than I suggest %s.",
		hypothesis:   "My conflict resolutions pick the wrong event to move %s.",
		testApproach: "Suggest the opposite resolution %s and compare which one you keep.",
	},
	RecoverySuggest: {
		observation:  "You swap out the recovery activities I suggest %s.",
		hypothesis:   "The default recovery activity is wrong %s.",
		testApproach: "Offer a different recovery break %s and see which kind you accept.",
	},
}

// gapFillRecovery is the energy-aware variant used when a gap-fill cluster
// shares a post-focus energy dip: the rule to test is recovery, not task fill.
var gapFillRecovery = template{
	observation:  "You decline gap-fill tasks %s, right after deep-focus work.",
	hypothesis:   "After a focus block %s you need recovery, not another task.",
	testApproach: "Suggest a short recovery break instead of a task for gaps %s.",
}

// templateFor picks the template for a suggestion type and context shape.
func templateFor(t SuggestionType, m ContextMatch) template {
	if t == GapFill && m.Energy != nil && *m.Energy == EnergyPostFocusDip {
		return gapFillRecovery
	}
	if tpl, ok := suggestionTemplates[t]; ok {
		return tpl
	}
	// Unknown suggestion types still get a workable generic rule.
	return template{
		observation:  "You often override these suggestions %s.",
		hypothesis:   "These suggestions miss the mark %s.",
		testApproach: "Suggest an alternative %s and compare acceptance.",
	}
}

// buildTexts renders observation, hypothesis, and test-approach strings for a
// trigger condition.
func buildTexts(t SuggestionType, m ContextMatch) (observation, hypothesis, testApproach string) {
	tpl := templateFor(t, m)
	desc := describeMatch(m)
	return fmt.Sprintf(tpl.observation, desc),
		fmt.Sprintf(tpl.hypothesis, desc),
		fmt.Sprintf(tpl.testApproach, desc)
}

// describeMatch renders a partial context as a short prose fragment.
func describeMatch(m ContextMatch) string {
	var parts []string
	if m.TimeOfDay != nil {
		parts = append(parts, "in the "+string(*m.TimeOfDay))
	}
	if m.DayType != nil {
		parts = append(parts, "on "+string(*m.DayType)+"s")
	}
	if m.CurrentLoad != nil {
		parts = append(parts, "on "+string(*m.CurrentLoad)+" days")
	}
	if m.Energy != nil {
		if *m.Energy == EnergyPostFocusDip {
			parts = append(parts, "after a focus dip")
		} else {
			parts = append(parts, "when energy is "+string(*m.Energy))
		}
	}
	if len(parts) == 0 {
		return "in this situation"
	}
	return strings.Join(parts, " ")
}
