package learning

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// promoteFromHypothesis builds a trusted pattern from a confirmed hypothesis.
// Caller holds the lock.
func (e *Engine) promoteFromHypothesis(h *Hypothesis) *Pattern {
	p := &Pattern{
		ID:          newID(),
		Description: h.Hypothesis,
		Trigger: PatternTrigger{
			Type:           inferTriggerType(h.Trigger),
			SuggestionType: h.Trigger.SuggestionType,
			Conditions:     h.Trigger.Match,
		},
		Action:       inferAction(h.TestApproach),
		Confidence:   e.cfg.InitialConfidence,
		ConfirmedAt:  e.now(),
		HypothesisID: h.ID,
	}
	e.patterns[p.ID] = p
	e.patOrder = append(e.patOrder, p.ID)
	e.persist(kindPattern, p.ID, false)
	return p
}

// inferTriggerType maps a hypothesis condition to the scheduler event that
// should evaluate the pattern.
func inferTriggerType(tc TriggerCondition) TriggerType {
	if tc.Match.Energy != nil && *tc.Match.Energy == EnergyPostFocusDip {
		return TriggerEventEnd
	}
	if tc.SuggestionType == GapFill {
		return TriggerGapDetected
	}
	return TriggerTimeOfDay
}

var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// inferAction derives the pattern's action from the test-approach wording.
// The template table is written so its keywords land here deterministically.
func inferAction(testApproach string) Action {
	text := strings.ToLower(testApproach)

	if strings.Contains(text, "recovery") || strings.Contains(text, "break") {
		return Action{Type: SuggestAlternative, Suggestion: "recovery_break"}
	}
	if strings.Contains(text, "protect") || strings.Contains(text, "do not") {
		return Action{Type: SkipSuggestion}
	}
	if m := percentRe.FindStringSubmatch(text); m != nil {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err == nil && pct > 0 {
			return Action{Type: AdjustEstimate, Multiplier: 1 + pct/100}
		}
	}
	return Action{Type: SuggestAlternative}
}

// ApplyPatterns returns the actions of every trusted pattern whose trigger
// conditions match ctx, boosting each matched pattern's confidence. A call
// that matches nothing mutates nothing.
func (e *Engine) ApplyPatterns(ctx Context) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	var actions []Action
	for _, id := range e.patOrder {
		p := e.patterns[id]
		if p.Confidence <= e.cfg.ActivePatternThreshold {
			continue // decayed below the trust floor: treated as forgotten
		}
		if !p.Trigger.Conditions.Matches(ctx) {
			continue
		}
		actions = append(actions, p.Action)
		p.ApplicationCount++
		now := e.now()
		p.LastApplied = &now
		p.Confidence = clamp01(p.Confidence + e.cfg.ConfidenceBoost)
		e.persist(kindPattern, p.ID, false)
	}
	return actions
}

// checkDecay registers one override against a pattern. Caller holds the
// lock. The decay warning fires once per confirmation lifetime.
func (e *Engine) checkDecay(p *Pattern, wasOverridden bool) {
	if !wasOverridden {
		return
	}
	p.OverridesSinceConfirm++
	p.Confidence = clamp01(p.Confidence - e.cfg.ConfidenceDecay)

	if p.OverridesSinceConfirm >= e.cfg.DecayThreshold && !p.DecayWarningIssued {
		p.DecayWarningIssued = true
		e.enqueueNotification(NotifyDecayWarning, fmt.Sprintf(
			"You've overridden %q %d times recently. Should I forget it?",
			p.Description, p.OverridesSinceConfirm))
	}
	e.persist(kindPattern, p.ID, false)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
