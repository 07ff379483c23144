package learning

import "math"

// Hypothesis generation and the testing state machine. All functions here
// run with the engine lock held.

// maybeGenerateHypothesis clusters recent similar overrides and, when the
// cluster is large enough, opens a new testing hypothesis. Guard violations
// (small cluster, duplicate situation, active cap) are silent no-ops.
func (e *Engine) maybeGenerateHypothesis(in *Interaction) {
	cluster := e.similarOverrides(in.SuggestionType, in.Context)
	if len(cluster) < e.cfg.HypothesisThreshold {
		return
	}

	// One hypothesis per situation: skip if a testing hypothesis of the same
	// type already covers this context.
	for _, id := range e.hypOrder {
		h := e.hypotheses[id]
		if h.Status == StatusTesting &&
			h.Trigger.SuggestionType == in.SuggestionType &&
			h.Trigger.Match.Matches(in.Context) {
			return
		}
	}

	// Back-pressure against hypothesis explosion.
	testing := 0
	for _, id := range e.hypOrder {
		if e.hypotheses[id].Status == StatusTesting {
			testing++
		}
	}
	if testing >= e.cfg.MaxActiveHypotheses {
		return
	}

	match := e.commonContext(cluster)
	observation, statement, approach := buildTexts(in.SuggestionType, match)

	sourceIDs := make([]string, len(cluster))
	for i, c := range cluster {
		sourceIDs[i] = c.ID
	}

	h := &Hypothesis{
		ID:                   newID(),
		CreatedAt:            e.now(),
		SourceInteractionIDs: sourceIDs,
		Observation:          observation,
		Hypothesis:           statement,
		TestApproach:         approach,
		Trigger: TriggerCondition{
			SuggestionType: in.SuggestionType,
			Match:          match,
		},
		ConfidenceRequired: e.cfg.ConfirmationRequired,
		Status:             StatusTesting,
	}
	e.hypotheses[h.ID] = h
	e.hypOrder = append(e.hypOrder, h.ID)
	e.persist(kindHypothesis, h.ID, false)
}

// commonContext keeps a dimension only when the same value appears in at
// least the configured share of the cluster.
func (e *Engine) commonContext(cluster []*Interaction) ContextMatch {
	need := int(math.Ceil(float64(len(cluster)) * e.cfg.CommonContextRatio))

	var match ContextMatch

	times := make(map[TimeOfDay]int)
	days := make(map[DayType]int)
	energies := make(map[EnergyLevel]int)
	// Unset dimensions never become matchers.
	for _, in := range cluster {
		if in.Context.TimeOfDay != "" {
			times[in.Context.TimeOfDay]++
		}
		if in.Context.DayType != "" {
			days[in.Context.DayType]++
		}
		if in.Context.Energy != nil {
			energies[*in.Context.Energy]++
		}
	}
	for v, n := range times {
		if n >= need {
			tod := v
			match.TimeOfDay = &tod
			break
		}
	}
	for v, n := range days {
		if n >= need {
			dt := v
			match.DayType = &dt
			break
		}
	}
	for v, n := range energies {
		if n >= need {
			en := v
			match.Energy = &en
			break
		}
	}
	return match
}

// evaluateTest advances the testing state machine for one tagged interaction.
// Terminal hypotheses and unknown ids are no-ops.
func (e *Engine) evaluateTest(hypothesisID string, resp Response) {
	h, ok := e.hypotheses[hypothesisID]
	if !ok || h.Status != StatusTesting {
		return
	}

	h.TestsRun++
	if resp == Accepted {
		h.Confirmations++
		if h.Confirmations >= h.ConfidenceRequired {
			e.confirmHypothesis(h)
			e.persist(kindHypothesis, h.ID, false)
			return
		}
	} else {
		h.Rejections++
		if h.Rejections >= h.ConfidenceRequired {
			h.Status = StatusRejected
			now := e.now()
			h.ResolvedAt = &now
			e.persist(kindHypothesis, h.ID, false)
			return
		}
	}

	// Logical timeout: too many tests without a verdict.
	if h.TestsRun >= e.cfg.MaxTestsBeforeStale {
		h.Status = StatusStale
		now := e.now()
		h.ResolvedAt = &now
	}
	e.persist(kindHypothesis, h.ID, false)
}

// confirmHypothesis transitions to confirmed and promotes atomically, so a
// confirmed counter can never be observed alongside a testing status.
func (e *Engine) confirmHypothesis(h *Hypothesis) {
	h.Status = StatusConfirmed
	now := e.now()
	h.ResolvedAt = &now

	p := e.promoteFromHypothesis(h)
	h.PatternID = p.ID

	if e.cfg.NotifyOnLearn {
		e.enqueueNotification(NotifyLearned, "Learned: "+p.Description)
	}
}
