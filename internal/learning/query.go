package learning

// Transparency query layer: read-only projections for "what have you learned
// about me" views. All reads take the read lock and return copies, so callers
// never observe a pattern mid-transition.

// ActiveHypotheses returns hypotheses still in testing, oldest first.
func (e *Engine) ActiveHypotheses() []Hypothesis {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Hypothesis
	for _, id := range e.hypOrder {
		if h := e.hypotheses[id]; h.Status == StatusTesting {
			out = append(out, *h)
		}
	}
	return out
}

// AllHypotheses returns every hypothesis, terminal ones included, for audit
// views.
func (e *Engine) AllHypotheses() []Hypothesis {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Hypothesis, 0, len(e.hypOrder))
	for _, id := range e.hypOrder {
		out = append(out, *e.hypotheses[id])
	}
	return out
}

// ConfirmedPatterns returns patterns above the active-pattern threshold,
// the same gate application uses, so a decayed pattern disappears from both
// at once.
func (e *Engine) ConfirmedPatterns() []Pattern {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Pattern
	for _, id := range e.patOrder {
		if p := e.patterns[id]; p.Confidence > e.cfg.ActivePatternThreshold {
			out = append(out, *p)
		}
	}
	return out
}

// Learnings returns the human-readable descriptions of trusted patterns.
func (e *Engine) Learnings() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []string
	for _, id := range e.patOrder {
		if p := e.patterns[id]; p.Confidence > e.cfg.ActivePatternThreshold {
			out = append(out, p.Description)
		}
	}
	return out
}

// RecentInteractions returns up to n interactions, newest first.
func (e *Engine) RecentInteractions(n int) []Interaction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if n <= 0 || n > len(e.interactions) {
		n = len(e.interactions)
	}
	out := make([]Interaction, 0, n)
	for i := len(e.interactions) - 1; i >= len(e.interactions)-n; i-- {
		out = append(out, *e.interactions[i])
	}
	return out
}

// PendingNotifications returns non-dismissed notifications, newest first.
func (e *Engine) PendingNotifications() []Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Notification
	for i := len(e.notifications) - 1; i >= 0; i-- {
		if n := e.notifications[i]; !n.Dismissed {
			out = append(out, *n)
		}
	}
	return out
}
