package learning

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine is the adaptive pattern-learning core: it owns the interaction log,
// the hypothesis set, the pattern set, and the notification queue. One engine
// serves one user; a single mutex serializes all mutation.
type Engine struct {
	mu    sync.RWMutex
	cfg   Config
	store Store
	now   func() time.Time

	interactions  []*Interaction // ordered oldest to newest
	byID          map[string]*Interaction
	hypotheses    map[string]*Hypothesis
	hypOrder      []string
	patterns      map[string]*Pattern
	patOrder      []string
	notifications []*Notification

	// pending persistence retries (write-behind)
	dirty map[dirtyKey]bool // value: true = delete tombstone
}

type dirtyKey struct {
	kind entityKind
	id   string
}

type entityKind int

const (
	kindInteraction entityKind = iota
	kindHypothesis
	kindPattern
	kindNotification
)

func newID() string {
	return uuid.NewString()
}

func (k entityKind) String() string {
	switch k {
	case kindInteraction:
		return "interaction"
	case kindHypothesis:
		return "hypothesis"
	case kindPattern:
		return "pattern"
	default:
		return "notification"
	}
}

// New creates an Engine with the given thresholds and durable store. A nil
// store keeps the engine fully in-memory. State is rehydrated from the store
// at startup.
func New(cfg Config, st Store) (*Engine, error) {
	e := &Engine{
		cfg:        cfg.withDefaults(),
		store:      st,
		now:        time.Now,
		byID:       make(map[string]*Interaction),
		hypotheses: make(map[string]*Hypothesis),
		patterns:   make(map[string]*Pattern),
		dirty:      make(map[dirtyKey]bool),
	}

	if st != nil {
		state, err := st.LoadState()
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		for i := range state.Interactions {
			in := state.Interactions[i]
			e.interactions = append(e.interactions, &in)
			e.byID[in.ID] = &in
		}
		for i := range state.Hypotheses {
			h := state.Hypotheses[i]
			e.hypotheses[h.ID] = &h
			e.hypOrder = append(e.hypOrder, h.ID)
		}
		for i := range state.Patterns {
			p := state.Patterns[i]
			e.patterns[p.ID] = &p
			e.patOrder = append(e.patOrder, p.ID)
		}
		for i := range state.Notifications {
			n := state.Notifications[i]
			e.notifications = append(e.notifications, &n)
		}
	}

	return e, nil
}

// LogInteraction records a suggestion and the user's response. Side effects,
// in order: hypothesis test evaluation when the suggestion was a test, decay
// checks for patterns of the same suggestion type, and hypothesis generation
// when the response was an override. The call never fails on persistence
// errors.
func (e *Engine) LogInteraction(t SuggestionType, suggestion string, resp Response, ctx Context, opts LogOptions) *Interaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	in := &Interaction{
		ID:             newID(),
		CreatedAt:      e.now(),
		SuggestionType: t,
		Suggestion:     suggestion,
		Response:       resp,
		TargetID:       opts.TargetID,
		Correction:     opts.Correction,
		Context:        ctx,
		HypothesisID:   opts.HypothesisID,
	}
	e.interactions = append(e.interactions, in)
	e.byID[in.ID] = in
	e.persist(kindInteraction, in.ID, false)
	e.pruneInteractions()

	if opts.HypothesisID != "" {
		e.evaluateTest(opts.HypothesisID, resp)
	}

	overridden := resp.IsOverride()
	for _, id := range e.patOrder {
		p := e.patterns[id]
		if p != nil && p.Trigger.SuggestionType == t {
			e.checkDecay(p, overridden)
		}
	}

	if overridden {
		e.maybeGenerateHypothesis(in)
	}

	return in
}

// pruneInteractions enforces the rolling retention cap. Hypotheses may keep
// references to pruned interactions; those are audit-only and stay dangling.
func (e *Engine) pruneInteractions() {
	for len(e.interactions) > e.cfg.RetentionCap {
		oldest := e.interactions[0]
		e.interactions = e.interactions[1:]
		delete(e.byID, oldest.ID)
		e.persist(kindInteraction, oldest.ID, true)
	}
}

// SimilarOverrides returns logged overrides of the given type within the
// observation window whose context similarity to ctx exceeds the configured
// threshold.
func (e *Engine) SimilarOverrides(t SuggestionType, ctx Context) []Interaction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Interaction
	for _, in := range e.similarOverrides(t, ctx) {
		out = append(out, *in)
	}
	return out
}

func (e *Engine) similarOverrides(t SuggestionType, ctx Context) []*Interaction {
	cutoff := e.now().AddDate(0, 0, -e.cfg.ObservationWindowDays)

	var out []*Interaction
	for _, in := range e.interactions {
		if in.SuggestionType != t || !in.Response.IsOverride() {
			continue
		}
		if in.CreatedAt.Before(cutoff) {
			continue
		}
		if Similarity(ctx, in.Context, e.cfg.Weights) > e.cfg.SimilarityThreshold {
			out = append(out, in)
		}
	}
	return out
}

// RemovePattern deletes a pattern permanently. Unknown ids are a no-op.
func (e *Engine) RemovePattern(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.patterns[id]; !ok {
		return
	}
	delete(e.patterns, id)
	for i, pid := range e.patOrder {
		if pid == id {
			e.patOrder = append(e.patOrder[:i], e.patOrder[i+1:]...)
			break
		}
	}
	e.persist(kindPattern, id, true)
}

// DismissNotification marks a notification dismissed. Unknown ids are a
// no-op.
func (e *Engine) DismissNotification(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, n := range e.notifications {
		if n.ID == id {
			if !n.Dismissed {
				n.Dismissed = true
				e.persist(kindNotification, id, false)
			}
			return
		}
	}
}

// enqueueNotification appends a mailbox entry. Caller holds the lock.
func (e *Engine) enqueueNotification(t NotificationType, msg string) {
	n := &Notification{
		ID:        newID(),
		Type:      t,
		Message:   msg,
		CreatedAt: e.now(),
	}
	e.notifications = append(e.notifications, n)
	e.persist(kindNotification, n.ID, false)
}

// Sync retries any pending durable writes. Returns an error if writes are
// still pending afterwards.
func (e *Engine) Sync() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()
	if n := len(e.dirty); n > 0 {
		return fmt.Errorf("%d writes still pending", n)
	}
	return nil
}

// persist attempts one durable write; on failure it logs and queues a retry.
// Caller holds the lock.
func (e *Engine) persist(kind entityKind, id string, del bool) {
	if e.store == nil {
		return
	}
	if err := e.writeOne(kind, id, del); err != nil {
		log.Printf("persist %s %s: %v (will retry)", kind, id, err)
		e.dirty[dirtyKey{kind, id}] = del
	} else {
		delete(e.dirty, dirtyKey{kind, id})
	}
}

func (e *Engine) retryPending() {
	if e.store == nil || len(e.dirty) == 0 {
		return
	}
	for key, del := range e.dirty {
		if err := e.writeOne(key.kind, key.id, del); err == nil {
			delete(e.dirty, key)
		}
	}
}

func (e *Engine) writeOne(kind entityKind, id string, del bool) error {
	switch kind {
	case kindInteraction:
		if del {
			return e.store.DeleteInteraction(id)
		}
		in, ok := e.byID[id]
		if !ok {
			return nil // pruned before the retry landed
		}
		return e.store.PutInteraction(in)
	case kindHypothesis:
		h, ok := e.hypotheses[id]
		if !ok {
			return nil
		}
		return e.store.PutHypothesis(h)
	case kindPattern:
		if del {
			return e.store.DeletePattern(id)
		}
		p, ok := e.patterns[id]
		if !ok {
			return nil
		}
		return e.store.PutPattern(p)
	case kindNotification:
		for _, n := range e.notifications {
			if n.ID == id {
				return e.store.PutNotification(n)
			}
		}
		return nil
	}
	return nil
}
