package learning

// Store is the durable backing for engine state. In-memory state is
// authoritative: a failed write is logged and retried on a later mutation or
// Sync, never surfaced to the caller of a mutating operation.
type Store interface {
	PutInteraction(in *Interaction) error
	DeleteInteraction(id string) error
	PutHypothesis(h *Hypothesis) error
	PutPattern(p *Pattern) error
	DeletePattern(id string) error
	PutNotification(n *Notification) error
	LoadState() (*State, error)
}

// State is everything the engine rehydrates at startup.
type State struct {
	Interactions  []Interaction
	Hypotheses    []Hypothesis
	Patterns      []Pattern
	Notifications []Notification
}
