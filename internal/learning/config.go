package learning

// Config holds every tunable threshold of the learning engine. All values
// have working defaults; zero values are replaced by them so a partial config
// file cannot disable the engine by accident.
type Config struct {
	// HypothesisThreshold is the minimum cluster of similar overrides before
	// a hypothesis is generated.
	HypothesisThreshold int `yaml:"hypothesis_threshold"`
	// ObservationWindowDays bounds how far back similar overrides are
	// collected.
	ObservationWindowDays int `yaml:"observation_window_days"`
	// ConfirmationRequired is how many accepted tests confirm (or rejected
	// tests reject) a hypothesis.
	ConfirmationRequired int `yaml:"confirmation_required"`
	// MaxActiveHypotheses caps concurrently testing hypotheses.
	MaxActiveHypotheses int `yaml:"max_active_hypotheses"`
	// MaxTestsBeforeStale forces a still-testing hypothesis to stale after
	// this many tests.
	MaxTestsBeforeStale int `yaml:"max_tests_before_stale"`
	// InitialConfidence is assigned to a freshly promoted pattern.
	InitialConfidence float64 `yaml:"initial_confidence"`
	// ConfidenceBoost is added per application, capped at 1.0.
	ConfidenceBoost float64 `yaml:"confidence_boost"`
	// ConfidenceDecay is subtracted per contradicting override, floored at 0.
	ConfidenceDecay float64 `yaml:"confidence_decay"`
	// DecayThreshold is the override count that triggers the one-time decay
	// warning.
	DecayThreshold int `yaml:"decay_threshold"`
	// ActivePatternThreshold is the single confidence gate used everywhere:
	// a pattern at or below it is invisible to application, to
	// ConfirmedPatterns, and to Learnings, but stays stored until removed.
	ActivePatternThreshold float64 `yaml:"active_pattern_threshold"`
	// SimilarityThreshold is the minimum context similarity for an override
	// to join a cluster.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	// CommonContextRatio is the share of a cluster that must agree on a
	// dimension for it to become a trigger matcher.
	CommonContextRatio float64 `yaml:"common_context_ratio"`
	// RetentionCap bounds the interaction log; oldest entries are pruned.
	RetentionCap int `yaml:"retention_cap"`
	// NotifyOnLearn controls the "learned" notification on promotion.
	NotifyOnLearn bool `yaml:"notify_on_learn"`
	// Weights are the similarity dimension weights.
	Weights Weights `yaml:"similarity_weights"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		HypothesisThreshold:    3,
		ObservationWindowDays:  14,
		ConfirmationRequired:   2,
		MaxActiveHypotheses:    5,
		MaxTestsBeforeStale:    10,
		InitialConfidence:      0.7,
		ConfidenceBoost:        0.05,
		ConfidenceDecay:        0.1,
		DecayThreshold:         5,
		ActivePatternThreshold: 0.3,
		SimilarityThreshold:    0.6,
		CommonContextRatio:     0.7,
		RetentionCap:           1000,
		NotifyOnLearn:          true,
		Weights:                DefaultWeights(),
	}
}

// withDefaults fills zero-valued numeric fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HypothesisThreshold == 0 {
		c.HypothesisThreshold = d.HypothesisThreshold
	}
	if c.ObservationWindowDays == 0 {
		c.ObservationWindowDays = d.ObservationWindowDays
	}
	if c.ConfirmationRequired == 0 {
		c.ConfirmationRequired = d.ConfirmationRequired
	}
	if c.MaxActiveHypotheses == 0 {
		c.MaxActiveHypotheses = d.MaxActiveHypotheses
	}
	if c.MaxTestsBeforeStale == 0 {
		c.MaxTestsBeforeStale = d.MaxTestsBeforeStale
	}
	if c.InitialConfidence == 0 {
		c.InitialConfidence = d.InitialConfidence
	}
	if c.ConfidenceBoost == 0 {
		c.ConfidenceBoost = d.ConfidenceBoost
	}
	if c.ConfidenceDecay == 0 {
		c.ConfidenceDecay = d.ConfidenceDecay
	}
	if c.DecayThreshold == 0 {
		c.DecayThreshold = d.DecayThreshold
	}
	if c.ActivePatternThreshold == 0 {
		c.ActivePatternThreshold = d.ActivePatternThreshold
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = d.SimilarityThreshold
	}
	if c.CommonContextRatio == 0 {
		c.CommonContextRatio = d.CommonContextRatio
	}
	if c.RetentionCap == 0 {
		c.RetentionCap = d.RetentionCap
	}
	if c.Weights == (Weights{}) {
		c.Weights = d.Weights
	}
	return c
}
