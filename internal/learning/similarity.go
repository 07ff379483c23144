package learning

// Weights are the per-dimension contributions to the similarity score.
// They should sum to 1.0 so scores land in [0,1].
type Weights struct {
	TimeOfDay   float64 `yaml:"time_of_day"`
	DayType     float64 `yaml:"day_type"`
	CurrentLoad float64 `yaml:"current_load"`
	Energy      float64 `yaml:"energy"`
}

// DefaultWeights returns the standard similarity weighting.
func DefaultWeights() Weights {
	return Weights{
		TimeOfDay:   0.3,
		DayType:     0.2,
		CurrentLoad: 0.2,
		Energy:      0.3,
	}
}

// Similarity scores two context snapshots for likeness. Each dimension
// contributes its full weight on exact match and zero otherwise; a missing
// energy signal on either side is a mismatch, never an error.
func Similarity(a, b Context, w Weights) float64 {
	score := 0.0
	if a.TimeOfDay == b.TimeOfDay {
		score += w.TimeOfDay
	}
	if a.DayType == b.DayType {
		score += w.DayType
	}
	if a.CurrentLoad == b.CurrentLoad {
		score += w.CurrentLoad
	}
	if a.Energy != nil && b.Energy != nil && *a.Energy == *b.Energy {
		score += w.Energy
	}
	return score
}
