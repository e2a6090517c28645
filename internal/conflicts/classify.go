package conflicts

import (
	"fmt"

	"github.com/professional-hubs/conflicts/internal/model"
)

// Default similarity cutoffs.
const (
	DefaultFloor      = 70.0
	DefaultHighCutoff = 90.0
)

// Thresholds holds the acceptance floor and the high-confidence cutoff.
// Both bounds are inclusive: a score equal to Floor is medium, a score equal
// to HighCutoff is high.
type Thresholds struct {
	Floor      float64
	HighCutoff float64
}

// DefaultThresholds returns the 70/90 cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Floor: DefaultFloor, HighCutoff: DefaultHighCutoff}
}

// Validate checks 0 <= Floor <= HighCutoff <= 100.
func (t Thresholds) Validate() error {
	if t.Floor < 0 || t.HighCutoff > 100 || t.Floor > t.HighCutoff {
		return fmt.Errorf("conflicts: invalid thresholds floor=%v high=%v (need 0 <= floor <= high <= 100)", t.Floor, t.HighCutoff)
	}
	return nil
}

// Classify maps a score to a confidence tier. ok is false when the score is
// below the floor and the candidate must be dropped.
func (t Thresholds) Classify(score float64) (tier model.ConfidenceTier, ok bool) {
	switch {
	case score < t.Floor:
		return "", false
	case score >= t.HighCutoff:
		return model.ConfidenceHigh, true
	default:
		return model.ConfidenceMedium, true
	}
}
