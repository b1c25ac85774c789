package usecase

import "github.com/chargematch/backend/internal/domain"

// Default tolerance policy
const (
	DefaultBaseTolerancePercent     = 25.0
	DefaultThreePhaseToleranceFloor = 40.0
)

// TolerancePolicy decides how far a candidate's amperage may drift from the
// requested amperage. Three-phase requests are widened to at least the floor
// because three-phase ratings are spaced further apart.
type TolerancePolicy struct {
	BasePercent     float64
	ThreePhaseFloor float64
}

// EffectivePercent returns the tolerance band for a request phase
func (t TolerancePolicy) EffectivePercent(phase *domain.Phase) float64 {
	if phase != nil && *phase == domain.PhaseThree {
		return max(t.BasePercent, t.ThreePhaseFloor)
	}
	return t.BasePercent
}

// WithinTolerance reports whether actual is within percent of target.
// A missing value on either side never matches.
func WithinTolerance(target, actual *int, percent float64) bool {
	if target == nil || actual == nil || *target <= 0 {
		return false
	}
	diff := *actual - *target
	if diff < 0 {
		diff = -diff
	}
	// diff/target*100 <= percent, kept in multiplication form to avoid rounding at the band edge
	return float64(diff)*100 <= percent*float64(*target)
}
