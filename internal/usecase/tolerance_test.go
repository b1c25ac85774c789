package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chargematch/backend/internal/domain"
)

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name    string
		target  *int
		actual  *int
		percent float64
		want    bool
	}{
		{name: "exact", target: domain.IntPtr(60), actual: domain.IntPtr(60), percent: 25, want: true},
		{name: "on the band edge", target: domain.IntPtr(60), actual: domain.IntPtr(75), percent: 25, want: true},
		{name: "just outside", target: domain.IntPtr(60), actual: domain.IntPtr(76), percent: 25, want: false},
		{name: "below target", target: domain.IntPtr(60), actual: domain.IntPtr(45), percent: 25, want: true},
		{name: "zero percent exact only", target: domain.IntPtr(60), actual: domain.IntPtr(61), percent: 0, want: false},
		{name: "missing actual", target: domain.IntPtr(60), actual: nil, percent: 25, want: false},
		{name: "missing target", target: nil, actual: domain.IntPtr(60), percent: 25, want: false},
		{name: "zero target", target: domain.IntPtr(0), actual: domain.IntPtr(0), percent: 25, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinTolerance(tt.target, tt.actual, tt.percent))
		})
	}
}

func TestTolerancePolicy_EffectivePercent(t *testing.T) {
	policy := TolerancePolicy{BasePercent: 25, ThreePhaseFloor: 40}

	assert.Equal(t, 25.0, policy.EffectivePercent(nil))
	assert.Equal(t, 25.0, policy.EffectivePercent(domain.PhasePtr(domain.PhaseSingle)))
	assert.Equal(t, 40.0, policy.EffectivePercent(domain.PhasePtr(domain.PhaseThree)))

	wide := TolerancePolicy{BasePercent: 50, ThreePhaseFloor: 40}
	assert.Equal(t, 50.0, wide.EffectivePercent(domain.PhasePtr(domain.PhaseThree)))
}

func TestThreePhaseFloorWidensBand(t *testing.T) {
	policy := TolerancePolicy{BasePercent: 25, ThreePhaseFloor: 40}
	target, actual := domain.IntPtr(100), domain.IntPtr(135)

	assert.True(t, WithinTolerance(target, actual, policy.EffectivePercent(domain.PhasePtr(domain.PhaseThree))))
	assert.False(t, WithinTolerance(target, actual, policy.EffectivePercent(domain.PhasePtr(domain.PhaseSingle))))
}
