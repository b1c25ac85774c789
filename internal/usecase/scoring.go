package usecase

import (
	"fmt"

	"github.com/chargematch/backend/internal/domain"
)

// Scoring weights. Each dimension adds its weight independently.
const (
	weightVoltage  = 100
	weightAmperage = 50
	weightPhase    = 20
	weightHeadline = 120
)

// Reason labels
const (
	reasonVoltageMatch = "voltage match"
	reasonHeadline     = "best match for voltage/amperage"
	reasonClosest      = "closest available match"
)

// ScoringEngine scores a candidate signature against a request and decides
// whether it is a best match or an alternate.
type ScoringEngine struct {
	tolerance TolerancePolicy
}

// NewScoringEngine creates a scoring engine using the given tolerance policy
func NewScoringEngine(tolerance TolerancePolicy) *ScoringEngine {
	return &ScoringEngine{tolerance: tolerance}
}

// Score evaluates one product. The request dimensions that are nil are
// satisfied without contributing points.
func (e *ScoringEngine) Score(req *domain.MatchRequest, product domain.ProductRecord, sig domain.SpecSignature) domain.ScoredCandidate {
	score := 0
	var reasons []domain.Reason

	voltageOK := true
	if req.Voltage != nil {
		voltageOK = sig.Voltage != nil && *sig.Voltage == *req.Voltage
		if voltageOK {
			score += weightVoltage
			reasons = append(reasons, domain.WeightedReason(reasonVoltageMatch, weightVoltage))
		}
	}

	amperageOK := true
	if req.Amperage != nil {
		amperageOK = WithinTolerance(req.Amperage, sig.Amperage, e.tolerance.EffectivePercent(req.Phase))
		if amperageOK {
			score += weightAmperage
			reasons = append(reasons, domain.WeightedReason(
				fmt.Sprintf("charge speed fit (%dA)", *sig.Amperage), weightAmperage))
		}
	}

	phaseOK := true
	if req.Phase != nil {
		phaseOK = sig.Phase == nil || *sig.Phase == *req.Phase
		if phaseOK {
			score += weightPhase
			reasons = append(reasons, domain.WeightedReason(phaseReason(*req.Phase, sig.Phase), weightPhase))
		}
	}

	candidate := domain.ScoredCandidate{
		Product:   product,
		Signature: sig,
		Score:     score,
	}

	if voltageOK && amperageOK && phaseOK {
		candidate.MatchType = domain.MatchBest
		candidate.Reasons = append([]domain.Reason{domain.WeightedReason(reasonHeadline, weightHeadline)}, reasons...)
	} else {
		candidate.MatchType = domain.MatchAlternate
		candidate.Reasons = append(reasons, domain.PlainReason(reasonClosest))
	}

	return candidate
}

// phaseReason labels the phase contribution; an unknown candidate phase is
// accepted but called out.
func phaseReason(requested domain.Phase, actual *domain.Phase) string {
	if actual == nil {
		return fmt.Sprintf("%s compatible (phase not listed)", requested)
	}
	return fmt.Sprintf("%s compatible", requested)
}
