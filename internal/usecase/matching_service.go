package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/chargematch/backend/internal/domain"
)

// Request limit bounds
const (
	defaultResultLimit = 10
	maxResultLimit     = 50
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Enabled                  bool
	BaseTolerancePercent     float64
	ThreePhaseToleranceFloor float64
	DefaultLimit             int
	MaxLimit                 int
	EnableDebugLogging       bool
}

// MatchingService ranks a catalog snapshot against a customer's charger requirements
type MatchingService struct {
	enabled            bool
	extractor          *SpecExtractor
	scoring            *ScoringEngine
	defaultLimit       int
	maxLimit           int
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	base := config.BaseTolerancePercent
	if base <= 0 {
		base = DefaultBaseTolerancePercent
	}

	floor := config.ThreePhaseToleranceFloor
	if floor <= 0 {
		floor = DefaultThreePhaseToleranceFloor
	}

	maxLimit := config.MaxLimit
	if maxLimit <= 0 || maxLimit > maxResultLimit {
		maxLimit = maxResultLimit
	}

	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = min(defaultResultLimit, maxLimit)
	}

	return &MatchingService{
		enabled:   config.Enabled,
		extractor: NewSpecExtractor(),
		scoring: NewScoringEngine(TolerancePolicy{
			BasePercent:     base,
			ThreePhaseFloor: floor,
		}),
		defaultLimit:       defaultLimit,
		maxLimit:           maxLimit,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Enabled reports whether the engine accepts requests
func (s *MatchingService) Enabled() bool {
	return s.enabled
}

// Match scores every product in the snapshot and returns the ranked,
// partitioned result. An empty catalog yields an empty result, not an error.
func (s *MatchingService) Match(
	ctx context.Context,
	request *domain.MatchRequest,
	catalog []domain.ProductRecord,
) (*domain.MatchResult, error) {
	if !s.enabled {
		return nil, domain.ErrEngineDisabled
	}

	req, err := s.normalizeRequest(request)
	if err != nil {
		return nil, err
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] Request: voltage=%s amperage=%s phase=%s limit=%d (catalog: %d)",
			fmtInt(req.Voltage), fmtInt(req.Amperage), fmtPhase(req.Phase), req.Limit, len(catalog))
	}

	scored := make([]domain.ScoredCandidate, 0, len(catalog))
	for _, product := range catalog {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sig := s.extractor.Extract(product)
		candidate := s.scoring.Score(req, product, sig)

		if s.enableDebugLogging {
			log.Printf("[MATCH] %s | sig: %s | score: %d | %s",
				product.Slug, BucketKey(sig), candidate.Score, candidate.MatchType)
		}

		scored = append(scored, candidate)
	}

	result := RankCandidates(scored, req.Limit)

	if s.enableDebugLogging {
		if result.TopPick != nil {
			log.Printf("[MATCH] Top pick: %s (score %d)", result.TopPick.Product.Slug, result.TopPick.Score)
		} else {
			log.Printf("[MATCH] No best match, %d alternatives", len(result.Alternatives))
		}
	}

	return result, nil
}

// normalizeRequest validates the request and fills the default limit.
// The caller's value is not modified.
func (s *MatchingService) normalizeRequest(request *domain.MatchRequest) (*domain.MatchRequest, error) {
	if request == nil {
		return nil, fmt.Errorf("%w: request is required", domain.ErrInvalidRequest)
	}

	req := *request

	if req.Voltage != nil && *req.Voltage <= 0 {
		return nil, fmt.Errorf("%w: voltage must be positive", domain.ErrInvalidRequest)
	}
	if req.Amperage != nil && *req.Amperage <= 0 {
		return nil, fmt.Errorf("%w: amperage must be positive", domain.ErrInvalidRequest)
	}
	if req.Phase != nil && !req.Phase.Known() {
		return nil, fmt.Errorf("%w: phase must be %s or %s", domain.ErrInvalidRequest, domain.PhaseSingle, domain.PhaseThree)
	}

	switch {
	case req.Limit == 0:
		req.Limit = s.defaultLimit
	case req.Limit < 0 || req.Limit > s.maxLimit:
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidRequest, s.maxLimit)
	}

	return &req, nil
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtPhase(p *domain.Phase) string {
	if p == nil {
		return "-"
	}
	return string(*p)
}
