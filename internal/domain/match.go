package domain

// MatchType classifies a scored candidate
type MatchType string

const (
	MatchBest      MatchType = "best"
	MatchAlternate MatchType = "alternate"
)

// MatchRequest holds the customer's desired specs. A nil field means the
// dimension is not filtered or scored on.
type MatchRequest struct {
	Voltage  *int   `json:"voltage,omitempty"`
	Amperage *int   `json:"amperage,omitempty"`
	Phase    *Phase `json:"phase,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// ReasonKind tags a Reason as carrying a weight or not
type ReasonKind string

const (
	ReasonWeighted ReasonKind = "weighted"
	ReasonPlain    ReasonKind = "plain"
)

// Reason explains one contribution to a candidate's ranking. Plain reasons
// carry no weight and are never tied to a scored dimension.
type Reason struct {
	Kind   ReasonKind `json:"kind"`
	Label  string     `json:"label"`
	Weight int        `json:"weight,omitempty"`
}

// WeightedReason builds a reason that accounts for weight points
func WeightedReason(label string, weight int) Reason {
	return Reason{Kind: ReasonWeighted, Label: label, Weight: weight}
}

// PlainReason builds an unweighted reason
func PlainReason(label string) Reason {
	return Reason{Kind: ReasonPlain, Label: label}
}

// ScoredCandidate wraps a product with its score, reasons and classification
type ScoredCandidate struct {
	Product   ProductRecord `json:"product"`
	Signature SpecSignature `json:"signature"`
	Score     int           `json:"score"`
	Reasons   []Reason      `json:"reasons"`
	MatchType MatchType     `json:"matchType"`
}

// MatchResult is the ranked, partitioned response of a match operation
type MatchResult struct {
	TopPick          *ScoredCandidate  `json:"topPick"`
	OtherBestMatches []ScoredCandidate `json:"otherBestMatches"`
	Alternatives     []ScoredCandidate `json:"alternatives"`
	AllRanked        []ScoredCandidate `json:"allRanked"`
}
