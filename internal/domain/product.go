package domain

import "strings"

// Phase is the facility power phase a charger is built for
type Phase string

const (
	PhaseSingle  Phase = "single-phase"
	PhaseThree   Phase = "three-phase"
	PhaseUnknown Phase = "unknown"
)

// ParsePhase normalizes the spellings used by storefront feeds, seed files and
// API clients. ok is false for anything that is not a recognizable phase.
func ParsePhase(s string) (Phase, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single-phase", "single", "single phase", "1", "1-phase", "1ph":
		return PhaseSingle, true
	case "three-phase", "three", "three phase", "3", "3-phase", "3ph":
		return PhaseThree, true
	case "unknown", "":
		return PhaseUnknown, true
	}
	return "", false
}

// Known reports whether the phase is a concrete single or three phase value
func (p Phase) Known() bool {
	return p == PhaseSingle || p == PhaseThree
}

// ProductRecord is one catalog entry. Voltage, Amperage and Phase are the
// optional structured spec columns; nil means the column is empty.
type ProductRecord struct {
	ID          string `json:"id" yaml:"id"`
	Slug        string `json:"slug" yaml:"slug"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Category    string `json:"category,omitempty" yaml:"category"`

	Voltage  *int   `json:"voltage,omitempty" yaml:"voltage"`
	Amperage *int   `json:"amperage,omitempty" yaml:"amperage"`
	Phase    *Phase `json:"phase,omitempty" yaml:"phase"`

	// Commercial fields, passed through untouched
	SKU      string   `json:"sku,omitempty" yaml:"sku"`
	Price    *float64 `json:"price,omitempty" yaml:"price"`
	ImageURL string   `json:"imageUrl,omitempty" yaml:"image_url"`
}

// SpecSignature is the normalized spec tuple derived from a product at read time.
// It is never written back to the record.
type SpecSignature struct {
	Voltage  *int    `json:"voltage"`
	Amperage *int    `json:"amperage"`
	Phase    *Phase  `json:"phase"`
	Family   *string `json:"family"`
}

// Complete reports whether both voltage and amperage resolved
func (s SpecSignature) Complete() bool {
	return s.Voltage != nil && s.Amperage != nil
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// PhasePtr returns a pointer to p
func PhasePtr(p Phase) *Phase { return &p }

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }
