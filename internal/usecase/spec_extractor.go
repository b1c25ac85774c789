package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chargematch/backend/internal/domain"
)

// KnownVoltages is the closed set of battery voltages the product line ships.
// The voltage pattern is built from this list so extraction and audit stay in
// sync when a new voltage class is added.
var KnownVoltages = []int{24, 36, 48, 72, 80, 96}

// FamilyKeywords are the product-line prefixes recognized in slugs
var FamilyKeywords = []string{"green"}

// Family suffixes that pin the charger to a supply phase. Any other suffix
// leaves phase unresolved.
var (
	singlePhaseSuffixes = map[string]bool{"2": true, "4": true}
	threePhaseSuffixes  = map[string]bool{"6": true, "8": true, "x": true}
)

// Compiled extraction patterns
var (
	// "48v", "48 v", "48volt", "48 volts"; a trailing digit is allowed so "36v100a" reads as 36V
	voltagePattern = regexp.MustCompile(`(?:^|[^a-z0-9])(` + joinInts(KnownVoltages, "|") + `)\s?v(?:olts?)?(?:[^a-z]|$)`)

	// "150a", "150 amp", "60 amps", "300 amperes"; "150ah" is capacity, not current.
	// Word-bounded on the left except after a voltage token, so "36v100a" reads 100A
	// but "x120a" is a model code.
	amperagePattern = regexp.MustCompile(`(?:^|[^a-z0-9]|\dv)(\d{2,3})\s?(?:amperes?|amps?|a)(?:[^a-z0-9]|$)`)

	familyPattern = regexp.MustCompile(`(?:^|[^a-z0-9])(` + strings.Join(FamilyKeywords, "|") + `)([a-z0-9])(?:[^a-z0-9]|$)`)
)

// SpecExtractor derives a SpecSignature from a product record. Structured
// voltage and amperage are used only as a complete pair; otherwise both are
// read from free text (slug, name, description).
type SpecExtractor struct{}

// NewSpecExtractor creates a new spec extractor
func NewSpecExtractor() *SpecExtractor {
	return &SpecExtractor{}
}

// Extract returns the signature for p. It never fails: every field may
// independently come back nil.
func (e *SpecExtractor) Extract(p domain.ProductRecord) domain.SpecSignature {
	var sig domain.SpecSignature

	if p.Voltage != nil && p.Amperage != nil {
		sig.Voltage = domain.IntPtr(*p.Voltage)
		sig.Amperage = domain.IntPtr(*p.Amperage)
	} else {
		// a half-filled pair is not trusted; both values come from text
		text := searchText(p)
		sig.Voltage = ExtractVoltage(text)
		sig.Amperage = ExtractAmperage(text)
	}

	sig.Family = ExtractFamily(p.Slug)

	if p.Phase != nil && p.Phase.Known() {
		phase := *p.Phase
		sig.Phase = &phase
	} else if implied, ok := FamilyPhase(sig.Family); ok {
		sig.Phase = &implied
	}

	return sig
}

// searchText concatenates slug, name and description in that order, lowercased
func searchText(p domain.ProductRecord) string {
	return strings.ToLower(strings.Join([]string{p.Slug, p.Name, p.Description}, " "))
}

// ExtractVoltage returns the first known battery voltage in text order
func ExtractVoltage(text string) *int {
	return firstInt(voltagePattern, strings.ToLower(text))
}

// ExtractAmperage returns the first two or three digit current rating in text order
func ExtractAmperage(text string) *int {
	return firstInt(amperagePattern, strings.ToLower(text))
}

// ExtractFamily reads the product family tag (e.g. "green6") from a slug.
// Only the slug is consulted; prose in names and descriptions is too noisy.
func ExtractFamily(slug string) *string {
	m := familyPattern.FindStringSubmatch(strings.ToLower(slug))
	if m == nil {
		return nil
	}
	family := m[1] + m[2]
	return &family
}

// FamilyPhase returns the supply phase implied by a family suffix.
// ok is false when the family is nil or its suffix is not mapped.
func FamilyPhase(family *string) (domain.Phase, bool) {
	if family == nil || *family == "" {
		return "", false
	}
	suffix := (*family)[len(*family)-1:]
	switch {
	case singlePhaseSuffixes[suffix]:
		return domain.PhaseSingle, true
	case threePhaseSuffixes[suffix]:
		return domain.PhaseThree, true
	}
	return "", false
}

func firstInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, sep)
}
