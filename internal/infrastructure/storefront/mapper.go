package storefront

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chargematch/backend/internal/domain"
)

// MapProduct converts a storefront product to a catalog record. Descriptions
// arrive as HTML and are flattened to text so spec extraction reads prose,
// not markup.
func MapProduct(p Product) (domain.ProductRecord, error) {
	if strings.TrimSpace(p.ID) == "" {
		return domain.ProductRecord{}, errors.New("missing id")
	}
	if strings.TrimSpace(p.Slug) == "" {
		return domain.ProductRecord{}, errors.New("missing slug")
	}

	record := domain.ProductRecord{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        strings.TrimSpace(p.Title),
		Description: HTMLToText(p.BodyHTML),
		Category:    p.Category,
		SKU:         p.SKU,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
	}

	if p.Specs != nil {
		record.Voltage = positive(p.Specs.Voltage)
		record.Amperage = positive(p.Specs.Amperage)
		if phase, ok := domain.ParsePhase(p.Specs.Phase); ok && phase.Known() {
			record.Phase = domain.PhasePtr(phase)
		}
	}

	return record, nil
}

// HTMLToText extracts the visible text of an HTML fragment, one space between blocks
func HTMLToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	if !strings.Contains(fragment, "<") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()

	// text nodes are joined with spaces so adjacent list items do not glue together
	var parts []string
	var walk func(sel *goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, s *goquery.Selection) {
			if goquery.NodeName(s) == "#text" {
				parts = append(parts, s.Text())
				return
			}
			walk(s)
		})
	}
	walk(doc.Find("body"))

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// positive drops zero and negative spec values, which feeds use for "not set"
func positive(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}
