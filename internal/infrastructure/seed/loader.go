// Package seed loads catalog fixtures from YAML files.
package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chargematch/backend/internal/domain"
)

type file struct {
	Products []product `yaml:"products"`
}

type product struct {
	ID          string   `yaml:"id"`
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Voltage     *int     `yaml:"voltage"`
	Amperage    *int     `yaml:"amperage"`
	Phase       string   `yaml:"phase"`
	SKU         string   `yaml:"sku"`
	Price       *float64 `yaml:"price"`
	ImageURL    string   `yaml:"image_url"`
}

// LoadFile reads a YAML seed file
func LoadFile(path string) ([]domain.ProductRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Load decodes a YAML seed document. Every product needs an id and a slug,
// and ids must be unique.
func Load(r io.Reader) ([]domain.ProductRecord, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return []domain.ProductRecord{}, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	seen := make(map[string]bool, len(f.Products))
	out := make([]domain.ProductRecord, 0, len(f.Products))
	for i, p := range f.Products {
		id := strings.TrimSpace(p.ID)
		slug := strings.TrimSpace(p.Slug)
		if id == "" || slug == "" {
			return nil, fmt.Errorf("product %d: id and slug are required", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("product %d: duplicate id %q", i+1, id)
		}
		seen[id] = true

		record := domain.ProductRecord{
			ID:          id,
			Slug:        slug,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Voltage:     p.Voltage,
			Amperage:    p.Amperage,
			SKU:         p.SKU,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		}
		if p.Phase != "" {
			phase, ok := domain.ParsePhase(p.Phase)
			if !ok {
				return nil, fmt.Errorf("product %q: unknown phase %q", id, p.Phase)
			}
			if phase.Known() {
				record.Phase = domain.PhasePtr(phase)
			}
		}
		out = append(out, record)
	}

	return out, nil
}
