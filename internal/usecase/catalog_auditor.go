package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/chargematch/backend/internal/domain"
)

// bucketPlaceholder stands in for any unresolved signature component
const bucketPlaceholder = "?"

// CatalogAuditor scans a whole catalog snapshot, buckets every product by
// derived signature and reports extraction gaps. It never drops a product
// and never stops at the first anomaly.
type CatalogAuditor struct {
	extractor *SpecExtractor
	now       func() time.Time
}

// NewCatalogAuditor creates a new catalog auditor
func NewCatalogAuditor() *CatalogAuditor {
	return &CatalogAuditor{
		extractor: NewSpecExtractor(),
		now:       time.Now,
	}
}

// Audit runs the full-catalog scan. Rows are always produced; callers that
// only want the summary can drop them.
func (a *CatalogAuditor) Audit(ctx context.Context, catalog []domain.ProductRecord) (*domain.AuditReport, error) {
	report := &domain.AuditReport{
		GeneratedAt: a.now().UTC(),
		Total:       len(catalog),
		Buckets:     []domain.AuditBucket{},
		Anomalies:   []domain.AnomalyRecord{},
		Rows:        make([]domain.AuditRow, 0, len(catalog)),
	}

	counts := make(map[string]int)

	for _, product := range catalog {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sig := a.extractor.Extract(product)
		key := BucketKey(sig)
		counts[key]++

		if sig.Complete() {
			report.Complete++
		}

		report.Anomalies = append(report.Anomalies, checkAnomalies(product, sig)...)
		report.Rows = append(report.Rows, domain.AuditRow{
			ID:        product.ID,
			Slug:      product.Slug,
			Name:      product.Name,
			Voltage:   sig.Voltage,
			Amperage:  sig.Amperage,
			Phase:     sig.Phase,
			Family:    sig.Family,
			BucketKey: key,
		})
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		report.Buckets = append(report.Buckets, domain.AuditBucket{Key: k, Count: counts[k]})
	}

	log.Printf("[AUDIT] Scanned %d products: %d complete, %d buckets, %d missing spec, %d phase mismatch",
		report.Total, report.Complete, len(report.Buckets),
		report.CountAnomalies(domain.AnomalyMissingSpec),
		report.CountAnomalies(domain.AnomalyPhaseMismatch))

	return report, nil
}

// BucketKey renders a signature as voltage|amperage|phase|family with "?"
// for each missing component.
func BucketKey(sig domain.SpecSignature) string {
	parts := []string{bucketPlaceholder, bucketPlaceholder, bucketPlaceholder, bucketPlaceholder}
	if sig.Voltage != nil {
		parts[0] = fmt.Sprintf("%d", *sig.Voltage)
	}
	if sig.Amperage != nil {
		parts[1] = fmt.Sprintf("%d", *sig.Amperage)
	}
	if sig.Phase != nil {
		parts[2] = string(*sig.Phase)
	}
	if sig.Family != nil {
		parts[3] = *sig.Family
	}
	return strings.Join(parts, "|")
}

func checkAnomalies(product domain.ProductRecord, sig domain.SpecSignature) []domain.AnomalyRecord {
	var out []domain.AnomalyRecord

	if !sig.Complete() {
		var missing []string
		if sig.Voltage == nil {
			missing = append(missing, "voltage")
		}
		if sig.Amperage == nil {
			missing = append(missing, "amperage")
		}
		out = append(out, domain.AnomalyRecord{
			Kind:      domain.AnomalyMissingSpec,
			ProductID: product.ID,
			Slug:      product.Slug,
			Detail:    "missing " + strings.Join(missing, " and "),
		})
	}

	if implied, ok := FamilyPhase(sig.Family); ok {
		if sig.Phase == nil || *sig.Phase != implied {
			derived := "unresolved"
			if sig.Phase != nil {
				derived = string(*sig.Phase)
			}
			out = append(out, domain.AnomalyRecord{
				Kind:      domain.AnomalyPhaseMismatch,
				ProductID: product.ID,
				Slug:      product.Slug,
				Detail:    fmt.Sprintf("family %s implies %s but derived phase is %s", *sig.Family, implied, derived),
			})
		}
	}

	return out
}
