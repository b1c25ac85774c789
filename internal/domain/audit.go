package domain

import "time"

// AnomalyKind labels a catalog data-quality finding
type AnomalyKind string

const (
	AnomalyMissingSpec   AnomalyKind = "missing_spec"
	AnomalyPhaseMismatch AnomalyKind = "phase_mismatch"
)

// AuditBucket counts products sharing one derived signature
type AuditBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// AnomalyRecord is one per-product audit finding
type AnomalyRecord struct {
	Kind      AnomalyKind `json:"kind"`
	ProductID string      `json:"productId"`
	Slug      string      `json:"slug"`
	Detail    string      `json:"detail"`
}

// AuditRow is the flat export line for one product
type AuditRow struct {
	ID        string  `json:"id"`
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Voltage   *int    `json:"voltage"`
	Amperage  *int    `json:"amperage"`
	Phase     *Phase  `json:"phase"`
	Family    *string `json:"family"`
	BucketKey string  `json:"bucketKey"`
}

// AuditReport is the full-catalog coverage report
type AuditReport struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Total       int             `json:"total"`
	Complete    int             `json:"complete"`
	Buckets     []AuditBucket   `json:"buckets"`
	Anomalies   []AnomalyRecord `json:"anomalies"`
	Rows        []AuditRow      `json:"rows,omitempty"`
}

// CountAnomalies returns how many anomalies of the given kind were recorded
func (r *AuditReport) CountAnomalies(kind AnomalyKind) int {
	n := 0
	for _, a := range r.Anomalies {
		if a.Kind == kind {
			n++
		}
	}
	return n
}
