package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/chargematch/backend/internal/domain"
)

// Sheet names of the audit workbook
const (
	SheetRows      = "Rows"
	SheetBuckets   = "Buckets"
	SheetAnomalies = "Anomalies"
)

var (
	rowHeaders     = []string{"id", "slug", "name", "voltage", "amperage", "phase", "family", "bucket_key"}
	bucketHeaders  = []string{"bucket_key", "count"}
	anomalyHeaders = []string{"kind", "product_id", "slug", "detail"}
)

// BuildAuditWorkbook lays the audit report out over three sheets
func BuildAuditWorkbook(report *domain.AuditReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRows); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetBuckets); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetAnomalies); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, []any{
			r.ID, r.Slug, r.Name,
			derefInt(r.Voltage), derefInt(r.Amperage), derefPhase(r.Phase), derefString(r.Family),
			r.BucketKey,
		})
	}
	if err := writeSheet(f, SheetRows, rowHeaders, rows); err != nil {
		return nil, err
	}

	buckets := make([][]any, 0, len(report.Buckets))
	for _, b := range report.Buckets {
		buckets = append(buckets, []any{b.Key, b.Count})
	}
	if err := writeSheet(f, SheetBuckets, bucketHeaders, buckets); err != nil {
		return nil, err
	}

	anomalies := make([][]any, 0, len(report.Anomalies))
	for _, a := range report.Anomalies {
		anomalies = append(anomalies, []any{string(a.Kind), a.ProductID, a.Slug, a.Detail})
	}
	if err := writeSheet(f, SheetAnomalies, anomalyHeaders, anomalies); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteAuditWorkbook streams the workbook to w
func WriteAuditWorkbook(report *domain.AuditReport, w io.Writer) error {
	f, err := BuildAuditWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

// SaveAuditWorkbook writes the workbook to outputPath, creating parent directories
func SaveAuditWorkbook(report *domain.AuditReport, outputPath string) error {
	f, err := BuildAuditWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}

	for i, row := range rows {
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
			}
		}
	}
	return nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func derefPhase(v *domain.Phase) string {
	if v == nil {
		return ""
	}
	return string(*v)
}
