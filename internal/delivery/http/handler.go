package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chargematch/backend/internal/domain"
	"github.com/chargematch/backend/internal/infrastructure/export"
	"github.com/chargematch/backend/internal/observability"
)

// DefaultMatchCategory is the catalog category searched when a match request
// does not name one
const DefaultMatchCategory = "chargers"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Matcher ranks a catalog snapshot against a charger request
type Matcher interface {
	Enabled() bool
	Match(ctx context.Context, request *domain.MatchRequest, catalog []domain.ProductRecord) (*domain.MatchResult, error)
}

// Auditor summarizes a catalog snapshot
type Auditor interface {
	Audit(ctx context.Context, catalog []domain.ProductRecord) (*domain.AuditReport, error)
}

// CatalogSource hands out read-only catalog snapshots
type CatalogSource interface {
	Snapshot(ctx context.Context, category string) ([]domain.ProductRecord, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher Matcher
	auditor Auditor
	catalog CatalogSource
	metrics *observability.Metrics
}

// NewHandler creates a new HTTP handler. metrics may be nil.
func NewHandler(matcher Matcher, auditor Auditor, catalog CatalogSource, metrics *observability.Metrics) *Handler {
	return &Handler{
		matcher: matcher,
		auditor: auditor,
		catalog: catalog,
		metrics: metrics,
	}
}

// MatchRequestBody is the JSON body accepted by the match endpoint
type MatchRequestBody struct {
	Voltage  *int   `json:"voltage"`
	Amperage *int   `json:"amperage"`
	Phase    string `json:"phase"`
	Limit    int    `json:"limit"`
	Category string `json:"category"`
}

// ErrorResponse is the error envelope returned by every endpoint
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chargematch-backend",
		"version": "1.0.0",
	})
}

// MatchChargers handles charger recommendation requests
func (h *Handler) MatchChargers(c *gin.Context) {
	if h.matcher == nil || !h.matcher.Enabled() {
		h.metrics.MatchOutcome(observability.OutcomeDisabled)
		respondError(c, domain.ErrEngineDisabled)
		return
	}

	var body MatchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.metrics.MatchOutcome(observability.OutcomeInvalid)
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	request, err := body.toDomain()
	if err != nil {
		h.metrics.MatchOutcome(observability.OutcomeInvalid)
		respondError(c, err)
		return
	}

	category := strings.TrimSpace(body.Category)
	if category == "" {
		category = DefaultMatchCategory
	}

	ctx := c.Request.Context()
	catalog, err := h.catalog.Snapshot(ctx, category)
	if err != nil {
		h.metrics.MatchOutcome(observability.OutcomeError)
		respondError(c, err)
		return
	}

	result, err := h.matcher.Match(ctx, request, catalog)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEngineDisabled):
			h.metrics.MatchOutcome(observability.OutcomeDisabled)
		case errors.Is(err, domain.ErrInvalidRequest):
			h.metrics.MatchOutcome(observability.OutcomeInvalid)
		default:
			h.metrics.MatchOutcome(observability.OutcomeError)
		}
		respondError(c, err)
		return
	}

	h.metrics.ObserveMatchResult(result)
	c.JSON(http.StatusOK, result)
}

// AuditCatalog returns the audit report for a catalog category
func (h *Handler) AuditCatalog(c *gin.Context) {
	report, ok := h.audit(c)
	if !ok {
		return
	}

	if c.Query("rows") != "true" {
		report.Rows = nil
	}
	c.JSON(http.StatusOK, report)
}

// ExportAudit streams the audit report as an xlsx workbook
func (h *Handler) ExportAudit(c *gin.Context) {
	report, ok := h.audit(c)
	if !ok {
		return
	}

	f, err := export.BuildAuditWorkbook(report)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="catalog-audit.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		log.Printf("[AUDIT] Failed to stream workbook: %v", err)
		_ = c.Error(err)
	}
}

func (h *Handler) audit(c *gin.Context) (*domain.AuditReport, bool) {
	ctx := c.Request.Context()

	catalog, err := h.catalog.Snapshot(ctx, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	report, err := h.auditor.Audit(ctx, catalog)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	h.metrics.ObserveAudit(report)
	return report, true
}

// toDomain converts the wire body, normalizing phase aliases
func (b MatchRequestBody) toDomain() (*domain.MatchRequest, error) {
	request := &domain.MatchRequest{
		Voltage:  b.Voltage,
		Amperage: b.Amperage,
		Limit:    b.Limit,
	}

	if strings.TrimSpace(b.Phase) != "" {
		phase, ok := domain.ParsePhase(b.Phase)
		if !ok {
			return nil, fmt.Errorf("%w: unrecognized phase %q", domain.ErrInvalidRequest, b.Phase)
		}
		request.Phase = &phase
	}

	return request, nil
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEngineDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}

	c.JSON(status, ErrorResponse{
		Error: err.Error(),
		Code:  domain.ErrorCode(err),
	})
}
