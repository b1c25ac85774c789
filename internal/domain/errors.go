package domain

import "errors"

var (
	// ErrEngineDisabled is returned when the matching engine is administratively turned off
	ErrEngineDisabled = errors.New("charger matching is disabled")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogUnavailable is returned when the catalog snapshot cannot be loaded
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrStorefrontFailure is returned when the upstream storefront API request fails
	ErrStorefrontFailure = errors.New("storefront API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// Reason codes surfaced to API clients so they can tell a disabled engine
// apart from an empty result.
const (
	CodeEngineDisabled     = "engine_disabled"
	CodeInvalidRequest     = "invalid_request"
	CodeCatalogUnavailable = "catalog_unavailable"
	CodeRateLimited        = "rate_limited"
)

// ErrorCode maps a service error to its client-facing reason code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEngineDisabled):
		return CodeEngineDisabled
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrCatalogUnavailable):
		return CodeCatalogUnavailable
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	}
	return "internal_error"
}
