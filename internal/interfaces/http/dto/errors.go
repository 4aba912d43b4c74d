package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeInvalidCredentials is used when login fails
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeEmptyCart is used when an operation requires a non-empty cart
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
)

// Upload error codes
const (
	// ErrCodePayloadTooLarge is used when an uploaded file exceeds the size limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
	// ErrCodeUnsupportedMedia is used when a content type is not allowed
	ErrCodeUnsupportedMedia = "ERR_UNSUPPORTED_MEDIA"
	// ErrCodeUploadFailed is used when the storage backend rejects an upload
	ErrCodeUploadFailed = "ERR_UPLOAD_FAILED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request. An empty cart is a
	// validation failure on the request, not a state conflict.
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeEmptyCart:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	// Upload errors
	ErrCodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedMedia: http.StatusUnsupportedMediaType,
	ErrCodeUploadFailed:     http.StatusBadGateway,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to standardized API codes.
// Domain codes not listed here are treated as validation-style input errors.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"ITEM_NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":           ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
	"UNAUTHORIZED":             ErrCodeUnauthorized,
	"INVALID_CREDENTIALS":      ErrCodeInvalidCredentials,
	"FORBIDDEN":                ErrCodeForbidden,
	"INVALID_STATE":            ErrCodeInvalidState,
	"INVALID_STATE_TRANSITION": ErrCodeInvalidState,
	"INSUFFICIENT_STOCK":       ErrCodeInsufficientStock,
	"EMPTY_CART":               ErrCodeEmptyCart,
	"EMPTY_CHECKOUT":           ErrCodeEmptyCart,
	"EMPTY_ORDER":              ErrCodeEmptyCart,
	"ALREADY_PUBLISHED":        ErrCodeInvalidState,
	"CANNOT_PUBLISH":           ErrCodeInvalidState,
	"NOT_PUBLISHED":            ErrCodeInvalidState,
	"ALREADY_ARCHIVED":         ErrCodeInvalidState,
	"FILE_TOO_LARGE":           ErrCodePayloadTooLarge,
	"EMPTY_FILE":               ErrCodeBadRequest,
	"DISALLOWED_CONTENT_TYPE":  ErrCodeUnsupportedMedia,
	"UPLOAD_FAILED":            ErrCodeUploadFailed,
	"INTERNAL_ERROR":           ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Unknown domain codes map to ERR_INVALID_INPUT so that business validation
// failures surface as 400s rather than 500s.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeInvalidInput
}
