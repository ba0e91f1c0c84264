package dto

import (
	"net/http"
	"strings"
)

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
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
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
	// ErrCodeDuplicateLedger is used when a ledger already exists for the pair
	ErrCodeDuplicateLedger = "ERR_DUPLICATE_LEDGER"
	// ErrCodeLedgerLocked is used when a finalized ledger is recalculated
	ErrCodeLedgerLocked = "ERR_LEDGER_LOCKED"
	// ErrCodeInvalidTransition is used when a state machine action is not allowed
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	// ErrCodeNegativeNetPay is used when a calculation would go below zero
	ErrCodeNegativeNetPay = "ERR_NEGATIVE_NET_PAY"
	// ErrCodePeriodNotOpen is used when the target period rejects calculations
	ErrCodePeriodNotOpen = "ERR_PERIOD_NOT_OPEN"
	// ErrCodePeriodOverlap is used when an open period already covers the window
	ErrCodePeriodOverlap = "ERR_PERIOD_OVERLAP"
	// ErrCodeLockTimeout is used when a row lock could not be taken in time
	ErrCodeLockTimeout = "ERR_LOCK_TIMEOUT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
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

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateLedger:     http.StatusConflict,
	ErrCodePeriodOverlap:       http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeLedgerLocked:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeNegativeNetPay:    http.StatusUnprocessableEntity,
	ErrCodePeriodNotOpen:     http.StatusUnprocessableEntity,

	// Lock timeout is retryable -> 503 Service Unavailable
	ErrCodeLockTimeout: http.StatusServiceUnavailable,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

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

// DomainErrorCodeMapping maps domain error codes to wire codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                "ERR_NOT_FOUND",
	"ALREADY_EXISTS":           "ERR_ALREADY_EXISTS",
	"INVALID_INPUT":            "ERR_INVALID_INPUT",
	"INVALID_STATE":            "ERR_INVALID_STATE",
	"UNAUTHORIZED":             "ERR_UNAUTHORIZED",
	"FORBIDDEN":                "ERR_FORBIDDEN",
	"CONCURRENCY_CONFLICT":     "ERR_CONCURRENCY_CONFLICT",
	"VALIDATION_ERROR":         "ERR_VALIDATION",
	"BAD_REQUEST":              "ERR_BAD_REQUEST",
	"INTERNAL_ERROR":           "ERR_INTERNAL",
	"DUPLICATE_LEDGER":         "ERR_DUPLICATE_LEDGER",
	"LEDGER_LOCKED":            "ERR_LEDGER_LOCKED",
	"INVALID_TRANSITION":       "ERR_INVALID_TRANSITION",
	"NEGATIVE_NET_PAY":         "ERR_NEGATIVE_NET_PAY",
	"PERIOD_NOT_OPEN":          "ERR_PERIOD_NOT_OPEN",
	"PERIOD_OVERLAP":           "ERR_PERIOD_OVERLAP",
	"LOCK_TIMEOUT":             "ERR_LOCK_TIMEOUT",
	"EMPLOYEE_NOT_FOUND":       "ERR_NOT_FOUND",
	"NET_PAY_MISMATCH":         "ERR_BUSINESS_RULE",
	"INVALID_COMPONENT_CONFIG": "ERR_BUSINESS_RULE",
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Unmapped INVALID_* codes come from constructor validation and collapse
// to ERR_INVALID_INPUT; anything else passes through as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
