package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"forbidden", ErrCodeForbidden, http.StatusForbidden},
		{"duplicate ledger", ErrCodeDuplicateLedger, http.StatusConflict},
		{"period overlap", ErrCodePeriodOverlap, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"ledger locked", ErrCodeLedgerLocked, http.StatusUnprocessableEntity},
		{"invalid transition", ErrCodeInvalidTransition, http.StatusUnprocessableEntity},
		{"negative net pay", ErrCodeNegativeNetPay, http.StatusUnprocessableEntity},
		{"period not open", ErrCodePeriodNotOpen, http.StatusUnprocessableEntity},
		{"lock timeout is retryable", ErrCodeLockTimeout, http.StatusServiceUnavailable},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"rate limited", ErrCodeRateLimited, http.StatusTooManyRequests},
		{"unknown code falls back to 500", "ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"domain not found", "NOT_FOUND", ErrCodeNotFound},
		{"domain duplicate ledger", "DUPLICATE_LEDGER", ErrCodeDuplicateLedger},
		{"domain ledger locked", "LEDGER_LOCKED", ErrCodeLedgerLocked},
		{"domain lock timeout", "LOCK_TIMEOUT", ErrCodeLockTimeout},
		{"employee lookup miss maps to not found", "EMPLOYEE_NOT_FOUND", ErrCodeNotFound},
		{"component config maps to business rule", "INVALID_COMPONENT_CONFIG", ErrCodeBusinessRule},
		{"constructor validation collapses", "INVALID_COMPONENT_PERCENTAGE", ErrCodeInvalidInput},
		{"already wire format passes through", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	requestID := "req-12345"
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", requestID)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.Equal(t, requestID, resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "base_salary", Message: "must be greater than or equal to 0"},
		{Field: "period_id", Message: "is required"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-999", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "req-999", resp.Error.RequestID)
}

func TestErrorResponseSerialization(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeDuplicateLedger, "Ledger already exists", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeDuplicateLedger, decoded.Error.Code)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
