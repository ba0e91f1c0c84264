package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrpay/backend/internal/domain/shared"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 1 * 1024 * 1024 // 1MB max response

// HTTPDirectory implements the payroll EmployeeDirectory port against the
// employee directory service's REST API.
type HTTPDirectory struct {
	config     *Config
	httpClient *http.Client
}

// NewHTTPDirectory creates a directory client with the given configuration
func NewHTTPDirectory(config *Config) (*HTTPDirectory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &HTTPDirectory{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

type employeeResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		BaseSalary float64 `json:"base_salary"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Exists reports whether the employee is known to the directory
func (d *HTTPDirectory) Exists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	resp, status, err := d.getEmployee(ctx, employeeID)
	if err != nil {
		return false, err
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	if status != http.StatusOK || !resp.Success || resp.Data == nil {
		return false, fmt.Errorf("directory: unexpected response for employee %s (status %d)", employeeID, status)
	}
	return resp.Data.Status == "ACTIVE", nil
}

// BaseSalary returns the employee's current base salary
func (d *HTTPDirectory) BaseSalary(ctx context.Context, employeeID uuid.UUID) (decimal.Decimal, error) {
	resp, status, err := d.getEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}
	if status == http.StatusNotFound {
		return decimal.Zero, shared.ErrNotFound
	}
	if status != http.StatusOK || !resp.Success || resp.Data == nil {
		return decimal.Zero, fmt.Errorf("directory: unexpected response for employee %s (status %d)", employeeID, status)
	}
	return decimal.NewFromFloat(resp.Data.BaseSalary), nil
}

func (d *HTTPDirectory) getEmployee(ctx context.Context, employeeID uuid.UUID) (*employeeResponse, int, error) {
	url := strings.TrimRight(d.config.BaseURL, "/") + "/employees/" + employeeID.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("directory: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.config.APIKey)
	req.Header.Set("Accept", "application/json")

	httpResp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("directory: request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("directory: failed to read response: %w", err)
	}

	var resp employeeResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, httpResp.StatusCode, fmt.Errorf("directory: failed to parse response: %w", err)
		}
	}

	return &resp, httpResp.StatusCode, nil
}
