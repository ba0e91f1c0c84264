package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{"valid", NewConfig("https://directory.internal", "key"), nil},
		{"missing base URL", &Config{APIKey: "key"}, ErrConfigMissingBaseURL},
		{"missing API key", &Config{BaseURL: "https://directory.internal"}, ErrConfigMissingAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("zero timeout gets a default", func(t *testing.T) {
		cfg := &Config{BaseURL: "https://directory.internal", APIKey: "key"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 10, cfg.TimeoutSeconds)
	})
}

func newDirectoryServer(t *testing.T, employees map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		id := r.URL.Path[len("/employees/"):]
		status, ok := employees[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"employee not found"}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"` + id + `","status":"` + status + `","base_salary":5000}}`))
	}))
}

func TestHTTPDirectory_Exists(t *testing.T) {
	activeID := uuid.New()
	inactiveID := uuid.New()

	server := newDirectoryServer(t, map[string]string{
		activeID.String():   "ACTIVE",
		inactiveID.String(): "TERMINATED",
	})
	defer server.Close()

	dir, err := NewHTTPDirectory(NewConfig(server.URL, "test-key"))
	require.NoError(t, err)

	t.Run("active employee exists", func(t *testing.T) {
		ok, err := dir.Exists(context.Background(), activeID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("terminated employee does not exist", func(t *testing.T) {
		ok, err := dir.Exists(context.Background(), inactiveID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown employee does not exist", func(t *testing.T) {
		ok, err := dir.Exists(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestHTTPDirectory_BaseSalary(t *testing.T) {
	employeeID := uuid.New()

	server := newDirectoryServer(t, map[string]string{
		employeeID.String(): "ACTIVE",
	})
	defer server.Close()

	dir, err := NewHTTPDirectory(NewConfig(server.URL, "test-key"))
	require.NoError(t, err)

	t.Run("returns base salary", func(t *testing.T) {
		salary, err := dir.BaseSalary(context.Background(), employeeID)
		require.NoError(t, err)
		assert.Equal(t, "5000", salary.String())
	})

	t.Run("unknown employee returns not found", func(t *testing.T) {
		_, err := dir.BaseSalary(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestHTTPDirectory_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dir, err := NewHTTPDirectory(NewConfig(server.URL, "test-key"))
	require.NoError(t, err)

	_, err = dir.Exists(context.Background(), uuid.New())
	assert.Error(t, err)

	_, err = dir.BaseSalary(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestNewHTTPDirectory_InvalidConfig(t *testing.T) {
	_, err := NewHTTPDirectory(&Config{})
	assert.ErrorIs(t, err, ErrConfigMissingBaseURL)
}
