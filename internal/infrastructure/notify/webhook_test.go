package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhookConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *WebhookConfig
		wantErr error
	}{
		{"valid", NewWebhookConfig("https://hooks.internal/payroll", "secret"), nil},
		{"missing URL", &WebhookConfig{Secret: "secret"}, ErrConfigMissingURL},
		{"missing secret", &WebhookConfig{URL: "https://hooks.internal/payroll"}, ErrConfigMissingSecret},
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
}

func TestWebhookNotifier_NotifyLedgerStatus(t *testing.T) {
	ledgerID := uuid.New()

	var receivedBody []byte
	var receivedSignature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedBody, _ = io.ReadAll(r.Body)
		receivedSignature = r.Header.Get(SignatureHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier, err := NewWebhookNotifier(NewWebhookConfig(server.URL, "test-secret"), zap.NewNop())
	require.NoError(t, err)

	err = notifier.NotifyLedgerStatus(context.Background(), ledgerID, payroll.LedgerStatusPaid)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(receivedBody, &payload))
	assert.Equal(t, ledgerID.String(), payload["ledger_id"])
	assert.Equal(t, string(payroll.LedgerStatusPaid), payload["status"])
	assert.NotEmpty(t, payload["occurred_at"])

	assert.True(t, VerifySignature("test-secret", receivedBody, receivedSignature))
	assert.False(t, VerifySignature("wrong-secret", receivedBody, receivedSignature))
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier, err := NewWebhookNotifier(NewWebhookConfig(server.URL, "test-secret"), zap.NewNop())
	require.NoError(t, err)

	err = notifier.NotifyLedgerStatus(context.Background(), uuid.New(), payroll.LedgerStatusRejected)
	assert.Error(t, err)
}

func TestNewWebhookNotifier_InvalidConfig(t *testing.T) {
	_, err := NewWebhookNotifier(&WebhookConfig{}, nil)
	assert.ErrorIs(t, err, ErrConfigMissingURL)
}
