package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrpay/backend/internal/domain/payroll"
)

// SignatureHeader carries the HMAC-SHA256 signature of the request body
const SignatureHeader = "X-Payroll-Signature"

// Errors for webhook configuration
var (
	ErrConfigMissingURL    = errors.New("notify: webhook URL is required")
	ErrConfigMissingSecret = errors.New("notify: webhook secret is required")
)

// WebhookConfig holds configuration for the ledger status webhook
type WebhookConfig struct {
	// URL is the endpoint notified on ledger status changes
	URL string
	// Secret signs the request body so receivers can verify origin
	Secret string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewWebhookConfig creates a webhook configuration with defaults
func NewWebhookConfig(url, secret string) *WebhookConfig {
	return &WebhookConfig{
		URL:            url,
		Secret:         secret,
		TimeoutSeconds: 10,
	}
}

// Validate validates the webhook configuration
func (c *WebhookConfig) Validate() error {
	if c.URL == "" {
		return ErrConfigMissingURL
	}
	if c.Secret == "" {
		return ErrConfigMissingSecret
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	return nil
}

// WebhookNotifier implements the payroll Notifier port by POSTing ledger
// status changes to a configured endpoint. Delivery is best-effort: the
// caller treats failures as log-and-continue.
type WebhookNotifier struct {
	config     *WebhookConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookNotifier creates a webhook notifier with the given configuration
func NewWebhookNotifier(config *WebhookConfig, logger *zap.Logger) (*WebhookNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

type statusPayload struct {
	LedgerID   string `json:"ledger_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

// NotifyLedgerStatus posts the transition to the configured endpoint
func (n *WebhookNotifier) NotifyLedgerStatus(ctx context.Context, ledgerID uuid.UUID, status payroll.LedgerStatus) error {
	payload := statusPayload{
		LedgerID:   ledgerID.String(),
		Status:     string(status),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, n.sign(body))

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("Ledger status notification delivered",
		zap.String("ledger_id", ledgerID.String()),
		zap.String("status", string(status)),
	)
	return nil
}

func (n *WebhookNotifier) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(n.config.Secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature against the body. Exposed
// so webhook receivers built on this package can validate payloads.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
