package payroll

import (
	"context"

	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerNotificationHandler forwards PAID and REJECTED transitions to the
// notification collaborator. Runs post-commit on the event bus; a notify
// failure is logged and never rolls back the transition.
type LedgerNotificationHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewLedgerNotificationHandler creates a new LedgerNotificationHandler
func NewLedgerNotificationHandler(notifier Notifier, logger *zap.Logger) *LedgerNotificationHandler {
	return &LedgerNotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *LedgerNotificationHandler) EventTypes() []string {
	return []string{
		payroll.EventTypeLedgerPaid,
		payroll.EventTypeLedgerRejected,
	}
}

// Handle dispatches the notification for a ledger status change
func (h *LedgerNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var status payroll.LedgerStatus
	switch e := event.(type) {
	case *payroll.LedgerPaidEvent:
		status = e.NewStatus
	case *payroll.LedgerRejectedEvent:
		status = e.NewStatus
	default:
		return nil
	}

	if err := h.notifier.NotifyLedgerStatus(ctx, event.AggregateID(), status); err != nil {
		h.logger.Warn("ledger status notification failed",
			zap.String("ledger_id", event.AggregateID().String()),
			zap.String("status", status.String()),
			zap.Error(err),
		)
	}
	return nil
}

// Ensure LedgerNotificationHandler implements EventHandler
var _ shared.EventHandler = (*LedgerNotificationHandler)(nil)
