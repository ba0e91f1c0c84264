package payroll

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/shared"
)

// FieldChange is the before/after pair of one changed ledger field
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// AuditDiff is a serialized-to-JSON map of the fields a transition changed
type AuditDiff map[string]FieldChange

// NewAuditDiff creates an empty diff
func NewAuditDiff() AuditDiff {
	return make(AuditDiff)
}

// Record adds a field change to the diff. Unchanged values are skipped.
func (d AuditDiff) Record(field, oldValue, newValue string) {
	if oldValue == newValue {
		return
	}
	d[field] = FieldChange{Old: oldValue, New: newValue}
}

// JSON returns the diff serialized as a JSON object
func (d AuditDiff) JSON() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseAuditDiff deserializes a diff from its JSON form
func ParseAuditDiff(data string) (AuditDiff, error) {
	if data == "" {
		return NewAuditDiff(), nil
	}
	var d AuditDiff
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, err
	}
	return d, nil
}

// AuditEntry is one immutable record of a single ledger state transition.
// Entries are append-only and are the sole source of ledger history; they
// are written in the same transaction as the mutation they describe.
type AuditEntry struct {
	ID        uuid.UUID    `json:"id"`
	LedgerID  uuid.UUID    `json:"ledger_id"`
	Action    LedgerAction `json:"action"`
	OldStatus LedgerStatus `json:"old_status"`
	NewStatus LedgerStatus `json:"new_status"`
	Diff      string       `json:"diff"` // JSON object of changed fields
	Reason    string       `json:"reason,omitempty"`
	ActorID   uuid.UUID    `json:"actor_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewAuditEntry creates an audit entry for a completed transition
func NewAuditEntry(ledgerID uuid.UUID, action LedgerAction, oldStatus, newStatus LedgerStatus, diff AuditDiff, reason string, actorID uuid.UUID) (*AuditEntry, error) {
	if ledgerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEDGER_ID", "Ledger ID is required")
	}
	serialized, err := diff.JSON()
	if err != nil {
		return nil, err
	}
	return &AuditEntry{
		ID:        uuid.New(),
		LedgerID:  ledgerID,
		Action:    action,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Diff:      serialized,
		Reason:    reason,
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}, nil
}
