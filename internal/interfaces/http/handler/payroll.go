package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apppayroll "github.com/hrpay/backend/internal/application/payroll"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// PayrollHandler handles payroll ledger API endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *apppayroll.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *apppayroll.PayrollService) *PayrollHandler {
	return &PayrollHandler{
		payrollService: payrollService,
	}
}

// OverrideInput represents a manual override for one component
// @Description Manual override applied to a single salary component
type OverrideInput struct {
	ComponentID string  `json:"component_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Amount      float64 `json:"amount" binding:"gte=0" example:"250.00"`
	Reason      string  `json:"reason" binding:"required,min=1,max=500" example:"Pro-rated for mid-month start"`
}

// CreateLedgerRequest represents a request to create and calculate a ledger
// @Description Request body for creating a payroll ledger
type CreateLedgerRequest struct {
	EmployeeID    string          `json:"employee_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	PeriodID      string          `json:"period_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	BaseSalary    *float64        `json:"base_salary" binding:"omitempty,gte=0" example:"5000.00"`
	OvertimeHours float64         `json:"overtime_hours" binding:"gte=0" example:"8"`
	OvertimeRate  float64         `json:"overtime_rate" binding:"gte=0" example:"31.25"`
	BonusAmount   float64         `json:"bonus_amount" binding:"gte=0" example:"500.00"`
	Overrides     []OverrideInput `json:"overrides"`
}

// RecalculateLedgerRequest represents a request to recalculate a ledger
// @Description Request body for recalculating a not-yet-approved ledger
type RecalculateLedgerRequest struct {
	OvertimeHours float64         `json:"overtime_hours" binding:"gte=0" example:"10"`
	OvertimeRate  float64         `json:"overtime_rate" binding:"gte=0" example:"31.25"`
	BonusAmount   float64         `json:"bonus_amount" binding:"gte=0" example:"0"`
	Overrides     []OverrideInput `json:"overrides"`
}

// PayLedgerRequest represents a request to mark a ledger as paid
// @Description Request body for paying an approved ledger
type PayLedgerRequest struct {
	Method    string `json:"method" binding:"required,oneof=BANK_TRANSFER CASH CHECK" example:"BANK_TRANSFER"`
	Reference string `json:"reference" binding:"max=100" example:"TXN-2026-08-0042"`
}

// ReasonRequest represents a request carrying a mandatory reason
// @Description Request body for rejecting or cancelling a ledger
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Incorrect overtime hours"`
}

// LedgerComponentResponse represents an applied component snapshot
// @Description Applied salary component snapshot
type LedgerComponentResponse struct {
	ID               string  `json:"id"`
	ComponentID      string  `json:"component_id"`
	Name             string  `json:"name" example:"Income Tax"`
	Type             string  `json:"type" example:"TAX"`
	AppliedAmount    float64 `json:"applied_amount" example:"450.00"`
	CalculationOrder int     `json:"calculation_order" example:"1"`
	Overridden       bool    `json:"overridden" example:"false"`
	OverrideReason   string  `json:"override_reason,omitempty"`
}

// LedgerResponse represents a payroll ledger in API responses
// @Description Payroll ledger response
type LedgerResponse struct {
	ID               string                    `json:"id"`
	EmployeeID       string                    `json:"employee_id"`
	PeriodID         string                    `json:"period_id"`
	BaseSalary       float64                   `json:"base_salary" example:"5000.00"`
	GrossPay         float64                   `json:"gross_pay" example:"5500.00"`
	TotalDeductions  float64                   `json:"total_deductions" example:"50.00"`
	TotalTaxes       float64                   `json:"total_taxes" example:"550.00"`
	NetPay           float64                   `json:"net_pay" example:"4900.00"`
	OvertimeHours    float64                   `json:"overtime_hours" example:"8"`
	OvertimeRate     float64                   `json:"overtime_rate" example:"31.25"`
	OvertimePay      float64                   `json:"overtime_pay" example:"250.00"`
	BonusAmount      float64                   `json:"bonus_amount" example:"500.00"`
	Status           string                    `json:"status" example:"CALCULATED"`
	PaymentMethod    string                    `json:"payment_method,omitempty" example:"BANK_TRANSFER"`
	PaymentReference string                    `json:"payment_reference,omitempty"`
	PayDate          *time.Time                `json:"pay_date,omitempty"`
	ApprovedBy       *string                   `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time                `json:"approved_at,omitempty"`
	PaidBy           *string                   `json:"paid_by,omitempty"`
	PaidAt           *time.Time                `json:"paid_at,omitempty"`
	RejectedBy       *string                   `json:"rejected_by,omitempty"`
	RejectedAt       *time.Time                `json:"rejected_at,omitempty"`
	RejectReason     string                    `json:"reject_reason,omitempty"`
	CancelledBy      *string                   `json:"cancelled_by,omitempty"`
	CancelledAt      *time.Time                `json:"cancelled_at,omitempty"`
	CancelReason     string                    `json:"cancel_reason,omitempty"`
	Components       []LedgerComponentResponse `json:"components"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
	Version          int                       `json:"version" example:"2"`
}

// AuditEntryResponse represents one audit trail entry
// @Description Audit trail entry response
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	LedgerID  string    `json:"ledger_id"`
	Action    string    `json:"action" example:"APPROVED"`
	OldStatus string    `json:"old_status" example:"CALCULATED"`
	NewStatus string    `json:"new_status" example:"APPROVED"`
	Diff      string    `json:"diff"`
	Reason    string    `json:"reason,omitempty"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Create godoc
// @Summary      Create and calculate a payroll ledger
// @Description  Creates the ledger for an employee and period and runs the calculation in one transaction
// @Tags         payroll-ledgers
// @Accept       json
// @Produce      json
// @Param        request body CreateLedgerRequest true "Ledger creation request"
// @Success      201 {object} dto.Response{data=LedgerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers [post]
func (h *PayrollHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user could not be identified")
		return
	}

	var req CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}
	periodID, err := uuid.Parse(req.PeriodID)
	if err != nil {
		h.BadRequest(c, "Invalid period ID format")
		return
	}

	overrides, err := toOverrideMap(req.Overrides)
	if err != nil {
		h.BadRequest(c, "Invalid component ID in override")
		return
	}

	appReq := apppayroll.CreateAndCalculateRequest{
		EmployeeID:    employeeID,
		PeriodID:      periodID,
		OvertimeHours: decimal.NewFromFloat(req.OvertimeHours),
		OvertimeRate:  decimal.NewFromFloat(req.OvertimeRate),
		BonusAmount:   decimal.NewFromFloat(req.BonusAmount),
		Overrides:     overrides,
		ActorID:       actorID,
	}
	if req.BaseSalary != nil {
		appReq.BaseSalary = toDecimalPtr(*req.BaseSalary)
	}

	ledger, err := h.payrollService.CreateAndCalculate(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toLedgerResponse(ledger))
}

// Recalculate godoc
// @Summary      Recalculate a ledger
// @Description  Replaces the calculation inputs and reruns the calculation; rejected once the ledger is approved
// @Tags         payroll-ledgers
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Param        request body RecalculateLedgerRequest true "Recalculation request"
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers/{id}/recalculate [post]
func (h *PayrollHandler) Recalculate(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user could not be identified")
		return
	}

	ledgerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	var req RecalculateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	overrides, err := toOverrideMap(req.Overrides)
	if err != nil {
		h.BadRequest(c, "Invalid component ID in override")
		return
	}

	ledger, err := h.payrollService.Recalculate(c.Request.Context(), ledgerID, apppayroll.RecalculateRequest{
		OvertimeHours: decimal.NewFromFloat(req.OvertimeHours),
		OvertimeRate:  decimal.NewFromFloat(req.OvertimeRate),
		BonusAmount:   decimal.NewFromFloat(req.BonusAmount),
		Overrides:     overrides,
		ActorID:       actorID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toLedgerResponse(ledger))
}

// Approve godoc
// @Summary      Approve a calculated ledger
// @Description  Moves the ledger from CALCULATED to APPROVED; requires approval authority
// @Tags         payroll-ledgers
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers/{id}/approve [post]
func (h *PayrollHandler) Approve(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, ledgerID, actorID uuid.UUID) (*payroll.PayrollLedger, error) {
		return h.payrollService.Approve(ctx.Request.Context(), ledgerID, actorID)
	})
}

// Pay godoc
// @Summary      Pay an approved ledger
// @Description  Marks the ledger as PAID through the given method
// @Tags         payroll-ledgers
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Param        request body PayLedgerRequest true "Payment request"
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers/{id}/pay [post]
func (h *PayrollHandler) Pay(c *gin.Context) {
	var req PayLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.transition(c, func(ctx *gin.Context, ledgerID, actorID uuid.UUID) (*payroll.PayrollLedger, error) {
		return h.payrollService.Pay(ctx.Request.Context(), ledgerID, actorID,
			payroll.PaymentMethod(req.Method), req.Reference)
	})
}

// Reject godoc
// @Summary      Reject a ledger
// @Description  Rejects a pending or calculated ledger with a mandatory reason
// @Tags         payroll-ledgers
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Param        request body ReasonRequest true "Rejection reason"
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers/{id}/reject [post]
func (h *PayrollHandler) Reject(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.transition(c, func(ctx *gin.Context, ledgerID, actorID uuid.UUID) (*payroll.PayrollLedger, error) {
		return h.payrollService.Reject(ctx.Request.Context(), ledgerID, actorID, req.Reason)
	})
}

// Cancel godoc
// @Summary      Cancel a ledger
// @Description  Cancels a non-terminal ledger with a mandatory reason
// @Tags         payroll-ledgers
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Param        request body ReasonRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers/{id}/cancel [post]
func (h *PayrollHandler) Cancel(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.transition(c, func(ctx *gin.Context, ledgerID, actorID uuid.UUID) (*payroll.PayrollLedger, error) {
		return h.payrollService.Cancel(ctx.Request.Context(), ledgerID, actorID, req.Reason)
	})
}

// GetByID godoc
// @Summary      Get ledger by ID
// @Description  Retrieves a ledger with its component snapshots
// @Tags         payroll-ledgers
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Success      200 {object} dto.Response{data=LedgerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers/{id} [get]
func (h *PayrollHandler) GetByID(c *gin.Context) {
	ledgerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	ledger, err := h.payrollService.GetLedger(c.Request.Context(), ledgerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toLedgerResponse(ledger))
}

// List godoc
// @Summary      List payroll ledgers
// @Description  Lists ledgers with optional employee, period and status filters
// @Tags         payroll-ledgers
// @Produce      json
// @Param        employee_id query string false "Employee ID" format(uuid)
// @Param        period_id query string false "Period ID" format(uuid)
// @Param        status query string false "Ledger status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]LedgerResponse}
// @Security     BearerAuth
// @Router       /payroll/ledgers [get]
func (h *PayrollHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := payroll.LedgerFilter{Filter: toSharedFilter(listReq)}

	if v := c.Query("employee_id"); v != "" {
		employeeID, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid employee ID format")
			return
		}
		filter.EmployeeID = &employeeID
	}
	if v := c.Query("period_id"); v != "" {
		periodID, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid period ID format")
			return
		}
		filter.PeriodID = &periodID
	}
	if v := c.Query("status"); v != "" {
		status := payroll.LedgerStatus(v)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid ledger status")
			return
		}
		filter.Status = &status
	}

	page, err := h.payrollService.ListLedgers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]LedgerResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toLedgerResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// GetAuditTrail godoc
// @Summary      Get a ledger's audit trail
// @Description  Returns the chronological append-only audit entries for a ledger
// @Tags         payroll-ledgers
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]AuditEntryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/ledgers/{id}/audit [get]
func (h *PayrollHandler) GetAuditTrail(c *gin.Context) {
	ledgerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	trail, err := h.payrollService.GetAuditTrail(c.Request.Context(), ledgerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	entries := make([]AuditEntryResponse, len(trail))
	for i, entry := range trail {
		entries[i] = toAuditEntryResponse(entry)
	}

	h.Success(c, entries)
}

// transition runs one state machine action with shared actor and ID handling
func (h *PayrollHandler) transition(c *gin.Context, fn func(*gin.Context, uuid.UUID, uuid.UUID) (*payroll.PayrollLedger, error)) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user could not be identified")
		return
	}

	ledgerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	ledger, err := fn(c, ledgerID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toLedgerResponse(ledger))
}

func toOverrideMap(inputs []OverrideInput) (map[uuid.UUID]payroll.Override, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	overrides := make(map[uuid.UUID]payroll.Override, len(inputs))
	for _, in := range inputs {
		componentID, err := uuid.Parse(in.ComponentID)
		if err != nil {
			return nil, err
		}
		overrides[componentID] = payroll.Override{
			Amount: decimal.NewFromFloat(in.Amount),
			Reason: in.Reason,
		}
	}
	return overrides, nil
}

func toLedgerResponse(ledger *payroll.PayrollLedger) LedgerResponse {
	components := make([]LedgerComponentResponse, len(ledger.Components))
	for i, comp := range ledger.Components {
		components[i] = LedgerComponentResponse{
			ID:               comp.ID.String(),
			ComponentID:      comp.ComponentID.String(),
			Name:             comp.Name,
			Type:             string(comp.Type),
			AppliedAmount:    comp.AppliedAmount.InexactFloat64(),
			CalculationOrder: comp.CalculationOrder,
			Overridden:       comp.Overridden,
			OverrideReason:   comp.OverrideReason,
		}
	}

	return LedgerResponse{
		ID:               ledger.ID.String(),
		EmployeeID:       ledger.EmployeeID.String(),
		PeriodID:         ledger.PeriodID.String(),
		BaseSalary:       ledger.BaseSalary.InexactFloat64(),
		GrossPay:         ledger.GrossPay.InexactFloat64(),
		TotalDeductions:  ledger.TotalDeductions.InexactFloat64(),
		TotalTaxes:       ledger.TotalTaxes.InexactFloat64(),
		NetPay:           ledger.NetPay.InexactFloat64(),
		OvertimeHours:    ledger.OvertimeHours.InexactFloat64(),
		OvertimeRate:     ledger.OvertimeRate.InexactFloat64(),
		OvertimePay:      ledger.OvertimePay.InexactFloat64(),
		BonusAmount:      ledger.BonusAmount.InexactFloat64(),
		Status:           string(ledger.Status),
		PaymentMethod:    string(ledger.PaymentMethod),
		PaymentReference: ledger.PaymentReference,
		PayDate:          ledger.PayDate,
		ApprovedBy:       uuidPtrToString(ledger.ApprovedBy),
		ApprovedAt:       ledger.ApprovedAt,
		PaidBy:           uuidPtrToString(ledger.PaidBy),
		PaidAt:           ledger.PaidAt,
		RejectedBy:       uuidPtrToString(ledger.RejectedBy),
		RejectedAt:       ledger.RejectedAt,
		RejectReason:     ledger.RejectReason,
		CancelledBy:      uuidPtrToString(ledger.CancelledBy),
		CancelledAt:      ledger.CancelledAt,
		CancelReason:     ledger.CancelReason,
		Components:       components,
		CreatedAt:        ledger.CreatedAt,
		UpdatedAt:        ledger.UpdatedAt,
		Version:          ledger.Version,
	}
}

func toAuditEntryResponse(entry payroll.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID.String(),
		LedgerID:  entry.LedgerID.String(),
		Action:    string(entry.Action),
		OldStatus: string(entry.OldStatus),
		NewStatus: string(entry.NewStatus),
		Diff:      entry.Diff,
		Reason:    entry.Reason,
		ActorID:   entry.ActorID.String(),
		CreatedAt: entry.CreatedAt,
	}
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
