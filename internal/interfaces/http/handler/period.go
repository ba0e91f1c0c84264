package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apppayroll "github.com/hrpay/backend/internal/application/payroll"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/interfaces/http/dto"
)

// dateLayout is the wire format for period boundary dates
const dateLayout = "2006-01-02"

// PeriodHandler handles payroll period API endpoints
type PeriodHandler struct {
	BaseHandler
	periodService *apppayroll.PeriodService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periodService *apppayroll.PeriodService) *PeriodHandler {
	return &PeriodHandler{
		periodService: periodService,
	}
}

// CreatePeriodRequest represents a request to create a payroll period
// @Description Request body for creating a payroll period
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100" example:"August 2026"`
	Type      string `json:"type" binding:"required,oneof=WEEKLY BIWEEKLY MONTHLY CUSTOM" example:"MONTHLY"`
	StartDate string `json:"start_date" binding:"required" example:"2026-08-01"`
	EndDate   string `json:"end_date" binding:"required" example:"2026-08-31"`
	PayDate   string `json:"pay_date" binding:"required" example:"2026-09-05"`
}

// PeriodResponse represents a payroll period in API responses
// @Description Payroll period response
type PeriodResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" example:"August 2026"`
	Type      string    `json:"type" example:"MONTHLY"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	PayDate   time.Time `json:"pay_date"`
	Status    string    `json:"status" example:"OPEN"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Create godoc
// @Summary      Create a payroll period
// @Description  Creates a new OPEN period; rejects windows overlapping an open period of the same type
// @Tags         payroll-periods
// @Accept       json
// @Produce      json
// @Param        request body CreatePeriodRequest true "Period creation request"
// @Success      201 {object} dto.Response{data=PeriodResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/periods [post]
func (h *PeriodHandler) Create(c *gin.Context) {
	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return
	}
	payDate, err := time.Parse(dateLayout, req.PayDate)
	if err != nil {
		h.BadRequest(c, "Invalid pay date, expected YYYY-MM-DD")
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), apppayroll.CreatePeriodRequest{
		Name:      req.Name,
		Type:      payroll.PeriodType(req.Type),
		StartDate: startDate,
		EndDate:   endDate,
		PayDate:   payDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toPeriodResponse(period))
}

// StartProcessing godoc
// @Summary      Move a period to PROCESSING
// @Tags         payroll-periods
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} dto.Response{data=PeriodResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/periods/{id}/process [post]
func (h *PeriodHandler) StartProcessing(c *gin.Context) {
	h.advance(c, h.periodService.StartProcessing)
}

// Close godoc
// @Summary      Close a period
// @Description  Moves the period from PROCESSING to CLOSED; no new calculations are accepted
// @Tags         payroll-periods
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} dto.Response{data=PeriodResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/periods/{id}/close [post]
func (h *PeriodHandler) Close(c *gin.Context) {
	h.advance(c, h.periodService.Close)
}

// Complete godoc
// @Summary      Complete a closed period
// @Tags         payroll-periods
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} dto.Response{data=PeriodResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/periods/{id}/complete [post]
func (h *PeriodHandler) Complete(c *gin.Context) {
	h.advance(c, h.periodService.Complete)
}

// GetByID godoc
// @Summary      Get period by ID
// @Tags         payroll-periods
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} dto.Response{data=PeriodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/periods/{id} [get]
func (h *PeriodHandler) GetByID(c *gin.Context) {
	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid period ID format")
		return
	}

	period, err := h.periodService.GetPeriod(c.Request.Context(), periodID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPeriodResponse(period))
}

// List godoc
// @Summary      List payroll periods
// @Tags         payroll-periods
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]PeriodResponse}
// @Security     BearerAuth
// @Router       /payroll/periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.periodService.ListPeriods(c.Request.Context(), toSharedFilter(listReq))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]PeriodResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toPeriodResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// FindCovering godoc
// @Summary      Find the period covering a date
// @Description  Returns the period of the given type whose window contains the date
// @Tags         payroll-periods
// @Produce      json
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Param        type query string true "Period type"
// @Success      200 {object} dto.Response{data=PeriodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/periods/covering [get]
func (h *PeriodHandler) FindCovering(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	periodType := payroll.PeriodType(c.Query("type"))
	if !periodType.IsValid() {
		h.BadRequest(c, "Invalid period type")
		return
	}

	period, err := h.periodService.FindCovering(c.Request.Context(), date, periodType)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPeriodResponse(period))
}

// advance runs one forward lifecycle step with shared ID handling
func (h *PeriodHandler) advance(c *gin.Context, fn func(context.Context, uuid.UUID) (*payroll.PayrollPeriod, error)) {
	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid period ID format")
		return
	}

	period, err := fn(c.Request.Context(), periodID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPeriodResponse(period))
}

func toPeriodResponse(period *payroll.PayrollPeriod) PeriodResponse {
	return PeriodResponse{
		ID:        period.ID.String(),
		Name:      period.Name,
		Type:      string(period.Type),
		StartDate: period.StartDate,
		EndDate:   period.EndDate,
		PayDate:   period.PayDate,
		Status:    string(period.Status),
		IsActive:  period.IsActive,
		CreatedAt: period.CreatedAt,
		UpdatedAt: period.UpdatedAt,
	}
}
