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

// ComponentHandler handles salary component catalog API endpoints
type ComponentHandler struct {
	BaseHandler
	componentService *apppayroll.ComponentService
}

// NewComponentHandler creates a new ComponentHandler
func NewComponentHandler(componentService *apppayroll.ComponentService) *ComponentHandler {
	return &ComponentHandler{
		componentService: componentService,
	}
}

// ComponentRequest represents a request to create or update a component
// @Description Request body for salary component catalog changes
type ComponentRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=100" example:"Income Tax"`
	Type             string  `json:"type" binding:"required,oneof=EARNING DEDUCTION TAX" example:"TAX"`
	Amount           float64 `json:"amount" binding:"gte=0" example:"0"`
	Percentage       float64 `json:"percentage" binding:"gte=0,lte=100" example:"10"`
	IsTaxable        bool    `json:"is_taxable" example:"false"`
	IsMandatory      bool    `json:"is_mandatory" example:"true"`
	CalculationOrder int     `json:"calculation_order" binding:"gte=0" example:"1"`
}

// ComponentResponse represents a salary component in API responses
// @Description Salary component response
type ComponentResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name" example:"Income Tax"`
	Type             string    `json:"type" example:"TAX"`
	Amount           float64   `json:"amount" example:"0"`
	Percentage       float64   `json:"percentage" example:"10"`
	IsTaxable        bool      `json:"is_taxable"`
	IsMandatory      bool      `json:"is_mandatory"`
	CalculationOrder int       `json:"calculation_order" example:"1"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version" example:"1"`
}

// Create godoc
// @Summary      Create a salary component
// @Description  Adds a new active component to the catalog
// @Tags         salary-components
// @Accept       json
// @Produce      json
// @Param        request body ComponentRequest true "Component creation request"
// @Success      201 {object} dto.Response{data=ComponentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/components [post]
func (h *ComponentHandler) Create(c *gin.Context) {
	var req ComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	component, err := h.componentService.CreateComponent(c.Request.Context(), toComponentRequest(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toComponentResponse(component))
}

// Update godoc
// @Summary      Update a salary component
// @Description  Replaces the component's attributes; finalized ledgers keep their own snapshots
// @Tags         salary-components
// @Accept       json
// @Produce      json
// @Param        id path string true "Component ID" format(uuid)
// @Param        request body ComponentRequest true "Component update request"
// @Success      200 {object} dto.Response{data=ComponentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/components/{id} [put]
func (h *ComponentHandler) Update(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid component ID format")
		return
	}

	var req ComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	component, err := h.componentService.UpdateComponent(c.Request.Context(), componentID, toComponentRequest(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toComponentResponse(component))
}

// Deactivate godoc
// @Summary      Deactivate a salary component
// @Description  Removes the component from future calculations; it stays in the catalog listing
// @Tags         salary-components
// @Produce      json
// @Param        id path string true "Component ID" format(uuid)
// @Success      200 {object} dto.Response{data=ComponentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/components/{id}/deactivate [post]
func (h *ComponentHandler) Deactivate(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid component ID format")
		return
	}

	component, err := h.componentService.DeactivateComponent(c.Request.Context(), componentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toComponentResponse(component))
}

// GetByID godoc
// @Summary      Get component by ID
// @Tags         salary-components
// @Produce      json
// @Param        id path string true "Component ID" format(uuid)
// @Success      200 {object} dto.Response{data=ComponentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payroll/components/{id} [get]
func (h *ComponentHandler) GetByID(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid component ID format")
		return
	}

	component, err := h.componentService.GetComponent(c.Request.Context(), componentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toComponentResponse(component))
}

// List godoc
// @Summary      List salary components
// @Description  Lists the catalog; pass active=true for the ordered active set used by calculations
// @Tags         salary-components
// @Produce      json
// @Param        active query bool false "Only active components"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]ComponentResponse}
// @Security     BearerAuth
// @Router       /payroll/components [get]
func (h *ComponentHandler) List(c *gin.Context) {
	if c.Query("active") == "true" {
		components, err := h.componentService.ListActiveComponents(c.Request.Context())
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		items := make([]ComponentResponse, len(components))
		for i := range components {
			items[i] = toComponentResponse(&components[i])
		}
		h.Success(c, items)
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.componentService.ListComponents(c.Request.Context(), toSharedFilter(listReq))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]ComponentResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toComponentResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

func toComponentRequest(req ComponentRequest) apppayroll.ComponentRequest {
	return apppayroll.ComponentRequest{
		Name:             req.Name,
		Type:             payroll.ComponentType(req.Type),
		Amount:           decimal.NewFromFloat(req.Amount),
		Percentage:       decimal.NewFromFloat(req.Percentage),
		IsTaxable:        req.IsTaxable,
		IsMandatory:      req.IsMandatory,
		CalculationOrder: req.CalculationOrder,
	}
}

func toComponentResponse(component *payroll.SalaryComponent) ComponentResponse {
	return ComponentResponse{
		ID:               component.ID.String(),
		Name:             component.Name,
		Type:             string(component.Type),
		Amount:           component.Amount.InexactFloat64(),
		Percentage:       component.Percentage.InexactFloat64(),
		IsTaxable:        component.IsTaxable,
		IsMandatory:      component.IsMandatory,
		CalculationOrder: component.CalculationOrder,
		IsActive:         component.IsActive,
		CreatedAt:        component.CreatedAt,
		UpdatedAt:        component.UpdatedAt,
		Version:          component.Version,
	}
}
