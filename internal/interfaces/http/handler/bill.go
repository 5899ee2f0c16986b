package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	billingapp "github.com/hms/billing/internal/application/billing"
	"github.com/hms/billing/internal/domain/billing"
	"github.com/hms/billing/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// BillHandler handles bill-related API endpoints
type BillHandler struct {
	BaseHandler
	billingService *billingapp.BillingService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billingService *billingapp.BillingService) *BillHandler {
	return &BillHandler{
		billingService: billingService,
	}
}

// List godoc
// @Summary      List bills
// @Description  Retrieve a paginated list of bills with filtering, newest first
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        status query string false "Status" Enums(OPEN, PAID, VOID)
// @Param        patient_id query int false "Patient ID"
// @Param        appointment_id query int false "Appointment ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	var filter billingapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	bills, total, err := h.billingService.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, bills, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get bill by ID
// @Description  Retrieve a bill with its line items
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	id, ok := h.billID(c)
	if !ok {
		return
	}

	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Create godoc
// @Summary      Create bill
// @Description  Create an OPEN bill from line items, computing subtotal, tax and total
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBillRequest true "Bill creation payload"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := billingapp.CreateBillInput{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Notes:         req.Notes,
		LineItems:     make([]billing.LineItemRequest, len(req.LineItems)),
	}
	if req.TaxPercent != nil {
		tax := decimal.NewFromFloat(*req.TaxPercent)
		input.TaxPercent = &tax
	}
	for i, item := range req.LineItems {
		input.LineItems[i] = billing.LineItemRequest{
			Type:        item.Type,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
		}
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/v1/bills/%d", bill.BillID))
	h.Created(c, bill)
}

// MarkPaid godoc
// @Summary      Mark bill paid
// @Description  Record full payment of an open bill. The amount must equal the bill total exactly.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path int true "Bill ID"
// @Param        request body dto.MarkBillPaidRequest true "Payment payload"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id}/mark-paid [post]
func (h *BillHandler) MarkPaid(c *gin.Context) {
	id, ok := h.billID(c)
	if !ok {
		return
	}

	var req dto.MarkBillPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.MarkBillPaid(c.Request.Context(), id, decimal.NewFromFloat(*req.Amount))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Void godoc
// @Summary      Void bill
// @Description  Cancel a bill. A paid bill cannot be voided; voiding a voided bill is a no-op.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id}/void [post]
func (h *BillHandler) Void(c *gin.Context) {
	id, ok := h.billID(c)
	if !ok {
		return
	}

	bill, err := h.billingService.VoidBill(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

func (h *BillHandler) billID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid bill ID format")
		return 0, false
	}
	return id, true
}
