package handler

import (
	"strconv"
	"time"

	"github.com/fieldserv/dms-api/internal/application/service"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/request"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/response"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles invoice creation
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	input := &service.CreateInvoiceInput{
		BookerID:    *userID,
		CustomerID:  customerID,
		InvoiceDate: req.InvoiceDate,
		IsCredit:    req.IsCredit,
	}
	for _, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product id")
			return
		}
		input.Lines = append(input.Lines, service.InvoiceLineInput{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), GetTenantContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles retrieving one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice id")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), GetTenantContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// List handles listing invoices (supports both page-based and cursor-based pagination)
func (h *InvoiceHandler) List(c *gin.Context) {
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if bookerIDStr := c.Query("booker_id"); bookerIDStr != "" {
		if bookerID, err := uuid.Parse(bookerIDStr); err == nil {
			params.BookerID = &bookerID
		}
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), GetTenantContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// listWithCursor handles listing invoices with cursor-based pagination
func (h *InvoiceHandler) listWithCursor(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))

	params := &repository.InvoiceCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search: c.Query("search"),
	}

	if bookerIDStr := c.Query("booker_id"); bookerIDStr != "" {
		if bookerID, err := uuid.Parse(bookerIDStr); err == nil {
			params.BookerID = &bookerID
		}
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	result, err := h.invoiceService.ListInvoicesWithCursor(c.Request.Context(), GetTenantContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoices retrieved successfully", result)
}

// Void handles voiding an invoice
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice id")
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), GetTenantContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice voided successfully", invoice)
}
