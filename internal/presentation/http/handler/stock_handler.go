package handler

import (
	"strconv"

	"github.com/fieldserv/dms-api/internal/application/service"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/request"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/response"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock ledger HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// List handles listing the tenant's stock lines
func (h *StockHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	result, err := h.stockService.ListStock(c.Request.Context(), GetTenantContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock retrieved successfully", result)
}

// CreateReceipt handles recording a pending stock receipt
func (h *StockHandler) CreateReceipt(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateReceiptInput{
		UserID:       *userID,
		SupplierName: req.SupplierName,
		ReceiptDate:  req.ReceiptDate,
	}
	for _, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product id")
			return
		}
		input.Lines = append(input.Lines, service.ReceiptLineInput{
			ProductID:  productID,
			BatchNo:    line.BatchNo,
			ExpiryDate: line.ExpiryDate,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitCost,
		})
	}

	receipt, err := h.stockService.CreateReceipt(c.Request.Context(), GetTenantContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", receipt)
}

// ApproveReceipt handles posting a receipt into stock
func (h *StockHandler) ApproveReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt id")
		return
	}

	receipt, err := h.stockService.ApproveReceipt(c.Request.Context(), GetTenantContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt approved successfully", receipt)
}

// ListReceipts handles listing the tenant's stock receipts
func (h *StockHandler) ListReceipts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	result, err := h.stockService.ListReceipts(c.Request.Context(), GetTenantContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}
