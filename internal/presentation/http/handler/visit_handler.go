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

// VisitHandler handles visit HTTP requests
type VisitHandler struct {
	visitService *service.VisitService
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(visitService *service.VisitService) *VisitHandler {
	return &VisitHandler{visitService: visitService}
}

// CheckIn handles opening a visit
func (h *VisitHandler) CheckIn(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	visit, err := h.visitService.CheckIn(c.Request.Context(), GetTenantContext(c), &service.CheckInInput{
		BookerID:   *userID,
		CustomerID: customerID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checked in successfully", visit)
}

// CheckOut handles closing a visit
func (h *VisitHandler) CheckOut(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid visit id")
		return
	}

	var req request.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	visit, err := h.visitService.CheckOut(c.Request.Context(), GetTenantContext(c), id, &service.CheckOutInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checked out successfully", visit)
}

// List handles listing visits
func (h *VisitHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	var bookerID *uuid.UUID
	if bookerIDStr := c.Query("booker_id"); bookerIDStr != "" {
		if id, err := uuid.Parse(bookerIDStr); err == nil {
			bookerID = &id
		}
	}

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	result, err := h.visitService.ListVisits(c.Request.Context(), GetTenantContext(c), bookerID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Visits retrieved successfully", result)
}
