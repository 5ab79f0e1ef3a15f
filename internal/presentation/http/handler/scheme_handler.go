package handler

import (
	"time"

	"github.com/fieldserv/dms-api/internal/application/service"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/request"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/response"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SchemeHandler handles discount scheme HTTP requests
type SchemeHandler struct {
	schemeService *service.SchemeService
}

// NewSchemeHandler creates a new scheme handler
func NewSchemeHandler(schemeService *service.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemeService: schemeService}
}

// ListActive handles listing the schemes live for the tenant today
func (h *SchemeHandler) ListActive(c *gin.Context) {
	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := utils.ParseDate(dateStr)
		if err != nil {
			response.BadRequest(c, "Invalid date")
			return
		}
		date = parsed
	}

	schemes, err := h.schemeService.ListActive(c.Request.Context(), GetTenantContext(c), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Schemes retrieved successfully", schemes)
}

// Create handles creating a discount scheme
func (h *SchemeHandler) Create(c *gin.Context) {
	var req request.SchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start date")
		return
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end date")
		return
	}

	input := &service.CreateSchemeInput{
		Name:       req.Name,
		StartDate:  startDate,
		EndDate:    endDate,
		FromQty:    req.FromQty,
		ToQty:      req.ToQty,
		PayoutType: enum.PayoutType(req.PayoutType),
		AmountLess: req.AmountLess,
		FreeQty:    req.FreeQty,
	}

	if input.TenantID, err = parseOptionalUUID(req.TenantID); err != nil {
		response.BadRequest(c, "Invalid tenant id")
		return
	}
	if input.ProductID, err = parseOptionalUUID(req.ProductID); err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}
	if input.BrandID, err = parseOptionalUUID(req.BrandID); err != nil {
		response.BadRequest(c, "Invalid brand id")
		return
	}
	if input.FreeProductID, err = parseOptionalUUID(req.FreeProductID); err != nil {
		response.BadRequest(c, "Invalid free product id")
		return
	}

	scheme, err := h.schemeService.CreateScheme(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Scheme created successfully", scheme)
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
