package handler

import (
	"github.com/fieldserv/dms-api/internal/application/service"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/request"
	"github.com/fieldserv/dms-api/internal/presentation/http/dto/response"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SyncHandler handles mobile sync HTTP requests
type SyncHandler struct {
	syncService   *service.SyncService
	masterService *service.MasterDataService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *service.SyncService, masterService *service.MasterDataService) *SyncHandler {
	return &SyncHandler{syncService: syncService, masterService: masterService}
}

// Push handles an offline batch upload. The whole batch is atomic: on any
// record failure, nothing is kept and the response names the failed
// records.
func (h *SyncHandler) Push(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SyncPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	batch, err := buildBatch(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.syncService.Push(c.Request.Context(), GetTenantContext(c), *userID, batch)
	if err != nil {
		appErr := apperror.GetAppError(err)
		c.JSON(appErr.Code, gin.H{
			"success":        false,
			"message":        appErr.Message,
			"failed_records": resultFailures(result),
		})
		return
	}

	response.OK(c, "Batch applied successfully", result)
}

func resultFailures(result *service.SyncResult) []service.FailedRecord {
	if result == nil {
		return nil
	}
	return result.Failed
}

func buildBatch(req *request.SyncPushRequest) (*service.SyncBatch, error) {
	batch := &service.SyncBatch{}

	for _, cust := range req.Customers {
		batch.Customers = append(batch.Customers, service.SyncCustomerInput{
			LocalID:   cust.LocalID,
			Token:     cust.Token,
			Name:      cust.Name,
			Phone:     cust.Phone,
			Address:   cust.Address,
			Channel:   cust.Channel,
			Latitude:  cust.Latitude,
			Longitude: cust.Longitude,
		})
	}

	for _, visit := range req.Visits {
		batch.Visits = append(batch.Visits, service.SyncVisitInput{
			LocalID:     visit.LocalID,
			Token:       visit.Token,
			CustomerRef: visit.CustomerRef,
			CheckInAt:   visit.CheckInAt,
			CheckInLat:  visit.CheckInLat,
			CheckInLng:  visit.CheckInLng,
			CheckOutAt:  visit.CheckOutAt,
			CheckOutLat: visit.CheckOutLat,
			CheckOutLng: visit.CheckOutLng,
			Notes:       visit.Notes,
		})
	}

	for _, inv := range req.Invoices {
		lines := make([]service.InvoiceLineInput, 0, len(inv.Lines))
		for _, line := range inv.Lines {
			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				return nil, apperror.NewValidationMessage("Invalid product id in invoice " + inv.LocalID)
			}
			lines = append(lines, service.InvoiceLineInput{
				ProductID: productID,
				Quantity:  line.Quantity,
			})
		}
		batch.Invoices = append(batch.Invoices, service.SyncInvoiceInput{
			LocalID:     inv.LocalID,
			Token:       inv.Token,
			CustomerRef: inv.CustomerRef,
			InvoiceDate: inv.InvoiceDate,
			IsCredit:    inv.IsCredit,
			Lines:       lines,
		})
	}

	return batch, nil
}

// Master handles the read-only master-data pull
func (h *SyncHandler) Master(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	data, err := h.masterService.Snapshot(c.Request.Context(), GetTenantContext(c), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Master data retrieved successfully", data)
}
