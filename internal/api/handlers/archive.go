package handlers

import (
	"net/http"
	"strconv"
	"time"

	"sales-warehouse/backend/internal/api"
	"sales-warehouse/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ArchiveHandler handles archive and restore requests for customer and
// product records
type ArchiveHandler struct {
	archiveService *service.ArchiveService
	validator      *validator.Validate
}

func NewArchiveHandler(archiveService *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{
		archiveService: archiveService,
		validator:      validator.New(),
	}
}

// ArchiveCustomersRequest lists the customer ids to archive
type ArchiveCustomersRequest struct {
	CustomerIDs []string `json:"customer_ids" validate:"required,min=1,dive,required"`
}

// ArchiveProductsRequest lists the product ids to archive
type ArchiveProductsRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1"`
}

// ArchiveByCutoffRequest carries the inactivity cutoff date
type ArchiveByCutoffRequest struct {
	Cutoff string `json:"cutoff" validate:"required"`
}

// parseCutoff reads a YYYY-MM-DD cutoff date
func parseCutoff(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	return t, err == nil
}

// PreviewArchive serves GET /archive/preview?cutoff=YYYY-MM-DD
func (h *ArchiveHandler) PreviewArchive(c *gin.Context) {
	cutoff, ok := parseCutoff(c.Query("cutoff"))
	if !ok {
		api.SendBadRequest(c, "cutoff must be a date in YYYY-MM-DD format")
		return
	}

	preview, err := h.archiveService.PreviewArchive(c.Request.Context(), cutoff)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, preview)
}

// ListCustomersToArchive serves GET /archive/customers?cutoff=YYYY-MM-DD
func (h *ArchiveHandler) ListCustomersToArchive(c *gin.Context) {
	cutoff, ok := parseCutoff(c.Query("cutoff"))
	if !ok {
		api.SendBadRequest(c, "cutoff must be a date in YYYY-MM-DD format")
		return
	}

	customers, err := h.archiveService.ListCustomersToArchive(c.Request.Context(), cutoff)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, customers)
}

// ListProductsToArchive serves GET /archive/products?cutoff=YYYY-MM-DD
func (h *ArchiveHandler) ListProductsToArchive(c *gin.Context) {
	cutoff, ok := parseCutoff(c.Query("cutoff"))
	if !ok {
		api.SendBadRequest(c, "cutoff must be a date in YYYY-MM-DD format")
		return
	}

	products, err := h.archiveService.ListProductsToArchive(c.Request.Context(), cutoff)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, products)
}

// ArchiveCustomers serves POST /archive/customers
func (h *ArchiveHandler) ArchiveCustomers(c *gin.Context) {
	var req ArchiveCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	count, err := h.archiveService.ArchiveCustomers(c.Request.Context(), req.CustomerIDs)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"archived": count})
}

// ArchiveProducts serves POST /archive/products
func (h *ArchiveHandler) ArchiveProducts(c *gin.Context) {
	var req ArchiveProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	count, err := h.archiveService.ArchiveProducts(c.Request.Context(), req.ProductIDs)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"archived": count})
}

// ArchiveByCutoff serves POST /archive/cutoff
func (h *ArchiveHandler) ArchiveByCutoff(c *gin.Context) {
	var req ArchiveByCutoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	cutoff, ok := parseCutoff(req.Cutoff)
	if !ok {
		api.SendBadRequest(c, "cutoff must be a date in YYYY-MM-DD format")
		return
	}

	counts, err := h.archiveService.ArchiveByCutoff(c.Request.Context(), cutoff)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, counts)
}

// RestoreCustomer serves POST /customers/:id/restore
func (h *ArchiveHandler) RestoreCustomer(c *gin.Context) {
	restored, err := h.archiveService.RestoreCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}
	if !restored {
		api.SendNotFound(c, "customer")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"restored": true})
}

// RestoreProduct serves POST /products/:id/restore
func (h *ArchiveHandler) RestoreProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.SendBadRequest(c, "product id must be an integer")
		return
	}

	restored, err := h.archiveService.RestoreProduct(c.Request.Context(), id)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}
	if !restored {
		api.SendNotFound(c, "product")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"restored": true})
}
