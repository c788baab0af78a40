package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sales-warehouse/backend/internal/api"
	"sales-warehouse/backend/internal/db"
	"sales-warehouse/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductHandler handles product master requests
type ProductHandler struct {
	productRepo *repository.ProductRepository
}

func NewProductHandler(productRepo *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

// ListProducts serves GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	products, err := h.productRepo.ListProducts(c.Request.Context(), includeArchived)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, products)
}

// GetProduct serves GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.SendBadRequest(c, "product id must be an integer")
		return
	}

	product, err := h.productRepo.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "product")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, product)
}

// NextProductID serves GET /products/next-id
func (h *ProductHandler) NextProductID(c *gin.Context) {
	next, err := h.productRepo.NextProductID(c.Request.Context())
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"next_id": next})
}
