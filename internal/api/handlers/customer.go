package handlers

import (
	"errors"
	"net/http"

	"sales-warehouse/backend/internal/api"
	"sales-warehouse/backend/internal/db"
	"sales-warehouse/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CustomerHandler handles customer master maintenance requests
type CustomerHandler struct {
	customerRepo *repository.CustomerRepository
	validator    *validator.Validate
}

func NewCustomerHandler(customerRepo *repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{
		customerRepo: customerRepo,
		validator:    validator.New(),
	}
}

// UpsertCustomerRequest is the request body for creating or updating a
// customer master record
type UpsertCustomerRequest struct {
	CustomerID    string  `json:"customer_id" validate:"required,max=64"`
	CustomerName  string  `json:"customer_name" validate:"required,min=1,max=255"`
	ContactName   *string `json:"contact_name,omitempty" validate:"omitempty,max=255"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=64"`
	Fax           *string `json:"fax,omitempty" validate:"omitempty,max=64"`
	BillTo        *string `json:"bill_to,omitempty" validate:"omitempty,max=500"`
	BalanceTotal  float64 `json:"balance_total"`
	Market        string  `json:"market" validate:"required,oneof=Local Export Unknown"`
	MerchantGroup *string `json:"merchant_group,omitempty" validate:"omitempty,max=255"`
	AccountNumber *string `json:"account_number,omitempty" validate:"omitempty,max=64"`
}

// ListCustomers serves GET /customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	customers, err := h.customerRepo.ListCustomers(c.Request.Context(), includeArchived)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, customers)
}

// GetCustomer serves GET /customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerRepo.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "customer")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, customer)
}

// UpsertCustomer serves PUT /customers
func (h *CustomerHandler) UpsertCustomer(c *gin.Context) {
	var req UpsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	err := h.customerRepo.UpsertCustomer(c.Request.Context(), repository.UpsertCustomerRequest{
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		ContactName:   req.ContactName,
		Phone:         req.Phone,
		Fax:           req.Fax,
		BillTo:        req.BillTo,
		BalanceTotal:  req.BalanceTotal,
		Market:        req.Market,
		MerchantGroup: req.MerchantGroup,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"customer_id": req.CustomerID})
}

// NextCustomerID serves GET /customers/next-id
func (h *CustomerHandler) NextCustomerID(c *gin.Context) {
	next, err := h.customerRepo.NextCustomerID(c.Request.Context())
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"next_id": next})
}

// ListMarkets serves GET /customers/markets
func (h *CustomerHandler) ListMarkets(c *gin.Context) {
	markets, err := h.customerRepo.ListMarkets(c.Request.Context())
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, markets)
}

// ListMerchantGroups serves GET /customers/merchant-groups
func (h *CustomerHandler) ListMerchantGroups(c *gin.Context) {
	groups, err := h.customerRepo.ListMerchantGroups(c.Request.Context())
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, groups)
}
