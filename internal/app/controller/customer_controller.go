package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/service"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

// ListCustomers GET /api/v1/customers
func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var query model.CustomerListQuery
	if !bindQuery(c, &query) {
		return
	}

	customers, page, err := ctrl.customerService.ListCustomers(c.Request.Context(), actor, &query)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":  customers,
		"pagination": page,
	})
}

// GetCustomer GET /api/v1/customers/:id
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := ctrl.customerService.GetCustomer(c.Request.Context(), actor, id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// CreateCustomer POST /api/v1/customers
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req model.CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := ctrl.customerService.CreateCustomer(c.Request.Context(), actor, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer created successfully",
		"customer": customer,
	})
}

// UpdateCustomer PUT /api/v1/customers/:id
func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := ctrl.customerService.UpdateCustomer(c.Request.Context(), actor, id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer updated successfully",
		"customer": customer,
	})
}

// DeleteCustomer deactivates a customer
// DELETE /api/v1/customers/:id
func (ctrl *CustomerController) DeleteCustomer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.customerService.DeleteCustomer(c.Request.Context(), actor, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deactivated successfully"})
}
