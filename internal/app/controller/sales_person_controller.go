package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/service"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
)

type SalesPersonController struct {
	salesPersonService service.SalesPersonService
}

func NewSalesPersonController(salesPersonService service.SalesPersonService) *SalesPersonController {
	return &SalesPersonController{salesPersonService: salesPersonService}
}

// ListSalesPersons GET /api/v1/sales-persons
func (ctrl *SalesPersonController) ListSalesPersons(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var query model.SalesPersonListQuery
	if !bindQuery(c, &query) {
		return
	}

	persons, page, err := ctrl.salesPersonService.ListSalesPersons(c.Request.Context(), actor, &query)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales_persons": persons,
		"pagination":    page,
	})
}

// GetSalesPerson GET /api/v1/sales-persons/:id
func (ctrl *SalesPersonController) GetSalesPerson(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	person, err := ctrl.salesPersonService.GetSalesPerson(c.Request.Context(), actor, id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sales_person": person})
}

// CreateSalesPerson POST /api/v1/sales-persons
func (ctrl *SalesPersonController) CreateSalesPerson(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req model.CreateSalesPersonRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := ctrl.salesPersonService.CreateSalesPerson(c.Request.Context(), actor, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Sales person created successfully",
		"sales_person": person,
	})
}

// UpdateSalesPerson PUT /api/v1/sales-persons/:id
func (ctrl *SalesPersonController) UpdateSalesPerson(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateSalesPersonRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := ctrl.salesPersonService.UpdateSalesPerson(c.Request.Context(), actor, id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Sales person updated successfully",
		"sales_person": person,
	})
}

// DeleteSalesPerson deactivates an account
// DELETE /api/v1/sales-persons/:id
func (ctrl *SalesPersonController) DeleteSalesPerson(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.salesPersonService.DeleteSalesPerson(c.Request.Context(), actor, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sales person deactivated successfully"})
}
