package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/service"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
)

type ReportController struct {
	reportService service.ReportService
	auditService  service.ReportAuditService
}

func NewReportController(reportService service.ReportService, auditService service.ReportAuditService) *ReportController {
	return &ReportController{
		reportService: reportService,
		auditService:  auditService,
	}
}

// ListReports returns reports visible to the caller
// GET /api/v1/reports
func (ctrl *ReportController) ListReports(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var query model.ReportListQuery
	if !bindQuery(c, &query) {
		return
	}

	reports, page, err := ctrl.reportService.ListReports(c.Request.Context(), actor, &query)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":    reports,
		"pagination": page,
	})
}

// CreateReport files a report for the caller
// POST /api/v1/reports
func (ctrl *ReportController) CreateReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req model.CreateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := ctrl.reportService.CreateReport(c.Request.Context(), actor, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Report created successfully",
		"report":  report,
	})
}

// GetReport returns one report with its visits
// GET /api/v1/reports/:id
func (ctrl *ReportController) GetReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := ctrl.reportService.GetReport(c.Request.Context(), actor, id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// UpdateReport applies a partial update
// PUT /api/v1/reports/:id
func (ctrl *ReportController) UpdateReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := ctrl.reportService.UpdateReport(c.Request.Context(), actor, id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report updated successfully",
		"report":  report,
	})
}

// DeleteReport removes a report with its visits and comments
// DELETE /api/v1/reports/:id
func (ctrl *ReportController) DeleteReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reportService.DeleteReport(c.Request.Context(), actor, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}

// ListMissingReports returns the members in scope without a filed report
// GET /api/v1/reports/missing?date=YYYY-MM-DD
func (ctrl *ReportController) ListMissingReports(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var query model.MissingReportQuery
	if !bindQuery(c, &query) {
		return
	}

	summary, err := ctrl.auditService.FindMissingReports(c.Request.Context(), actor, query.Date)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
