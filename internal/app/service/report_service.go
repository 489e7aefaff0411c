package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"github.com/ikkim/daily-report-backend/pkg/util"
)

type ReportService interface {
	CreateReport(ctx context.Context, actor Actor, req *model.CreateReportRequest) (*model.DailyReportResponse, error)
	GetReport(ctx context.Context, actor Actor, id uint) (*model.DailyReportResponse, error)
	UpdateReport(ctx context.Context, actor Actor, id uint, req *model.UpdateReportRequest) (*model.DailyReportResponse, error)
	DeleteReport(ctx context.Context, actor Actor, id uint) error
	ListReports(ctx context.Context, actor Actor, query *model.ReportListQuery) ([]model.DailyReportResponse, model.Pagination, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	authz      AuthorizationService
	uow        repository.UnitOfWork
}

func NewReportService(
	reportRepo repository.ReportRepository,
	authz AuthorizationService,
	uow repository.UnitOfWork,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		authz:      authz,
		uow:        uow,
	}
}

func (s *reportService) CreateReport(ctx context.Context, actor Actor, req *model.CreateReportRequest) (*model.DailyReportResponse, error) {
	reportDate, err := parseReportDate(req.ReportDate)
	if err != nil {
		return nil, err
	}

	status := model.ReportStatusDraft
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalidStatus()
		}
		status = *req.Status
	}

	if len(req.VisitRecords) == 0 {
		return nil, apperrors.Validation(apperrors.ValidationRequired, "visit_records must contain at least one entry")
	}
	visits, err := prepareVisitInputs(req.VisitRecords)
	if err != nil {
		return nil, err
	}

	report := &model.DailyReport{
		SalesPersonID: actor.ID,
		ReportDate:    reportDate,
		Problem:       optionalText(req.Problem),
		Plan:          optionalText(req.Plan),
		Status:        status,
	}

	err = s.uow.Do(ctx, func(repos *repository.TxRepositories) error {
		exists, err := repos.Reports.ExistsForOwnerOnDate(ctx, actor.ID, reportDate, 0)
		if err != nil {
			return err
		}
		if exists {
			return duplicateReport(reportDate)
		}

		if err := ensureActiveCustomers(ctx, repos.Customers, visits); err != nil {
			return err
		}

		if err := repos.Reports.Create(ctx, report); err != nil {
			return err
		}

		records := make([]model.VisitRecord, len(visits))
		for i, v := range visits {
			records[i] = v.toRecord(report.ID, i)
		}
		return repos.Reports.CreateVisitRecords(ctx, records)
	})
	if err != nil {
		return nil, classify("create daily report", "report", err, logger.Fields{
			"sales_person_id": actor.ID,
			"report_date":     req.ReportDate,
		})
	}

	logger.Info("Daily report created", logger.Fields{
		"report_id":       report.ID,
		"sales_person_id": actor.ID,
		"visit_count":     len(visits),
	})

	return s.load(ctx, report.ID)
}

func (s *reportService) GetReport(ctx context.Context, actor Actor, id uint) (*model.DailyReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("find daily report", "report", err, logger.Fields{"report_id": id})
	}

	allowed, err := s.authz.CanViewReport(ctx, actor, report.SalesPersonID)
	if err != nil {
		return nil, classify("authorize report view", "report", err, logger.Fields{"report_id": id})
	}
	if !allowed {
		logger.Warn("Report view denied", logger.Fields{
			"report_id": id,
			"actor_id":  actor.ID,
			"role":      actor.Role,
		})
		return nil, apperrors.Forbidden(apperrors.AuthzForbidden, "you are not allowed to view this report")
	}

	resp := report.ToResponse()
	return &resp, nil
}

func (s *reportService) UpdateReport(ctx context.Context, actor Actor, id uint, req *model.UpdateReportRequest) (*model.DailyReportResponse, error) {
	err := s.uow.Do(ctx, func(repos *repository.TxRepositories) error {
		report, err := repos.Reports.FindHeader(ctx, id)
		if err != nil {
			return err
		}
		if !s.authz.CanEditReport(actor, report.SalesPersonID) {
			logger.Warn("Report edit denied", logger.Fields{
				"report_id": id,
				"actor_id":  actor.ID,
				"owner_id":  report.SalesPersonID,
			})
			return apperrors.Forbidden(apperrors.AuthzOwnerOnly, "only the owner can edit this report")
		}

		updates := map[string]interface{}{}

		if req.ReportDate != nil {
			newDate, err := parseReportDate(*req.ReportDate)
			if err != nil {
				return err
			}
			if !util.SameDay(newDate, report.ReportDate) {
				exists, err := repos.Reports.ExistsForOwnerOnDate(ctx, report.SalesPersonID, newDate, report.ID)
				if err != nil {
					return err
				}
				if exists {
					return duplicateReport(newDate)
				}
				updates["report_date"] = newDate
			}
		}
		if req.Problem != nil {
			updates["problem"] = optionalText(req.Problem)
		}
		if req.Plan != nil {
			updates["plan"] = optionalText(req.Plan)
		}
		if req.Status != nil {
			if !req.Status.Valid() {
				return invalidStatus()
			}
			updates["status"] = *req.Status
		}

		if req.VisitRecords == nil {
			return repos.Reports.UpdateFields(ctx, report.ID, updates)
		}

		if len(req.VisitRecords) == 0 {
			return apperrors.Validation(apperrors.ValidationRequired, "visit_records must contain at least one entry")
		}
		visits, err := prepareVisitInputs(req.VisitRecords)
		if err != nil {
			return err
		}
		if err := ensureActiveCustomers(ctx, repos.Customers, visits); err != nil {
			return err
		}

		existingIDs, err := repos.Reports.ListVisitRecordIDs(ctx, report.ID)
		if err != nil {
			return err
		}
		diff, err := diffVisitRecords(report.ID, existingIDs, visits)
		if err != nil {
			return err
		}

		if err := repos.Reports.UpdateFields(ctx, report.ID, updates); err != nil {
			return err
		}
		if err := repos.Reports.DeleteVisitRecords(ctx, report.ID, diff.toDelete); err != nil {
			return err
		}
		for i := range diff.toUpdate {
			if err := repos.Reports.UpdateVisitRecord(ctx, &diff.toUpdate[i]); err != nil {
				return err
			}
		}
		return repos.Reports.CreateVisitRecords(ctx, diff.toInsert)
	})
	if err != nil {
		return nil, classify("update daily report", "report", err, logger.Fields{
			"report_id": id,
			"actor_id":  actor.ID,
		})
	}

	logger.Info("Daily report updated", logger.Fields{
		"report_id":      id,
		"actor_id":       actor.ID,
		"visits_touched": req.VisitRecords != nil,
	})

	return s.load(ctx, id)
}

func (s *reportService) DeleteReport(ctx context.Context, actor Actor, id uint) error {
	report, err := s.reportRepo.FindHeader(ctx, id)
	if err != nil {
		return classify("find daily report", "report", err, logger.Fields{"report_id": id})
	}
	if !s.authz.CanEditReport(actor, report.SalesPersonID) {
		logger.Warn("Report delete denied", logger.Fields{
			"report_id": id,
			"actor_id":  actor.ID,
			"owner_id":  report.SalesPersonID,
		})
		return apperrors.Forbidden(apperrors.AuthzOwnerOnly, "only the owner can delete this report")
	}

	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return classify("delete daily report", "report", err, logger.Fields{"report_id": id})
	}

	logger.Info("Daily report deleted", logger.Fields{
		"report_id": id,
		"actor_id":  actor.ID,
	})
	return nil
}

func (s *reportService) ListReports(ctx context.Context, actor Actor, query *model.ReportListQuery) ([]model.DailyReportResponse, model.Pagination, error) {
	page, err := resolvePage(query.Page, query.PerPage)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	from, to, err := resolveDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if query.Status != nil && !query.Status.Valid() {
		return nil, model.Pagination{}, invalidStatus()
	}

	scope, err := s.authz.ResolveReportScope(ctx, actor)
	if err != nil {
		return nil, model.Pagination{}, classify("resolve report scope", "report", err, logger.Fields{"actor_id": actor.ID})
	}

	// An owner outside the scope yields an empty page, not a denial.
	if query.SalesPersonID != nil && !scope.Contains(*query.SalesPersonID) {
		logger.Debug("Report list owner filter outside scope", logger.Fields{
			"actor_id":        actor.ID,
			"sales_person_id": *query.SalesPersonID,
		})
		return []model.DailyReportResponse{}, page.Pagination(0), nil
	}

	filter := repository.ReportFilter{
		SalesPersonID: query.SalesPersonID,
		From:          from,
		To:            to,
		Status:        query.Status,
		CustomerID:    query.CustomerID,
		Keyword:       strings.TrimSpace(query.Keyword),
		Offset:        page.Offset(),
		Limit:         page.PerPage,
	}
	if !scope.Unrestricted {
		filter.ScopeIDs = scope.OwnerIDs
	}

	reports, total, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, classify("list daily reports", "report", err, logger.Fields{"actor_id": actor.ID})
	}

	items := make([]model.DailyReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, reports[i].ToResponse())
	}
	return items, page.Pagination(total), nil
}

func (s *reportService) load(ctx context.Context, id uint) (*model.DailyReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("reload daily report", "report", err, logger.Fields{"report_id": id})
	}
	resp := report.ToResponse()
	return &resp, nil
}

func parseReportDate(raw string) (time.Time, error) {
	d, err := util.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperrors.Validation(apperrors.ValidationInvalidInput, "report_date must be formatted as YYYY-MM-DD")
	}
	return d, nil
}

func duplicateReport(date time.Time) error {
	return apperrors.Conflict(apperrors.ReportAlreadyExists,
		fmt.Sprintf("a report for %s already exists", util.FormatDate(date)))
}

func invalidStatus() error {
	return apperrors.Validation(apperrors.ValidationInvalidInput, "status must be one of: draft submitted reviewed")
}

// optionalText stores blank text as NULL.
func optionalText(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
