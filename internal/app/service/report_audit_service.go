package service

import (
	"context"
	"time"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"github.com/ikkim/daily-report-backend/pkg/util"
)

// ReportAuditService finds members who have not filed their daily report.
type ReportAuditService interface {
	// FindMissingReports is the on-demand check for managers and admins,
	// limited to the actor's report scope. A nil date means the previous
	// workday.
	FindMissingReports(ctx context.Context, actor Actor, date *string) (*model.MissingReportSummary, error)
	// AuditPreviousWorkday checks every member for the workday before now.
	AuditPreviousWorkday(ctx context.Context, now time.Time) (*model.MissingReportSummary, error)
}

type reportAuditService struct {
	reportRepo repository.ReportRepository
	authz      AuthorizationService
	now        func() time.Time
}

func NewReportAuditService(reportRepo repository.ReportRepository, authz AuthorizationService) ReportAuditService {
	return &reportAuditService{
		reportRepo: reportRepo,
		authz:      authz,
		now:        time.Now,
	}
}

func (s *reportAuditService) FindMissingReports(ctx context.Context, actor Actor, date *string) (*model.MissingReportSummary, error) {
	if actor.Role != model.RoleManager && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden(apperrors.AuthzForbidden, "only managers and admins can audit missing reports")
	}

	day := util.PreviousWorkday(s.now())
	if date != nil && *date != "" {
		parsed, err := parseReportDate(*date)
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	scope, err := s.authz.ResolveReportScope(ctx, actor)
	if err != nil {
		return nil, classify("resolve audit scope", "report", err, logger.Fields{"actor_id": actor.ID})
	}

	var scopeIDs []uint
	if !scope.Unrestricted {
		scopeIDs = scope.OwnerIDs
	}
	return s.find(ctx, day, scopeIDs)
}

func (s *reportAuditService) AuditPreviousWorkday(ctx context.Context, now time.Time) (*model.MissingReportSummary, error) {
	day := util.PreviousWorkday(now)

	summary, err := s.find(ctx, day, nil)
	if err != nil {
		return nil, err
	}

	if len(summary.Missing) == 0 {
		logger.Info("All members filed their daily report", logger.Fields{
			"report_date": summary.ReportDate,
		})
		return summary, nil
	}

	codes := make([]string, 0, len(summary.Missing))
	for _, m := range summary.Missing {
		codes = append(codes, m.EmployeeCode)
	}
	logger.Warn("Members without a filed daily report", logger.Fields{
		"report_date":    summary.ReportDate,
		"missing_count":  len(summary.Missing),
		"employee_codes": codes,
	})
	return summary, nil
}

func (s *reportAuditService) find(ctx context.Context, day time.Time, scopeIDs []uint) (*model.MissingReportSummary, error) {
	persons, err := s.reportRepo.FindMissingReporters(ctx, day, model.FiledReportStatuses, scopeIDs)
	if err != nil {
		return nil, classify("find missing reporters", "report", err, logger.Fields{
			"report_date": util.FormatDate(day),
		})
	}

	missing := make([]model.MissingReporter, 0, len(persons))
	for _, p := range persons {
		missing = append(missing, model.MissingReporter{
			SalesPersonID: p.ID,
			EmployeeCode:  p.EmployeeCode,
			Name:          p.Name,
			ManagerID:     p.ManagerID,
		})
	}

	return &model.MissingReportSummary{
		ReportDate: util.FormatDate(day),
		Missing:    missing,
	}, nil
}
