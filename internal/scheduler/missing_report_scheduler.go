package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/daily-report-backend/internal/app/service"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const auditTimeout = time.Minute

// MissingReportScheduler periodically logs the members who did not file a
// report for the previous workday.
type MissingReportScheduler struct {
	cron         *cron.Cron
	spec         string
	auditService service.ReportAuditService
}

func NewMissingReportScheduler(auditService service.ReportAuditService, spec string) *MissingReportScheduler {
	return &MissingReportScheduler{
		cron:         cron.New(),
		spec:         spec,
		auditService: auditService,
	}
}

// Start registers the audit job and starts the cron loop.
func (s *MissingReportScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		logger.Error("Failed to add cron job for missing report audit", err, logger.Fields{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Missing report scheduler started", logger.Fields{"spec": s.spec})
	return nil
}

// Stop waits for a running audit to finish.
func (s *MissingReportScheduler) Stop() {
	logger.Info("Stopping missing report scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Missing report scheduler stopped")
}

func (s *MissingReportScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	logger.Info("Starting scheduled missing report audit")
	if _, err := s.auditService.AuditPreviousWorkday(ctx, time.Now()); err != nil {
		logger.Error("Scheduled missing report audit failed", err)
	}
}
