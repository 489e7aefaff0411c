package repository

import (
	"context"
	"time"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportFilter narrows a report listing. ScopeIDs nil means every owner;
// SalesPersonID is applied on top of the scope, so an owner outside the
// scope yields no rows.
type ReportFilter struct {
	ScopeIDs      []uint
	SalesPersonID *uint
	From          *time.Time
	To            *time.Time
	Status        *model.ReportStatus
	CustomerID    *uint
	Keyword       string
	Offset        int
	Limit         int
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.DailyReport) error
	FindByID(ctx context.Context, id uint) (*model.DailyReport, error)
	FindHeader(ctx context.Context, id uint) (*model.DailyReport, error)
	ExistsForOwnerOnDate(ctx context.Context, ownerID uint, date time.Time, excludeID uint) (bool, error)
	UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ReportFilter) ([]model.DailyReport, int64, error)
	FindMissingReporters(ctx context.Context, date time.Time, filed []model.ReportStatus, scopeIDs []uint) ([]model.SalesPerson, error)

	ListVisitRecordIDs(ctx context.Context, reportID uint) ([]uint, error)
	CreateVisitRecords(ctx context.Context, records []model.VisitRecord) error
	UpdateVisitRecord(ctx context.Context, record *model.VisitRecord) error
	DeleteVisitRecords(ctx context.Context, reportID uint, ids []uint) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func preloadReport(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SalesPerson").
		Preload("VisitRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("VisitRecords.Customer")
}

// Create inserts the report row only; visit records go through
// CreateVisitRecords.
func (r *reportRepository) Create(ctx context.Context, report *model.DailyReport) error {
	logger.Debug("Creating daily report in database", logger.Fields{
		"sales_person_id": report.SalesPersonID,
		"report_date":     report.ReportDate.Format("2006-01-02"),
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error; err != nil {
		logger.Error("Failed to create daily report in database", err, logger.Fields{
			"sales_person_id": report.SalesPersonID,
		})
		return err
	}
	return nil
}

func (r *reportRepository) FindByID(ctx context.Context, id uint) (*model.DailyReport, error) {
	logger.Debug("Finding daily report by ID in database", logger.Fields{
		"report_id": id,
	})

	var report model.DailyReport
	if err := preloadReport(r.db.WithContext(ctx)).First(&report, id).Error; err != nil {
		logRead("Failed to find daily report by ID in database", err, logger.Fields{
			"report_id": id,
		})
		return nil, err
	}
	return &report, nil
}

// FindHeader loads the report row without associations.
func (r *reportRepository) FindHeader(ctx context.Context, id uint) (*model.DailyReport, error) {
	var report model.DailyReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		logRead("Failed to find daily report header in database", err, logger.Fields{
			"report_id": id,
		})
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ExistsForOwnerOnDate(ctx context.Context, ownerID uint, date time.Time, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.DailyReport{}).
		Where("sales_person_id = ? AND report_date = ?", ownerID, date)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check daily report uniqueness", err, logger.Fields{
			"sales_person_id": ownerID,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateFields applies a partial update and always bumps updated_at.
func (r *reportRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error {
	logger.Debug("Updating daily report in database", logger.Fields{
		"report_id": id,
		"fields":    len(updates),
	})

	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&model.DailyReport{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update daily report in database", result.Error, logger.Fields{
			"report_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the report row; visit records and comments go with it
// through ON DELETE CASCADE.
func (r *reportRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting daily report from database", logger.Fields{
		"report_id": id,
	})

	result := r.db.WithContext(ctx).Delete(&model.DailyReport{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete daily report from database", result.Error, logger.Fields{
			"report_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]model.DailyReport, int64, error) {
	logger.Debug("Listing daily reports from database", logger.Fields{
		"scoped":  filter.ScopeIDs != nil,
		"keyword": filter.Keyword,
		"offset":  filter.Offset,
		"limit":   filter.Limit,
	})

	db := r.db.WithContext(ctx)
	query := db.Model(&model.DailyReport{})

	if filter.ScopeIDs != nil {
		query = query.Where("sales_person_id IN ?", nonEmptyIDs(filter.ScopeIDs))
	}
	if filter.SalesPersonID != nil {
		query = query.Where("sales_person_id = ?", *filter.SalesPersonID)
	}
	if filter.From != nil {
		query = query.Where("report_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("report_date <= ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		visits := db.Model(&model.VisitRecord{}).
			Select("daily_report_id").
			Where("customer_id = ?", *filter.CustomerID)
		query = query.Where("id IN (?)", visits)
	}
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		owners := db.Model(&model.SalesPerson{}).
			Select("id").
			Where(likeAny("name", "employee_code"), pattern, pattern)
		query = query.Where(
			db.Where(likeAny("problem", "plan"), pattern, pattern).
				Or("sales_person_id IN (?)", owners),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count daily reports", err)
		return nil, 0, err
	}

	var reports []model.DailyReport
	err := preloadReport(query).
		Order("report_date DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&reports).Error
	if err != nil {
		logger.Error("Failed to list daily reports", err)
		return nil, 0, err
	}

	return reports, total, nil
}

// FindMissingReporters returns active members without a report on date in
// one of the filed statuses. A nil scopeIDs means every member.
func (r *reportRepository) FindMissingReporters(ctx context.Context, date time.Time, filed []model.ReportStatus, scopeIDs []uint) ([]model.SalesPerson, error) {
	logger.Debug("Finding members without a filed report", logger.Fields{
		"report_date": date.Format("2006-01-02"),
		"scoped":      scopeIDs != nil,
	})

	db := r.db.WithContext(ctx)
	filedOwners := db.Model(&model.DailyReport{}).
		Select("sales_person_id").
		Where("report_date = ? AND status IN ?", date, filed)

	query := db.Model(&model.SalesPerson{}).
		Where("role = ? AND is_active = ?", model.RoleMember, true).
		Where("id NOT IN (?)", filedOwners)
	if scopeIDs != nil {
		query = query.Where("id IN ?", nonEmptyIDs(scopeIDs))
	}

	var persons []model.SalesPerson
	if err := query.Order("employee_code ASC").Find(&persons).Error; err != nil {
		logger.Error("Failed to find members without a filed report", err, logger.Fields{
			"report_date": date.Format("2006-01-02"),
		})
		return nil, err
	}
	return persons, nil
}

func (r *reportRepository) ListVisitRecordIDs(ctx context.Context, reportID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.VisitRecord{}).
		Where("daily_report_id = ?", reportID).
		Order("sort_order ASC, id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to list visit record ids", err, logger.Fields{
			"report_id": reportID,
		})
		return nil, err
	}
	return ids, nil
}

func (r *reportRepository) CreateVisitRecords(ctx context.Context, records []model.VisitRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&records).Error; err != nil {
		logger.Error("Failed to create visit records in database", err, logger.Fields{
			"report_id": records[0].DailyReportID,
			"count":     len(records),
		})
		return err
	}
	return nil
}

func (r *reportRepository) UpdateVisitRecord(ctx context.Context, record *model.VisitRecord) error {
	result := r.db.WithContext(ctx).Model(&model.VisitRecord{}).
		Where("id = ? AND daily_report_id = ?", record.ID, record.DailyReportID).
		Updates(map[string]interface{}{
			"customer_id": record.CustomerID,
			"visit_time":  record.VisitTime,
			"content":     record.Content,
			"sort_order":  record.SortOrder,
		})
	if result.Error != nil {
		logger.Error("Failed to update visit record in database", result.Error, logger.Fields{
			"visit_record_id": record.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepository) DeleteVisitRecords(ctx context.Context, reportID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Where("daily_report_id = ? AND id IN ?", reportID, ids).
		Delete(&model.VisitRecord{}).Error
	if err != nil {
		logger.Error("Failed to delete visit records from database", err, logger.Fields{
			"report_id": reportID,
			"ids":       ids,
		})
		return err
	}
	return nil
}
