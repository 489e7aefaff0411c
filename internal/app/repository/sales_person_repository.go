package repository

import (
	"context"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
)

// SalesPersonFilter narrows a sales person listing. A nil ScopeIDs means
// unrestricted; an empty non-nil slice matches nothing.
type SalesPersonFilter struct {
	ScopeIDs []uint
	Keyword  string
	Role     *model.Role
	IsActive *bool
	Offset   int
	Limit    int
}

type SalesPersonRepository interface {
	Create(ctx context.Context, person *model.SalesPerson) error
	FindByID(ctx context.Context, id uint) (*model.SalesPerson, error)
	FindByEmail(ctx context.Context, email string) (*model.SalesPerson, error)
	ExistsByEmployeeCode(ctx context.Context, code string, excludeID uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	FindManagerID(ctx context.Context, id uint) (*uint, error)
	FindSubordinateIDs(ctx context.Context, managerID uint) ([]uint, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	List(ctx context.Context, filter SalesPersonFilter) ([]model.SalesPerson, int64, error)
}

type salesPersonRepository struct {
	db *gorm.DB
}

func NewSalesPersonRepository(db *gorm.DB) SalesPersonRepository {
	return &salesPersonRepository{db: db}
}

func (r *salesPersonRepository) Create(ctx context.Context, person *model.SalesPerson) error {
	logger.Debug("Creating sales person in database", logger.Fields{
		"employee_code": person.EmployeeCode,
	})

	if err := r.db.WithContext(ctx).Omit("Manager").Create(person).Error; err != nil {
		logger.Error("Failed to create sales person in database", err, logger.Fields{
			"employee_code": person.EmployeeCode,
		})
		return err
	}
	return nil
}

func (r *salesPersonRepository) FindByID(ctx context.Context, id uint) (*model.SalesPerson, error) {
	logger.Debug("Finding sales person by ID in database", logger.Fields{
		"sales_person_id": id,
	})

	var person model.SalesPerson
	if err := r.db.WithContext(ctx).Preload("Manager").First(&person, id).Error; err != nil {
		logRead("Failed to find sales person by ID in database", err, logger.Fields{
			"sales_person_id": id,
		})
		return nil, err
	}
	return &person, nil
}

func (r *salesPersonRepository) FindByEmail(ctx context.Context, email string) (*model.SalesPerson, error) {
	logger.Debug("Finding sales person by email in database", logger.Fields{
		"email": email,
	})

	var person model.SalesPerson
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&person).Error; err != nil {
		logRead("Failed to find sales person by email in database", err, logger.Fields{
			"email": email,
		})
		return nil, err
	}
	return &person, nil
}

func (r *salesPersonRepository) ExistsByEmployeeCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "employee_code = ?", code, excludeID)
}

func (r *salesPersonRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

func (r *salesPersonRepository) exists(ctx context.Context, cond string, value interface{}, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.SalesPerson{}).Where(cond, value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check sales person uniqueness", err, logger.Fields{
			"condition": cond,
		})
		return false, err
	}
	return count > 0, nil
}

// FindManagerID returns the manager_id of a sales person, nil when unset.
func (r *salesPersonRepository) FindManagerID(ctx context.Context, id uint) (*uint, error) {
	var person model.SalesPerson
	err := r.db.WithContext(ctx).Select("id", "manager_id").First(&person, id).Error
	if err != nil {
		logRead("Failed to resolve manager of sales person", err, logger.Fields{
			"sales_person_id": id,
		})
		return nil, err
	}
	return person.ManagerID, nil
}

func (r *salesPersonRepository) FindSubordinateIDs(ctx context.Context, managerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.SalesPerson{}).
		Where("manager_id = ?", managerID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to find subordinates in database", err, logger.Fields{
			"manager_id": managerID,
		})
		return nil, err
	}
	return ids, nil
}

func (r *salesPersonRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	logger.Debug("Updating sales person in database", logger.Fields{
		"sales_person_id": id,
		"fields":          len(updates),
	})

	result := r.db.WithContext(ctx).Model(&model.SalesPerson{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update sales person in database", result.Error, logger.Fields{
			"sales_person_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *salesPersonRepository) List(ctx context.Context, filter SalesPersonFilter) ([]model.SalesPerson, int64, error) {
	logger.Debug("Listing sales persons from database", logger.Fields{
		"keyword": filter.Keyword,
		"offset":  filter.Offset,
		"limit":   filter.Limit,
	})

	query := r.db.WithContext(ctx).Model(&model.SalesPerson{})
	if filter.ScopeIDs != nil {
		query = query.Where("id IN ?", nonEmptyIDs(filter.ScopeIDs))
	}
	if filter.Keyword != "" {
		query = query.Where(likeAny("name", "employee_code", "email"), repeatArg(likePattern(filter.Keyword), 3)...)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count sales persons", err)
		return nil, 0, err
	}

	var persons []model.SalesPerson
	err := query.Preload("Manager").
		Order("employee_code ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&persons).Error
	if err != nil {
		logger.Error("Failed to list sales persons", err)
		return nil, 0, err
	}

	return persons, total, nil
}
