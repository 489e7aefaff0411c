package repository

import (
	"context"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerFilter struct {
	Keyword  string
	IsActive *bool
	Offset   int
	Limit    int
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	BulkCreate(ctx context.Context, customers []model.Customer, batchSize int) (int64, error)
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	FindActiveIDs(ctx context.Context, ids []uint) ([]uint, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	List(ctx context.Context, filter CustomerFilter) ([]model.Customer, int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	logger.Debug("Creating customer in database", logger.Fields{
		"customer_code": customer.CustomerCode,
	})

	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, logger.Fields{
			"customer_code": customer.CustomerCode,
		})
		return err
	}
	return nil
}

// BulkCreate inserts customers in batches, skipping codes that already exist.
// It returns the number of rows actually inserted.
func (r *customerRepository) BulkCreate(ctx context.Context, customers []model.Customer, batchSize int) (int64, error) {
	if len(customers) == 0 {
		return 0, nil
	}

	logger.Info("Bulk creating customers in database", logger.Fields{
		"count":      len(customers),
		"batch_size": batchSize,
	})

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "customer_code"}}, DoNothing: true}).
		CreateInBatches(customers, batchSize)
	if result.Error != nil {
		logger.Error("Failed to bulk create customers", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		logRead("Failed to find customer by ID in database", err, logger.Fields{
			"customer_id": id,
		})
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Customer{}).Where("customer_code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check customer code uniqueness", err, logger.Fields{
			"customer_code": code,
		})
		return false, err
	}
	return count > 0, nil
}

// FindActiveIDs returns the subset of ids that reference active customers.
func (r *customerRepository) FindActiveIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var active []uint
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Pluck("id", &active).Error
	if err != nil {
		logger.Error("Failed to check active customers", err, logger.Fields{
			"customer_ids": ids,
		})
		return nil, err
	}
	return active, nil
}

func (r *customerRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	logger.Debug("Updating customer in database", logger.Fields{
		"customer_id": id,
		"fields":      len(updates),
	})

	result := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update customer in database", result.Error, logger.Fields{
			"customer_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]model.Customer, int64, error) {
	logger.Debug("Listing customers from database", logger.Fields{
		"keyword": filter.Keyword,
		"offset":  filter.Offset,
		"limit":   filter.Limit,
	})

	query := r.db.WithContext(ctx).Model(&model.Customer{})
	if filter.Keyword != "" {
		query = query.Where(likeAny("name", "customer_code"), repeatArg(likePattern(filter.Keyword), 2)...)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count customers", err)
		return nil, 0, err
	}

	var customers []model.Customer
	err := query.Order("customer_code ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&customers).Error
	if err != nil {
		logger.Error("Failed to list customers", err)
		return nil, 0, err
	}

	return customers, total, nil
}
