package repository

import (
	"context"
	"fmt"

	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
)

// TxRepositories are repositories bound to one open transaction.
type TxRepositories struct {
	Reports      ReportRepository
	Customers    CustomerRepository
	SalesPersons SalesPersonRepository
	Comments     CommentRepository
}

func newTxRepositories(tx *gorm.DB) *TxRepositories {
	return &TxRepositories{
		Reports:      NewReportRepository(tx),
		Customers:    NewCustomerRepository(tx),
		SalesPersons: NewSalesPersonRepository(tx),
		Comments:     NewCommentRepository(tx),
	}
}

// UnitOfWork runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on any error or panic.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *TxRepositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos *TxRepositories) error) (err error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction", tx.Error)
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(newTxRepositories(tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			logger.Error("Failed to roll back transaction", rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit transaction", err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
