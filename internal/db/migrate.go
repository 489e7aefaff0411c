package db

import (
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.SalesPerson{},
		&model.Customer{},
		&model.DailyReport{},
		&model.VisitRecord{},
		&model.Comment{},
	}
}

// Migrate runs database migrations on the global connection.
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs AutoMigrate on the given connection.
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", logger.Fields{
		"models_count": len(models),
	})
	return nil
}
