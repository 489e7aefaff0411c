package repository

import (
	"context"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByReport(ctx context.Context, reportID uint) ([]model.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	logger.Debug("Creating comment in database", logger.Fields{
		"report_id":    comment.DailyReportID,
		"commenter_id": comment.CommenterID,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		logger.Error("Failed to create comment in database", err, logger.Fields{
			"report_id": comment.DailyReportID,
		})
		return err
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("Commenter").First(&comment, id).Error; err != nil {
		logRead("Failed to find comment by ID in database", err, logger.Fields{
			"comment_id": id,
		})
		return nil, err
	}
	return &comment, nil
}

// ListByReport returns comments oldest first.
func (r *commentRepository) ListByReport(ctx context.Context, reportID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Commenter").
		Where("daily_report_id = ?", reportID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to list comments from database", err, logger.Fields{
			"report_id": reportID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		logger.Error("Failed to update comment in database", result.Error, logger.Fields{
			"comment_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete comment from database", result.Error, logger.Fields{
			"comment_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
