package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/logger"
)

type CommentService interface {
	ListComments(ctx context.Context, actor Actor, reportID uint) ([]model.CommentResponse, error)
	CreateComment(ctx context.Context, actor Actor, reportID uint, content string) (*model.CommentResponse, error)
	UpdateComment(ctx context.Context, actor Actor, commentID uint, content string) (*model.CommentResponse, error)
	DeleteComment(ctx context.Context, actor Actor, commentID uint) error
}

type commentService struct {
	reportRepo  repository.ReportRepository
	commentRepo repository.CommentRepository
	authz       AuthorizationService
}

func NewCommentService(
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	authz AuthorizationService,
) CommentService {
	return &commentService{
		reportRepo:  reportRepo,
		commentRepo: commentRepo,
		authz:       authz,
	}
}

func (s *commentService) ListComments(ctx context.Context, actor Actor, reportID uint) ([]model.CommentResponse, error) {
	if err := s.ensureViewable(ctx, actor, reportID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, classify("list comments", "comment", err, logger.Fields{"report_id": reportID})
	}

	items := make([]model.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, comments[i].ToResponse())
	}
	return items, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor Actor, reportID uint, content string) (*model.CommentResponse, error) {
	if err := s.ensureViewable(ctx, actor, reportID); err != nil {
		return nil, err
	}
	if !s.authz.CanPostComment(actor) {
		logger.Warn("Comment post denied", logger.Fields{
			"report_id": reportID,
			"actor_id":  actor.ID,
			"role":      actor.Role,
		})
		return nil, apperrors.Forbidden(apperrors.AuthzForbidden, "only managers and admins can comment on reports")
	}

	text, err := normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		DailyReportID: reportID,
		CommenterID:   actor.ID,
		Content:       text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, classify("create comment", "comment", err, logger.Fields{"report_id": reportID})
	}

	logger.Info("Comment created", logger.Fields{
		"comment_id": comment.ID,
		"report_id":  reportID,
		"actor_id":   actor.ID,
	})
	return s.load(ctx, comment.ID)
}

func (s *commentService) UpdateComment(ctx context.Context, actor Actor, commentID uint, content string) (*model.CommentResponse, error) {
	if _, err := s.findOwned(ctx, actor, commentID, "edit"); err != nil {
		return nil, err
	}

	text, err := normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateContent(ctx, commentID, text); err != nil {
		return nil, classify("update comment", "comment", err, logger.Fields{"comment_id": commentID})
	}

	logger.Info("Comment updated", logger.Fields{
		"comment_id": commentID,
		"actor_id":   actor.ID,
	})
	return s.load(ctx, commentID)
}

func (s *commentService) DeleteComment(ctx context.Context, actor Actor, commentID uint) error {
	if _, err := s.findOwned(ctx, actor, commentID, "delete"); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return classify("delete comment", "comment", err, logger.Fields{"comment_id": commentID})
	}

	logger.Info("Comment deleted", logger.Fields{
		"comment_id": commentID,
		"actor_id":   actor.ID,
	})
	return nil
}

func (s *commentService) ensureViewable(ctx context.Context, actor Actor, reportID uint) error {
	report, err := s.reportRepo.FindHeader(ctx, reportID)
	if err != nil {
		return classify("find daily report", "report", err, logger.Fields{"report_id": reportID})
	}

	allowed, err := s.authz.CanViewReport(ctx, actor, report.SalesPersonID)
	if err != nil {
		return classify("authorize report view", "report", err, logger.Fields{"report_id": reportID})
	}
	if !allowed {
		logger.Warn("Report comments access denied", logger.Fields{
			"report_id": reportID,
			"actor_id":  actor.ID,
		})
		return apperrors.Forbidden(apperrors.AuthzForbidden, "you are not allowed to view this report")
	}
	return nil
}

func (s *commentService) findOwned(ctx context.Context, actor Actor, commentID uint, action string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, classify("find comment", "comment", err, logger.Fields{"comment_id": commentID})
	}
	if !s.authz.CanMutateComment(actor, comment) {
		logger.Warn("Comment "+action+" denied", logger.Fields{
			"comment_id":   commentID,
			"actor_id":     actor.ID,
			"commenter_id": comment.CommenterID,
		})
		return nil, apperrors.Forbidden(apperrors.AuthzAuthorOnly, fmt.Sprintf("only the author can %s this comment", action))
	}
	return comment, nil
}

func (s *commentService) load(ctx context.Context, id uint) (*model.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("reload comment", "comment", err, logger.Fields{"comment_id": id})
	}
	resp := comment.ToResponse()
	return &resp, nil
}

// normalizeCommentContent trims content and checks its length in characters.
func normalizeCommentContent(content string) (string, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return "", apperrors.Validation(apperrors.ValidationRequired, "content is required")
	}
	if utf8.RuneCountInString(text) > model.CommentMaxLength {
		return "", apperrors.Validation(apperrors.ValidationInvalidRange,
			fmt.Sprintf("content must be at most %d characters", model.CommentMaxLength))
	}
	return text, nil
}
