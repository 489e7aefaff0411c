package service

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.commentService()
	ctx := context.Background()
	report := f.createReport(t, f.alice, "2025-01-15", f.acme.ID)

	t.Run("manager comment is trimmed", func(t *testing.T) {
		comment, err := svc.CreateComment(ctx, actorOf(f.carol), report.ID, "  hello  ")
		require.NoError(t, err)
		assert.Equal(t, "hello", comment.Content)
		assert.Equal(t, f.carol.ID, comment.CommenterID)
		assert.Equal(t, "Carol Kim", comment.CommenterName)
		assert.Equal(t, report.ID, comment.DailyReportID)
	})

	t.Run("admin may comment anywhere", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, actorOf(f.eve), report.ID, "noted")
		assert.NoError(t, err)
	})

	t.Run("owner member cannot comment", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, actorOf(f.alice), report.ID, "self review")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("manager of another team cannot comment", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, actorOf(f.dave), report.ID, "hi")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, actorOf(f.carol), report.ID, "   ")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("length counts characters", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, actorOf(f.carol), report.ID, strings.Repeat("가", 1000))
		assert.NoError(t, err)

		_, err = svc.CreateComment(ctx, actorOf(f.carol), report.ID, strings.Repeat("a", 1001))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("missing report", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, actorOf(f.carol), 9999, "hi")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCommentService_ListComments(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.commentService()
	ctx := context.Background()
	report := f.createReport(t, f.alice, "2025-01-15", f.acme.ID)

	first, err := svc.CreateComment(ctx, actorOf(f.carol), report.ID, "first")
	require.NoError(t, err)
	second, err := svc.CreateComment(ctx, actorOf(f.eve), report.ID, "second")
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, actorOf(f.alice), report.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)

	_, err = svc.ListComments(ctx, actorOf(f.bob), report.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	empty := f.createReport(t, f.alice, "2025-01-16", f.acme.ID)
	comments, err = svc.ListComments(ctx, actorOf(f.alice), empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	f := setupServiceFixture(t)
	svc := f.commentService()
	ctx := context.Background()
	report := f.createReport(t, f.alice, "2025-01-15", f.acme.ID)

	comment, err := svc.CreateComment(ctx, actorOf(f.carol), report.ID, "draft note")
	require.NoError(t, err)

	t.Run("admin cannot edit a manager's comment", func(t *testing.T) {
		_, err := svc.UpdateComment(ctx, actorOf(f.eve), comment.ID, "overwritten")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.Equal(t, apperrors.AuthzAuthorOnly, apperrors.AsAppError(err).Code)
	})

	t.Run("admin cannot delete a manager's comment", func(t *testing.T) {
		err := svc.DeleteComment(ctx, actorOf(f.eve), comment.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("author edits", func(t *testing.T) {
		updated, err := svc.UpdateComment(ctx, actorOf(f.carol), comment.ID, "  final note ")
		require.NoError(t, err)
		assert.Equal(t, "final note", updated.Content)
	})

	t.Run("author edit still validated", func(t *testing.T) {
		_, err := svc.UpdateComment(ctx, actorOf(f.carol), comment.ID, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("author deletes", func(t *testing.T) {
		require.NoError(t, svc.DeleteComment(ctx, actorOf(f.carol), comment.ID))
		err := svc.DeleteComment(ctx, actorOf(f.carol), comment.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, apperrors.CommentNotFound, apperrors.AsAppError(err).Code)
	})
}
