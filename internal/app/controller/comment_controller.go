package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/service"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// ListComments returns a report's comments oldest first
// GET /api/v1/reports/:id/comments
func (ctrl *CommentController) ListComments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := ctrl.commentService.ListComments(c.Request.Context(), actor, reportID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateComment posts a comment on a report
// POST /api/v1/reports/:id/comments
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := ctrl.commentService.CreateComment(c.Request.Context(), actor, reportID, req.Content)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

// UpdateComment edits the caller's own comment
// PUT /api/v1/comments/:id
func (ctrl *CommentController) UpdateComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := ctrl.commentService.UpdateComment(c.Request.Context(), actor, id, req.Content)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment removes the caller's own comment
// DELETE /api/v1/comments/:id
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.commentService.DeleteComment(c.Request.Context(), actor, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
