package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/daily-report-backend/internal/app/service"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/internal/middleware"
)

// currentActor reads the authenticated caller set by the auth middleware.
func currentActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthenticated(apperrors.AuthUnauthorized, "authentication required"))
		return service.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		apperrors.Respond(c, apperrors.Forbidden(apperrors.AuthzRoleNotFound, "role information is missing"))
		return service.Actor{}, false
	}
	return service.Actor{ID: userID, Role: role}, true
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.Respond(c, apperrors.Validation(apperrors.ValidationInvalidID, "invalid "+name))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Respond(c, apperrors.FromBindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid query parameters", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Respond(c, apperrors.FromBindingError(err))
		return false
	}
	return true
}
