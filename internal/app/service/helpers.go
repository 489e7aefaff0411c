package service

import (
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/logger"
)

// classify converts err to an AppError for resource and logs anything that
// ends up INTERNAL, attributed to the service method that called it.
func classify(op, resource string, err error, fields logger.Fields) error {
	appErr := apperrors.FromStorage(err, resource)
	if appErr.Kind == apperrors.KindInternal {
		logger.ErrorDepth(1, "Failed to "+op, err, fields)
	}
	return appErr
}
