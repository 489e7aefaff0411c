package errors

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine readable code
	Message string `json:"message"` // human readable message
}

// RespondWithError writes an error envelope with an explicit status.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Respond writes err using its kind's status. Foreign errors are reported as
// INTERNAL and their text is never sent to the client.
func Respond(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	RespondWithError(c, appErr.Kind.HTTPStatus(), appErr.Code, appErr.Message)
}

// AbortWith responds and stops the handler chain.
func AbortWith(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
