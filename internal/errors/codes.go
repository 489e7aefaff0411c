package errors

import "net/http"

// Kind is the abstract failure category every operation resolves to.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindInternal        Kind = "INTERNAL"
)

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error codes sent to clients in the "error" field.
// Format: CATEGORY_SPECIFIC_DETAIL
const (
	// auth
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthRateLimited        = "AUTH_RATE_LIMITED"

	// authorization
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"
	AuthzAuthorOnly   = "AUTHZ_AUTHOR_ONLY"

	// validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// reports
	ReportNotFound          = "REPORT_NOT_FOUND"
	ReportAlreadyExists     = "REPORT_ALREADY_EXISTS"
	ReportInactiveCustomer  = "REPORT_INACTIVE_CUSTOMER"
	ReportUnknownVisitEntry = "REPORT_UNKNOWN_VISIT_RECORD"

	// comments
	CommentNotFound = "COMMENT_NOT_FOUND"

	// customers
	CustomerNotFound   = "CUSTOMER_NOT_FOUND"
	CustomerCodeExists = "CUSTOMER_CODE_EXISTS"

	// sales persons
	SalesPersonNotFound       = "SALES_PERSON_NOT_FOUND"
	SalesPersonCodeExists     = "SALES_PERSON_CODE_EXISTS"
	SalesPersonEmailExists    = "SALES_PERSON_EMAIL_EXISTS"
	SalesPersonInvalidManager = "SALES_PERSON_INVALID_MANAGER"

	// internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
