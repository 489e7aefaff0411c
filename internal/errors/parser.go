package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// uniqueRule maps a violated index (postgres constraint name or sqlite
// column list) to the conflict reported to the client.
type uniqueRule struct {
	needles []string
	code    string
	message string
}

var uniqueRules = []uniqueRule{
	{
		needles: []string{"idx_daily_reports_owner_date", "daily_reports.report_date"},
		code:    ReportAlreadyExists,
		message: "a report for this date already exists",
	},
	{
		needles: []string{"idx_customers_customer_code", "customers.customer_code"},
		code:    CustomerCodeExists,
		message: "customer code is already in use",
	},
	{
		needles: []string{"idx_sales_persons_employee_code", "sales_persons.employee_code"},
		code:    SalesPersonCodeExists,
		message: "employee code is already in use",
	},
	{
		needles: []string{"idx_sales_persons_email", "sales_persons.email"},
		code:    SalesPersonEmailExists,
		message: "email is already in use",
	},
}

var notFoundCodes = map[string]string{
	"report":       ReportNotFound,
	"comment":      CommentNotFound,
	"customer":     CustomerNotFound,
	"sales person": SalesPersonNotFound,
}

// FromStorage classifies a persistence error for resource ("report",
// "customer", ...). Missing rows and unique violations keep their meaning;
// everything else becomes INTERNAL with the cause attached for logging.
func FromStorage(err error, resource string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundResource(resource)
	}

	if IsUniqueViolation(err) {
		return uniqueConflict(err)
	}

	if IsForeignKeyViolation(err) {
		return Wrap(err, KindValidation, ValidationInvalidID, fmt.Sprintf("%s references a record that does not exist", resource))
	}

	return Wrap(err, KindInternal, InternalDatabaseError, "an internal error occurred, please try again later")
}

// NotFoundResource builds the NOT_FOUND error for a named resource.
func NotFoundResource(resource string) *AppError {
	code, ok := notFoundCodes[resource]
	if !ok {
		code = ResourceNotFound
	}
	return NotFound(code, fmt.Sprintf("%s not found", resource))
}

// IsUniqueViolation reports whether err is a unique constraint failure on
// postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

func uniqueConflict(err error) *AppError {
	detail := strings.ToLower(err.Error())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail = strings.ToLower(pgErr.ConstraintName + " " + pgErr.Detail)
	}

	for _, rule := range uniqueRules {
		for _, needle := range rule.needles {
			if strings.Contains(detail, needle) {
				return Wrap(err, KindConflict, rule.code, rule.message)
			}
		}
	}
	return Wrap(err, KindConflict, ResourceAlreadyExists, "the record already exists")
}
