package repository

import (
	"errors"
	"strings"

	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
)

// likePattern builds a case-insensitive substring pattern. LIKE wildcards in
// the keyword are matched literally.
func likePattern(keyword string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}

// likeAny builds "LOWER(col) LIKE ? ESCAPE ..." joined with OR, one
// placeholder per column.
func likeAny(columns ...string) string {
	conds := make([]string, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}

// repeatArg returns v n times, for likeAny placeholders.
func repeatArg(v interface{}, n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = v
	}
	return args
}

// nonEmptyIDs keeps "IN ?" valid for an empty scope; id 0 never exists.
func nonEmptyIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}

// logRead logs a failed read. Missing rows are expected and logged at debug.
func logRead(msg string, err error, fields logger.Fields) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
