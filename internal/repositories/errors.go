package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError reports whether err is a unique-constraint violation.
// The string checks cover drivers opened without gorm.Config.TranslateError.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
