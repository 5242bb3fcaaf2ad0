package repository

import (
	"errors"
	"fmt"
	"strings"

	"quillpost/internal/apperr"

	"gorm.io/gorm"
)

// translate maps driver and gorm errors onto apperr kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated), isConstraintMessage(err):
		return fmt.Errorf("%w: %v", apperr.ErrConstraintViolation, err)
	}
	return err
}

// isConstraintMessage catches drivers whose errors gorm does not translate.
func isConstraintMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "violates foreign key")
}
