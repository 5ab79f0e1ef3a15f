package service

import (
	"errors"

	"github.com/fieldserv/dms-api/pkg/apperror"
	"gorm.io/gorm"
)

// translateDuplicate maps a unique-index violation to a conflict error so
// callers can distinguish "retry the number" from a real failure.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError("Duplicate record")
	}
	return err
}
