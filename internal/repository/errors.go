package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "ezeats/internal/errors"
)

// translate maps GORM sentinel errors onto the domain taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrConflict
	default:
		return err
	}
}
