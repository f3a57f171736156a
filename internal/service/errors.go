package service

import (
	"errors"

	"snapdare/internal/models"

	"gorm.io/gorm"
)

// notFoundIfMissing converts gorm's record-not-found into the API's not-found
// error for the given resource; other errors pass through unchanged.
func notFoundIfMissing(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource)
	}
	return err
}
