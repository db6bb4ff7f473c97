package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInUse              = errors.New("in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNoData             = errors.New("no data")
)

func validationError(err error) error {
	return fmt.Errorf("%w: %s", ErrValidation, err.Error())
}

// notFound maps a missing record to ErrNotFound and wraps anything else.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s #%d", ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to load %s #%d: %w", what, id, err)
}
