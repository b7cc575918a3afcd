package service

import (
	"errors"

	"gorm.io/gorm"
)

// isNotFound reports whether err is the repository's "no such row" signal.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
