package application

import (
	"errors"

	"github.com/oksasatya/go-managebooks/internal/domain/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrUserInactive       = errors.New("user is inactive")
	ErrStorageDisabled    = errors.New("object storage not configured")
)

// notFoundAs swaps a repository miss for the given sentinel and passes any
// other error through.
func notFoundAs(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}

// IsNotFound reports whether err is one of the application not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrAssessmentNotFound)
}
