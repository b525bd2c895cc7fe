package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidInput          = errors.New("invalid input")
	ErrChapterNotLinked      = errors.New("chapter head is not linked to a chapter")
	ErrRegistrationClosed    = errors.New("registration is closed for this chapter")
	ErrDuplicateRegistration = errors.New("an active registration already exists")
	ErrNotMember             = errors.New("student is not a member of this chapter")

	// ErrConditionFailed is returned by stores when a conditional write's guard does not hold.
	ErrConditionFailed = errors.New("condition failed")
)

// DuplicateRegistrationError names the status of the registration that blocks a new one.
type DuplicateRegistrationError struct {
	RegistrationID string
	Status         RegistrationStatus
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%s (status: %s)", ErrDuplicateRegistration.Error(), e.Status)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}
