package domain

import "errors"

var (
	// ErrUnauthenticated is returned when a protected operation is reached without
	// a principal.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when an authenticated principal lacks the rights for
	// an operation.
	ErrForbidden = errors.New("access forbidden")
)

// ForbiddenError is an ErrForbidden with a message naming the attempted action,
// e.g. "You can only update your own profile".
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return ErrForbidden.Error()
	}
	return e.Message
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}
