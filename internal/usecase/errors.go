package usecase

import "errors"

// Usecase errors are wrapped with %w around the domain or storage cause; the
// HTTP layer picks a status from the sentinel alone.
var (
	// ErrInvalidInput rejects a request before storage is touched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is a missing team or game on read or update.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is a team name or slug already in use.
	ErrConflict = errors.New("conflict")
	// ErrOperationFailed is a delete that removed nothing, reported as a
	// server error.
	ErrOperationFailed = errors.New("operation failed")
)

// expected reports outcomes caused by the caller rather than the service.
func expected(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrConflict)
}
