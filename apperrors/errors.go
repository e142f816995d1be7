package apperrors

import "errors"

var (
	// ErrNotFound marks a missing card, user or record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks rejected input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized marks a missing or rejected identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict marks a uniqueness violation such as a taken email.
	ErrConflict = errors.New("conflict")
	// ErrRemote wraps every failure talking to the remote store.
	ErrRemote = errors.New("remote store error")
)
