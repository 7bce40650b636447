// Package services holds the error taxonomy shared by the directory
// services. Handlers translate these into HTTP statuses.
package services

import "errors"

var (
	// ErrNotFound signals an id or username that does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists signals a registration that collides with an
	// existing username or email.
	ErrAlreadyExists = errors.New("username or email already exists")

	// ErrUnauthenticated signals a mutating operation attempted with
	// no active session.
	ErrUnauthenticated = errors.New("not authenticated")
)
