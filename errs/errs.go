// Package errs defines the error taxonomy shared by the service layer and
// the HTTP boundary. Handlers classify with errors.As and decide whether to
// re-render a form, answer JSON, or fall back to a generic 500; infra
// detail is logged server-side and never echoed to the user.
package errs

import "fmt"

// ValidationError: malformed or missing input; user-correctable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError: a uniqueness constraint was violated (duplicate username).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthError: bad credentials. Deliberately carries one generic message so
// an unknown username and a wrong password are indistinguishable.
type AuthError struct{}

func (e *AuthError) Error() string { return "invalid username or password" }

// NotFoundError: the referenced book or user does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// StorageError: the object store failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError: the database failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persistence %s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// UpstreamError: the external catalog API failed.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("upstream search: %v", e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
