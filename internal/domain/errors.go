package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// IntegrityError indicates a stored content hash no longer matches
	// the physical file it describes
	IntegrityError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *IntegrityError) Error() string  { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *IntegrityError) StatusCode() int  { return http.StatusConflict }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrLinkage    = errors.New("managed file already linked")
	ErrIntegrity  = errors.New("content hash mismatch")
	ErrIO         = errors.New("file operation failed")
)

// ConflictError represents a name or path collision with details about the
// existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (managed_file, logical_document, version)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// LinkageError signals that a managed file is already consumed by a domain
// record (document version, project asset, or expense attachment). The
// one-file-one-record invariant is enforced by the file claims table's
// primary key spanning all record kinds, so this error originates from a
// constraint violation, never from a prior read.
type LinkageError struct {
	ManagedFileID string
	LinkType      string // "version", "asset" or "expense"
}

// Error implements the error interface
func (e *LinkageError) Error() string {
	return fmt.Sprintf("managed file %s is already linked to a %s", e.ManagedFileID, e.LinkType)
}

// StatusCode implements the HTTPError interface
func (e *LinkageError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrLinkage
func (e *LinkageError) Is(target error) bool {
	return target == ErrLinkage
}

// IOError wraps a filesystem failure with the path that was being operated
// on, for diagnosability.
type IOError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *IOError) Unwrap() error {
	return e.Err
}

// StatusCode implements the HTTPError interface
func (e *IOError) StatusCode() int {
	return http.StatusInternalServerError
}

// Is allows errors.Is() to match against ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
