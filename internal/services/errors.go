package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/staffrevenue/revenue-manager/internal/database"
)

// ErrorKind classifies a failed operation so transports can answer consistently
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindNotFound            ErrorKind = "not_found"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindConflict            ErrorKind = "conflict"
	KindStoreUnavailable    ErrorKind = "store_unavailable"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindRateLimited         ErrorKind = "rate_limited"
	KindInternal            ErrorKind = "internal"
)

// Error is the error returned by every service operation
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, nil, format, args...)
}

func notFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func unauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, nil, format, args...)
}

// KindOf returns the kind of a service error, KindInternal for anything else
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a service error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// storeError translates a repository failure into a service error
func storeError(err error, action string) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case database.IsUnavailable(err):
		return newError(KindStoreUnavailable, err, "database is not available")
	case errors.Is(err, sql.ErrNoRows):
		return newError(KindNotFound, err, "%s: record not found", action)
	case database.IsUniqueViolation(err):
		return newError(KindConflict, err, "%s: record already exists", action)
	case database.IsForeignKeyViolation(err):
		return newError(KindValidation, err, "%s: referenced record does not exist", action)
	case database.IsCheckViolation(err):
		return newError(KindValidation, err, "%s: value out of range", action)
	}
	return newError(KindInternal, err, "failed to %s", action)
}
