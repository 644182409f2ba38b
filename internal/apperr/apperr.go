// Package apperr defines the error kinds the core operations fail with.
// Every operation either fully succeeds or fails with exactly one of these;
// handlers map kinds to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Compare with errors.Is against the Kind* values.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindInvalidState
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindInvalidState:
		return "invalid_state"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error carries a kind plus a human-readable detail string.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// Is lets errors.Is(err, apperr.Validation("")) style checks match on kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Validation(detail string) error {
	return &Error{Kind: KindValidation, Detail: detail}
}

func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

func Authorization(detail string) error {
	return &Error{Kind: KindAuthorization, Detail: detail}
}

func InvalidState(detail string) error {
	return &Error{Kind: KindInvalidState, Detail: detail}
}

func NotFound(detail string) error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func Conflict(detail string) error {
	return &Error{Kind: KindConflict, Detail: detail}
}

// KindOf returns the kind of err, or 0 when err is not an apperr.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an apperr.Error of the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
