package common

import (
	"errors"
	"fmt"
)

// Error is the single base type of all failures domx operations report to
// callers. Callers are expected to test for kind with errors.Is against one
// of the sentinels below and map it to user facing status.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

var (
	ErrInvalidCredential  = &Error{Kind: ErrorKindInvalidCredential}
	ErrResourceNotFound   = &Error{Kind: ErrorKindResourceNotFound}
	ErrNetworkUnavailable = &Error{Kind: ErrorKindNetworkUnavailable}
	ErrNoCompiledPage     = &Error{Kind: ErrorKindNoCompiledPage}
	ErrNoTemplateFound    = &Error{Kind: ErrorKindNoTemplateFound}
)

// NewError creates failure of requested kind, err may be nil.
func NewError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if len(e.Msg) > 0 {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is
// regardless of message and cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns kind of the first *Error in the chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
