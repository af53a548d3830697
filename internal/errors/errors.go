// Package errors provides coded domain errors shared by the archive services and the bot.
//
// Services return coded errors and callers branch on the code, never on the text:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    b.reply(ctx, chatID, textEntryNotFound, nil)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Is and As are the standard library functions, so callers need one import.
var (
	Is = errors.Is
	As = errors.As
)

// Code is a machine-readable error class.
type Code string

const (
	CodeNotFound    Code = "NOT_FOUND"
	CodeForbidden   Code = "FORBIDDEN"
	CodeValidation  Code = "VALIDATION"
	CodeUnsupported Code = "UNSUPPORTED"
	CodeConflict    Code = "CONFLICT"
	CodeInternal    Code = "INTERNAL"
)

// Error is a domain error. Two Errors match under errors.Is when their codes match.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == e.Code
}

// WithCause returns a copy of e wrapping err. e itself is not modified.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinels for errors.Is. Never mutate them; use WithCause.
var (
	ErrNotFound    = &Error{Code: CodeNotFound, Message: "not found"}
	ErrForbidden   = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrValidation  = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnsupported = &Error{Code: CodeUnsupported, Message: "unsupported content"}
	ErrConflict    = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal    = &Error{Code: CodeInternal, Message: "internal error"}
)

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func NotFound(msg string) *Error    { return newError(CodeNotFound, msg) }
func Forbidden(msg string) *Error   { return newError(CodeForbidden, msg) }
func Validation(msg string) *Error  { return newError(CodeValidation, msg) }
func Unsupported(msg string) *Error { return newError(CodeUnsupported, msg) }
func Conflict(msg string) *Error    { return newError(CodeConflict, msg) }

// Validationf formats a validation message.
func Validationf(format string, args ...any) *Error {
	return newError(CodeValidation, fmt.Sprintf(format, args...))
}

// ValidationWithDetails attaches per-field messages to a validation error.
func ValidationWithDetails(msg string, details any) *Error {
	e := newError(CodeValidation, msg)
	e.Details = details
	return e
}
