// Package apperr carries a client-safe message and an HTTP-facing kind
// alongside the internal cause of a failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const genericMessage = "An unexpected error occurred."

type AppError struct {
	Kind      Kind
	PublicMsg string
	Fields    map[string]string // per-field validation messages
	Err       error             // logged, never rendered
}

func (e *AppError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.PublicMsg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

func newErr(k Kind, msg string) *AppError { return &AppError{Kind: k, PublicMsg: msg} }

func InvalidErr(msg string, fields map[string]string) *AppError {
	e := newErr(Invalid, msg)
	e.Fields = fields
	return e
}

func NotFoundErr(msg string) *AppError     { return newErr(NotFound, msg) }
func UnauthorizedErr(msg string) *AppError { return newErr(Unauthorized, msg) }
func ForbiddenErr(msg string) *AppError    { return newErr(Forbidden, msg) }
func ConflictErr(msg string) *AppError     { return newErr(Conflict, msg) }
func UnavailableErr(msg string) *AppError  { return newErr(Unavailable, msg) }

// UpstreamErr reports a failed call to the gateway or media host. msg is the
// upstream's own text and is shown to the caller.
func UpstreamErr(msg string, cause error) *AppError {
	e := newErr(Upstream, msg)
	e.Err = cause
	return e
}

// Wrap hides err behind the generic message.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Kind: Internal, PublicMsg: genericMessage, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		return ae.Kind.Status()
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" && ae.Kind.exposesMessage() {
		return ae.PublicMsg
	}
	return genericMessage
}
