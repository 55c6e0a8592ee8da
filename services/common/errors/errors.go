package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kind classes an application error for HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing required input -> 400
	KindNotFound               // identifier does not resolve -> 404
	KindStore                  // underlying persistence failure -> 500
)

// Error is the application error carried from service layers to the HTTP
// boundary. Message is client-visible; Err holds the internal cause and is
// logged server-side only.
type Error struct {
	Kind    Kind
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

// StatusCode maps the error kind onto an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: "Internal server error", Err: err}
}

// IsNotFound reports whether err is a not-found application error.
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindNotFound
}

// IsValidation reports whether err is a validation application error.
func IsValidation(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindValidation
}

// Respond writes err to the response. Validation and not-found messages are
// surfaced verbatim; store failures become a generic 500 with the cause
// logged for diagnosis.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Store(err)
	}

	if appErr.Kind == KindStore {
		zap.L().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr),
		)
	}

	c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
}
