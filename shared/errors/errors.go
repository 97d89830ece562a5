package errors

import (
	"errors"
	"net/http"
)

// Status codes of the ajax toggle contract. They are carried in the JSON
// envelope, never as the HTTP status line.
const (
	StatusFeatureDisabled  = 300
	StatusUnauthenticated  = 301
	StatusUnauthorized     = 302
	StatusNotFound         = 303
	StatusInvalidToken     = 304
	StatusStoreWriteFailed = 305
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func New(statusCode int, message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: statusCode}
}

// NotFound is what storage returns when a row does not exist.
func NotFound(message string) *ErrorWithStatusCode {
	return New(http.StatusNotFound, message)
}

// StatusCode extracts the status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode, true
	}
	return 0, false
}

// IsNotFound reports whether err carries http.StatusNotFound.
func IsNotFound(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusNotFound
}
