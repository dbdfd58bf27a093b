package core

import (
	"errors"
	"net/http"
	"strings"
)

type ErrorCode string

const (
	ErrorCodeBadGateway          ErrorCode = "BAD_GATEWAY"
	ErrorCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrorCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrorCodeInternalServerError ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrorCodeMetaUnavailable     ErrorCode = "META_UNAVAILABLE"
	ErrorCodeMethodNotAllowed    ErrorCode = "METHOD_NOT_ALLOWED"
	ErrorCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrorCodeTooManyRequests     ErrorCode = "TOO_MANY_REQUESTS"
	ErrorCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
)

var statusCodeByErrorCode = map[ErrorCode]int{
	ErrorCodeBadGateway:          http.StatusBadGateway,
	ErrorCodeBadRequest:          http.StatusBadRequest,
	ErrorCodeForbidden:           http.StatusForbidden,
	ErrorCodeInternalServerError: http.StatusInternalServerError,
	ErrorCodeMetaUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrorCodeNotFound:            http.StatusNotFound,
	ErrorCodeTooManyRequests:     http.StatusTooManyRequests,
	ErrorCodeUnauthorized:        http.StatusUnauthorized,
}

type Error struct {
	Code       ErrorCode `json:"code"`
	Msg        string    `json:"message"`
	StatusCode int       `json:"-"`
	StoreName  string    `json:"store_name,omitempty"`
	Cause      error     `json:"-"`
}

func NewError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Msg: msg, StatusCode: statusCodeByErrorCode[code]}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	if e.StoreName != "" {
		sb.WriteString(" [" + e.StoreName + "]")
	}
	if e.Msg != "" {
		sb.WriteString(": " + e.Msg)
	}
	if e.Cause != nil {
		sb.WriteString(": " + e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

func (e *Error) WithStoreName(name string) *Error {
	e.StoreName = name
	return e
}

func (e *Error) GetStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	if code, ok := statusCodeByErrorCode[e.Code]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// ErrorCodeOf returns the code of the outermost *Error in err's chain.
func ErrorCodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsAuthError(err error) bool {
	switch ErrorCodeOf(err) {
	case ErrorCodeUnauthorized, ErrorCodeForbidden:
		return true
	}
	return false
}

// IsFatal reports whether err must abort a resolution instead of degrading
// it to fewer results.
func IsFatal(err error) bool {
	switch ErrorCodeOf(err) {
	case ErrorCodeUnauthorized, ErrorCodeForbidden, ErrorCodeBadRequest, ErrorCodeMetaUnavailable:
		return true
	}
	return false
}
