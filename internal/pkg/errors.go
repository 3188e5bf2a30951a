package pkg

import (
	"errors"
	"net/http"
)

// Error 业务错误，Status 对应 HTTP 状态码，Code 为错误类别
type Error struct {
	Status int
	Code   string
	Msg    string
	base   *Error
}

func (e *Error) Error() string {
	return e.Msg
}

// Is 让 WithMsg 派生出来的错误仍然能被 errors.Is 识别为原始类别
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == e || (e.base != nil && t == e.base)
}

// WithMsg 同一类别，换一个面向用户的提示
func (e *Error) WithMsg(msg string) *Error {
	root := e
	if e.base != nil {
		root = e.base
	}
	return &Error{Status: root.Status, Code: root.Code, Msg: msg, base: root}
}

func newError(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Msg: msg}
}

var (
	ErrValidation          = newError(http.StatusBadRequest, "ValidationError", "invalid params")
	ErrDuplicateUsername   = newError(http.StatusBadRequest, "DuplicateUsername", "Username already exists")
	ErrDuplicateWeekNumber = newError(http.StatusBadRequest, "DuplicateWeekNumber", "Week number already exists")
	ErrDuplicateSubmission = newError(http.StatusBadRequest, "DuplicateSubmission", "You have already submitted for this week. Use update endpoint to modify.")
	ErrInvalidURL          = newError(http.StatusBadRequest, "InvalidUrl", "Invalid URL")
	ErrWeakPassword        = newError(http.StatusBadRequest, "WeakPassword", "Password must be at least 8 characters and contain both letters and numbers")
	ErrUnauthorized        = newError(http.StatusUnauthorized, "Unauthorized", "unauthorized")
	ErrForbidden           = newError(http.StatusForbidden, "Forbidden", "forbidden")
	ErrNotFound            = newError(http.StatusNotFound, "NotFound", "not found")
	ErrDeadlinePassed      = newError(http.StatusBadRequest, "DeadlinePassed", "Submission deadline has passed")
	ErrHasDependents       = newError(http.StatusBadRequest, "HasDependentSubmissions", "Cannot delete with existing submissions")
	ErrRateLimited         = newError(http.StatusTooManyRequests, "RateLimited", "Too many login attempts, please try again after 5 minutes")
	ErrTooManyRequests     = newError(http.StatusTooManyRequests, "TooManyRequests", "Too many requests from this IP, please try again later")
	ErrInternal            = newError(http.StatusInternalServerError, "InternalError", "Server error")
)

// AsError 取出业务错误，非业务错误返回 false
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
