package pkg

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound 仓储层查不到记录
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("duplicate record")
)

// AppError 带 HTTP 状态的业务错误，Msg 直接返回给调用方，Err 只写日志
type AppError struct {
	Status int
	Msg    string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

func BadRequest(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Msg: msg}
}

func Unauthorized() *AppError {
	return &AppError{Status: http.StatusUnauthorized, Msg: "Unauthorized"}
}

func NotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Msg: msg}
}

func TooLarge(msg string) *AppError {
	return &AppError{Status: http.StatusRequestEntityTooLarge, Msg: msg}
}

// Internal 存储等内部错误，对外只暴露通用信息
func Internal(msg string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// AsAppError 非 AppError 一律视为 500
func AsAppError(err error, fallback string) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(fallback, err)
}
