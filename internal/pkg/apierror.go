package pkg

import (
	"fmt"
	"net/http"
)

// 错误类型，对应返回给调用方的 HTTP 状态码
const (
	KindMissingParameter = "missing_parameter"
	KindInvalidReference = "invalid_reference"
	KindNotFound         = "not_found"
	KindEmptyContent     = "empty_content"
	KindContentTooShort  = "content_too_short"
	KindInvalidParams    = "invalid_params"
	KindUnauthenticated  = "unauthenticated"
	KindForbidden        = "forbidden"
	KindConflict         = "conflict"
)

// APIError 业务错误，直接透传给客户端
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewAPIError(status int, kind, msg string) *APIError {
	return &APIError{Status: status, Kind: kind, Message: msg}
}

func MissingParameter(name string) *APIError {
	return NewAPIError(http.StatusBadRequest, KindMissingParameter, name+" is required")
}

func InvalidReference(name string) *APIError {
	return NewAPIError(http.StatusBadRequest, KindInvalidReference, "invalid "+name)
}

func NotFound(what string) *APIError {
	return NewAPIError(http.StatusNotFound, KindNotFound, "no "+what+" found")
}

func InvalidParams(msg string) *APIError {
	return NewAPIError(http.StatusBadRequest, KindInvalidParams, msg)
}

func Unauthenticated(msg string) *APIError {
	return NewAPIError(http.StatusUnauthorized, KindUnauthenticated, msg)
}

func Forbidden(msg string) *APIError {
	return NewAPIError(http.StatusForbidden, KindForbidden, msg)
}

func Conflict(msg string) *APIError {
	return NewAPIError(http.StatusConflict, KindConflict, msg)
}

var (
	ErrEmptyContent    = NewAPIError(http.StatusBadRequest, KindEmptyContent, "content can not be empty")
	ErrContentTooShort = NewAPIError(http.StatusBadRequest, KindContentTooShort, fmt.Sprintf("content must have at least %d characters", MinBodyLength))
)

// ValidateBody 正文校验：先判空，再判长度
func ValidateBody(body string) error {
	if CheckEmpty(body) {
		return ErrEmptyContent
	}
	if !ValidLength(body, MinBodyLength) {
		return ErrContentTooShort
	}
	return nil
}
