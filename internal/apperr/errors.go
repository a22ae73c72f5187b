// Package apperr описывает ошибки, которые сервисы возвращают обработчикам.
// Каждая ошибка несёт стабильный код и HTTP статус.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError ошибка уровня API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is сравнивает ошибки по коду, поэтому errors.Is работает и для копий
// с другим сообщением, созданных через WithMessage.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMessage возвращает копию ошибки с другим сообщением
func (e *APIError) WithMessage(message string) *APIError {
	cp := *e
	cp.Message = message
	return &cp
}

// WithDetails возвращает копию ошибки с деталями
func (e *APIError) WithDetails(details any) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

func New(code, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

var (
	ErrValidation      = New("VALIDATION_ERROR", "Invalid request data", http.StatusBadRequest)
	ErrNotFound        = New("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrUnauthenticated = New("UNAUTHENTICATED", "Could not validate user", http.StatusUnauthorized)
	ErrUnauthorized    = New("UNAUTHORIZED", "Could not validate user", http.StatusUnauthorized)
	ErrForbidden       = New("FORBIDDEN", "Email not verified. Please verify your email first.", http.StatusForbidden)
	ErrExpired         = New("CODE_EXPIRED", "Verification code expired", http.StatusBadRequest)
	ErrMismatch        = New("CODE_MISMATCH", "Invalid verification code", http.StatusBadRequest)
	ErrAlreadyVerified = New("ALREADY_VERIFIED", "Email already verified", http.StatusBadRequest)
	ErrInternal        = New("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)

	ErrNotFoundOrForbidden = New("LISTING_NOT_FOUND_OR_FORBIDDEN", "Listing not found or not authorized", http.StatusNotFound)

	ErrAlreadyFriends   = New("ALREADY_FRIENDS", "Already friends", http.StatusBadRequest)
	ErrDuplicateRequest = New("DUPLICATE_REQUEST", "Friend request already sent", http.StatusBadRequest)
	ErrNoSuchRequest    = New("NO_SUCH_REQUEST", "No friend request from this user", http.StatusBadRequest)
	ErrNotFriends       = New("NOT_FRIENDS", "Not friends with this user", http.StatusBadRequest)

	ErrRateLimited = New("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)
	ErrUnavailable = New("SERVICE_UNAVAILABLE", "Service unavailable", http.StatusServiceUnavailable)
)

// Validation ошибка валидации с конкретным сообщением
func Validation(message string) *APIError {
	return ErrValidation.WithMessage(message)
}

// NotFound ошибка отсутствия ресурса с конкретным сообщением
func NotFound(message string) *APIError {
	return ErrNotFound.WithMessage(message)
}

// Wrap превращает произвольную ошибку во внутреннюю, APIError возвращается как есть
func Wrap(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternal.WithDetails(err.Error())
}
