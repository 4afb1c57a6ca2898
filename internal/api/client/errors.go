package client

import (
	"errors"
	"fmt"
)

type (
	HttpError struct {
		Url     string
		Code    int
		Message string
	}

	// Сеть недоступна или истек таймаут
	TransportError struct {
		Url string
		Err error
	}

	// API отклонило вход
	AuthError struct {
		Message string
	}

	// API отклонило регистрацию
	RegistrationError struct {
		Message string
	}

	// Вход прошел, но бронирование отклонено
	ReservationError struct {
		Message string
	}

	NotFoundError struct {
		Entity string
		ID     int64
	}
)

func (e *HttpError) Error() string {
	return fmt.Sprintf("Http request failed for %s with code %d and message: %s", e.Url, e.Code, e.Message)
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Url, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *AuthError) Error() string { return "authorization failed: " + e.Message }

func (e *RegistrationError) Error() string { return "registration failed: " + e.Message }

func (e *ReservationError) Error() string { return "reservation failed: " + e.Message }

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %d not found", e.Entity, e.ID) }

// IsAuth - ошибка авторизации или регистрации
func IsAuth(err error) bool {
	var authErr *AuthError
	var regErr *RegistrationError
	return errors.As(err, &authErr) || errors.As(err, &regErr)
}

func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

func IsTransport(err error) bool {
	var trErr *TransportError
	return errors.As(err, &trErr)
}

// ServerMessage - сообщение, которое вернул сервер. Пусто для сетевых ошибок.
func ServerMessage(err error) string {
	var (
		authErr *AuthError
		regErr  *RegistrationError
		resErr  *ReservationError
		httpErr *HttpError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &regErr):
		return regErr.Message
	case errors.As(err, &resErr):
		return resErr.Message
	case errors.As(err, &httpErr):
		return httpErr.Message
	}
	return ""
}
