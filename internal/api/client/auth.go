package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"event-booking-bot/internal/api/requests"
	"event-booking-bot/internal/api/response"
)

// Вход в систему
func (c *Client) Login(ctx context.Context, studentID, password string) (response.User, error) {
	return c.login(ctx, c.cl, studentID, password)
}

func (c *Client) login(ctx context.Context, cl *http.Client, studentID, password string) (content response.User, err error) {
	data := requests.LoginRequest{
		StudentID: studentID,
		Password:  password,
	}

	r, err := c.invoke(ctx, cl, http.MethodPost, "/login", nil, data)
	if err != nil {
		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			err = &AuthError{Message: httpErr.Message}
		}
		return
	}

	err = json.Unmarshal(r, &content)
	return
}

// Регистрация нового пользователя
func (c *Client) Register(ctx context.Context, studentID, name, surname, password string) (content response.User, err error) {
	data := requests.RegisterRequest{
		StudentID: studentID,
		Name:      name,
		Surname:   surname,
		Password:  password,
	}

	r, err := c.Invoke(ctx, http.MethodPost, "/register", nil, data)
	if err != nil {
		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			err = &RegistrationError{Message: httpErr.Message}
		}
		return
	}

	err = json.Unmarshal(r, &content)
	return
}
