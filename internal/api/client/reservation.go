package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"

	"event-booking-bot/internal/api/requests"
	"event-booking-bot/internal/api/response"
)

// CreateReservation - создать бронирование.
//
// API привязывает бронирование к серверной сессии, а не к id пользователя,
// поэтому сначала выполняется вход на отдельном клиенте со своим cookie jar,
// и уже на нем создается бронирование. Клиент живет только в пределах вызова.
func (c *Client) CreateReservation(ctx context.Context, eventID int64, studentID, password string) (content response.Reservation, err error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return
	}
	sessionCl := &http.Client{
		Timeout:   c.timeout,
		Transport: c.cl.Transport,
		Jar:       jar,
	}

	user, err := c.login(ctx, sessionCl, studentID, password)
	if err != nil {
		return
	}
	if user.ID == 0 {
		err = &AuthError{Message: "не удалось получить ID пользователя после авторизации"}
		return
	}

	data := requests.ReservationRequest{
		EventID: eventID,
		Status:  true,
	}

	r, err := c.invoke(ctx, sessionCl, http.MethodPost, "/reservation", nil, data)
	if err != nil {
		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			err = &ReservationError{Message: httpErr.Message}
		}
		return
	}

	if err = json.Unmarshal(r, &content); err != nil {
		return
	}
	content.EventID = eventID
	content.CheckIn = studentID
	content.Status = true
	return
}
