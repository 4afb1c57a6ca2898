package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"event-booking-bot/internal/api/response"
)

// Получить список всех событий
func (c *Client) ListEvents(ctx context.Context) (content []response.Event, err error) {
	r, err := c.Invoke(ctx, http.MethodGet, "/events", nil, nil)
	if err != nil {
		return
	}
	return decodeList[response.Event](r)
}

// Получить событие по ID.
// Несуществующий ID сервер отдает как 400 (проверка существования), поэтому
// для этого метода 400 и 404 означают одно и то же.
func (c *Client) GetEvent(ctx context.Context, id int64) (content response.Event, err error) {
	r, err := c.Invoke(ctx, http.MethodGet, "/event/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		var httpErr *HttpError
		if errors.As(err, &httpErr) && (httpErr.Code == http.StatusNotFound || httpErr.Code == http.StatusBadRequest) {
			err = &NotFoundError{Entity: "event", ID: id}
		}
		return
	}
	if isEmpty(r) {
		err = &NotFoundError{Entity: "event", ID: id}
		return
	}

	err = json.Unmarshal(r, &content)
	return
}

// Получить доступные события в диапазоне дат. Фильтрация на стороне API.
func (c *Client) ListAvailableEvents(ctx context.Context, dateFrom, dateTo string) (content []response.Event, err error) {
	v := url.Values{}
	v.Add("dateFrom", dateFrom)
	v.Add("dateTo", dateTo)

	r, err := c.Invoke(ctx, http.MethodGet, "/events/availabilitySearch", v, nil)
	if err != nil {
		return
	}
	return decodeList[response.Event](r)
}

// Получить список всех бронирований
func (c *Client) ListReservations(ctx context.Context) (content []response.Reservation, err error) {
	r, err := c.Invoke(ctx, http.MethodGet, "/reservations", nil, nil)
	if err != nil {
		return
	}
	return decodeList[response.Reservation](r)
}

func decodeList[T any](r []byte) ([]T, error) {
	content := make([]T, 0)
	if isEmpty(r) {
		return content, nil
	}
	if err := json.Unmarshal(r, &content); err != nil {
		return nil, err
	}
	return content, nil
}
