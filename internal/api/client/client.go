package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"event-booking-bot/internal/api/response"
	"event-booking-bot/internal/logger"
)

type (
	Client struct {
		serverAddr string
		timeout    time.Duration

		cl *http.Client
	}

	requestIDKey struct{}
)

func New(serverAddr string, timeout time.Duration) *Client {
	return &Client{
		serverAddr: strings.TrimRight(serverAddr, "/"),
		timeout:    timeout,

		cl: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				IdleConnTimeout:     30 * time.Second,
				DisableKeepAlives:   false,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

// WithRequestID - прокинуть id входящего обновления в заголовок X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Invoke выполняет запрос на общем соединении клиента.
func (c *Client) Invoke(ctx context.Context, method string, methodUrl string, urlParams url.Values, body interface{}) (content []byte, err error) {
	return c.invoke(ctx, c.cl, method, methodUrl, urlParams, body)
}

// invoke - один запрос без повторов. Сетевые ошибки и таймаут возвращаются как
// *TransportError, ответы не 2xx как *HttpError.
func (c *Client) invoke(ctx context.Context, cl *http.Client, method string, methodUrl string, urlParams url.Values, body interface{}) (content []byte, err error) {
	reqUrl := c.serverAddr + "/" + strings.Trim(methodUrl, "/")
	if urlParams != nil {
		reqUrl += "?" + urlParams.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqUrl, reader)
	if err != nil {
		logger.Warning("Error while create request for", reqUrl, "with method", method, ":", err)
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	logger.Debug("---> request", req.Method, reqUrl)

	resp, err := cl.Do(req)
	if err != nil {
		return nil, &TransportError{Url: reqUrl, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	logger.Debug("<--- request", req.Method, reqUrl, "with code", fmt.Sprint(resp.StatusCode))
	if err != nil {
		return nil, &TransportError{Url: reqUrl, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HttpError{
			Url:     reqUrl,
			Code:    resp.StatusCode,
			Message: extractMessage(bodyBytes),
		}
	}

	return bodyBytes, nil
}

// текст ошибки из тела ответа: поле message, иначе тело целиком
func extractMessage(body []byte) string {
	var apiErr response.ApiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return strings.TrimSpace(string(body))
}

// пустое тело (204 или Content-Length: 0) считаем отсутствием данных
func isEmpty(body []byte) bool {
	s := bytes.TrimSpace(body)
	return len(s) == 0 || bytes.Equal(s, []byte("null"))
}
