// Package api реализует HTTP-клиент серверного API: подпись запросов
// токеном сессии, единый разбор конверта ответа и перевод статусов
// в ошибки-сентинелы.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/payasyougo/payasyougo/internal/client/session"
	"github.com/payasyougo/payasyougo/internal/lib/sl"
)

// Ошибки клиента. Вызывающий различает их через errors.Is.
var (
	// ErrUnauthorized означает отклонённый токен. Клиент уже завершил
	// сессию к моменту возврата этой ошибки, вызывающему остаётся
	// показать форму входа.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound означает отсутствие ресурса.
	ErrNotFound = errors.New("not found")
	// ErrConflict означает конфликт с существующим ресурсом.
	ErrConflict = errors.New("conflict")
	// ErrValidation означает отклонённые сервером данные.
	ErrValidation = errors.New("validation failed")
	// ErrNetwork означает, что ответа от сервера не было.
	ErrNetwork = errors.New("network error")
	// ErrBusy означает, что такой же запрос ещё выполняется.
	ErrBusy = errors.New("request already in flight")
)

// envelope — стандартный конверт ответа сервера.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Client — HTTP-клиент API с привязанной сессией.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    *session.Manager
	log        *slog.Logger
	taxWrite   taxWriteGuard
}

// New создает клиент для сервера по указанному базовому адресу.
func New(baseURL string, sess *session.Manager, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    sess,
		log:        log,
	}
}

// Session возвращает менеджер сессии, привязанный к клиенту.
func (c *Client) Session() *session.Manager {
	return c.session
}

// do выполняет запрос и раскладывает ответ. Авторизованный запрос
// подписывается токеном текущей сессии; 401 завершает сессию ровно один
// раз благодаря счётчику поколений. Ответ, пришедший после смены сессии,
// отбрасывается как устаревший.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, authorized bool) error {
	const op = "api.client.do"

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	generation := uint64(0)
	if authorized {
		token, gen, ok := c.session.Authorize()
		if !ok {
			return ErrUnauthorized
		}
		generation = gen
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", slog.String("path", path), sl.Err(err))
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusUnauthorized {
		if authorized {
			c.session.HandleUnauthorized(generation)
		}
		return ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := statusError(resp.StatusCode, env.Error); err != nil {
		return err
	}

	if authorized && !c.session.StillCurrent(generation) {
		c.log.Info("response for stale session discarded", slog.String("path", path))
		return ErrUnauthorized
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// statusError переводит неуспешный HTTP-статус в ошибку-сентинел.
func statusError(code int, msg string) error {
	if code >= 200 && code < 300 {
		return nil
	}
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	default:
		return fmt.Errorf("server error: %s", msg)
	}
}
