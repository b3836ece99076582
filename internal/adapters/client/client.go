// Package client implements BoardRepository over the sync server's HTTP
// API, so the desktop board can run against a remote store with the same
// interface it uses locally.
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

	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/config"
	"github.com/yearboard/core/internal/ports"
)

// BoardClient talks to the sync server. The owner id passed to each call
// is ignored on the wire; the server derives ownership from the bearer
// token.
type BoardClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(cfg config.RemoteConfig) *BoardClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BoardClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: timeout},
	}
}

var _ ports.BoardRepository = (*BoardClient)(nil)

func (c *BoardClient) Fetch(ctx context.Context, _ uuid.UUID) (*entities.AppData, error) {
	var data entities.AppData
	if err := c.do(ctx, http.MethodGet, "/api/v1/board", nil, &data); err != nil {
		return nil, err
	}
	if data.Days == nil {
		data.Days = make(map[string]entities.DayEntry)
	}
	return &data, nil
}

func (c *BoardClient) UpsertDay(ctx context.Context, _ uuid.UUID, entry entities.DayEntry) error {
	return c.do(ctx, http.MethodPut, "/api/v1/board/days/"+url.PathEscape(entry.Date), entry, nil)
}

func (c *BoardClient) DeleteDay(ctx context.Context, _ uuid.UUID, date string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/board/days/"+url.PathEscape(date), nil, nil)
}

func (c *BoardClient) UpsertEvent(ctx context.Context, _ uuid.UUID, event entities.CalendarEvent) error {
	return c.do(ctx, http.MethodPut, "/api/v1/board/events/"+url.PathEscape(event.ID), event, nil)
}

func (c *BoardClient) DeleteEvent(ctx context.Context, _ uuid.UUID, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/board/events/"+url.PathEscape(id), nil, nil)
}

func (c *BoardClient) UpsertRectangle(ctx context.Context, _ uuid.UUID, rect entities.CanvasRectangle) error {
	return c.do(ctx, http.MethodPut, "/api/v1/board/rectangles/"+url.PathEscape(rect.ID), rect, nil)
}

func (c *BoardClient) DeleteRectangle(ctx context.Context, _ uuid.UUID, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/board/rectangles/"+url.PathEscape(id), nil, nil)
}

func (c *BoardClient) ResetAll(ctx context.Context, _ uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/board", nil, nil)
}

func (c *BoardClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return entities.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return notFoundFor(path)
	case resp.StatusCode >= 400:
		var apiErr ports.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func notFoundFor(path string) error {
	switch {
	case strings.Contains(path, "/days/"):
		return entities.ErrDayNotFound
	case strings.Contains(path, "/events/"):
		return entities.ErrEventNotFound
	case strings.Contains(path, "/rectangles/"):
		return entities.ErrRectangleNotFound
	}
	return fmt.Errorf("not found: %s", path)
}
