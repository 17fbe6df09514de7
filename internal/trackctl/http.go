package trackctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the trackboard JSON API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Session fetches the current table.
func (c *Client) Session(ctx context.Context) (View, error) {
	var v View
	err := c.do(ctx, http.MethodGet, "/api/session", "", nil, &v)
	return v, err
}

// Setup creates the table.
func (c *Client) Setup(ctx context.Context, sport, athletes string) (View, error) {
	var v View
	body := map[string]string{"sport": sport, "athletes": athletes}
	err := c.doJSON(ctx, "/api/setup", body, &v)
	return v, err
}

// Apply runs one action.
func (c *Client) Apply(ctx context.Context, action string, row, column int, value string) (Result, error) {
	var res Result
	body := map[string]any{"action": action, "row": row, "column": column, "value": value}
	err := c.doJSON(ctx, "/api/actions", body, &res)
	return res, err
}

// Import uploads an HTML document.
func (c *Client) Import(ctx context.Context, doc io.Reader) (ImportResult, error) {
	var res ImportResult
	err := c.do(ctx, http.MethodPost, "/api/import", "text/html; charset=utf-8", doc, &res)
	return res, err
}

// Reload asks the server to re-read the stored session.
func (c *Client) Reload(ctx context.Context) (View, error) {
	var v View
	err := c.do(ctx, http.MethodPost, "/api/reload", "", nil, &v)
	return v, err
}

func (c *Client) doJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Code = "http_error"
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
