package rest

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

	"mesaYaMenu/internal/shared/normalization"
)

// Client wraps http.Client with base URL handling so adapters only deal with paths.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration, client *http.Client) *Client {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = "http://localhost:8000"
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if client == nil {
		client = &http.Client{Timeout: TimeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	return &Client{baseURL: trimmed, client: client}
}

// URL resolves endpoint against the base URL.
func (c *Client) URL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) NewRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, c.URL(endpoint), body)
}

// NewJSONRequest encodes payload as the request body and sets the JSON headers.
// A non-empty token is sent as a bearer credential.
func (c *Client) NewJSONRequest(ctx context.Context, method, endpoint, token string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.NewRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		req.Header.Set("Authorization", "Bearer "+trimmed)
	}
	return req, nil
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// TransportError reports a request that never produced an upstream response.
// Op names the call for logs; Err is what the HTTP client returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message is the text a page shows for err. Transport errors lose their
// operation prefix and read as the HTTP client's own error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.Err != nil {
		return transportErr.Err.Error()
	}
	return err.Error()
}

// StatusError reports a non-2xx upstream response. Detail carries the server's
// "detail" field verbatim when one was present.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// ReadStatusError drains a failed response into a StatusError.
func ReadStatusError(res *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	statusErr := &StatusError{Status: res.StatusCode}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		statusErr.Detail = normalization.DetailText(payload["detail"])
	}
	if statusErr.Detail == "" {
		slog.Debug("upstream error body", slog.Int("status", res.StatusCode), slog.String("body", strings.TrimSpace(string(body))))
	}
	return statusErr
}

// DecodeJSON decodes a successful response body into an untyped payload.
func DecodeJSON(body io.Reader) (any, error) {
	var payload any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

func TimeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
