package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mesaYaMenu/internal/modules/owner/application/port"
	"mesaYaMenu/internal/modules/owner/domain"
	"mesaYaMenu/internal/platform/rest"
	"mesaYaMenu/internal/shared/normalization"
)

var ErrMissingAccessToken = errors.New("login response missing access_token")

// AuthHTTPClient talks to the auth service (/auth/register, /auth/login).
type AuthHTTPClient struct {
	rest    *rest.Client
	timeout time.Duration
}

func NewAuthHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *AuthHTTPClient {
	return &AuthHTTPClient{rest: rest.NewClient(baseURL, timeout, client), timeout: rest.TimeoutOrDefault(timeout)}
}

func (c *AuthHTTPClient) Register(ctx context.Context, creds domain.Credentials) error {
	_, err := c.post(ctx, "/auth/register", creds)
	return err
}

func (c *AuthHTTPClient) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	payload, err := c.post(ctx, "/auth/login", creds)
	if err != nil {
		return "", err
	}
	token := normalization.AsString(normalization.MapFromPayload(payload)["access_token"])
	if token == "" {
		return "", ErrMissingAccessToken
	}
	return token, nil
}

func (c *AuthHTTPClient) post(ctx context.Context, endpoint string, creds domain.Credentials) (any, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, endpoint, "", creds)
	if err != nil {
		return nil, err
	}
	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("auth request error", slog.String("path", endpoint), slog.Any("error", err))
		return nil, &rest.TransportError{Op: "auth request failed", Err: err}
	}
	defer res.Body.Close()

	if !rest.IsSuccess(res.StatusCode) {
		statusErr := rest.ReadStatusError(res)
		slog.Warn("auth rejected", slog.String("path", endpoint), slog.Int("status", res.StatusCode), slog.String("detail", statusErr.Detail))
		return nil, statusErr
	}
	return rest.DecodeJSON(res.Body)
}

var _ port.AuthGateway = (*AuthHTTPClient)(nil)
