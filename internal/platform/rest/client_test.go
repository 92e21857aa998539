package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientTrimsBaseURL(t *testing.T) {
	c := NewClient(" http://api.local/ ", 0, nil)
	if got := c.URL("/order/orders"); got != "http://api.local/order/orders" {
		t.Fatalf("unexpected url: %s", got)
	}
	if got := c.URL("order/get-categories"); got != "http://api.local/order/get-categories" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestNewJSONRequestSetsHeaders(t *testing.T) {
	c := NewClient("http://api.local", time.Second, nil)
	req, err := c.NewJSONRequest(context.Background(), http.MethodPost, "/x", " tok ", map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("unexpected authorization header: %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}

	req, err = c.NewJSONRequest(context.Background(), http.MethodGet, "/x", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Header.Get("Authorization") != "" || req.Header.Get("Content-Type") != "" {
		t.Fatalf("expected no auth or content type, got %v", req.Header)
	}
}

func TestReadStatusErrorExtractsDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "Email already registered"})
	}))
	defer srv.Close()

	res, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	statusErr := ReadStatusError(res)
	if statusErr.Status != http.StatusBadRequest || statusErr.Error() != "Email already registered" {
		t.Fatalf("unexpected status error: %#v", statusErr)
	}
}

func TestStatusErrorWithoutDetail(t *testing.T) {
	err := &StatusError{Status: 502}
	if err.Error() != "HTTP error! status: 502" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestMessageDropsTransportPrefix(t *testing.T) {
	err := fmt.Errorf("save: %w", &TransportError{Op: "restaurant save failed", Err: errors.New("connection refused")})
	if got := Message(err); got != "connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
	if err.Error() != "save: restaurant save failed: connection refused" {
		t.Fatalf("unexpected error text %q", err.Error())
	}
	if got := Message(&StatusError{Status: 503}); got != "HTTP error! status: 503" {
		t.Fatalf("unexpected status message %q", got)
	}
	if got := Message(nil); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
}
