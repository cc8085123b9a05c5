package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"canteenbooks/internal/config"
	"canteenbooks/internal/http/handlers"
)

// Burst hits return 429
func TestRateLimits(t *testing.T) {
	a := newTestAPI(t, config.Config{}, handlers.AppOptions{RateMax: 3, RateWindow: time.Minute})

	for i := 0; i < 4; i++ {
		resp, _ := a.call(t, "GET", "/api/v1/products", nil)
		if i < 3 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 3 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}

	// health checks are never throttled
	resp, _ := a.call(t, "GET", "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz throttled: %d", resp.StatusCode)
	}
}

// Oversized POST rejected with 413
func TestBodySizeLimit(t *testing.T) {
	a := newTestAPI(t, config.Config{}, handlers.AppOptions{})

	oversize := bytes.Repeat([]byte("A"), handlers.MaxBodySize+10)
	req := httptest.NewRequest("POST", "/api/v1/backup", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.app.Test(req, -1)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}
