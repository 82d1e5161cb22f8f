package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type memoryStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{counts: map[string]int64{}}
}

func (m *memoryStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func loginRequest(username string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login",
		strings.NewReader(`{"username":"`+username+`","access_key":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4242"
	return req
}

func TestAuthRateLimitAllowsUnderLimit(t *testing.T) {
	t.Parallel()

	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 3)
	store := newMemoryStore()

	var body []byte
	handler := AuthRateLimit(policy, store, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error
			body, err = io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read body downstream: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		}),
	)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, loginRequest("marcus"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(string(body), "marcus") {
		t.Fatalf("body not preserved for downstream handler: %q", body)
	}
}

func TestAuthRateLimitBlocksUsernameFlood(t *testing.T) {
	t.Parallel()

	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 3)
	store := newMemoryStore()

	handler := AuthRateLimit(policy, store, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, loginRequest("marcus"))
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", last.Code)
	}
	if !strings.Contains(last.Body.String(), "Trop de tentatives") {
		t.Fatalf("unexpected body: %s", last.Body.String())
	}

	// a different username from the same window is unaffected
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, loginRequest("lester"))
	if other.Code != http.StatusOK {
		t.Fatalf("expected 200 for other username got %d", other.Code)
	}
}

func TestAuthRateLimitBlocksIPFlood(t *testing.T) {
	t.Parallel()

	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	store := newMemoryStore()

	handler := AuthRateLimit(policy, store, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, loginRequest("marcus"))
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", last.Code)
	}
}

func TestAuthRateLimitDisabledWithoutStore(t *testing.T) {
	t.Parallel()

	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)
	handler := AuthRateLimit(policy, nil, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, loginRequest("marcus"))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
}
