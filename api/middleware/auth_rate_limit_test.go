package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	redisclient "github.com/foguel/delivery-backend/pkg/redis"
)

func newRateStore(t *testing.T) (*redisclient.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return redisclient.NewFromRaw(raw), mr
}

func loginRequest(remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login/login", strings.NewReader(`{"colaborador_id":"x","access_code":"1"}`))
	req.RemoteAddr = remote
	return req
}

func TestAuthRateLimitBlocksAfterLimit(t *testing.T) {
	store, _ := newRateStore(t)
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("1.2.3.4:5678"))
		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("expected success before limit, got %d", rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") != "60" {
			t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
		}
		var payload struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
			t.Fatalf("unexpected code: %s", payload.Error.Code)
		}
	}
}

func TestAuthRateLimitIsPerIPAndWindow(t *testing.T) {
	store, mr := newRateStore(t)
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(remote string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(remote))
		return rec.Code
	}

	if code := serve("5.6.7.8:1"); code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", code)
	}
	if code := serve("5.6.7.8:2"); code != http.StatusTooManyRequests {
		t.Fatalf("second attempt from same ip should be limited, got %d", code)
	}
	if code := serve("9.9.9.9:1"); code != http.StatusOK {
		t.Fatalf("other ip should pass, got %d", code)
	}
	mr.FastForward(2 * time.Minute)
	if code := serve("5.6.7.8:3"); code != http.StatusOK {
		t.Fatalf("new window should pass, got %d", code)
	}
}

type failingRateStore struct{}

func (failingRateStore) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return false, 0, context.DeadlineExceeded
}

func TestAuthRateLimitStoreFailure(t *testing.T) {
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 5), failingRateStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when the limiter is unavailable")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("1.1.1.1:1"))
	if rec.Code == http.StatusOK {
		t.Fatalf("expected an error status")
	}
}

func TestAuthRateLimitDisabledPolicy(t *testing.T) {
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", 0, 5), failingRateStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("1.1.1.1:1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("disabled policy should pass through, got %d", rec.Code)
	}
}
