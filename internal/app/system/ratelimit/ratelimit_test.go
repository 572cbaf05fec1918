package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestMemory_AllowsUpToLimit(t *testing.T) {
	m := NewMemory(3, time.Minute)
	defer m.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !m.Allow(ctx, "k") {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if m.Allow(ctx, "k") {
		t.Error("fourth call should be refused")
	}
	if !m.Allow(ctx, "other") {
		t.Error("keys are independent")
	}
	if got := m.Remaining("k"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
}

func TestMemory_WindowExpires(t *testing.T) {
	m := NewMemory(1, 20*time.Millisecond)
	defer m.Close()
	ctx := context.Background()

	if !m.Allow(ctx, "k") || m.Allow(ctx, "k") {
		t.Fatal("expected one allowed then one refused")
	}
	time.Sleep(40 * time.Millisecond)
	if !m.Allow(ctx, "k") {
		t.Error("expected allowance after window expiry")
	}
}

func TestMemory_ResetAndZeroLimit(t *testing.T) {
	m := NewMemory(1, time.Minute)
	defer m.Close()
	ctx := context.Background()
	m.Allow(ctx, "k")
	m.Reset("k")
	if got := m.Remaining("k"); got != 1 {
		t.Errorf("Remaining after reset: got %d, want 1", got)
	}

	open := NewMemory(0, time.Minute)
	defer open.Close()
	for i := 0; i < 10; i++ {
		if !open.Allow(ctx, "k") {
			t.Fatal("zero limit disables limiting")
		}
	}
	open.Close()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.7 "}, "10.0.0.2:1234", "198.51.100.7"},
		{"remote addr", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware_KeysByUser(t *testing.T) {
	m := NewMemory(1, time.Minute)
	defer m.Close()
	h := Middleware(m, "submit")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	do := func(userID string) int {
		r := httptest.NewRequest("POST", "/applications", nil)
		r = auth.WithTestUser(r, &auth.SessionUser{ID: userID, Role: "student"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	if got := do("a"); got != http.StatusCreated {
		t.Fatalf("first call: got %d", got)
	}
	if got := do("a"); got != http.StatusTooManyRequests {
		t.Errorf("second call: got %d, want 429", got)
	}
	if got := do("b"); got != http.StatusCreated {
		t.Errorf("another user: got %d, want 201", got)
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(NewMemory(5, time.Minute), NewMemory(1, time.Minute))
	r := httptest.NewRequest("POST", "/auth/login", nil)

	if ok, _ := ll.Check(r, "Ada@Example.com"); !ok {
		t.Fatal("first attempt should pass")
	}
	ok, msg := ll.Check(r, " ada@example.com")
	if ok || msg == "" {
		t.Errorf("email limit should trip regardless of case, got ok=%v msg=%q", ok, msg)
	}
}

func TestRedis_FailsOpenWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	defer client.Close()
	l := NewRedis(client, "test:", 1, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		if !l.Allow(context.Background(), "k") {
			t.Fatal("unreachable redis must not refuse requests")
		}
	}
}

func TestRedis_Live(t *testing.T) {
	addr := os.Getenv("CAREERHUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAREERHUB_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	if err := Ping(ctx, client); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	prefix := "careerhub-test:" + time.Now().Format("150405.000000") + ":"
	l := NewRedis(client, prefix, 2, time.Second, zap.NewNop())
	if !l.Allow(ctx, "k") || !l.Allow(ctx, "k") {
		t.Fatal("first two calls should pass")
	}
	if l.Allow(ctx, "k") {
		t.Error("third call should be refused")
	}
	time.Sleep(1100 * time.Millisecond)
	if !l.Allow(ctx, "k") {
		t.Error("window should have expired")
	}
}
