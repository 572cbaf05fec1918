// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter decides whether the caller identified by key may proceed.
// Implementations are safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Memory is a fixed-window limiter held in process memory. It is the
// fallback when no Redis address is configured.
type Memory struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	stop     chan struct{}
	once     sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// NewMemory creates a limiter allowing limit calls per duration per key.
// Call Close to stop the background sweeper.
func NewMemory(limit int, duration time.Duration) *Memory {
	m := &Memory{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		stop:     make(chan struct{}),
	}
	go m.cleanupLoop(duration * 2)
	return m
}

// Allow records a call for key and reports whether it is within the limit.
func (m *Memory) Allow(_ context.Context, key string) bool {
	if m.limit <= 0 {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	w, ok := m.windows[key]
	if !ok || now.After(w.expiresAt) {
		m.windows[key] = &window{count: 1, expiresAt: now.Add(m.duration)}
		return true
	}
	if w.count >= m.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many calls key has left in its current window.
func (m *Memory) Remaining(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || time.Now().After(w.expiresAt) {
		return m.limit
	}
	if rem := m.limit - w.count; rem > 0 {
		return rem
	}
	return 0
}

// Reset forgets key.
func (m *Memory) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, key)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *Memory) cleanupLoop(every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, w := range m.windows {
				if now.After(w.expiresAt) {
					delete(m.windows, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP from an HTTP request.
// X-Forwarded-For (first entry) and X-Real-IP win over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles sign-in attempts both per IP and per email, so
// neither a single host nor a spread of hosts can hammer one account.
type LoginLimiter struct {
	ip    Limiter
	email Limiter
}

// NewLoginLimiter combines an IP limiter and an email limiter.
func NewLoginLimiter(ip, email Limiter) *LoginLimiter {
	return &LoginLimiter{ip: ip, email: email}
}

// NewMemoryLoginLimiter uses in-process limits: 10 attempts per IP per
// minute and 5 per email per 5 minutes.
func NewMemoryLoginLimiter() *LoginLimiter {
	return NewLoginLimiter(NewMemory(10, time.Minute), NewMemory(5, 5*time.Minute))
}

// Check reports whether a sign-in attempt may proceed and, if not, a
// message for the caller.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.ip.Allow(r.Context(), "login:ip:"+ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		if !ll.email.Allow(r.Context(), "login:email:"+email) {
			return false, "Too many login attempts for this account. Please wait a few minutes."
		}
	}
	return true, ""
}
