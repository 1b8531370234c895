package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jmlarson/deckard/internal/api/shared"
)

// TTLStore is a key-value counter with per-key expiry. The rate limiter
// takes it as a dependency so deployments can swap the in-process store
// for a shared one without touching the middleware.
type TTLStore interface {
	// Increment bumps the counter for key, creating it with the given TTL
	// if absent, and returns the new count.
	Increment(key string, ttl time.Duration) (int, error)
}

// MemoryTTLStore is an in-process TTLStore backed by a map.
type MemoryTTLStore struct {
	mu      sync.Mutex
	entries map[string]*ttlEntry
}

type ttlEntry struct {
	count     int
	expiresAt time.Time
}

// NewMemoryTTLStore creates an empty MemoryTTLStore.
func NewMemoryTTLStore() *MemoryTTLStore {
	return &MemoryTTLStore{entries: make(map[string]*ttlEntry)}
}

// Increment implements TTLStore. Expired entries are replaced lazily on
// access, so the map stays bounded by the set of active keys.
func (s *MemoryTTLStore) Increment(key string, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		s.entries[key] = &ttlEntry{count: 1, expiresAt: now.Add(ttl)}
		return 1, nil
	}

	entry.count++
	return entry.count, nil
}

// RateLimiter limits requests per client IP within a fixed window.
// It is intended for the unauthenticated auth endpoints where repeated
// attempts usually mean credential stuffing.
type RateLimiter struct {
	store  TTLStore
	limit  int
	window time.Duration
	logger *slog.Logger
}

// NewRateLimiter creates a RateLimiter allowing limit requests per window
// for each client.
func NewRateLimiter(store TTLStore, limit int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if store == nil {
		panic("store cannot be nil")
	}
	if limit <= 0 {
		panic("limit must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RateLimiter{
		store:  store,
		limit:  limit,
		window: window,
		logger: logger.With("component", "rate_limiter"),
	}
}

// Limit wraps a handler with the rate limit check. Store failures fail
// open: blocking all logins on a limiter backend outage would be worse
// than letting a burst through.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("%s:%s", clientIP(r), r.URL.Path)

		count, err := l.store.Increment(key, l.window)
		if err != nil {
			l.logger.Error("rate limit store failure", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > l.limit {
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
				"Too many requests, please try again later",
				fmt.Errorf("rate limit exceeded: %d requests in window", count))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address without the port. RemoteAddr is
// trusted as-is; forwarded headers are spoofable without a vetted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
