package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/tradejournal/pkg/logger"
	"github.com/wonny/tradejournal/pkg/redis"
)

// RequestIDHeader carries the per-request id in and out
const RequestIDHeader = "X-Request-ID"

// statusRecorder captures the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// requestIDMiddleware echoes a caller-supplied id or assigns a new UUID
func requestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			// Call next handler
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			fields := map[string]interface{}{
				"request_id": r.Header.Get(RequestIDHeader),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"bytes":      rec.bytes,
				"duration":   time.Since(start).String(),
			}
			if rec.status >= http.StatusInternalServerError {
				log.WithFields(fields).Warn("HTTP request failed")
				return
			}
			log.WithFields(fields).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error":      err,
						"path":       r.URL.Path,
						"request_id": r.Header.Get(RequestIDHeader),
					}).Error("Panic recovered")

					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// bodyLimitMiddleware caps request bodies; handlers see *http.MaxBytesError past the cap
func bodyLimitMiddleware(maxBytes int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// Rate limiting
// =============================================================================

// maxTrackedClients bounds the local limiter map before idle entries are pruned
const maxTrackedClients = 10000

// RateLimiter enforces a per-client token bucket.
// With Redis enabled the budget is shared across replicas; otherwise each
// process keeps its own x/time/rate buckets. Redis failures fall back to local.
type RateLimiter struct {
	rps    float64
	burst  int
	shared *redis.RateLimiter
	logger *logger.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter; shared may be nil
func NewRateLimiter(rps float64, burst int, shared *redis.RateLimiter, log *logger.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rps,
		burst:   burst,
		shared:  shared,
		logger:  log,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether clientKey may proceed now
func (l *RateLimiter) Allow(r *http.Request, clientKey string) bool {
	if l.shared != nil && l.shared.Enabled() {
		allowed, _, err := l.shared.Allow(r.Context(), redis.APIRateLimit(clientKey, l.rps, l.burst))
		if err == nil {
			return allowed
		}
		l.logger.WithError(err).Warn("Shared rate limit unavailable, using local limiter")
	}
	return l.local(clientKey).Allow()
}

func (l *RateLimiter) local(clientKey string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[clientKey]
	if !ok {
		if len(l.clients) >= maxTrackedClients {
			l.pruneLocked(now)
		}
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[clientKey] = c
	}
	c.lastSeen = now
	return c.limiter
}

// pruneLocked drops clients idle long enough to have refilled their bucket
func (l *RateLimiter) pruneLocked(now time.Time) {
	idle := time.Minute
	if l.rps > 0 {
		idle = max(idle, time.Duration(float64(l.burst)/l.rps*float64(time.Second)))
	}
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > idle {
			delete(l.clients, k)
		}
	}
}

// rateLimitMiddleware rejects requests over budget with 429
func rateLimitMiddleware(l *RateLimiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r, clientKey(r)) {
				retry := 1
				if l.rps > 0 {
					retry = max(1, int(1/l.rps+0.999))
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller: first X-Forwarded-For hop, else the remote IP
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
