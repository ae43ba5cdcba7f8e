package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/kpi"
	"github.com/wonny/tradejournal/pkg/config"
	"github.com/wonny/tradejournal/pkg/logger"
	"github.com/wonny/tradejournal/pkg/redis"
)

func newTestRouter(t *testing.T, opts RouterOptions) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug")

	engine := kpi.NewEngine(kpi.DefaultComputeConfig(), log)
	h := handlers.NewKPIHandler(engine, nil, 0, "test", log)
	return NewRouter(h, log, opts), &buf
}

func do(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t, RouterOptions{})

	rec := do(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Routes(t *testing.T) {
	r, _ := newTestRouter(t, RouterOptions{})

	tests := []struct {
		method string
		target string
		body   string
		status int
	}{
		{http.MethodGet, "/api/kpi/definitions", "", http.StatusOK},
		{http.MethodGet, "/api/kpi/definitions/calmar_ratio", "", http.StatusOK},
		{http.MethodGet, "/api/kpi/definitions/nope", "", http.StatusNotFound},
		{http.MethodGet, "/api/kpi/group-fields", "", http.StatusOK},
		{http.MethodPost, "/api/kpi/compute", `{"trades": []}`, http.StatusOK},
		{http.MethodPost, "/api/kpi/group?by=side", `{"trades": []}`, http.StatusOK},
		{http.MethodGet, "/api/kpi/compute", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, r, tt.method, tt.target, tt.body, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRouter_RequestID(t *testing.T) {
	r, buf := newTestRouter(t, RouterOptions{})

	rec := do(t, r, http.MethodGet, "/api/kpi/definitions", "", nil)
	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), id)

	supplied := uuid.NewString()
	rec = do(t, r, http.MethodGet, "/api/kpi/definitions", "", map[string]string{RequestIDHeader: supplied})
	assert.Equal(t, supplied, rec.Header().Get(RequestIDHeader))

	// non-uuid ids are replaced
	rec = do(t, r, http.MethodGet, "/api/kpi/definitions", "", map[string]string{RequestIDHeader: "<script>"})
	assert.NotEqual(t, "<script>", rec.Header().Get(RequestIDHeader))
}

func TestRouter_RateLimit(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, nil, logger.Nop())
	r, _ := newTestRouter(t, RouterOptions{RateLimiter: limiter})

	client := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}
	for i := 0; i < 2; i++ {
		rec := do(t, r, http.MethodGet, "/api/kpi/definitions", "", client)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, r, http.MethodGet, "/api/kpi/definitions", "", client)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// other clients keep their own budget
	rec = do(t, r, http.MethodGet, "/api/kpi/definitions", "", map[string]string{"X-Forwarded-For": "198.51.100.1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// health is never limited
	rec = do(t, r, http.MethodGet, "/health", "", client)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_DisabledRedisFallsBackToLocal(t *testing.T) {
	shared := redis.NewRateLimiter(redis.Disabled(), "test")
	limiter := NewRateLimiter(0.001, 1, shared, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, limiter.Allow(req, "a"))
	assert.False(t, limiter.Allow(req, "a"))
	assert.True(t, limiter.Allow(req, "b"))
}

func TestRouter_BodyLimit(t *testing.T) {
	r, _ := newTestRouter(t, RouterOptions{MaxBodyBytes: 32})

	body := `{"trades": [{"symbol": "AAPL", "side": "long", "realized_pnl": 1}]}`
	rec := do(t, r, http.MethodPost, "/api/kpi/compute", body, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug")

	h := recoveryMiddleware(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.Contains(t, buf.String(), "Panic recovered")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", clientKey(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.9 ,10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientKey(req))
}

func TestRouter_OverHTTP(t *testing.T) {
	r, _ := newTestRouter(t, RouterOptions{})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	r, _ := newTestRouter(t, RouterOptions{})
	srv := New(&config.Config{Port: "0", Env: "test"}, logger.Nop(), r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
