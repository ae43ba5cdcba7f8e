package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/kpi"
	"github.com/wonny/tradejournal/pkg/logger"
)

// memoryCache is an in-process ResponseCache with the same JSON semantics as redis.Cache
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	keys []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) GetOrSet(_ context.Context, key string, dest interface{}, _ time.Duration, fn func() (interface{}, error)) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, key)

	if raw, ok := c.data[key]; ok {
		return true, json.Unmarshal(raw, dest)
	}
	v, err := fn()
	if err != nil {
		return false, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	c.data[key] = raw
	return false, json.Unmarshal(raw, dest)
}

const journalBody = `{
	"trades": [
		{"trade_id": "T1", "symbol": "AAPL", "side": "long", "quantity": 1, "entry_price": 100, "exit_price": 110, "setup_tag": "breakout"},
		{"trade_id": "T2", "symbol": "MSFT", "side": "long", "quantity": 1, "entry_price": 100, "exit_price": 95, "setup_tag": "fade"},
		{"trade_id": "T3", "symbol": "AAPL", "side": "short", "realized_pnl": 20}
	]
}`

func newTestHandler(cache ResponseCache) *KPIHandler {
	engine := kpi.NewEngine(kpi.DefaultComputeConfig(), logger.Nop())
	return NewKPIHandler(engine, cache, time.Minute, "cfg-hash", logger.Nop())
}

func post(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func findResult(t *testing.T, results []kpi.KPIResult, id kpi.KPIId) kpi.KPIResult {
	t.Helper()
	for _, r := range results {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("result %s missing", id)
	return kpi.KPIResult{}
}

func TestListDefinitions(t *testing.T) {
	h := newTestHandler(nil)

	rec := httptest.NewRecorder()
	h.ListDefinitions(rec, httptest.NewRequest(http.MethodGet, "/api/kpi/definitions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count       int                 `json:"count"`
		Definitions []kpi.KPIDefinition `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 60, body.Count)
	assert.Equal(t, kpi.NetPnL, body.Definitions[0].ID)

	rec = httptest.NewRecorder()
	h.ListDefinitions(rec, httptest.NewRequest(http.MethodGet, "/api/kpi/definitions?category=exposure", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Count)

	rec = httptest.NewRecorder()
	h.ListDefinitions(rec, httptest.NewRequest(http.MethodGet, "/api/kpi/definitions?category=vibes", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDefinition(t *testing.T) {
	h := newTestHandler(nil)

	tests := []struct {
		id     string
		status int
	}{
		{"sharpe_ratio", http.StatusOK},
		{"max_drawdown_percent", http.StatusOK},
		{"sharpe", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/kpi/definitions/"+tt.id, nil), map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()
			h.GetDefinition(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				var def kpi.KPIDefinition
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
				assert.Equal(t, tt.id, def.ID.String())
				assert.NotEmpty(t, def.Formula)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	h := newTestHandler(nil)

	rec := post(t, h.Compute, "/api/kpi/compute", journalBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 60)
	assert.Equal(t, "cfg-hash", resp.ConfigHash)
	assert.False(t, resp.Cached)
	assert.Positive(t, resp.Computed)

	// 10 - 5 + 20
	net := findResult(t, resp.Results, kpi.NetPnL)
	require.NotNil(t, net.Value)
	assert.InDelta(t, 25.0, *net.Value, 1e-9)

	beta := findResult(t, resp.Results, kpi.Beta)
	assert.Nil(t, beta.Value)
	assert.NotEmpty(t, beta.Reason)
}

func TestCompute_Subset(t *testing.T) {
	h := newTestHandler(nil)

	body := strings.Replace(journalBody, `"trades"`, `"kpis": ["win_rate", "net_pnl"], "trades"`, 1)
	rec := post(t, h.Compute, "/api/kpi/compute", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, kpi.WinRate, resp.Results[0].ID)
	assert.Equal(t, kpi.NetPnL, resp.Results[1].ID)
}

func TestCompute_BadRequests(t *testing.T) {
	h := newTestHandler(nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "Invalid request body"},
		{"malformed", `{"trades": [`, "Invalid request body"},
		{"unknown field", `{"trades": [], "orders": []}`, "unknown field"},
		{"bad side", `{"trades": [{"symbol": "AAPL", "side": "up", "realized_pnl": 1}]}`, "side must be"},
		{"unknown kpi", `{"trades": [], "kpis": ["alpha_ratio"]}`, "unknown kpi id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h.Compute, "/api/kpi/compute", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.want)
		})
	}
}

func TestCompute_BodyTooLarge(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/kpi/compute", strings.NewReader(journalBody))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)
	h.Compute(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCompute_Cache(t *testing.T) {
	cache := newMemoryCache()
	h := newTestHandler(cache)

	first := post(t, h.Compute, "/api/kpi/compute", journalBody)
	second := post(t, h.Compute, "/api/kpi/compute", journalBody)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b ComputeResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.False(t, a.Cached)
	assert.True(t, b.Cached)
	assert.Equal(t, a.Results, b.Results)

	require.Len(t, cache.keys, 2)
	assert.Equal(t, cache.keys[0], cache.keys[1])
	assert.True(t, strings.HasPrefix(cache.keys[0], "kpi:compute:"))

	// a different engine config must not share entries
	other := NewKPIHandler(h.engine, cache, time.Minute, "other-hash", logger.Nop())
	third := post(t, other.Compute, "/api/kpi/compute", journalBody)
	var c ComputeResponse
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &c))
	assert.False(t, c.Cached)
}

func TestGroup(t *testing.T) {
	h := newTestHandler(nil)

	rec := post(t, h.Group, "/api/kpi/group?by=Symbol", journalBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp GroupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "symbol", resp.By)
	require.Len(t, resp.Groups, 2)

	aapl := findResult(t, resp.Groups["AAPL"], kpi.NetPnL)
	require.NotNil(t, aapl.Value)
	assert.InDelta(t, 30.0, *aapl.Value, 1e-9)
	assert.Len(t, resp.Groups["MSFT"], 60)
}

func TestGroup_BadRequests(t *testing.T) {
	h := newTestHandler(nil)

	rec := post(t, h.Group, "/api/kpi/group", journalBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "setup_tag")

	rec = post(t, h.Group, "/api/kpi/group?by=broker", journalBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h.Group, "/api/kpi/group?by=symbol", `{"trades": [], "kpis": ["net_pnl"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGroupFields(t *testing.T) {
	h := newTestHandler(nil)

	rec := httptest.NewRecorder()
	h.ListGroupFields(rec, httptest.NewRequest(http.MethodGet, "/api/kpi/group-fields", nil))

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, kpi.GroupFields(), body["fields"])
}
