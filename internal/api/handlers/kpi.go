package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/kpi"
	"github.com/wonny/tradejournal/pkg/logger"
	"github.com/wonny/tradejournal/pkg/redis"
)

// ResponseCache is the subset of redis.Cache the handler needs
type ResponseCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) (bool, error)
}

var _ ResponseCache = (*redis.Cache)(nil)

// KPIHandler handles KPI catalog and computation endpoints
// ⭐ SSOT: KPI API 핸들러는 이 구조체에서만
type KPIHandler struct {
	engine     *kpi.Engine
	cache      ResponseCache
	cacheTTL   time.Duration
	configHash string
	logger     *logger.Logger
}

// NewKPIHandler creates a new KPI handler.
// configHash identifies the engine configuration in cache keys; cache may be nil.
func NewKPIHandler(engine *kpi.Engine, cache ResponseCache, cacheTTL time.Duration, configHash string, log *logger.Logger) *KPIHandler {
	return &KPIHandler{
		engine:     engine,
		cache:      cache,
		cacheTTL:   cacheTTL,
		configHash: configHash,
		logger:     log,
	}
}

// ComputeRequest is the body of compute and group requests
type ComputeRequest struct {
	Trades    []contracts.Trade          `json:"trades"`
	Equity    []contracts.EquityPoint    `json:"equity,omitempty"`
	Benchmark []contracts.BenchmarkPoint `json:"benchmark,omitempty"`
	KPIs      []string                   `json:"kpis,omitempty"` // slugs; empty = full catalog
}

// ComputeResponse carries one KPI result set
type ComputeResponse struct {
	ConfigHash string          `json:"config_hash"`
	Cached     bool            `json:"cached"`
	Computed   int             `json:"computed"`
	Results    []kpi.KPIResult `json:"results"`
}

// GroupResponse carries one KPI result set per partition
type GroupResponse struct {
	ConfigHash string                     `json:"config_hash"`
	Cached     bool                       `json:"cached"`
	By         string                     `json:"by"`
	Groups     map[string][]kpi.KPIResult `json:"groups"`
}

// =============================================================================
// Catalog
// =============================================================================

// ListDefinitions returns the catalog, optionally filtered by category
// GET /api/kpi/definitions?category=risk_adjusted
func (h *KPIHandler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	defs := kpi.Definitions()

	if c := r.URL.Query().Get("category"); c != "" {
		category := kpi.Category(strings.ToLower(c))
		filtered := defs[:0]
		for _, d := range defs {
			if d.Category == category {
				filtered = append(filtered, d)
			}
		}
		if len(filtered) == 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown category %q", c))
			return
		}
		defs = filtered
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(defs),
		"definitions": defs,
	})
}

// GetDefinition returns one catalog entry
// GET /api/kpi/definitions/{id}
func (h *KPIHandler) GetDefinition(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["id"]

	id, err := kpi.ParseID(slug)
	if err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Unknown KPI %q", slug))
		return
	}
	def, err := kpi.Definition(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, def)
}

// ListGroupFields returns the trade fields accepted by the group endpoint
// GET /api/kpi/group-fields
func (h *KPIHandler) ListGroupFields(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fields": kpi.GroupFields(),
	})
}

// =============================================================================
// Computation
// =============================================================================

// Compute evaluates the catalog (or the requested subset) for the posted journal
// POST /api/kpi/compute
func (h *KPIHandler) Compute(w http.ResponseWriter, r *http.Request) {
	req, bodyHash, ok := h.decode(w, r)
	if !ok {
		return
	}

	ids := make([]kpi.KPIId, 0, len(req.KPIs))
	for _, slug := range req.KPIs {
		id, err := kpi.ParseID(slug)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		ids = append(ids, id)
	}

	resp, hit, err := cached(r.Context(), h, redis.ComputeKey(bodyHash), func() (ComputeResponse, error) {
		var results []kpi.KPIResult
		if len(ids) == 0 {
			results = h.engine.ComputeAll(req.Trades, req.Equity, req.Benchmark)
		} else {
			var err error
			if results, err = h.engine.Compute(ids, req.Trades, req.Equity, req.Benchmark); err != nil {
				return ComputeResponse{}, err
			}
		}
		return ComputeResponse{
			ConfigHash: h.configHash,
			Computed:   CountComputed(results),
			Results:    results,
		}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute KPIs")
		respondError(w, http.StatusInternalServerError, "Failed to compute KPIs")
		return
	}

	resp.Cached = hit
	respondJSON(w, http.StatusOK, resp)
}

// Group evaluates the full catalog per trade partition
// POST /api/kpi/group?by=symbol
func (h *KPIHandler) Group(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		respondError(w, http.StatusBadRequest, "Missing 'by' query parameter (supported: "+strings.Join(kpi.GroupFields(), ", ")+")")
		return
	}
	key, err := kpi.GroupByField(by)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	by = strings.ToLower(strings.TrimSpace(by))

	req, bodyHash, ok := h.decode(w, r)
	if !ok {
		return
	}
	if len(req.KPIs) > 0 {
		respondError(w, http.StatusBadRequest, "'kpis' is not supported for grouped computation")
		return
	}

	resp, hit, err := cached(r.Context(), h, redis.GroupKey(by, bodyHash), func() (GroupResponse, error) {
		return GroupResponse{
			ConfigHash: h.configHash,
			By:         by,
			Groups:     h.engine.ComputeByGroup(req.Trades, key, req.Equity, req.Benchmark),
		}, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute grouped KPIs")
		respondError(w, http.StatusInternalServerError, "Failed to compute grouped KPIs")
		return
	}

	resp.Cached = hit
	respondJSON(w, http.StatusOK, resp)
}

// decode reads and strictly decodes the body.
// The returned hash covers the raw body and the engine config.
func (h *KPIHandler) decode(w http.ResponseWriter, r *http.Request) (*ComputeRequest, string, bool) {
	body, status, err := readBody(r)
	if err != nil {
		if status == http.StatusRequestEntityTooLarge {
			respondError(w, status, "Request body too large")
		} else {
			respondError(w, status, "Invalid request body")
		}
		return nil, "", false
	}

	var req ComputeRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, "", false
	}
	if msg := validateTrades(req.Trades); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return nil, "", false
	}

	sum := sha256.New()
	sum.Write([]byte(h.configHash))
	sum.Write([]byte{0})
	sum.Write(body)
	return &req, hex.EncodeToString(sum.Sum(nil)), true
}

// validateTrades rejects records the engine would silently misread
func validateTrades(trades []contracts.Trade) string {
	for i, t := range trades {
		if !t.Side.Valid() {
			return fmt.Sprintf("trades[%d]: side must be \"long\" or \"short\", got %q", i, t.Side)
		}
	}
	return ""
}

// cached wraps fn with the response cache when one is configured
func cached[T any](ctx context.Context, h *KPIHandler, key string, fn func() (T, error)) (T, bool, error) {
	if h.cache == nil || h.cacheTTL <= 0 {
		v, err := fn()
		return v, false, err
	}

	var dest T
	hit, err := h.cache.GetOrSet(ctx, key, &dest, h.cacheTTL, func() (interface{}, error) {
		return fn()
	})
	return dest, hit, err
}

// CountComputed returns how many results carry a value
func CountComputed(results []kpi.KPIResult) int {
	n := 0
	for _, r := range results {
		if r.Computed() {
			n++
		}
	}
	return n
}
