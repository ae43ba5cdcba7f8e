package kpi

import (
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/pkg/logger"
)

// Engine binds a compute configuration and a logger to the pure KPI functions.
// ⭐ SSOT: 로깅은 Engine에서만, compute 함수는 순수 함수로 유지
type Engine struct {
	cfg    ComputeConfig
	logger *logger.Logger
}

// NewEngine creates a new KPI engine
func NewEngine(cfg ComputeConfig, log *logger.Logger) *Engine {
	return &Engine{
		cfg:    cfg.Normalize(),
		logger: log,
	}
}

// Config returns the normalized configuration
func (e *Engine) Config() ComputeConfig {
	return e.cfg
}

// ComputeAll evaluates the full catalog
func (e *Engine) ComputeAll(trades []contracts.Trade, curve []contracts.EquityPoint, bench []contracts.BenchmarkPoint) []KPIResult {
	start := time.Now()
	results := ComputeAll(trades, curve, bench, e.cfg)

	e.logger.WithFields(map[string]interface{}{
		"trades":    len(trades),
		"equity":    len(curve),
		"benchmark": len(bench),
		"computed":  countComputed(results),
		"elapsed":   time.Since(start).String(),
	}).Info("KPIs computed")

	return results
}

// Compute evaluates a subset of the catalog, in the order given
func (e *Engine) Compute(ids []KPIId, trades []contracts.Trade, curve []contracts.EquityPoint, bench []contracts.BenchmarkPoint) ([]KPIResult, error) {
	results, err := Compute(ids, trades, curve, bench, e.cfg)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"requested": len(ids),
		"trades":    len(trades),
		"computed":  countComputed(results),
	}).Debug("KPI subset computed")

	return results, nil
}

// ComputeByGroup evaluates the full catalog per partition
func (e *Engine) ComputeByGroup(trades []contracts.Trade, key GroupKeyFunc, curve []contracts.EquityPoint, bench []contracts.BenchmarkPoint) map[string][]KPIResult {
	start := time.Now()
	groups := ComputeByGroup(trades, key, curve, bench, e.cfg)

	e.logger.WithFields(map[string]interface{}{
		"trades":  len(trades),
		"groups":  len(groups),
		"workers": e.cfg.Workers,
		"elapsed": time.Since(start).String(),
	}).Info("KPIs computed by group")

	return groups
}

func countComputed(results []KPIResult) int {
	n := 0
	for _, r := range results {
		if r.Computed() {
			n++
		}
	}
	return n
}
