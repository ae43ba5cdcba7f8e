package kpi

import "math"

// KPIDefinition is the static metadata of one catalog entry
type KPIDefinition struct {
	ID             KPIId     `json:"id"`
	Name           string    `json:"name"`
	Category       Category  `json:"category"`
	Formula        string    `json:"formula"`
	RequiredInputs []Input   `json:"required_inputs"`
	EdgeCases      string    `json:"edge_cases"`
	Example        string    `json:"example"`
	Unit           Unit      `json:"unit"`
	Direction      Direction `json:"direction"`
}

// KPIResult is a definition plus the value computed for one input set.
// Value is nil (JSON null) when the KPI cannot be computed; Reason then says why.
type KPIResult struct {
	KPIDefinition
	Value  *float64 `json:"value"`
	Reason string   `json:"reason,omitempty"`
}

// Computed reports whether the KPI produced a value
func (r KPIResult) Computed() bool {
	return r.Value != nil
}

// outcome is what a compute function returns before metadata is attached
type outcome struct {
	value  *float64
	reason string
}

// computeFunc is a pure function of the derived inputs
type computeFunc func(in *Inputs) outcome

func value(v float64) outcome {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return insufficient(reasonNonFinite)
	}
	return outcome{value: &v}
}

func insufficient(reason string) outcome {
	return outcome{reason: reason}
}

// reasons shared by several KPIs
const (
	reasonNoTrades         = "no trades"
	reasonNoWinningTrades  = "no winning trades"
	reasonNoLosingTrades   = "no losing trades"
	reasonNoNotional       = "no trades with valid notional (entry price × quantity)"
	reasonNoPlannedRisk    = "no trades with planned_risk"
	reasonNoEquity         = "fewer than 2 equity points"
	reasonInvalidEquity    = "equity curve starts at a non-positive value"
	reasonFewReturns       = "fewer than 2 returns"
	reasonZeroVolatility   = "return volatility is zero"
	reasonZeroDownside     = "downside deviation is zero"
	reasonZeroDrawdown     = "max drawdown is zero"
	reasonNoBenchmark      = "no benchmark series"
	reasonNoOverlap        = "fewer than 2 benchmark dates overlap the equity curve"
	reasonFlatBenchmark    = "benchmark variance is zero"
	reasonZeroBeta         = "beta is zero"
	reasonNonFinite        = "result is not a finite number"
	reasonNoTimes          = "no trades with entry and exit times"
	reasonNoRecovered      = "no drawdown has recovered"
	reasonNoEquityForEntry = "no trades entered within the equity curve"
)
