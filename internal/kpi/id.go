package kpi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKPI is returned when a slug does not name a catalog entry
var ErrUnknownKPI = errors.New("unknown kpi id")

// KPIId is the closed enumeration of catalog entries.
// ⭐ SSOT: 순서 = 출력 순서 (category order). Add new ids before kpiCount.
type KPIId int

const (
	// profitability_edge
	NetPnL KPIId = iota
	GrossProfit
	GrossLoss
	ProfitFactor
	WinRate
	LossRate
	AvgWin
	AvgLoss
	PayoffRatio
	Expectancy
	AvgTradeReturnPercent
	AvgRMultiple
	SQN
	RiskOfRuin
	TotalReturnPercent
	CAGR

	// risk_drawdown
	MaxDrawdownPercent
	MaxDrawdownAbsolute
	MaxDrawdownDurationDays
	AvgRecoveryDays
	UlcerIndex
	AnnualizedVolatility
	DownsideDeviation
	ValueAtRisk
	ConditionalValueAtRisk

	// risk_adjusted
	SharpeRatio
	SortinoRatio
	CalmarRatio
	OmegaRatio
	GainToPainRatio
	Kappa3Ratio
	UlcerPerformanceIndex
	RecoveryFactor
	Alpha
	Beta
	TreynorRatio
	InformationRatio
	TrackingError

	// distribution
	ReturnSkewness
	ReturnKurtosis
	TailRatio
	MedianTradeReturnPercent
	BestTrade
	WorstTrade
	MaxConsecutiveWins
	MaxConsecutiveLosses
	AvgTradeDurationMinutes

	// execution
	AvgSlippageArrivalBps
	AvgSlippageVWAPBps
	AvgSlippageTWAPBps
	ImplementationShortfallBps
	AvgFillRatePercent
	AvgLatencyMs
	AvgCommissionPerTrade
	AvgSpreadBps

	// exposure
	AvgEquityAtRiskPercent
	AvgGrossExposurePercent
	ConcentrationHHI
	AvgMAE
	AvgMFE

	kpiCount
)

// Count is the number of KPIs in the catalog
const Count = int(kpiCount)

var slugs = [kpiCount]string{
	NetPnL:                     "net_pnl",
	GrossProfit:                "gross_profit",
	GrossLoss:                  "gross_loss",
	ProfitFactor:               "profit_factor",
	WinRate:                    "win_rate",
	LossRate:                   "loss_rate",
	AvgWin:                     "avg_win",
	AvgLoss:                    "avg_loss",
	PayoffRatio:                "payoff_ratio",
	Expectancy:                 "expectancy",
	AvgTradeReturnPercent:      "avg_trade_return_percent",
	AvgRMultiple:               "avg_r_multiple",
	SQN:                        "sqn_system_quality_number",
	RiskOfRuin:                 "risk_of_ruin",
	TotalReturnPercent:         "total_return_percent",
	CAGR:                       "cagr",
	MaxDrawdownPercent:         "max_drawdown_percent",
	MaxDrawdownAbsolute:        "max_drawdown_absolute",
	MaxDrawdownDurationDays:    "max_drawdown_duration_days",
	AvgRecoveryDays:            "avg_recovery_days",
	UlcerIndex:                 "ulcer_index",
	AnnualizedVolatility:       "annualized_volatility",
	DownsideDeviation:          "downside_deviation",
	ValueAtRisk:                "value_at_risk",
	ConditionalValueAtRisk:     "conditional_value_at_risk",
	SharpeRatio:                "sharpe_ratio",
	SortinoRatio:               "sortino_ratio",
	CalmarRatio:                "calmar_ratio",
	OmegaRatio:                 "omega_ratio",
	GainToPainRatio:            "gain_to_pain_ratio",
	Kappa3Ratio:                "kappa_3_ratio",
	UlcerPerformanceIndex:      "ulcer_performance_index",
	RecoveryFactor:             "recovery_factor",
	Alpha:                      "alpha",
	Beta:                       "beta",
	TreynorRatio:               "treynor_ratio",
	InformationRatio:           "information_ratio",
	TrackingError:              "tracking_error",
	ReturnSkewness:             "return_skewness",
	ReturnKurtosis:             "return_kurtosis",
	TailRatio:                  "tail_ratio",
	MedianTradeReturnPercent:   "median_trade_return_percent",
	BestTrade:                  "best_trade",
	WorstTrade:                 "worst_trade",
	MaxConsecutiveWins:         "max_consecutive_wins",
	MaxConsecutiveLosses:       "max_consecutive_losses",
	AvgTradeDurationMinutes:    "avg_trade_duration_minutes",
	AvgSlippageArrivalBps:      "avg_slippage_arrival_bps",
	AvgSlippageVWAPBps:         "avg_slippage_vwap_bps",
	AvgSlippageTWAPBps:         "avg_slippage_twap_bps",
	ImplementationShortfallBps: "implementation_shortfall_bps",
	AvgFillRatePercent:         "avg_fill_rate_percent",
	AvgLatencyMs:               "avg_latency_ms",
	AvgCommissionPerTrade:      "avg_commission_per_trade",
	AvgSpreadBps:               "avg_spread_bps",
	AvgEquityAtRiskPercent:     "avg_equity_at_risk_percent",
	AvgGrossExposurePercent:    "avg_gross_exposure_percent",
	ConcentrationHHI:           "concentration_hhi",
	AvgMAE:                     "avg_mae",
	AvgMFE:                     "avg_mfe",
}

// IDs returns every KPI id in output order
func IDs() []KPIId {
	out := make([]KPIId, kpiCount)
	for i := range out {
		out[i] = KPIId(i)
	}
	return out
}

// Valid reports whether id is inside the closed enumeration
func (id KPIId) Valid() bool {
	return id >= 0 && id < kpiCount
}

// String returns the stable slug (e.g. "net_pnl")
func (id KPIId) String() string {
	if !id.Valid() {
		return fmt.Sprintf("kpi(%d)", int(id))
	}
	return slugs[id]
}

// ParseID resolves a slug to its id
func ParseID(slug string) (KPIId, error) {
	for i, s := range slugs {
		if s == slug {
			return KPIId(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKPI, slug)
}

// MarshalJSON encodes the id as its slug
func (id KPIId) MarshalJSON() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKPI, int(id))
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes a slug
func (id *KPIId) UnmarshalJSON(data []byte) error {
	var slug string
	if err := json.Unmarshal(data, &slug); err != nil {
		return err
	}
	parsed, err := ParseID(slug)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// =============================================================================
// Metadata enums
// =============================================================================

// Category groups KPIs for presentation
type Category string

const (
	CategoryProfitabilityEdge Category = "profitability_edge"
	CategoryRiskDrawdown      Category = "risk_drawdown"
	CategoryRiskAdjusted      Category = "risk_adjusted"
	CategoryDistribution      Category = "distribution"
	CategoryExecution         Category = "execution"
	CategoryExposure          Category = "exposure"
)

// Categories in output order
func Categories() []Category {
	return []Category{
		CategoryProfitabilityEdge,
		CategoryRiskDrawdown,
		CategoryRiskAdjusted,
		CategoryDistribution,
		CategoryExecution,
		CategoryExposure,
	}
}

// Direction is a presentation hint; computation never reads it
type Direction string

const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// Unit describes how Value should be rendered
type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitPercent  Unit = "percent"
	UnitRatio    Unit = "ratio"
	UnitCount    Unit = "count"
	UnitDays     Unit = "days"
	UnitMinutes  Unit = "minutes"
	UnitMillis   Unit = "milliseconds"
	UnitBps      Unit = "bps"
	UnitIndex    Unit = "index"
)

// Input names a piece of caller-supplied data a KPI depends on
type Input string

const (
	InputTrades        Input = "trades"
	InputPrices        Input = "entry_exit_prices"
	InputTimes         Input = "entry_exit_times"
	InputPlannedRisk   Input = "planned_risk"
	InputStopPrice     Input = "stop_price"
	InputEquityCurve   Input = "equity_curve"
	InputBenchmark     Input = "benchmark"
	InputFills         Input = "fills"
	InputArrivalPrice  Input = "arrival_price"
	InputVWAP          Input = "vwap"
	InputTWAP          Input = "twap"
	InputIntendedPrice Input = "intended_price"
	InputIntendedQty   Input = "intended_qty"
	InputSignalTime    Input = "signal_time"
	InputFees          Input = "fees_commissions"
	InputSpread        Input = "spread_bps"
	InputMAE           Input = "mae"
	InputMFE           Input = "mfe"
)
