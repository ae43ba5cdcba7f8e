package kpi

import (
	"fmt"
	"slices"
)

// =============================================================================
// Catalog
// ⭐ SSOT: KPI 메타데이터와 계산 함수는 이 두 테이블에서만 정의
// Both tables are indexed by KPIId; a missing entry is caught by TestCatalogComplete.
// =============================================================================

var (
	tradesOnly  = []Input{InputTrades, InputPrices}
	equityOnly  = []Input{InputEquityCurve}
	pathInputs  = []Input{InputEquityCurve, InputTrades, InputPrices}
	benchInputs = []Input{InputEquityCurve, InputBenchmark}
)

var computers = [kpiCount]computeFunc{
	NetPnL:                computeNetPnL,
	GrossProfit:           computeGrossProfit,
	GrossLoss:             computeGrossLoss,
	ProfitFactor:          computeProfitFactor,
	WinRate:               computeWinRate,
	LossRate:              computeLossRate,
	AvgWin:                computeAvgWin,
	AvgLoss:               computeAvgLoss,
	PayoffRatio:           computePayoffRatio,
	Expectancy:            computeExpectancy,
	AvgTradeReturnPercent: computeAvgTradeReturnPercent,
	AvgRMultiple:          computeAvgRMultiple,
	SQN:                   computeSQN,
	RiskOfRuin:            computeRiskOfRuin,
	TotalReturnPercent:    computeTotalReturnPercent,
	CAGR:                  computeCAGR,

	MaxDrawdownPercent:      computeMaxDrawdownPercent,
	MaxDrawdownAbsolute:     computeMaxDrawdownAbsolute,
	MaxDrawdownDurationDays: computeMaxDrawdownDurationDays,
	AvgRecoveryDays:         computeAvgRecoveryDays,
	UlcerIndex:              computeUlcerIndex,
	AnnualizedVolatility:    computeAnnualizedVolatility,
	DownsideDeviation:       computeDownsideDeviation,
	ValueAtRisk:             computeValueAtRisk,
	ConditionalValueAtRisk:  computeConditionalValueAtRisk,

	SharpeRatio:           computeSharpeRatio,
	SortinoRatio:          computeSortinoRatio,
	CalmarRatio:           computeCalmarRatio,
	OmegaRatio:            computeOmegaRatio,
	GainToPainRatio:       computeGainToPainRatio,
	Kappa3Ratio:           computeKappa3Ratio,
	UlcerPerformanceIndex: computeUlcerPerformanceIndex,
	RecoveryFactor:        computeRecoveryFactor,
	Alpha:                 computeAlpha,
	Beta:                  computeBeta,
	TreynorRatio:          computeTreynorRatio,
	InformationRatio:      computeInformationRatio,
	TrackingError:         computeTrackingError,

	ReturnSkewness:           computeReturnSkewness,
	ReturnKurtosis:           computeReturnKurtosis,
	TailRatio:                computeTailRatio,
	MedianTradeReturnPercent: computeMedianTradeReturnPercent,
	BestTrade:                computeBestTrade,
	WorstTrade:               computeWorstTrade,
	MaxConsecutiveWins:       computeMaxConsecutiveWins,
	MaxConsecutiveLosses:     computeMaxConsecutiveLosses,
	AvgTradeDurationMinutes:  computeAvgTradeDurationMinutes,

	AvgSlippageArrivalBps:      computeAvgSlippageArrivalBps,
	AvgSlippageVWAPBps:         computeAvgSlippageVWAPBps,
	AvgSlippageTWAPBps:         computeAvgSlippageTWAPBps,
	ImplementationShortfallBps: computeImplementationShortfallBps,
	AvgFillRatePercent:         computeAvgFillRatePercent,
	AvgLatencyMs:               computeAvgLatencyMs,
	AvgCommissionPerTrade:      computeAvgCommissionPerTrade,
	AvgSpreadBps:               computeAvgSpreadBps,

	AvgEquityAtRiskPercent:  computeAvgEquityAtRiskPercent,
	AvgGrossExposurePercent: computeAvgGrossExposurePercent,
	ConcentrationHHI:        computeConcentrationHHI,
	AvgMAE:                  computeAvgMAE,
	AvgMFE:                  computeAvgMFE,
}

var definitions = [kpiCount]KPIDefinition{
	// =========================================================================
	// profitability_edge
	// =========================================================================
	NetPnL: {
		Name:           "Net P&L",
		Category:       CategoryProfitabilityEdge,
		Formula:        "Σ pnl_i",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null with no trades; realized_pnl is used when present, otherwise (exit − entry) × qty × multiplier × direction − fees",
		Example:        "trades +100, −50, +30 → 80",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	GrossProfit: {
		Name:           "Gross Profit",
		Category:       CategoryProfitabilityEdge,
		Formula:        "Σ pnl_i for pnl_i > 0",
		RequiredInputs: tradesOnly,
		EdgeCases:      "0 when there are trades but no winners",
		Example:        "trades +100, −50, +30 → 130",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	GrossLoss: {
		Name:           "Gross Loss",
		Category:       CategoryProfitabilityEdge,
		Formula:        "Σ pnl_i for pnl_i < 0 (reported as a negative number)",
		RequiredInputs: tradesOnly,
		EdgeCases:      "0 when there are trades but no losers",
		Example:        "trades +100, −50, +30 → −50",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	ProfitFactor: {
		Name:           "Profit Factor",
		Category:       CategoryProfitabilityEdge,
		Formula:        "gross_profit / |gross_loss|",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null when gross loss is 0 (no losing trades)",
		Example:        "gross profit 130, gross loss −50 → 2.6",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	WinRate: {
		Name:           "Win Rate",
		Category:       CategoryProfitabilityEdge,
		Formula:        "count(pnl > 0) / N × 100",
		RequiredInputs: tradesOnly,
		EdgeCases:      "breakeven trades count in N but as neither win nor loss",
		Example:        "2 winners of 3 trades → 66.67",
		Unit:           UnitPercent,
		Direction:      HigherIsBetter,
	},
	LossRate: {
		Name:           "Loss Rate",
		Category:       CategoryProfitabilityEdge,
		Formula:        "count(pnl < 0) / N × 100",
		RequiredInputs: tradesOnly,
		EdgeCases:      "win_rate + loss_rate ≤ 100; the gap is breakeven trades",
		Example:        "1 loser of 3 trades → 33.33",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},
	AvgWin: {
		Name:           "Average Win",
		Category:       CategoryProfitabilityEdge,
		Formula:        "gross_profit / count(pnl > 0)",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null with no winning trades",
		Example:        "winners +100, +30 → 65",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	AvgLoss: {
		Name:           "Average Loss",
		Category:       CategoryProfitabilityEdge,
		Formula:        "gross_loss / count(pnl < 0)",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null with no losing trades; negative number",
		Example:        "losers −50, −30 → −40",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	PayoffRatio: {
		Name:           "Payoff Ratio",
		Category:       CategoryProfitabilityEdge,
		Formula:        "mean(r_i | r_i > 0) / |mean(r_i | r_i < 0)| on trade returns",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null without both a positive and a negative trade return; trades with zero notional are skipped",
		Example:        "returns +4%, +2%, −1.5% → 2.0",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	Expectancy: {
		Name:           "Expectancy",
		Category:       CategoryProfitabilityEdge,
		Formula:        "net_pnl / N",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null with no trades",
		Example:        "net 80 over 3 trades → 26.67",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	AvgTradeReturnPercent: {
		Name:           "Average Trade Return",
		Category:       CategoryProfitabilityEdge,
		Formula:        "mean(pnl_i / notional_i) × 100",
		RequiredInputs: tradesOnly,
		EdgeCases:      "trades with zero notional are skipped; null if none remain",
		Example:        "returns +2%, −1% → 0.5",
		Unit:           UnitPercent,
		Direction:      HigherIsBetter,
	},
	AvgRMultiple: {
		Name:           "Average R-Multiple",
		Category:       CategoryProfitabilityEdge,
		Formula:        "mean(pnl_i / |planned_risk_i|)",
		RequiredInputs: []Input{InputTrades, InputPrices, InputPlannedRisk},
		EdgeCases:      "trades without planned_risk or with planned_risk 0 are excluded; null if none remain",
		Example:        "pnl 200 with risk 100, pnl −100 with risk 100 → 0.5",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	SQN: {
		Name:           "System Quality Number",
		Category:       CategoryProfitabilityEdge,
		Formula:        "√n × mean(R) / stddev(R)",
		RequiredInputs: []Input{InputTrades, InputPrices, InputPlannedRisk},
		EdgeCases:      "null with fewer than 2 R-multiples or zero R-multiple deviation",
		Example:        "R = 2, −1, 2, −1 → √4 × 0.5 / 1.5 = 0.67",
		Unit:           UnitIndex,
		Direction:      HigherIsBetter,
	},
	RiskOfRuin: {
		Name:           "Risk of Ruin (approximation)",
		Category:       CategoryProfitabilityEdge,
		Formula:        "q / (p × b), p = win rate, q = 1 − p, b = avg_win / |avg_loss|",
		RequiredInputs: tradesOnly,
		EdgeCases:      "single-unit-capital proxy, not a full ruin model; can exceed 1; null without both winners and losers",
		Example:        "p 0.5, b 2 → 0.5",
		Unit:           UnitRatio,
		Direction:      LowerIsBetter,
	},
	TotalReturnPercent: {
		Name:           "Total Return",
		Category:       CategoryProfitabilityEdge,
		Formula:        "(equity_last / equity_first − 1) × 100",
		RequiredInputs: equityOnly,
		EdgeCases:      "null with fewer than 2 equity points or a non-positive first value",
		Example:        "100,000 → 120,000 → 20",
		Unit:           UnitPercent,
		Direction:      HigherIsBetter,
	},
	CAGR: {
		Name:           "CAGR",
		Category:       CategoryProfitabilityEdge,
		Formula:        "((equity_last / equity_first)^(1 / years) − 1) × 100, years = days / 365",
		RequiredInputs: equityOnly,
		EdgeCases:      "years is floored at 1/365 so same-day curves stay finite; null when the first value is ≤ 0 or the last is < 0",
		Example:        "100,000 → 121,000 over 730 days → 10",
		Unit:           UnitPercent,
		Direction:      HigherIsBetter,
	},

	// =========================================================================
	// risk_drawdown
	// =========================================================================
	MaxDrawdownPercent: {
		Name:           "Max Drawdown",
		Category:       CategoryRiskDrawdown,
		Formula:        "max over t of (peak_t − equity_t) / peak_t × 100",
		RequiredInputs: equityOnly,
		EdgeCases:      "0 for a monotonically rising curve; positive number",
		Example:        "100 → 120 → 90 → 130 → 25",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},
	MaxDrawdownAbsolute: {
		Name:           "Max Drawdown (Absolute)",
		Category:       CategoryRiskDrawdown,
		Formula:        "max over t of (peak_t − equity_t)",
		RequiredInputs: equityOnly,
		EdgeCases:      "0 for a monotonically rising curve",
		Example:        "100 → 120 → 90 → 130 → 30",
		Unit:           UnitCurrency,
		Direction:      LowerIsBetter,
	},
	MaxDrawdownDurationDays: {
		Name:           "Max Drawdown Duration",
		Category:       CategoryRiskDrawdown,
		Formula:        "max over episodes of (recovery_or_last_time − peak_time) in days",
		RequiredInputs: equityOnly,
		EdgeCases:      "an unrecovered episode runs to the last equity point; 0 without drawdowns",
		Example:        "peak Jan 2, recovered Jan 12 → 10",
		Unit:           UnitDays,
		Direction:      LowerIsBetter,
	},
	AvgRecoveryDays: {
		Name:           "Average Recovery Time",
		Category:       CategoryRiskDrawdown,
		Formula:        "mean over recovered episodes of (recovery_time − trough_time) in days",
		RequiredInputs: equityOnly,
		EdgeCases:      "null when no drawdown has recovered",
		Example:        "trough Jan 5, recovered Jan 12 → 7",
		Unit:           UnitDays,
		Direction:      LowerIsBetter,
	},
	UlcerIndex: {
		Name:           "Ulcer Index",
		Category:       CategoryRiskDrawdown,
		Formula:        "√(mean(dd_t²)), dd_t in percent from the running peak",
		RequiredInputs: equityOnly,
		EdgeCases:      "0 for a monotonically rising curve",
		Example:        "drawdowns 0, 0, 25, 0 → 12.5",
		Unit:           UnitIndex,
		Direction:      LowerIsBetter,
	},
	AnnualizedVolatility: {
		Name:           "Annualized Volatility",
		Category:       CategoryRiskDrawdown,
		Formula:        "stddev(r) × √annualization_days × 100",
		RequiredInputs: pathInputs,
		EdgeCases:      "daily equity returns preferred; trade returns when no equity curve; null with fewer than 2 returns",
		Example:        "daily stddev 1% → 15.87",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},
	DownsideDeviation: {
		Name:           "Downside Deviation",
		Category:       CategoryRiskDrawdown,
		Formula:        "√(mean(min(r − τ, 0)²)) × √annualization_days × 100",
		RequiredInputs: pathInputs,
		EdgeCases:      "denominator is all observations; 0 when no return falls below τ",
		Example:        "r = +1%, −1% → 0.707% daily → 11.22",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},
	ValueAtRisk: {
		Name:           "Value at Risk (historical)",
		Category:       CategoryRiskDrawdown,
		Formula:        "−quantile(r, 1 − confidence) × 100, floored at 0",
		RequiredInputs: pathInputs,
		EdgeCases:      "reported as a positive loss; linear interpolation between order statistics",
		Example:        "5th percentile return −2% → 2",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},
	ConditionalValueAtRisk: {
		Name:           "Conditional VaR (Expected Shortfall)",
		Category:       CategoryRiskDrawdown,
		Formula:        "−mean(r | r ≤ VaR quantile) × 100, floored at 0",
		RequiredInputs: pathInputs,
		EdgeCases:      "reported as a positive loss; always ≥ value_at_risk",
		Example:        "tail returns −2%, −4% → 3",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},

	// =========================================================================
	// risk_adjusted
	// =========================================================================
	SharpeRatio: {
		Name:           "Sharpe Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "(mean(r) − rf / annualization_days) / stddev(r) × √annualization_days",
		RequiredInputs: pathInputs,
		EdgeCases:      "null with fewer than 2 returns or zero volatility",
		Example:        "daily mean 0.1%, stddev 1% → 1.59",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	SortinoRatio: {
		Name:           "Sortino Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "(mean(r) − rf / annualization_days) / downside_deviation(r, τ) × √annualization_days",
		RequiredInputs: pathInputs,
		EdgeCases:      "null when downside deviation is 0",
		Example:        "daily mean 0.1%, downside 0.5% → 3.17",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	CalmarRatio: {
		Name:           "Calmar Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "cagr / max_drawdown_percent",
		RequiredInputs: equityOnly,
		EdgeCases:      "null when max drawdown is 0",
		Example:        "CAGR 10%, MDD 20% → 0.5",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	OmegaRatio: {
		Name:           "Omega Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "Σ max(r − θ, 0) / Σ max(θ − r, 0)",
		RequiredInputs: pathInputs,
		EdgeCases:      "null when no return is at or below θ",
		Example:        "r = +2%, +1%, −1% → 3",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	GainToPainRatio: {
		Name:           "Gain-to-Pain Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "Σ r / Σ |r| for r < 0",
		RequiredInputs: pathInputs,
		EdgeCases:      "null with no negative returns",
		Example:        "r = +2%, +1%, −1% → 2",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	Kappa3Ratio: {
		Name:           "Kappa 3 Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "(mean(r) − τ) / ∛LPM₃(τ), LPM₃ = mean(max(τ − r, 0)³)",
		RequiredInputs: pathInputs,
		EdgeCases:      "null when no return falls below τ",
		Example:        "r = +2%, −1% → 0.5% / ∛(0.0000005) = 0.63",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	UlcerPerformanceIndex: {
		Name:           "Ulcer Performance Index",
		Category:       CategoryRiskAdjusted,
		Formula:        "(cagr − rf × 100) / ulcer_index",
		RequiredInputs: equityOnly,
		EdgeCases:      "null when the ulcer index is 0",
		Example:        "CAGR 10%, UI 5 → 2",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	RecoveryFactor: {
		Name:           "Recovery Factor",
		Category:       CategoryRiskAdjusted,
		Formula:        "net_pnl / max_drawdown_absolute",
		RequiredInputs: []Input{InputTrades, InputPrices, InputEquityCurve},
		EdgeCases:      "null when max drawdown is 0",
		Example:        "net 30,000, MDD 10,000 → 3",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	Alpha: {
		Name:           "Alpha (annualized)",
		Category:       CategoryRiskAdjusted,
		Formula:        "OLS intercept of daily r_p on r_b × annualization_days × 100",
		RequiredInputs: benchInputs,
		EdgeCases:      "null without benchmark, with fewer than 2 same-day pairs, or a flat benchmark",
		Example:        "daily intercept 0.02% → 5.04",
		Unit:           UnitPercent,
		Direction:      HigherIsBetter,
	},
	Beta: {
		Name:           "Beta",
		Category:       CategoryRiskAdjusted,
		Formula:        "cov(r_p, r_b) / var(r_b)",
		RequiredInputs: benchInputs,
		EdgeCases:      "null without benchmark, with fewer than 2 same-day pairs, or a flat benchmark",
		Example:        "r_p = 2 × r_b → 2",
		Unit:           UnitRatio,
		Direction:      LowerIsBetter,
	},
	TreynorRatio: {
		Name:           "Treynor Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "(mean(r_p) × annualization_days − rf) / beta",
		RequiredInputs: benchInputs,
		EdgeCases:      "null when beta is null or 0",
		Example:        "annual 12%, rf 2%, beta 0.5 → 0.2",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	InformationRatio: {
		Name:           "Information Ratio",
		Category:       CategoryRiskAdjusted,
		Formula:        "mean(r_p − r_b) / stddev(r_p − r_b) × √annualization_days",
		RequiredInputs: benchInputs,
		EdgeCases:      "null when tracking error is 0",
		Example:        "active mean 0.05%, active stddev 0.5% → 1.59",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	TrackingError: {
		Name:           "Tracking Error",
		Category:       CategoryRiskAdjusted,
		Formula:        "stddev(r_p − r_b) × √annualization_days × 100",
		RequiredInputs: benchInputs,
		EdgeCases:      "0 when the portfolio replicates the benchmark",
		Example:        "active stddev 0.5% daily → 7.94",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},

	// =========================================================================
	// distribution
	// =========================================================================
	ReturnSkewness: {
		Name:           "Return Skewness",
		Category:       CategoryDistribution,
		Formula:        "mean((r − μ)³) / σ³ on trade returns",
		RequiredInputs: tradesOnly,
		EdgeCases:      "0 with fewer than 3 returns or zero deviation",
		Example:        "symmetric returns → 0",
		Unit:           UnitIndex,
		Direction:      HigherIsBetter,
	},
	ReturnKurtosis: {
		Name:           "Return Kurtosis (excess)",
		Category:       CategoryDistribution,
		Formula:        "mean((r − μ)⁴) / σ⁴ − 3 on trade returns",
		RequiredInputs: tradesOnly,
		EdgeCases:      "0 with fewer than 4 returns or zero deviation",
		Example:        "normal-like returns → ≈ 0",
		Unit:           UnitIndex,
		Direction:      LowerIsBetter,
	},
	TailRatio: {
		Name:           "Tail Ratio",
		Category:       CategoryDistribution,
		Formula:        "|quantile(r, 0.95)| / |quantile(r, 0.05)|",
		RequiredInputs: pathInputs,
		EdgeCases:      "null when the 5th percentile is 0",
		Example:        "q95 +3%, q05 −2% → 1.5",
		Unit:           UnitRatio,
		Direction:      HigherIsBetter,
	},
	MedianTradeReturnPercent: {
		Name:           "Median Trade Return",
		Category:       CategoryDistribution,
		Formula:        "median(pnl_i / notional_i) × 100",
		RequiredInputs: tradesOnly,
		EdgeCases:      "even counts average the two middle values",
		Example:        "returns +2%, −1%, +0.5% → 0.5",
		Unit:           UnitPercent,
		Direction:      HigherIsBetter,
	},
	BestTrade: {
		Name:           "Best Trade",
		Category:       CategoryDistribution,
		Formula:        "max(pnl_i)",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null with no trades",
		Example:        "trades +100, −50, +30 → 100",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	WorstTrade: {
		Name:           "Worst Trade",
		Category:       CategoryDistribution,
		Formula:        "min(pnl_i)",
		RequiredInputs: tradesOnly,
		EdgeCases:      "null with no trades",
		Example:        "trades +100, −50, +30 → −50",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
	MaxConsecutiveWins: {
		Name:           "Max Consecutive Wins",
		Category:       CategoryDistribution,
		Formula:        "longest run of pnl > 0 ordered by exit time",
		RequiredInputs: []Input{InputTrades, InputPrices, InputTimes},
		EdgeCases:      "a breakeven trade ends both streaks",
		Example:        "W W L W W W → 3",
		Unit:           UnitCount,
		Direction:      HigherIsBetter,
	},
	MaxConsecutiveLosses: {
		Name:           "Max Consecutive Losses",
		Category:       CategoryDistribution,
		Formula:        "longest run of pnl < 0 ordered by exit time",
		RequiredInputs: []Input{InputTrades, InputPrices, InputTimes},
		EdgeCases:      "a breakeven trade ends both streaks",
		Example:        "L L W L → 2",
		Unit:           UnitCount,
		Direction:      LowerIsBetter,
	},
	AvgTradeDurationMinutes: {
		Name:           "Average Trade Duration",
		Category:       CategoryDistribution,
		Formula:        "mean(exit_time − entry_time) in minutes",
		RequiredInputs: []Input{InputTrades, InputTimes},
		EdgeCases:      "trades without both times are skipped; null if none remain",
		Example:        "30 min and 90 min → 60",
		Unit:           UnitMinutes,
		Direction:      LowerIsBetter,
	},

	// =========================================================================
	// execution
	// =========================================================================
	AvgSlippageArrivalBps: {
		Name:           "Average Slippage vs Arrival",
		Category:       CategoryExecution,
		Formula:        "mean(direction × (exec_price − arrival_price) / arrival_price × 10⁴)",
		RequiredInputs: []Input{InputTrades, InputFills, InputArrivalPrice},
		EdgeCases:      "exec_price is the fill VWAP, else entry price; positive = cost",
		Example:        "long arrival 100, filled 100.05 → 5",
		Unit:           UnitBps,
		Direction:      LowerIsBetter,
	},
	AvgSlippageVWAPBps: {
		Name:           "Average Slippage vs VWAP",
		Category:       CategoryExecution,
		Formula:        "mean(direction × (exec_price − vwap) / vwap × 10⁴)",
		RequiredInputs: []Input{InputTrades, InputFills, InputVWAP},
		EdgeCases:      "trades without vwap are skipped; null if none remain",
		Example:        "short vwap 50, filled 49.9 → 20",
		Unit:           UnitBps,
		Direction:      LowerIsBetter,
	},
	AvgSlippageTWAPBps: {
		Name:           "Average Slippage vs TWAP",
		Category:       CategoryExecution,
		Formula:        "mean(direction × (exec_price − twap) / twap × 10⁴)",
		RequiredInputs: []Input{InputTrades, InputFills, InputTWAP},
		EdgeCases:      "trades without twap are skipped; null if none remain",
		Example:        "long twap 100, filled 99.9 → −10",
		Unit:           UnitBps,
		Direction:      LowerIsBetter,
	},
	ImplementationShortfallBps: {
		Name:           "Implementation Shortfall",
		Category:       CategoryExecution,
		Formula:        "mean(direction × (exec_price − intended_price) / intended_price × 10⁴)",
		RequiredInputs: []Input{InputTrades, InputFills, InputIntendedPrice},
		EdgeCases:      "trades without intended_price are skipped; null if none remain",
		Example:        "long intended 20, filled 20.04 → 20",
		Unit:           UnitBps,
		Direction:      LowerIsBetter,
	},
	AvgFillRatePercent: {
		Name:           "Average Fill Rate",
		Category:       CategoryExecution,
		Formula:        "mean(filled_qty / intended_qty × 100)",
		RequiredInputs: []Input{InputTrades, InputFills, InputIntendedQty},
		EdgeCases:      "filled_qty is Σ fill qty, else |quantity|; trades without intended_qty are skipped",
		Example:        "filled 80 of 100 → 80",
		Unit:           UnitPercent,
		Direction:      HigherIsBetter,
	},
	AvgLatencyMs: {
		Name:           "Average Signal-to-Fill Latency",
		Category:       CategoryExecution,
		Formula:        "mean(first_fill_time − signal_time) in milliseconds",
		RequiredInputs: []Input{InputTrades, InputSignalTime, InputFills},
		EdgeCases:      "first fill time falls back to entry time; trades without signal_time are skipped",
		Example:        "signal 09:30:00.000, fill 09:30:00.250 → 250",
		Unit:           UnitMillis,
		Direction:      LowerIsBetter,
	},
	AvgCommissionPerTrade: {
		Name:           "Average Commission per Trade",
		Category:       CategoryExecution,
		Formula:        "mean(fees_commissions_i)",
		RequiredInputs: []Input{InputTrades, InputFees},
		EdgeCases:      "missing fees count as 0",
		Example:        "fees 1.5, 2.5 → 2",
		Unit:           UnitCurrency,
		Direction:      LowerIsBetter,
	},
	AvgSpreadBps: {
		Name:           "Average Quoted Spread",
		Category:       CategoryExecution,
		Formula:        "mean(spread_bps_i)",
		RequiredInputs: []Input{InputTrades, InputSpread},
		EdgeCases:      "trades without spread_bps are skipped; null if none remain",
		Example:        "spreads 2, 4 → 3",
		Unit:           UnitBps,
		Direction:      LowerIsBetter,
	},

	// =========================================================================
	// exposure
	// =========================================================================
	AvgEquityAtRiskPercent: {
		Name:           "Average Equity at Risk",
		Category:       CategoryExposure,
		Formula:        "mean(risk_i / equity_at_entry_i × 100), risk = planned_risk or |entry − stop| × |qty| × multiplier",
		RequiredInputs: []Input{InputTrades, InputEquityCurve, InputPlannedRisk, InputStopPrice},
		EdgeCases:      "equity at entry is the last known curve value; trades before the curve starts are skipped",
		Example:        "risk 1,000 on equity 100,000 → 1",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},
	AvgGrossExposurePercent: {
		Name:           "Average Gross Exposure",
		Category:       CategoryExposure,
		Formula:        "mean(notional_i / equity_at_entry_i × 100)",
		RequiredInputs: []Input{InputTrades, InputPrices, InputEquityCurve},
		EdgeCases:      "trades before the curve starts are skipped; null if none remain",
		Example:        "notional 50,000 on equity 100,000 → 50",
		Unit:           UnitPercent,
		Direction:      LowerIsBetter,
	},
	ConcentrationHHI: {
		Name:           "Concentration (HHI)",
		Category:       CategoryExposure,
		Formula:        "Σ_symbol (notional_symbol / Σ notional)²",
		RequiredInputs: tradesOnly,
		EdgeCases:      "1 for a single symbol, 1/n for n equal symbols; null with zero total notional",
		Example:        "two symbols with equal notional → 0.5",
		Unit:           UnitIndex,
		Direction:      LowerIsBetter,
	},
	AvgMAE: {
		Name:           "Average Maximum Adverse Excursion",
		Category:       CategoryExposure,
		Formula:        "mean(mae_i)",
		RequiredInputs: []Input{InputTrades, InputMAE},
		EdgeCases:      "trades without mae are skipped; null if none remain",
		Example:        "mae 120, 80 → 100",
		Unit:           UnitCurrency,
		Direction:      LowerIsBetter,
	},
	AvgMFE: {
		Name:           "Average Maximum Favorable Excursion",
		Category:       CategoryExposure,
		Formula:        "mean(mfe_i)",
		RequiredInputs: []Input{InputTrades, InputMFE},
		EdgeCases:      "trades without mfe are skipped; null if none remain",
		Example:        "mfe 300, 100 → 200",
		Unit:           UnitCurrency,
		Direction:      HigherIsBetter,
	},
}

func init() {
	for i := range definitions {
		definitions[i].ID = KPIId(i)
	}
}

// Definitions returns the full catalog in output order
func Definitions() []KPIDefinition {
	out := make([]KPIDefinition, kpiCount)
	for i := range definitions {
		out[i] = definitionCopy(KPIId(i))
	}
	return out
}

// Definition returns one catalog entry
func Definition(id KPIId) (KPIDefinition, error) {
	if !id.Valid() {
		return KPIDefinition{}, fmt.Errorf("%w: %d", ErrUnknownKPI, int(id))
	}
	return definitionCopy(id), nil
}

// definitionCopy 카탈로그 테이블은 읽기 전용: 슬라이스 필드는 복사해서 반환
func definitionCopy(id KPIId) KPIDefinition {
	def := definitions[id]
	def.RequiredInputs = slices.Clone(def.RequiredInputs)
	return def
}
