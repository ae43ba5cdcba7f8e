package kpi

import (
	"github.com/wonny/tradejournal/internal/exposure"
	"github.com/wonny/tradejournal/internal/stats"
	"github.com/wonny/tradejournal/internal/tca"
)

// =============================================================================
// execution (TCA)
// =============================================================================

// meanOf averages a per-trade extraction, null with reason when nothing qualified
func meanOf(in *Inputs, values []float64, missing string) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(values) == 0 {
		return insufficient(missing)
	}
	return value(stats.Mean(values))
}

func computeAvgSlippageArrivalBps(in *Inputs) outcome {
	return meanOf(in, tca.Slippage(in.Trades, tca.RefArrival), "no trades with arrival_price")
}

func computeAvgSlippageVWAPBps(in *Inputs) outcome {
	return meanOf(in, tca.Slippage(in.Trades, tca.RefVWAP), "no trades with vwap")
}

func computeAvgSlippageTWAPBps(in *Inputs) outcome {
	return meanOf(in, tca.Slippage(in.Trades, tca.RefTWAP), "no trades with twap")
}

func computeImplementationShortfallBps(in *Inputs) outcome {
	return meanOf(in, tca.Slippage(in.Trades, tca.RefIntended), "no trades with intended_price")
}

func computeAvgFillRatePercent(in *Inputs) outcome {
	return meanOf(in, tca.FillRates(in.Trades), "no trades with intended_qty")
}

func computeAvgLatencyMs(in *Inputs) outcome {
	return meanOf(in, tca.Latencies(in.Trades), "no trades with signal_time")
}

func computeAvgCommissionPerTrade(in *Inputs) outcome {
	return meanOf(in, tca.Commissions(in.Trades), reasonNoTrades)
}

func computeAvgSpreadBps(in *Inputs) outcome {
	return meanOf(in, tca.Spreads(in.Trades), "no trades with spread_bps")
}

// =============================================================================
// exposure
// =============================================================================

func computeAvgEquityAtRiskPercent(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.Equity) == 0 {
		return insufficient("no equity curve")
	}
	return meanOf(in, exposure.EquityAtRisk(in.Trades, in.Equity, in.Config.Multipliers),
		"no trades with planned_risk or stop_price entered within the equity curve")
}

func computeAvgGrossExposurePercent(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.Equity) == 0 {
		return insufficient("no equity curve")
	}
	return meanOf(in, exposure.GrossExposure(in.Trades, in.Equity, in.Config.Multipliers), reasonNoEquityForEntry)
}

func computeConcentrationHHI(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	hhi, ok := exposure.ConcentrationHHI(in.Trades, in.Config.Multipliers)
	if !ok {
		return insufficient(reasonNoNotional)
	}
	return value(hhi)
}

func computeAvgMAE(in *Inputs) outcome {
	return meanOf(in, exposure.MAE(in.Trades), "no trades with mae")
}

func computeAvgMFE(in *Inputs) outcome {
	return meanOf(in, exposure.MFE(in.Trades), "no trades with mfe")
}
