package kpi

import (
	"math"

	"github.com/wonny/tradejournal/internal/stats"
	"github.com/wonny/tradejournal/internal/tradestats"
)

// =============================================================================
// distribution
// =============================================================================

// skewness/kurtosis keep the primitive's policy: too few observations report 0
func computeReturnSkewness(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.TradeReturns) == 0 {
		return insufficient(reasonNoNotional)
	}
	return value(stats.Skewness(in.TradeReturns))
}

func computeReturnKurtosis(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.TradeReturns) == 0 {
		return insufficient(reasonNoNotional)
	}
	return value(stats.Kurtosis(in.TradeReturns))
}

func computeTailRatio(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	left := math.Abs(stats.Quantile(r, 0.05))
	if left == 0 {
		return insufficient("5th percentile return is zero")
	}
	return value(math.Abs(stats.Quantile(r, 0.95)) / left)
}

func computeMedianTradeReturnPercent(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.TradeReturns) == 0 {
		return insufficient(reasonNoNotional)
	}
	return value(stats.Median(in.TradeReturns) * 100)
}

func computeBestTrade(in *Inputs) outcome {
	best, _, ok := tradestats.BestWorst(in.Trades, in.Config.Multipliers)
	if !ok {
		return insufficient(reasonNoTrades)
	}
	return value(best)
}

func computeWorstTrade(in *Inputs) outcome {
	_, worst, ok := tradestats.BestWorst(in.Trades, in.Config.Multipliers)
	if !ok {
		return insufficient(reasonNoTrades)
	}
	return value(worst)
}

func computeMaxConsecutiveWins(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	wins, _ := tradestats.Streaks(in.Trades, in.Config.Multipliers)
	return value(float64(wins))
}

func computeMaxConsecutiveLosses(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	_, losses := tradestats.Streaks(in.Trades, in.Config.Multipliers)
	return value(float64(losses))
}

func computeAvgTradeDurationMinutes(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	d := tradestats.Durations(in.Trades)
	if len(d) == 0 {
		return insufficient(reasonNoTimes)
	}
	return value(stats.Mean(d))
}
