package kpi

import (
	"math"

	"github.com/wonny/tradejournal/internal/equity"
	"github.com/wonny/tradejournal/internal/stats"
)

// =============================================================================
// profitability_edge
// =============================================================================

func computeNetPnL(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	return value(in.NetPnL())
}

func computeGrossProfit(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	return value(in.GrossProfit)
}

func computeGrossLoss(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	return value(in.GrossLoss)
}

func computeProfitFactor(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if in.GrossLoss == 0 {
		return insufficient(reasonNoLosingTrades)
	}
	return value(in.GrossProfit / math.Abs(in.GrossLoss))
}

func computeWinRate(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	return value(float64(in.Wins) / float64(len(in.Trades)) * 100)
}

func computeLossRate(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	return value(float64(in.Losses) / float64(len(in.Trades)) * 100)
}

func computeAvgWin(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if in.Wins == 0 {
		return insufficient(reasonNoWinningTrades)
	}
	return value(in.GrossProfit / float64(in.Wins))
}

func computeAvgLoss(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if in.Losses == 0 {
		return insufficient(reasonNoLosingTrades)
	}
	return value(in.GrossLoss / float64(in.Losses))
}

// payoff ratio works on notional-normalized returns, not currency
func computePayoffRatio(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.TradeReturns) == 0 {
		return insufficient(reasonNoNotional)
	}

	var winners, losers []float64
	for _, r := range in.TradeReturns {
		switch {
		case r > 0:
			winners = append(winners, r)
		case r < 0:
			losers = append(losers, r)
		}
	}
	if len(winners) == 0 {
		return insufficient(reasonNoWinningTrades)
	}
	if len(losers) == 0 {
		return insufficient(reasonNoLosingTrades)
	}
	return value(stats.Mean(winners) / math.Abs(stats.Mean(losers)))
}

func computeExpectancy(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	return value(in.NetPnL() / float64(len(in.Trades)))
}

func computeAvgTradeReturnPercent(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.TradeReturns) == 0 {
		return insufficient(reasonNoNotional)
	}
	return value(stats.Mean(in.TradeReturns) * 100)
}

func computeAvgRMultiple(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.RMultiples) == 0 {
		return insufficient(reasonNoPlannedRisk)
	}
	return value(stats.Mean(in.RMultiples))
}

func computeSQN(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if len(in.RMultiples) == 0 {
		return insufficient(reasonNoPlannedRisk)
	}
	if len(in.RMultiples) < 2 {
		return insufficient("fewer than 2 trades with planned_risk")
	}
	sd := stats.StdDev(in.RMultiples)
	if sd == 0 {
		return insufficient("R-multiple standard deviation is zero")
	}
	n := float64(len(in.RMultiples))
	return value(math.Sqrt(n) * stats.Mean(in.RMultiples) / sd)
}

// risk of ruin is the single-unit-capital proxy q/(p·b); an approximation only
func computeRiskOfRuin(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if in.Wins == 0 {
		return insufficient(reasonNoWinningTrades)
	}
	if in.Losses == 0 {
		return insufficient(reasonNoLosingTrades)
	}

	p := float64(in.Wins) / float64(len(in.Trades))
	q := 1 - p
	avgWin := in.GrossProfit / float64(in.Wins)
	avgLoss := math.Abs(in.GrossLoss / float64(in.Losses))
	b := avgWin / avgLoss
	if b == 0 {
		return insufficient("payoff ratio is zero")
	}
	return value(q / (p * b))
}

func computeTotalReturnPercent(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	r, ok := equity.TotalReturn(in.Equity)
	if !ok {
		return insufficient(reasonInvalidEquity)
	}
	return value(r * 100)
}

func computeCAGR(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	r, ok := equity.CAGR(in.Equity)
	if !ok {
		return insufficient(reasonInvalidEquity)
	}
	return value(r * 100)
}
