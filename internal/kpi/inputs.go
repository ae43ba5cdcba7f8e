package kpi

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/equity"
	"github.com/wonny/tradejournal/internal/returns"
	"github.com/wonny/tradejournal/internal/tradestats"
)

// Inputs holds the intermediate series derived once per computation.
// It is read-only after construction; compute functions never modify it.
type Inputs struct {
	Config ComputeConfig

	Trades       []contracts.Trade
	PnLs         []float64
	TradeReturns []float64
	RMultiples   []float64

	// currency totals (summed in decimal)
	GrossProfit float64
	GrossLoss   float64
	Wins        int
	Losses      int

	Equity    []contracts.EquityPoint // sorted
	Daily     []returns.Observation
	Drawdowns []equity.Drawdown
	Source    returns.Source

	Benchmark []contracts.BenchmarkPoint
	Pairs     []returns.Pair
}

// NewInputs derives every intermediate series from the raw inputs
func NewInputs(trades []contracts.Trade, curve []contracts.EquityPoint, bench []contracts.BenchmarkPoint, cfg ComputeConfig) *Inputs {
	cfg = cfg.Normalize()

	in := &Inputs{
		Config:       cfg,
		Trades:       trades,
		PnLs:         tradestats.PnLs(trades, cfg.Multipliers),
		TradeReturns: returns.TradeReturns(trades, cfg.Multipliers),
		RMultiples:   tradestats.RMultiples(trades, cfg.Multipliers),
		Equity:       equity.Sort(curve),
		Benchmark:    bench,
	}

	gp, gl := decimal.Zero, decimal.Zero
	for _, pnl := range in.PnLs {
		switch {
		case pnl > 0:
			gp = gp.Add(decimal.NewFromFloat(pnl))
			in.Wins++
		case pnl < 0:
			gl = gl.Add(decimal.NewFromFloat(pnl))
			in.Losses++
		}
	}
	in.GrossProfit = gp.InexactFloat64()
	in.GrossLoss = gl.InexactFloat64()

	in.Daily = returns.DailyReturns(in.Equity)
	in.Drawdowns = equity.DrawdownSeries(in.Equity)
	in.Source = returns.SelectSource(returns.Values(in.Daily), in.TradeReturns)
	in.Pairs = returns.AlignBenchmark(in.Daily, bench)

	return in
}

// NetPnL = gross profit + gross loss
func (in *Inputs) NetPnL() float64 {
	return in.GrossProfit + in.GrossLoss
}

// HasTrades reports whether at least one trade was supplied
func (in *Inputs) HasTrades() bool {
	return len(in.Trades) > 0
}

// HasEquity reports whether path-dependent metrics can be computed
func (in *Inputs) HasEquity() bool {
	return len(in.Equity) >= 2
}
