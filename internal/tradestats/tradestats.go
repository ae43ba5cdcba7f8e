package tradestats

import (
	"math"
	"sort"

	"github.com/wonny/tradejournal/internal/contracts"
)

// RMultiples returns pnl / planned_risk per trade.
// Trades without planned risk (or with zero risk) are excluded, not zero-filled.
func RMultiples(trades []contracts.Trade, lookup contracts.MultiplierLookup) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.PlannedRisk == nil || *t.PlannedRisk == 0 {
			continue
		}
		risk := math.Abs(*t.PlannedRisk)
		r := t.PnL(contracts.MultiplierOf(lookup, t.Symbol)) / risk
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByExit returns a copy sorted by exit time; ties keep input order
func SortByExit(trades []contracts.Trade) []contracts.Trade {
	out := make([]contracts.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitTime.Before(out[j].ExitTime)
	})
	return out
}

// Streaks 최대 연속 수익/손실 계산 (exit time order).
// A zero-P&L trade breaks both streaks.
func Streaks(trades []contracts.Trade, lookup contracts.MultiplierLookup) (maxWins, maxLosses int) {
	currentWins, currentLosses := 0, 0

	for _, t := range SortByExit(trades) {
		pnl := t.PnL(contracts.MultiplierOf(lookup, t.Symbol))
		switch {
		case pnl > 0:
			currentWins++
			currentLosses = 0
		case pnl < 0:
			currentLosses++
			currentWins = 0
		default:
			currentWins, currentLosses = 0, 0
		}

		if currentWins > maxWins {
			maxWins = currentWins
		}
		if currentLosses > maxLosses {
			maxLosses = currentLosses
		}
	}

	return maxWins, maxLosses
}

// BestWorst returns the max and min raw realized P&L (currency)
func BestWorst(trades []contracts.Trade, lookup contracts.MultiplierLookup) (best, worst float64, ok bool) {
	if len(trades) == 0 {
		return 0, 0, false
	}
	best, worst = math.Inf(-1), math.Inf(1)
	for _, t := range trades {
		pnl := t.PnL(contracts.MultiplierOf(lookup, t.Symbol))
		best = math.Max(best, pnl)
		worst = math.Min(worst, pnl)
	}
	return best, worst, true
}

// Durations returns holding time in minutes for trades with valid timestamps
func Durations(trades []contracts.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if d, ok := t.DurationMinutes(); ok {
			out = append(out, d)
		}
	}
	return out
}

// PnLs returns the P&L of every trade in input order
func PnLs(trades []contracts.Trade, lookup contracts.MultiplierLookup) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = t.PnL(contracts.MultiplierOf(lookup, t.Symbol))
	}
	return out
}
