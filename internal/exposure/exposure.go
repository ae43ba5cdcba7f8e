package exposure

import (
	"math"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/equity"
)

// RiskAmount returns the currency at risk for a trade:
// planned risk when recorded, else |entry - stop| × qty × multiplier.
func RiskAmount(t contracts.Trade, multiplier float64) (float64, bool) {
	if t.PlannedRisk != nil && *t.PlannedRisk != 0 {
		return math.Abs(*t.PlannedRisk), true
	}
	if t.StopPrice != nil && t.EntryPrice > 0 && *t.StopPrice > 0 {
		return math.Abs(t.EntryPrice-*t.StopPrice) * math.Abs(t.Quantity) * multiplier, true
	}
	return 0, false
}

// EquityAtRisk risk amount / equity at entry in percent.
// curve must be sorted; equity at entry is the last known value at or before entry.
func EquityAtRisk(trades []contracts.Trade, curve []contracts.EquityPoint, lookup contracts.MultiplierLookup) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		eq, ok := equityAtEntry(t, curve)
		if !ok {
			continue
		}
		risk, ok := RiskAmount(t, contracts.MultiplierOf(lookup, t.Symbol))
		if !ok {
			continue
		}
		out = append(out, risk/eq*100)
	}
	return out
}

// GrossExposure notional / equity at entry in percent
func GrossExposure(trades []contracts.Trade, curve []contracts.EquityPoint, lookup contracts.MultiplierLookup) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		eq, ok := equityAtEntry(t, curve)
		if !ok {
			continue
		}
		notional := t.Notional(contracts.MultiplierOf(lookup, t.Symbol))
		if notional <= 0 {
			continue
		}
		out = append(out, notional/eq*100)
	}
	return out
}

// ConcentrationHHI Σ(symbol notional / total notional)² over the whole sample
func ConcentrationHHI(trades []contracts.Trade, lookup contracts.MultiplierLookup) (float64, bool) {
	bySymbol := make(map[string]float64)
	order := make([]string, 0)
	var total float64

	for _, t := range trades {
		n := t.Notional(contracts.MultiplierOf(lookup, t.Symbol))
		if n <= 0 {
			continue
		}
		if _, seen := bySymbol[t.Symbol]; !seen {
			order = append(order, t.Symbol)
		}
		bySymbol[t.Symbol] += n
		total += n
	}
	if total == 0 {
		return 0, false
	}

	// fixed iteration order keeps the sum bit-for-bit reproducible
	var hhi float64
	for _, sym := range order {
		share := bySymbol[sym] / total
		hhi += share * share
	}
	return hhi, true
}

// MAE adverse excursions recorded on trades (currency)
func MAE(trades []contracts.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.MAE != nil {
			out = append(out, *t.MAE)
		}
	}
	return out
}

// MFE favorable excursions recorded on trades (currency)
func MFE(trades []contracts.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.MFE != nil {
			out = append(out, *t.MFE)
		}
	}
	return out
}

func equityAtEntry(t contracts.Trade, curve []contracts.EquityPoint) (float64, bool) {
	if t.EntryTime.IsZero() || len(curve) == 0 {
		return 0, false
	}
	eq, ok := equity.ValueAt(curve, t.EntryTime)
	if !ok || eq <= 0 {
		return 0, false
	}
	return eq, true
}
