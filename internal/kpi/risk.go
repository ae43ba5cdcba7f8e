package kpi

import (
	"fmt"
	"math"

	"github.com/wonny/tradejournal/internal/equity"
	"github.com/wonny/tradejournal/internal/stats"
)

// =============================================================================
// risk_drawdown
// =============================================================================

// pathReturns returns the preferred return series (daily equity, else trade level)
func pathReturns(in *Inputs) ([]float64, *outcome) {
	if in.Source.Empty() {
		o := insufficient("no equity curve returns and no trade returns")
		return nil, &o
	}
	if len(in.Source.Returns) < 2 {
		o := insufficient(fmt.Sprintf("%s (%s)", reasonFewReturns, in.Source.Label()))
		return nil, &o
	}
	return in.Source.Returns, nil
}

func computeMaxDrawdownPercent(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	pct, _, _ := equity.MaxDrawdown(in.Equity)
	return value(pct * 100)
}

func computeMaxDrawdownAbsolute(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	_, abs, _ := equity.MaxDrawdown(in.Equity)
	return value(abs)
}

func computeMaxDrawdownDurationDays(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	var longest float64
	for _, dd := range in.Drawdowns {
		longest = math.Max(longest, dd.DurationDays)
	}
	return value(longest)
}

func computeAvgRecoveryDays(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	var days []float64
	for _, dd := range in.Drawdowns {
		if dd.Recovered {
			days = append(days, dd.RecoveryDays)
		}
	}
	if len(days) == 0 {
		return insufficient(reasonNoRecovered)
	}
	return value(stats.Mean(days))
}

func computeUlcerIndex(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	ui, _ := equity.UlcerIndex(in.Equity)
	return value(ui)
}

func computeAnnualizedVolatility(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	return value(stats.StdDev(r) * math.Sqrt(in.Config.AnnualizationDays) * 100)
}

func computeDownsideDeviation(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	dd := stats.DownsideDeviation(r, in.Config.DownsideThreshold)
	return value(dd * math.Sqrt(in.Config.AnnualizationDays) * 100)
}

// VaR/CVaR follow the loss-positive convention (5 = 5% loss)
func computeValueAtRisk(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	q := stats.Quantile(r, 1-in.Config.VaRConfidence)
	return value(math.Max(0, -q) * 100)
}

func computeConditionalValueAtRisk(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	q := stats.Quantile(r, 1-in.Config.VaRConfidence)

	var tail []float64
	for _, x := range r {
		if x <= q {
			tail = append(tail, x)
		}
	}
	// interpolation rounding can leave q a hair below the minimum
	if len(tail) == 0 {
		tail = append(tail, stats.Min(r))
	}
	return value(math.Max(0, -stats.Mean(tail)) * 100)
}
