package kpi

import (
	"math"

	"github.com/wonny/tradejournal/internal/equity"
	"github.com/wonny/tradejournal/internal/returns"
	"github.com/wonny/tradejournal/internal/stats"
)

// =============================================================================
// risk_adjusted
// =============================================================================

func computeSharpeRatio(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	sd := stats.StdDev(r)
	if sd == 0 {
		return insufficient(reasonZeroVolatility)
	}
	excess := stats.Mean(r) - in.Config.riskFreePerPeriod()
	return value(excess / sd * math.Sqrt(in.Config.AnnualizationDays))
}

func computeSortinoRatio(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	dd := stats.DownsideDeviation(r, in.Config.DownsideThreshold)
	if dd == 0 {
		return insufficient(reasonZeroDownside)
	}
	excess := stats.Mean(r) - in.Config.riskFreePerPeriod()
	return value(excess / dd * math.Sqrt(in.Config.AnnualizationDays))
}

func computeCalmarRatio(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	cagr, ok := equity.CAGR(in.Equity)
	if !ok {
		return insufficient(reasonInvalidEquity)
	}
	mdd, _, _ := equity.MaxDrawdown(in.Equity)
	if mdd == 0 {
		return insufficient(reasonZeroDrawdown)
	}
	return value(cagr / mdd)
}

func computeOmegaRatio(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	theta := in.Config.OmegaThreshold
	var gains, losses float64
	for _, x := range r {
		if x > theta {
			gains += x - theta
		} else {
			losses += theta - x
		}
	}
	if losses == 0 {
		return insufficient("no returns below the omega threshold")
	}
	return value(gains / losses)
}

func computeGainToPainRatio(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	var total, pain float64
	for _, x := range r {
		total += x
		if x < 0 {
			pain += -x
		}
	}
	if pain == 0 {
		return insufficient("no negative returns")
	}
	return value(total / pain)
}

func computeKappa3Ratio(in *Inputs) outcome {
	r, fail := pathReturns(in)
	if fail != nil {
		return *fail
	}
	theta := in.Config.DownsideThreshold
	lpm := stats.LowerPartialMoment(r, theta, 3)
	if lpm == 0 {
		return insufficient("third lower partial moment is zero")
	}
	return value((stats.Mean(r) - theta) / math.Cbrt(lpm))
}

func computeUlcerPerformanceIndex(in *Inputs) outcome {
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	cagr, ok := equity.CAGR(in.Equity)
	if !ok {
		return insufficient(reasonInvalidEquity)
	}
	ui, _ := equity.UlcerIndex(in.Equity)
	if ui == 0 {
		return insufficient("ulcer index is zero")
	}
	return value((cagr*100 - in.Config.RiskFreeRate*100) / ui)
}

func computeRecoveryFactor(in *Inputs) outcome {
	if !in.HasTrades() {
		return insufficient(reasonNoTrades)
	}
	if !in.HasEquity() {
		return insufficient(reasonNoEquity)
	}
	_, abs, _ := equity.MaxDrawdown(in.Equity)
	if abs == 0 {
		return insufficient(reasonZeroDrawdown)
	}
	return value(in.NetPnL() / abs)
}

// =============================================================================
// Benchmark-relative
// =============================================================================

// benchmarkPairs returns aligned portfolio/benchmark returns or the reason they are unusable
func benchmarkPairs(in *Inputs) (portfolio, bench []float64, fail *outcome) {
	switch {
	case len(in.Benchmark) == 0:
		o := insufficient(reasonNoBenchmark)
		return nil, nil, &o
	case !in.HasEquity():
		o := insufficient(reasonNoEquity)
		return nil, nil, &o
	case len(in.Pairs) < 2:
		o := insufficient(reasonNoOverlap)
		return nil, nil, &o
	}
	portfolio, bench = returns.Split(in.Pairs)
	return portfolio, bench, nil
}

func regression(in *Inputs) (stats.AlphaBeta, *outcome) {
	p, b, fail := benchmarkPairs(in)
	if fail != nil {
		return stats.AlphaBeta{}, fail
	}
	ab := stats.RegressionAlphaBeta(p, b)
	if ab.Beta == nil {
		o := insufficient(reasonFlatBenchmark)
		return ab, &o
	}
	return ab, nil
}

func computeAlpha(in *Inputs) outcome {
	ab, fail := regression(in)
	if fail != nil {
		return *fail
	}
	return value(*ab.Alpha * in.Config.AnnualizationDays * 100)
}

func computeBeta(in *Inputs) outcome {
	ab, fail := regression(in)
	if fail != nil {
		return *fail
	}
	return value(*ab.Beta)
}

func computeTreynorRatio(in *Inputs) outcome {
	ab, fail := regression(in)
	if fail != nil {
		return *fail
	}
	if *ab.Beta == 0 {
		return insufficient(reasonZeroBeta)
	}
	p, _ := returns.Split(in.Pairs)
	annual := stats.Mean(p) * in.Config.AnnualizationDays
	return value((annual - in.Config.RiskFreeRate) / *ab.Beta)
}

func activeReturns(p, b []float64) []float64 {
	out := make([]float64, len(p))
	for i := range p {
		out[i] = p[i] - b[i]
	}
	return out
}

func computeTrackingError(in *Inputs) outcome {
	p, b, fail := benchmarkPairs(in)
	if fail != nil {
		return *fail
	}
	te := stats.StdDev(activeReturns(p, b)) * math.Sqrt(in.Config.AnnualizationDays)
	return value(te * 100)
}

func computeInformationRatio(in *Inputs) outcome {
	p, b, fail := benchmarkPairs(in)
	if fail != nil {
		return *fail
	}
	active := activeReturns(p, b)
	sd := stats.StdDev(active)
	if sd == 0 {
		return insufficient("tracking error is zero")
	}
	return value(stats.Mean(active) / sd * math.Sqrt(in.Config.AnnualizationDays))
}
