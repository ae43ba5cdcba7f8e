package stats

import "math"

// AlphaBeta is the result of an OLS regression of portfolio on benchmark returns.
// Both fields are nil when the regression is undefined.
type AlphaBeta struct {
	Alpha *float64 `json:"alpha"`
	Beta  *float64 `json:"beta"`
}

// RegressionAlphaBeta fits portfolio = alpha + beta·benchmark by ordinary least squares.
// Pairs where either side is non-finite are dropped together.
func RegressionAlphaBeta(portfolio, benchmark []float64) AlphaBeta {
	n := len(portfolio)
	if len(benchmark) < n {
		n = len(benchmark)
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x, y := benchmark[i], portfolio[i]
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return AlphaBeta{}
	}

	meanX := Mean(xs)
	meanY := Mean(ys)

	var cov, varX float64
	for i := range xs {
		dx := xs[i] - meanX
		cov += dx * (ys[i] - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		return AlphaBeta{}
	}

	beta := cov / varX
	alpha := meanY - beta*meanX
	return AlphaBeta{Alpha: &alpha, Beta: &beta}
}
