package stats

import (
	"math"
	"sort"
)

// =============================================================================
// Basic moments
// =============================================================================

// Finite returns a copy of values with NaN and ±Inf removed.
// ⭐ SSOT: 모든 통계 함수는 입력을 여기서 정제함
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Sum 합계
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range Finite(values) {
		sum += v
	}
	return sum
}

// Mean 평균 계산
func Mean(values []float64) float64 {
	clean := Finite(values)
	if len(clean) == 0 {
		return 0
	}
	var sum float64
	for _, v := range clean {
		sum += v
	}
	return sum / float64(len(clean))
}

// StdDev population standard deviation: sqrt(mean((x-μ)²))
func StdDev(values []float64) float64 {
	clean := Finite(values)
	if len(clean) == 0 {
		return 0
	}
	mean := Mean(clean)
	var sumSq float64
	for _, v := range clean {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(clean)))
}

// DownsideDeviation = sqrt(mean(min(0, x-threshold)²)) over every observation
func DownsideDeviation(values []float64, threshold float64) float64 {
	clean := Finite(values)
	if len(clean) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range clean {
		d := math.Min(0, v-threshold)
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(clean)))
}

// LowerPartialMoment = mean(max(threshold-x, 0)^order)
func LowerPartialMoment(values []float64, threshold float64, order int) float64 {
	clean := Finite(values)
	if len(clean) == 0 {
		return 0
	}
	var sum float64
	for _, v := range clean {
		d := math.Max(threshold-v, 0)
		sum += math.Pow(d, float64(order))
	}
	return sum / float64(len(clean))
}

// Min returns the smallest finite value, 0 for empty input
func Min(values []float64) float64 {
	clean := Finite(values)
	if len(clean) == 0 {
		return 0
	}
	m := clean[0]
	for _, v := range clean[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest finite value, 0 for empty input
func Max(values []float64) float64 {
	clean := Finite(values)
	if len(clean) == 0 {
		return 0
	}
	m := clean[0]
	for _, v := range clean[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// =============================================================================
// Quantiles
// =============================================================================

// Quantile returns the q-th quantile (0..1) with linear interpolation
// between closest ranks on a sorted copy.
func Quantile(values []float64, q float64) float64 {
	sorted := Finite(values)
	if len(sorted) == 0 {
		return 0
	}
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	idx := q * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	// 선형 보간
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Median = Quantile(values, 0.5)
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// =============================================================================
// Shape
// =============================================================================

// Skewness population skewness. Fewer than 3 observations yield 0.
func Skewness(values []float64) float64 {
	clean := Finite(values)
	if len(clean) < 3 {
		return 0
	}
	mean := Mean(clean)
	sd := StdDev(clean)
	if sd == 0 {
		return 0
	}
	var sum float64
	for _, v := range clean {
		z := (v - mean) / sd
		sum += z * z * z
	}
	return sum / float64(len(clean))
}

// Kurtosis excess kurtosis (normal = 0). Fewer than 4 observations yield 0.
func Kurtosis(values []float64) float64 {
	clean := Finite(values)
	if len(clean) < 4 {
		return 0
	}
	mean := Mean(clean)
	sd := StdDev(clean)
	if sd == 0 {
		return 0
	}
	var sum float64
	for _, v := range clean {
		z := (v - mean) / sd
		sum += z * z * z * z
	}
	return sum/float64(len(clean)) - 3
}
