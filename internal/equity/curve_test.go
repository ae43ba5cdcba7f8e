package equity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
)

var t0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func curve(values ...float64) []contracts.EquityPoint {
	pts := make([]contracts.EquityPoint, len(values))
	for i, v := range values {
		pts[i] = contracts.EquityPoint{Time: t0.AddDate(0, 0, i), EquityValue: v}
	}
	return pts
}

func TestSort(t *testing.T) {
	pts := []contracts.EquityPoint{
		{Time: t0.AddDate(0, 0, 2), EquityValue: 3},
		{Time: t0, EquityValue: 1},
		{Time: t0.AddDate(0, 0, 1), EquityValue: math.NaN()},
		{Time: t0.AddDate(0, 0, 1), EquityValue: 2},
	}

	out := Sort(pts)
	require.Len(t, out, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{out[0].EquityValue, out[1].EquityValue, out[2].EquityValue})
	assert.True(t, IsSorted(out))
	assert.False(t, IsSorted(pts))
}

func TestDrawdownSeries_SingleRecovered(t *testing.T) {
	// 10000 → 9000 → 10000
	series := DrawdownSeries(curve(10000, 9000, 10000))

	require.Len(t, series, 1)
	dd := series[0]
	assert.InDelta(t, 0.10, dd.Pct, 1e-12)
	assert.True(t, dd.Recovered)
	assert.Equal(t, 2.0, dd.DurationDays)
	assert.Equal(t, 1.0, dd.RecoveryDays)
	assert.Equal(t, t0, dd.PeakTime)
	assert.Equal(t, t0.AddDate(0, 0, 1), dd.TroughTime)
	require.NotNil(t, dd.RecoveryTime)
}

func TestDrawdownSeries_OpenAtEnd(t *testing.T) {
	series := DrawdownSeries(curve(100, 120, 90, 80, 100))

	require.Len(t, series, 1)
	dd := series[0]
	assert.False(t, dd.Recovered)
	assert.Nil(t, dd.RecoveryTime)
	assert.Equal(t, 0.0, dd.RecoveryDays)
	assert.Equal(t, 3.0, dd.DurationDays)
	assert.InDelta(t, 40.0/120.0, dd.Pct, 1e-12)
	assert.Equal(t, 80.0, dd.TroughValue)
}

func TestDrawdownSeries_Multiple(t *testing.T) {
	series := DrawdownSeries(curve(100, 95, 105, 110, 99, 111, 111))

	require.Len(t, series, 2)
	assert.InDelta(t, 0.05, series[0].Pct, 1e-12)
	assert.InDelta(t, 0.10, series[1].Pct, 1e-12)
	assert.True(t, series[0].Recovered)
	assert.True(t, series[1].Recovered)
}

func TestMaxDrawdown_MatchesSeries(t *testing.T) {
	curves := [][]contracts.EquityPoint{
		curve(10000, 9000, 10000),
		curve(100, 120, 90, 80, 100),
		curve(100, 95, 105, 110, 99, 111, 111),
		curve(50, 60, 70, 80),
		curve(100, 40, 200, 150, 210, 20),
	}

	for _, c := range curves {
		pct, _, ok := MaxDrawdown(c)
		require.True(t, ok)

		var maxSeries float64
		for _, dd := range DrawdownSeries(c) {
			maxSeries = math.Max(maxSeries, dd.Pct)
		}
		assert.InDelta(t, maxSeries*100, pct*100, 1e-9)
	}
}

func TestMaxDrawdown(t *testing.T) {
	pct, abs, ok := MaxDrawdown(curve(10000, 9000, 10000))
	require.True(t, ok)
	assert.InDelta(t, 0.10, pct, 1e-12)
	assert.InDelta(t, 1000.0, abs, 1e-9)

	_, _, ok = MaxDrawdown(curve(10000))
	assert.False(t, ok)
}

func TestTotalReturnAndCAGR(t *testing.T) {
	pts := []contracts.EquityPoint{
		{Time: t0, EquityValue: 10000},
		{Time: t0.AddDate(0, 0, 365), EquityValue: 11000},
	}

	total, ok := TotalReturn(pts)
	require.True(t, ok)
	assert.InDelta(t, 0.10, total, 1e-12)

	cagr, ok := CAGR(pts)
	require.True(t, ok)
	assert.InDelta(t, 0.10, cagr, 1e-9)
}

func TestCAGR_SameDayFloor(t *testing.T) {
	pts := []contracts.EquityPoint{
		{Time: t0, EquityValue: 100},
		{Time: t0, EquityValue: 101},
	}

	cagr, ok := CAGR(pts)
	require.True(t, ok)
	assert.False(t, math.IsInf(cagr, 0))
	assert.InDelta(t, math.Pow(1.01, 365)-1, cagr, 1e-6)
}

func TestCAGR_Invalid(t *testing.T) {
	_, ok := CAGR(curve(0, 100))
	assert.False(t, ok)
	_, ok = CAGR(curve(100))
	assert.False(t, ok)
}

func TestUlcerIndex(t *testing.T) {
	ui, ok := UlcerIndex(curve(100, 90, 100))
	require.True(t, ok)
	// drawdowns: 0, 10, 0 → sqrt(100/3)
	assert.InDelta(t, math.Sqrt(100.0/3.0), ui, 1e-12)

	ui, ok = UlcerIndex(curve(100, 110, 120))
	require.True(t, ok)
	assert.Equal(t, 0.0, ui)
}

func TestValueAt(t *testing.T) {
	pts := curve(100, 110, 120)

	v, ok := ValueAt(pts, t0.Add(36*time.Hour))
	require.True(t, ok)
	assert.Equal(t, 110.0, v)

	v, ok = ValueAt(pts, t0.AddDate(0, 0, 2))
	require.True(t, ok)
	assert.Equal(t, 120.0, v)

	_, ok = ValueAt(pts, t0.Add(-time.Hour))
	assert.False(t, ok)
}
