package tradestats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
)

var base = time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)

func closed(pnl float64, exitOffset time.Duration) contracts.Trade {
	return contracts.Trade{
		RealizedPnL: contracts.Float(pnl),
		EntryTime:   base,
		ExitTime:    base.Add(exitOffset),
	}
}

func TestRMultiples(t *testing.T) {
	trades := []contracts.Trade{
		{RealizedPnL: contracts.Float(200), PlannedRisk: contracts.Float(100)},
		{RealizedPnL: contracts.Float(-50), PlannedRisk: contracts.Float(100)},
		{RealizedPnL: contracts.Float(10)},                                    // no risk
		{RealizedPnL: contracts.Float(10), PlannedRisk: contracts.Float(0)}, // zero risk
	}

	assert.Equal(t, []float64{2, -0.5}, RMultiples(trades, nil))
	assert.Empty(t, RMultiples(trades[2:], nil))
}

func TestStreaks_SortedByExit(t *testing.T) {
	// input order: L W W L W, exit order: W W W L L
	trades := []contracts.Trade{
		closed(-10, 4*time.Hour),
		closed(20, 1*time.Hour),
		closed(30, 2*time.Hour),
		closed(-5, 5*time.Hour),
		closed(15, 3*time.Hour),
	}

	wins, losses := Streaks(trades, nil)
	assert.Equal(t, 3, wins)
	assert.Equal(t, 2, losses)
}

func TestStreaks_ZeroBreaks(t *testing.T) {
	trades := []contracts.Trade{
		closed(10, time.Hour),
		closed(0, 2*time.Hour),
		closed(10, 3*time.Hour),
	}

	wins, losses := Streaks(trades, nil)
	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, losses)
}

func TestSortByExit_StableTies(t *testing.T) {
	a := closed(1, time.Hour)
	a.TradeID = "a"
	b := closed(2, time.Hour)
	b.TradeID = "b"

	out := SortByExit([]contracts.Trade{a, b})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].TradeID)
	assert.Equal(t, "b", out[1].TradeID)
}

func TestBestWorst(t *testing.T) {
	trades := []contracts.Trade{closed(100, time.Hour), closed(-50, time.Hour), closed(5, time.Hour)}

	best, worst, ok := BestWorst(trades, nil)
	require.True(t, ok)
	assert.Equal(t, 100.0, best)
	assert.Equal(t, -50.0, worst)

	_, _, ok = BestWorst(nil, nil)
	assert.False(t, ok)
}

func TestDurations(t *testing.T) {
	trades := []contracts.Trade{
		closed(1, 30*time.Minute),
		{RealizedPnL: contracts.Float(1)},
	}
	assert.Equal(t, []float64{30}, Durations(trades))
}
