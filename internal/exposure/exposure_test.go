package exposure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
)

var day = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func sampleCurve() []contracts.EquityPoint {
	return []contracts.EquityPoint{
		{Time: day, EquityValue: 10000},
		{Time: day.AddDate(0, 0, 1), EquityValue: 20000},
	}
}

func TestEquityAtRisk_LastKnownValue(t *testing.T) {
	trades := []contracts.Trade{
		// entered mid first day → uses 10000
		{EntryTime: day.Add(12 * time.Hour), PlannedRisk: contracts.Float(100)},
		// entered after second point → uses 20000, risk from stop distance
		{EntryTime: day.AddDate(0, 0, 2), EntryPrice: 50, StopPrice: contracts.Float(48), Quantity: 100},
		// before the curve starts → excluded
		{EntryTime: day.Add(-time.Hour), PlannedRisk: contracts.Float(100)},
		// no risk information → excluded
		{EntryTime: day.Add(time.Hour)},
	}

	got := EquityAtRisk(trades, sampleCurve(), nil)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[1], 1e-12)
}

func TestGrossExposure(t *testing.T) {
	trades := []contracts.Trade{
		{EntryTime: day.Add(time.Hour), EntryPrice: 100, Quantity: 50},
		{EntryTime: day.AddDate(0, 0, 1), EntryPrice: 100, Quantity: -100},
	}

	got := GrossExposure(trades, sampleCurve(), nil)
	assert.Equal(t, []float64{50, 50}, got)
	assert.Empty(t, GrossExposure(trades, nil, nil))
}

func TestConcentrationHHI(t *testing.T) {
	single := []contracts.Trade{
		{Symbol: "AAPL", EntryPrice: 10, Quantity: 10},
		{Symbol: "AAPL", EntryPrice: 20, Quantity: 10},
	}
	hhi, ok := ConcentrationHHI(single, nil)
	require.True(t, ok)
	assert.InDelta(t, 1.0, hhi, 1e-12)

	even := []contracts.Trade{
		{Symbol: "AAPL", EntryPrice: 10, Quantity: 10},
		{Symbol: "MSFT", EntryPrice: 10, Quantity: 10},
	}
	hhi, ok = ConcentrationHHI(even, nil)
	require.True(t, ok)
	assert.InDelta(t, 0.5, hhi, 1e-12)

	_, ok = ConcentrationHHI([]contracts.Trade{{Symbol: "X"}}, nil)
	assert.False(t, ok)
}

func TestExcursions(t *testing.T) {
	trades := []contracts.Trade{
		{MAE: contracts.Float(-40), MFE: contracts.Float(120)},
		{MFE: contracts.Float(60)},
	}

	assert.Equal(t, []float64{-40}, MAE(trades))
	assert.Equal(t, []float64{120, 60}, MFE(trades))
}
