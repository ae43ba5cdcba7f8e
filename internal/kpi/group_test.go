package kpi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/pkg/logger"
)

func TestGroupByField(t *testing.T) {
	trade := contracts.Trade{
		Symbol:     "ESZ4",
		AssetClass: "future",
		Side:       contracts.SideShort,
		SetupTag:   "breakout",
		Venue:      "CME",
		OrderType:  "limit",
	}

	tests := []struct {
		field string
		want  string
	}{
		{"symbol", "ESZ4"},
		{"asset_class", "future"},
		{"side", "short"},
		{"setup_tag", "breakout"},
		{"venue", "CME"},
		{"order_type", "limit"},
		{" Symbol ", "ESZ4"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			key, err := GroupByField(tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key(trade))
		})
	}

	_, err := GroupByField("weekday")
	assert.ErrorIs(t, err, ErrUnknownGroupField)
}

func TestComputeByGroup(t *testing.T) {
	trades := []contracts.Trade{
		realized("AAPL", 100),
		realized("MSFT", -30),
		realized("AAPL", -40),
		realized("", 5),
	}
	key, err := GroupByField("symbol")
	require.NoError(t, err)

	groups := ComputeByGroup(trades, key, nil, nil, ComputeConfig{Workers: 2})

	require.Len(t, groups, 3)
	require.Contains(t, groups, "AAPL")
	require.Contains(t, groups, "MSFT")
	require.Contains(t, groups, UnassignedGroup)

	for name, results := range groups {
		assert.Len(t, results, Count, name)
	}
	assert.Equal(t, 60.0, requireValue(t, groups["AAPL"], NetPnL))
	assert.Equal(t, 2.5, requireValue(t, groups["AAPL"], ProfitFactor))
	assert.Equal(t, -30.0, requireValue(t, groups["MSFT"], NetPnL))
	requireNull(t, groups["MSFT"], AvgWin)
}

func TestComputeByGroup_MatchesSequential(t *testing.T) {
	var trades []contracts.Trade
	for i := 0; i < 40; i++ {
		sym := []string{"AAPL", "MSFT", "NVDA", "TSLA"}[i%4]
		trades = append(trades, priced(sym, 95+float64(i%9), i))
	}
	eq := curve(10000, 10100, 9950, 10200, 10150)
	key := func(t contracts.Trade) string { return t.Symbol }

	parallel := ComputeByGroup(trades, key, eq, nil, ComputeConfig{Workers: 4})
	for name, part := range Partition(trades, key) {
		assert.Equal(t, ComputeAll(part, eq, nil, DefaultComputeConfig()), parallel[name], name)
	}
}

func TestPartition_KeepsOrder(t *testing.T) {
	trades := []contracts.Trade{realized("A", 1), realized("B", 2), realized("A", 3)}
	parts := Partition(trades, func(t contracts.Trade) string { return t.Symbol })

	require.Len(t, parts["A"], 2)
	assert.Equal(t, 1.0, *parts["A"][0].RealizedPnL)
	assert.Equal(t, 3.0, *parts["A"][1].RealizedPnL)
}

func TestEngine_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	engine := NewEngine(ComputeConfig{}, logger.NewWithWriter(&buf, "debug"))

	results := engine.ComputeAll([]contracts.Trade{realized("AAPL", 10)}, nil, nil)
	assert.Len(t, results, Count)
	assert.Contains(t, buf.String(), "KPIs computed")
	assert.Contains(t, buf.String(), `"trades":1`)
	assert.Equal(t, 252.0, engine.Config().AnnualizationDays)

	buf.Reset()
	groups := engine.ComputeByGroup([]contracts.Trade{realized("A", 1), realized("B", 2)}, func(t contracts.Trade) string { return t.Symbol }, nil, nil)
	assert.Len(t, groups, 2)
	assert.Contains(t, buf.String(), `"groups":2`)
}
