package journal

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
)

func TestLoadTradesCSV(t *testing.T) {
	doc := `trade_id,Symbol,side,qty,entry_time,exit_time,entry_price,exit_price,fees,realized_pnl,planned_risk,setup_tag,mae
T1,AAPL,buy,10,2024-01-02T14:30:00Z,2024-01-02T16:00:00Z,100,105,1,,25,breakout,-12.5
T2,ESZ4,short,1,2024-01-03 09:30:00,2024-01-03 10:00:00,5000,4990,4.2,495.8,,fade,
`
	trades, err := LoadTradesCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, trades, 2)

	t1 := trades[0]
	assert.Equal(t, "T1", t1.TradeID)
	assert.Equal(t, "AAPL", t1.Symbol)
	assert.Equal(t, contracts.SideLong, t1.Side)
	assert.Equal(t, 10.0, t1.Quantity)
	assert.Equal(t, 1.0, t1.FeesCommissions)
	assert.Nil(t, t1.RealizedPnL)
	require.NotNil(t, t1.PlannedRisk)
	assert.Equal(t, 25.0, *t1.PlannedRisk)
	require.NotNil(t, t1.MAE)
	assert.Equal(t, -12.5, *t1.MAE)
	assert.Equal(t, "breakout", t1.SetupTag)
	assert.Equal(t, 49.0, t1.PnL(1)) // (105-100)×10 - 1

	d, ok := t1.DurationMinutes()
	assert.True(t, ok)
	assert.Equal(t, 90.0, d)

	t2 := trades[1]
	assert.Equal(t, contracts.SideShort, t2.Side)
	require.NotNil(t, t2.RealizedPnL)
	assert.Equal(t, 495.8, *t2.RealizedPnL)
	assert.Nil(t, t2.PlannedRisk)
	assert.Equal(t, time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC), t2.EntryTime)
}

func TestLoadTradesCSV_GeneratesIDs(t *testing.T) {
	doc := "symbol,side,realized_pnl,exit_time\nAAPL,long,10,2024-01-02\nMSFT,long,-5,2024-01-03\n"

	trades, err := LoadTradesCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, trades, 2)

	id1, err := ulid.Parse(trades[0].TradeID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), id1.Time())
	assert.Less(t, trades[0].TradeID, trades[1].TradeID)
}

func TestLoadTradesCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "missing header"},
		{"no side column", "symbol,pnl\nAAPL,1\n", "symbol and side"},
		{"bad side", "symbol,side,pnl\nAAPL,up,1\n", "line 2: side"},
		{"bad number", "symbol,side,pnl\nAAPL,long,abc\n", "realized_pnl"},
		{"no pnl or prices", "symbol,side,qty\nAAPL,long,1\n", "need realized_pnl"},
		{"bad time", "symbol,side,pnl,exit_time\nAAPL,long,1,yesterday\n", "exit_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTradesCSV(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRow))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadTradesCSV_SkipsCommentsAndBlankLines(t *testing.T) {
	doc := "# exported 2024-01-05\nsymbol,side,pnl\n\nAAPL,long,\"1,250.50\"\n"

	trades, err := LoadTradesCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 1250.5, *trades[0].RealizedPnL)
}

func TestLoadEquityCSV(t *testing.T) {
	doc := "date,equity\n2024-01-01,10000\n2024-01-02,10100.5\n"

	points, err := LoadEquityCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 10100.5, points[1].EquityValue)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), points[1].Time)

	_, err = LoadEquityCSV(strings.NewReader("date,value\n"))
	assert.ErrorIs(t, err, ErrInvalidRow)
}

func TestLoadBenchmarkCSV(t *testing.T) {
	doc := "time,benchmark_return,benchmark_price\n2024-01-01,,470\n2024-01-02,0.01,\n"

	points, err := LoadBenchmarkCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Nil(t, points[0].BenchmarkReturn)
	require.NotNil(t, points[0].BenchmarkPrice)
	assert.Equal(t, 470.0, *points[0].BenchmarkPrice)
	require.NotNil(t, points[1].BenchmarkReturn)
	assert.Equal(t, 0.01, *points[1].BenchmarkReturn)
	assert.Nil(t, points[1].BenchmarkPrice)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	for _, s := range []string{"2024-03-04T05:06:07Z", "2024-03-04T05:06:07", "2024-03-04 05:06:07", "1709528767"} {
		got, err := parseTime(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}

	_, err := parseTime("03/04/2024")
	assert.Error(t, err)
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]contracts.Side{
		"long": contracts.SideLong, "BUY": contracts.SideLong, " l ": contracts.SideLong,
		"short": contracts.SideShort, "Sell": contracts.SideShort, "sell_short": contracts.SideShort,
	} {
		got, err := parseSide(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseSide("")
	assert.Error(t, err)
}
