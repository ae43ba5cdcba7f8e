package contracts

import (
	"math"
	"testing"
	"time"
)

type fixedMultipliers map[string]float64

func (m fixedMultipliers) Multiplier(symbol string) float64 {
	return m[symbol]
}

func TestTrade_PnL(t *testing.T) {
	tests := []struct {
		name  string
		trade Trade
		mult  float64
		want  float64
	}{
		{
			name:  "realized pnl wins",
			trade: Trade{RealizedPnL: Float(42), EntryPrice: 10, ExitPrice: 20, Quantity: 1},
			mult:  1,
			want:  42,
		},
		{
			name:  "derived long",
			trade: Trade{Side: SideLong, EntryPrice: 100, ExitPrice: 110, Quantity: 2, FeesCommissions: 1},
			mult:  1,
			want:  19,
		},
		{
			name:  "derived short",
			trade: Trade{Side: SideShort, EntryPrice: 100, ExitPrice: 110, Quantity: 2},
			mult:  1,
			want:  -20,
		},
		{
			name:  "multiplier applied",
			trade: Trade{Side: SideLong, EntryPrice: 4000, ExitPrice: 4001, Quantity: 1},
			mult:  50,
			want:  50,
		},
		{
			name:  "missing prices",
			trade: Trade{Side: SideLong, Quantity: 1},
			mult:  1,
			want:  0,
		},
		{
			name:  "nan realized falls back",
			trade: Trade{RealizedPnL: Float(math.NaN())},
			mult:  1,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trade.PnL(tt.mult); got != tt.want {
				t.Errorf("PnL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrade_Notional(t *testing.T) {
	trade := Trade{EntryPrice: 50, Quantity: -3}
	if got := trade.Notional(1); got != 150 {
		t.Errorf("Notional() = %v, want 150", got)
	}
	if got := trade.Notional(0); got != 150 {
		t.Errorf("Notional(0) = %v, want 150 (multiplier defaults to 1)", got)
	}
}

func TestTrade_DurationMinutes(t *testing.T) {
	entry := time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)

	d, ok := Trade{EntryTime: entry, ExitTime: entry.Add(90 * time.Minute)}.DurationMinutes()
	if !ok || d != 90 {
		t.Errorf("DurationMinutes() = %v, %v; want 90, true", d, ok)
	}

	if _, ok := (Trade{EntryTime: entry}).DurationMinutes(); ok {
		t.Error("Expected missing exit time to be rejected")
	}
	if _, ok := (Trade{EntryTime: entry, ExitTime: entry.Add(-time.Minute)}).DurationMinutes(); ok {
		t.Error("Expected exit before entry to be rejected")
	}
}

func TestMultiplierOf(t *testing.T) {
	lookup := fixedMultipliers{"ES": 50, "BAD": -1}

	if got := MultiplierOf(nil, "ES"); got != 1 {
		t.Errorf("nil lookup = %v, want 1", got)
	}
	if got := MultiplierOf(lookup, "ES"); got != 50 {
		t.Errorf("ES = %v, want 50", got)
	}
	if got := MultiplierOf(lookup, "AAPL"); got != 1 {
		t.Errorf("unknown symbol = %v, want 1", got)
	}
	if got := MultiplierOf(lookup, "BAD"); got != 1 {
		t.Errorf("negative multiplier = %v, want 1", got)
	}
}

func TestSide_Valid(t *testing.T) {
	if !SideLong.Valid() || !SideShort.Valid() {
		t.Error("long/short should be valid")
	}
	if Side("flat").Valid() {
		t.Error("flat should not be valid")
	}
}
