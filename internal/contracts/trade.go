package contracts

import (
	"math"
	"time"
)

// =============================================================================
// Trade
// =============================================================================

// Side is the direction of a closed position
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Valid reports whether the side is one of the known values
func (s Side) Valid() bool {
	return s == SideLong || s == SideShort
}

// OrderFill is one partial execution of a trade's entry order
type OrderFill struct {
	Price float64   `json:"price" yaml:"price"`
	Qty   float64   `json:"qty" yaml:"qty"`
	Time  time.Time `json:"time" yaml:"time"`
}

// Trade is an immutable record of one closed position
// ⭐ SSOT: 엔진은 Trade를 읽기만 함 (never mutated)
type Trade struct {
	TradeID    string `json:"trade_id" yaml:"trade_id"`
	Symbol     string `json:"symbol" yaml:"symbol"`
	AssetClass string `json:"asset_class,omitempty" yaml:"asset_class,omitempty"`
	SetupTag   string `json:"setup_tag,omitempty" yaml:"setup_tag,omitempty"`
	Side       Side   `json:"side" yaml:"side"`

	Quantity   float64   `json:"quantity" yaml:"quantity"`
	EntryTime  time.Time `json:"entry_time" yaml:"entry_time"`
	ExitTime   time.Time `json:"exit_time" yaml:"exit_time"`
	EntryPrice float64   `json:"entry_price" yaml:"entry_price"`
	ExitPrice  float64   `json:"exit_price" yaml:"exit_price"`

	FeesCommissions float64  `json:"fees_commissions" yaml:"fees_commissions"`
	RealizedPnL     *float64 `json:"realized_pnl,omitempty" yaml:"realized_pnl,omitempty"` // net of fees

	// Plan
	PlannedRisk *float64 `json:"planned_risk,omitempty" yaml:"planned_risk,omitempty"`
	StopPrice   *float64 `json:"stop_price,omitempty" yaml:"stop_price,omitempty"`
	TargetPrice *float64 `json:"target_price,omitempty" yaml:"target_price,omitempty"`

	// Execution metadata
	OrderType     string      `json:"order_type,omitempty" yaml:"order_type,omitempty"`
	Venue         string      `json:"venue,omitempty" yaml:"venue,omitempty"`
	IntendedQty   *float64    `json:"intended_qty,omitempty" yaml:"intended_qty,omitempty"`
	IntendedPrice *float64    `json:"intended_price,omitempty" yaml:"intended_price,omitempty"`
	ArrivalPrice  *float64    `json:"arrival_price,omitempty" yaml:"arrival_price,omitempty"`
	SignalTime    *time.Time  `json:"signal_time,omitempty" yaml:"signal_time,omitempty"`
	Fills         []OrderFill `json:"fills,omitempty" yaml:"fills,omitempty"`
	VWAP          *float64    `json:"vwap,omitempty" yaml:"vwap,omitempty"`
	TWAP          *float64    `json:"twap,omitempty" yaml:"twap,omitempty"`
	SpreadBps     *float64    `json:"spread_bps,omitempty" yaml:"spread_bps,omitempty"`

	// Excursions (currency)
	MAE *float64 `json:"mae,omitempty" yaml:"mae,omitempty"`
	MFE *float64 `json:"mfe,omitempty" yaml:"mfe,omitempty"`
}

// Direction returns +1 for long trades and -1 for short trades
func (t Trade) Direction() float64 {
	if t.Side == SideShort {
		return -1
	}
	return 1
}

// PnL returns the realized P&L of the trade.
// Realized P&L wins when recorded; otherwise it is derived from prices
// (net of fees) and falls back to 0 when prices are missing.
func (t Trade) PnL(multiplier float64) float64 {
	if t.RealizedPnL != nil && isFinite(*t.RealizedPnL) {
		return *t.RealizedPnL
	}
	if t.EntryPrice <= 0 || t.ExitPrice <= 0 {
		return 0
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	gross := (t.ExitPrice - t.EntryPrice) * t.Quantity * multiplier * t.Direction()
	pnl := gross - t.FeesCommissions
	if !isFinite(pnl) {
		return 0
	}
	return pnl
}

// Notional returns |entry_price × quantity × multiplier|
func (t Trade) Notional(multiplier float64) float64 {
	if multiplier <= 0 {
		multiplier = 1
	}
	n := math.Abs(t.EntryPrice * t.Quantity * multiplier)
	if !isFinite(n) {
		return 0
	}
	return n
}

// DurationMinutes returns the holding time in minutes.
// ok is false when either timestamp is missing or exit precedes entry.
func (t Trade) DurationMinutes() (float64, bool) {
	if t.EntryTime.IsZero() || t.ExitTime.IsZero() || t.ExitTime.Before(t.EntryTime) {
		return 0, false
	}
	return t.ExitTime.Sub(t.EntryTime).Minutes(), true
}

// =============================================================================
// Equity & Benchmark
// =============================================================================

// EquityPoint is one account-equity observation
type EquityPoint struct {
	Time        time.Time `json:"time" yaml:"time"`
	EquityValue float64   `json:"equity_value" yaml:"equity_value"`
}

// BenchmarkPoint carries either a return or a price for one benchmark observation
type BenchmarkPoint struct {
	Time            time.Time `json:"time" yaml:"time"`
	BenchmarkReturn *float64  `json:"benchmark_return,omitempty" yaml:"benchmark_return,omitempty"`
	BenchmarkPrice  *float64  `json:"benchmark_price,omitempty" yaml:"benchmark_price,omitempty"`
}

// =============================================================================
// Instrument knowledge (injected)
// =============================================================================

// MultiplierLookup resolves a contract multiplier for a symbol.
// The engine never hard-codes instrument knowledge; callers inject it.
type MultiplierLookup interface {
	Multiplier(symbol string) float64
}

// MultiplierOf returns the multiplier for symbol, 1 when lookup is nil or unknown
func MultiplierOf(lookup MultiplierLookup, symbol string) float64 {
	if lookup == nil {
		return 1
	}
	m := lookup.Multiplier(symbol)
	if m <= 0 || !isFinite(m) {
		return 1
	}
	return m
}

// Float returns a pointer to v. Handy for optional trade fields.
func Float(v float64) *float64 {
	return &v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
