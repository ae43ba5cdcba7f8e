package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/tradejournal/internal/contracts"
)

// header maps normalized column names to their index
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	rec, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrInvalidRow)
		}
		return nil, err
	}
	h := make(header, len(rec))
	for i, name := range rec {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h, nil
}

// has reports whether any alias is present
func (h header) has(aliases ...string) bool {
	for _, a := range aliases {
		if _, ok := h[a]; ok {
			return true
		}
	}
	return false
}

// get returns the first present alias' cell, "" when absent
func (h header) get(rec []string, aliases ...string) string {
	for _, a := range aliases {
		if i, ok := h[a]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
	}
	return ""
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return cr
}

// eachRow calls fn for every non-blank data row with its file line
func eachRow(cr *csv.Reader, fn func(line int, rec []string) error) error {
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowErr(line int, column string, err error) error {
	return fmt.Errorf("%w: line %d: %s: %v", ErrInvalidRow, line, column, err)
}

// =============================================================================
// Trades
// =============================================================================

// Column aliases accepted in trade exports
var (
	colTradeID     = []string{"trade_id", "id"}
	colSymbol      = []string{"symbol", "instrument", "ticker"}
	colSide        = []string{"side", "direction"}
	colQty         = []string{"quantity", "qty", "units", "size"}
	colEntryTime   = []string{"entry_time", "open_time", "opened_at"}
	colExitTime    = []string{"exit_time", "close_time", "closed_at"}
	colEntryPrice  = []string{"entry_price", "entry", "open_price"}
	colExitPrice   = []string{"exit_price", "exit", "close_price"}
	colFees        = []string{"fees_commissions", "fees", "commission", "commissions"}
	colRealizedPnL = []string{"realized_pnl", "realized_pl", "net_pnl", "pnl"}
)

// LoadTradesCSV parses a trade export with a header row.
// Columns are matched by name (case-insensitive); unknown columns are ignored.
// A row needs symbol and side plus either realized_pnl or entry/exit prices.
func LoadTradesCSV(r io.Reader) ([]contracts.Trade, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if !h.has(colSymbol...) || !h.has(colSide...) {
		return nil, fmt.Errorf("%w: header needs symbol and side columns", ErrInvalidRow)
	}

	var trades []contracts.Trade
	err = eachRow(cr, func(line int, rec []string) error {
		t, err := parseTradeRow(h, rec, line)
		if err != nil {
			return err
		}
		trades = append(trades, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func parseTradeRow(h header, rec []string, line int) (contracts.Trade, error) {
	var (
		t   contracts.Trade
		err error
	)

	t.Symbol = h.get(rec, colSymbol...)
	if t.Symbol == "" {
		return t, rowErr(line, "symbol", errors.New("required"))
	}
	if t.Side, err = parseSide(h.get(rec, colSide...)); err != nil {
		return t, rowErr(line, "side", err)
	}

	t.AssetClass = h.get(rec, "asset_class")
	t.SetupTag = h.get(rec, "setup_tag", "setup", "tag")
	t.OrderType = h.get(rec, "order_type")
	t.Venue = h.get(rec, "venue", "exchange")

	// required-or-zero numbers
	nums := []struct {
		name    string
		aliases []string
		dst     *float64
	}{
		{"quantity", colQty, &t.Quantity},
		{"entry_price", colEntryPrice, &t.EntryPrice},
		{"exit_price", colExitPrice, &t.ExitPrice},
		{"fees_commissions", colFees, &t.FeesCommissions},
	}
	for _, n := range nums {
		cell := h.get(rec, n.aliases...)
		if cell == "" {
			continue
		}
		if *n.dst, err = parseFloat(cell); err != nil {
			return t, rowErr(line, n.name, err)
		}
	}

	// optional numbers
	opts := []struct {
		name    string
		aliases []string
		dst     **float64
	}{
		{"realized_pnl", colRealizedPnL, &t.RealizedPnL},
		{"planned_risk", []string{"planned_risk", "risk"}, &t.PlannedRisk},
		{"stop_price", []string{"stop_price", "stop"}, &t.StopPrice},
		{"target_price", []string{"target_price", "target"}, &t.TargetPrice},
		{"intended_qty", []string{"intended_qty"}, &t.IntendedQty},
		{"intended_price", []string{"intended_price"}, &t.IntendedPrice},
		{"arrival_price", []string{"arrival_price"}, &t.ArrivalPrice},
		{"vwap", []string{"vwap"}, &t.VWAP},
		{"twap", []string{"twap"}, &t.TWAP},
		{"spread_bps", []string{"spread_bps"}, &t.SpreadBps},
		{"mae", []string{"mae"}, &t.MAE},
		{"mfe", []string{"mfe"}, &t.MFE},
	}
	for _, o := range opts {
		if *o.dst, err = optFloat(h.get(rec, o.aliases...)); err != nil {
			return t, rowErr(line, o.name, err)
		}
	}

	if t.RealizedPnL == nil && (t.EntryPrice <= 0 || t.ExitPrice <= 0) {
		return t, rowErr(line, "realized_pnl", errors.New("need realized_pnl or entry and exit prices"))
	}

	// times
	if cell := h.get(rec, colEntryTime...); cell != "" {
		if t.EntryTime, err = parseTime(cell); err != nil {
			return t, rowErr(line, "entry_time", err)
		}
	}
	if cell := h.get(rec, colExitTime...); cell != "" {
		if t.ExitTime, err = parseTime(cell); err != nil {
			return t, rowErr(line, "exit_time", err)
		}
	}
	if t.SignalTime, err = optTime(h.get(rec, "signal_time")); err != nil {
		return t, rowErr(line, "signal_time", err)
	}

	t.TradeID = h.get(rec, colTradeID...)
	if t.TradeID == "" {
		t.TradeID = NewTradeID(t.ExitTime)
	}
	return t, nil
}

// =============================================================================
// Equity & Benchmark
// =============================================================================

// LoadEquityCSV parses time,equity_value rows
func LoadEquityCSV(r io.Reader) ([]contracts.EquityPoint, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	timeCols := []string{"time", "date", "timestamp"}
	valueCols := []string{"equity_value", "equity", "balance", "nav"}
	if !h.has(timeCols...) || !h.has(valueCols...) {
		return nil, fmt.Errorf("%w: header needs time and equity_value columns", ErrInvalidRow)
	}

	var points []contracts.EquityPoint
	err = eachRow(cr, func(line int, rec []string) error {
		ts, err := parseTime(h.get(rec, timeCols...))
		if err != nil {
			return rowErr(line, "time", err)
		}
		v, err := parseFloat(h.get(rec, valueCols...))
		if err != nil {
			return rowErr(line, "equity_value", err)
		}
		points = append(points, contracts.EquityPoint{Time: ts, EquityValue: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// LoadBenchmarkCSV parses time plus benchmark_return and/or benchmark_price rows
func LoadBenchmarkCSV(r io.Reader) ([]contracts.BenchmarkPoint, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	timeCols := []string{"time", "date", "timestamp"}
	retCols := []string{"benchmark_return", "return"}
	priceCols := []string{"benchmark_price", "price", "close"}
	if !h.has(timeCols...) || (!h.has(retCols...) && !h.has(priceCols...)) {
		return nil, fmt.Errorf("%w: header needs time and benchmark_return or benchmark_price", ErrInvalidRow)
	}

	var points []contracts.BenchmarkPoint
	err = eachRow(cr, func(line int, rec []string) error {
		ts, err := parseTime(h.get(rec, timeCols...))
		if err != nil {
			return rowErr(line, "time", err)
		}
		p := contracts.BenchmarkPoint{Time: ts}
		if p.BenchmarkReturn, err = optFloat(h.get(rec, retCols...)); err != nil {
			return rowErr(line, "benchmark_return", err)
		}
		if p.BenchmarkPrice, err = optFloat(h.get(rec, priceCols...)); err != nil {
			return rowErr(line, "benchmark_price", err)
		}
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}
