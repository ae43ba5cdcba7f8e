package journal

import (
	"strconv"
	"strings"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

// tradeColumns is the select list shared by the PostgreSQL and SQLite readers
const tradeColumns = `trade_id, symbol, asset_class, setup_tag, side,
	quantity, entry_time, exit_time, entry_price, exit_price,
	fees_commissions, realized_pnl,
	planned_risk, stop_price, target_price,
	order_type, venue, intended_qty, intended_price, arrival_price, signal_time,
	vwap, twap, spread_bps, mae, mfe`

// placeholder renders the n-th (1-based) bind parameter
type placeholder func(n int) string

func dollar(n int) string { return "$" + strconv.Itoa(n) }

func question(int) string { return "?" }

// whereBuilder accumulates AND-ed conditions with numbered parameters
type whereBuilder struct {
	ph    placeholder
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", w.ph(len(w.args))))
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// buildTradeQuery renders the trade select for filter, ordered by exit time
func buildTradeQuery(table string, f contracts.TradeFilter, ph placeholder, timeArg func(time.Time) any) (string, []any) {
	w := &whereBuilder{ph: ph}
	if f.Account != "" {
		w.add("account = ?", f.Account)
	}
	if f.Symbol != "" {
		w.add("symbol = ?", f.Symbol)
	}
	if f.SetupTag != "" {
		w.add("setup_tag = ?", f.SetupTag)
	}
	if !f.From.IsZero() {
		w.add("exit_time >= ?", timeArg(f.From))
	}
	if !f.To.IsZero() {
		w.add("exit_time < ?", timeArg(f.To))
	}

	query := "SELECT " + tradeColumns + " FROM " + table + w.String() + " ORDER BY exit_time, trade_id"
	if f.Limit > 0 {
		w.args = append(w.args, f.Limit)
		query += " LIMIT " + ph(len(w.args))
	}
	return query, w.args
}

// buildRangeQuery renders a "key = ? AND time in [from, to)" select ordered by time
func buildRangeQuery(columns, table, keyColumn, key string, from, to time.Time, ph placeholder, timeArg func(time.Time) any) (string, []any) {
	w := &whereBuilder{ph: ph}
	w.add(keyColumn+" = ?", key)
	if !from.IsZero() {
		w.add("time >= ?", timeArg(from))
	}
	if !to.IsZero() {
		w.add("time < ?", timeArg(to))
	}
	return "SELECT " + columns + " FROM " + table + w.String() + " ORDER BY time", w.args
}

// attachFills groups fills by trade id onto trades in place
func attachFills(trades []contracts.Trade, fills map[string][]contracts.OrderFill) {
	for i := range trades {
		if f, ok := fills[trades[i].TradeID]; ok {
			trades[i].Fills = f
		}
	}
}

func tradeIDs(trades []contracts.Trade) []string {
	ids := make([]string, len(trades))
	for i, t := range trades {
		ids[i] = t.TradeID
	}
	return ids
}
