package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wonny/tradejournal/internal/contracts"
)

// SQLiteTimeLayout is how journal export files store timestamps (always UTC)
const SQLiteTimeLayout = time.RFC3339

// fillChunk bounds the IN (...) list per fills query
const fillChunk = 500

// SQLiteReader reads a journal export file opened read-only
type SQLiteReader struct {
	db *sql.DB
}

var _ contracts.JournalRepository = (*SQLiteReader)(nil)

// OpenSQLite opens path read-only. The file must exist.
func OpenSQLite(path string) (*SQLiteReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &SQLiteReader{db: db}, nil
}

// Close closes the underlying database
func (j *SQLiteReader) Close() {
	_ = j.db.Close()
}

func sqliteTime(t time.Time) any { return t.UTC().Format(SQLiteTimeLayout) }

// GetTrades returns trades matching filter, ordered by exit time
func (j *SQLiteReader) GetTrades(ctx context.Context, filter contracts.TradeFilter) ([]contracts.Trade, error) {
	query, args := buildTradeQuery("trades", filter, question, sqliteTime)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []contracts.Trade
	for rows.Next() {
		t, err := scanSQLiteTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	if len(trades) == 0 {
		return trades, nil
	}
	fills, err := j.getFills(ctx, tradeIDs(trades))
	if err != nil {
		return nil, err
	}
	attachFills(trades, fills)
	return trades, nil
}

func scanSQLiteTrade(rows *sql.Rows) (contracts.Trade, error) {
	var (
		t                   contracts.Trade
		side                string
		entryTime, exitTime string
		signalTime          *string
	)
	err := rows.Scan(
		&t.TradeID, &t.Symbol, &t.AssetClass, &t.SetupTag, &side,
		&t.Quantity, &entryTime, &exitTime, &t.EntryPrice, &t.ExitPrice,
		&t.FeesCommissions, &t.RealizedPnL,
		&t.PlannedRisk, &t.StopPrice, &t.TargetPrice,
		&t.OrderType, &t.Venue, &t.IntendedQty, &t.IntendedPrice, &t.ArrivalPrice, &signalTime,
		&t.VWAP, &t.TWAP, &t.SpreadBps, &t.MAE, &t.MFE,
	)
	if err != nil {
		return t, fmt.Errorf("failed to scan trade: %w", err)
	}

	if t.Side, err = parseSide(side); err != nil {
		return t, fmt.Errorf("trade %s: %w", t.TradeID, err)
	}
	if entryTime != "" {
		if t.EntryTime, err = parseTime(entryTime); err != nil {
			return t, fmt.Errorf("trade %s: entry_time: %w", t.TradeID, err)
		}
	}
	if exitTime != "" {
		if t.ExitTime, err = parseTime(exitTime); err != nil {
			return t, fmt.Errorf("trade %s: exit_time: %w", t.TradeID, err)
		}
	}
	if signalTime != nil {
		if t.SignalTime, err = optTime(*signalTime); err != nil {
			return t, fmt.Errorf("trade %s: signal_time: %w", t.TradeID, err)
		}
	}
	return t, nil
}

func (j *SQLiteReader) getFills(ctx context.Context, ids []string) (map[string][]contracts.OrderFill, error) {
	fills := make(map[string][]contracts.OrderFill)

	for start := 0; start < len(ids); start += fillChunk {
		end := min(start+fillChunk, len(ids))
		chunk := ids[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		query := `SELECT trade_id, price, qty, fill_time FROM fills WHERE trade_id IN (` +
			strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",") +
			`) ORDER BY trade_id, fill_time`

		rows, err := j.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query fills: %w", err)
		}
		for rows.Next() {
			var id, ts string
			var f contracts.OrderFill
			if err := rows.Scan(&id, &f.Price, &f.Qty, &ts); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan fill: %w", err)
			}
			if f.Time, err = parseTime(ts); err != nil {
				rows.Close()
				return nil, fmt.Errorf("fill for %s: %w", id, err)
			}
			fills[id] = append(fills[id], f)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("error iterating fills: %w", err)
		}
	}
	return fills, nil
}

// GetEquityCurve returns the account equity curve within [from, to)
func (j *SQLiteReader) GetEquityCurve(ctx context.Context, account string, from, to time.Time) ([]contracts.EquityPoint, error) {
	query, args := buildRangeQuery("time, equity_value", "equity", "account", account, from, to, question, sqliteTime)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query equity: %w", err)
	}
	defer rows.Close()

	var points []contracts.EquityPoint
	for rows.Next() {
		var ts string
		var p contracts.EquityPoint
		if err := rows.Scan(&ts, &p.EquityValue); err != nil {
			return nil, fmt.Errorf("failed to scan equity: %w", err)
		}
		if p.Time, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("equity: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equity: %w", err)
	}
	return points, nil
}

// GetBenchmark returns a benchmark series within [from, to)
func (j *SQLiteReader) GetBenchmark(ctx context.Context, symbol string, from, to time.Time) ([]contracts.BenchmarkPoint, error) {
	query, args := buildRangeQuery("time, benchmark_return, benchmark_price", "benchmark", "symbol", symbol, from, to, question, sqliteTime)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark: %w", err)
	}
	defer rows.Close()

	var points []contracts.BenchmarkPoint
	for rows.Next() {
		var ts string
		var p contracts.BenchmarkPoint
		if err := rows.Scan(&ts, &p.BenchmarkReturn, &p.BenchmarkPrice); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark: %w", err)
		}
		if p.Time, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("benchmark: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating benchmark: %w", err)
	}
	return points, nil
}
