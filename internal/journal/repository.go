package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tradejournal/internal/contracts"
)

// Repository implements contracts.JournalRepository on the journal.* schema
// ⭐ SSOT: PostgreSQL 저널 조회는 여기서만 (read-only)
type Repository struct {
	pool *pgxpool.Pool
}

var _ contracts.JournalRepository = (*Repository)(nil)

// NewRepository creates a new journal repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Close is a no-op; the pool belongs to the caller
func (r *Repository) Close() {}

func pgTime(t time.Time) any { return t }

// GetTrades retrieves closed trades matching filter, ordered by exit time
func (r *Repository) GetTrades(ctx context.Context, filter contracts.TradeFilter) ([]contracts.Trade, error) {
	query, args := buildTradeQuery("journal.trades", filter, dollar, pgTime)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []contracts.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	if len(trades) == 0 {
		return trades, nil
	}
	fills, err := r.getFills(ctx, tradeIDs(trades))
	if err != nil {
		return nil, err
	}
	attachFills(trades, fills)
	return trades, nil
}

func scanTrade(rows pgx.Rows) (contracts.Trade, error) {
	var t contracts.Trade
	var side string
	err := rows.Scan(
		&t.TradeID, &t.Symbol, &t.AssetClass, &t.SetupTag, &side,
		&t.Quantity, &t.EntryTime, &t.ExitTime, &t.EntryPrice, &t.ExitPrice,
		&t.FeesCommissions, &t.RealizedPnL,
		&t.PlannedRisk, &t.StopPrice, &t.TargetPrice,
		&t.OrderType, &t.Venue, &t.IntendedQty, &t.IntendedPrice, &t.ArrivalPrice, &t.SignalTime,
		&t.VWAP, &t.TWAP, &t.SpreadBps, &t.MAE, &t.MFE,
	)
	if err != nil {
		return t, err
	}
	if t.Side, err = parseSide(side); err != nil {
		return t, fmt.Errorf("trade %s: %w", t.TradeID, err)
	}
	return t, nil
}

func (r *Repository) getFills(ctx context.Context, ids []string) (map[string][]contracts.OrderFill, error) {
	query := `
		SELECT trade_id, price, qty, fill_time
		FROM journal.fills
		WHERE trade_id = ANY($1)
		ORDER BY trade_id, fill_time
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query fills: %w", err)
	}
	defer rows.Close()

	fills := make(map[string][]contracts.OrderFill)
	for rows.Next() {
		var id string
		var f contracts.OrderFill
		if err := rows.Scan(&id, &f.Price, &f.Qty, &f.Time); err != nil {
			return nil, fmt.Errorf("failed to scan fill: %w", err)
		}
		fills[id] = append(fills[id], f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fills: %w", err)
	}
	return fills, nil
}

// GetEquityCurve retrieves the account equity curve within [from, to)
func (r *Repository) GetEquityCurve(ctx context.Context, account string, from, to time.Time) ([]contracts.EquityPoint, error) {
	query, args := buildRangeQuery("time, equity_value", "journal.equity", "account", account, from, to, dollar, pgTime)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query equity: %w", err)
	}
	defer rows.Close()

	var points []contracts.EquityPoint
	for rows.Next() {
		var p contracts.EquityPoint
		if err := rows.Scan(&p.Time, &p.EquityValue); err != nil {
			return nil, fmt.Errorf("failed to scan equity: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equity: %w", err)
	}
	return points, nil
}

// GetBenchmark retrieves a benchmark series within [from, to)
func (r *Repository) GetBenchmark(ctx context.Context, symbol string, from, to time.Time) ([]contracts.BenchmarkPoint, error) {
	query, args := buildRangeQuery("time, benchmark_return, benchmark_price", "journal.benchmark", "symbol", symbol, from, to, dollar, pgTime)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark: %w", err)
	}
	defer rows.Close()

	var points []contracts.BenchmarkPoint
	for rows.Next() {
		var p contracts.BenchmarkPoint
		if err := rows.Scan(&p.Time, &p.BenchmarkReturn, &p.BenchmarkPrice); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating benchmark: %w", err)
	}
	return points, nil
}
