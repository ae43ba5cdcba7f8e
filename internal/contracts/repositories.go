package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// TradeFilter narrows a journal trade query.
// Zero values mean "no constraint"; From/To bound exit_time as [From, To).
type TradeFilter struct {
	Account  string
	Symbol   string
	SetupTag string
	From     time.Time
	To       time.Time
	Limit    int
}

// JournalRepository reads closed trades, equity and benchmark series.
// Implementations are read-only.
type JournalRepository interface {
	GetTrades(ctx context.Context, filter TradeFilter) ([]Trade, error)
	GetEquityCurve(ctx context.Context, account string, from, to time.Time) ([]EquityPoint, error)
	GetBenchmark(ctx context.Context, symbol string, from, to time.Time) ([]BenchmarkPoint, error)
	Close()
}
