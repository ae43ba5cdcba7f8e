// Package journal normalizes journal exports (CSV, JSON, YAML, SQLite) and the
// PostgreSQL journal schema into engine inputs.
package journal

import (
	"context"
	cryptoRand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wonny/tradejournal/internal/contracts"
)

var (
	// ErrUnsupportedFormat is returned for dataset files with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrInvalidRow wraps every row-level parse failure
	ErrInvalidRow = errors.New("invalid row")
)

// Dataset bundles everything one KPI run needs
type Dataset struct {
	Trades    []contracts.Trade          `json:"trades" yaml:"trades"`
	Equity    []contracts.EquityPoint    `json:"equity,omitempty" yaml:"equity,omitempty"`
	Benchmark []contracts.BenchmarkPoint `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
}

// Query selects a dataset from a JournalRepository
type Query struct {
	Trades          contracts.TradeFilter
	BenchmarkSymbol string // empty = no benchmark
}

// Fetch loads trades, the account equity curve and the benchmark series
func Fetch(ctx context.Context, repo contracts.JournalRepository, q Query) (*Dataset, error) {
	trades, err := repo.GetTrades(ctx, q.Trades)
	if err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}

	ds := &Dataset{Trades: trades}
	if q.Trades.Account != "" {
		ds.Equity, err = repo.GetEquityCurve(ctx, q.Trades.Account, q.Trades.From, q.Trades.To)
		if err != nil {
			return nil, fmt.Errorf("get equity curve: %w", err)
		}
	}
	if q.BenchmarkSymbol != "" {
		ds.Benchmark, err = repo.GetBenchmark(ctx, q.BenchmarkSymbol, q.Trades.From, q.Trades.To)
		if err != nil {
			return nil, fmt.Errorf("get benchmark: %w", err)
		}
	}
	return ds, nil
}

// =============================================================================
// Trade IDs
// =============================================================================

var (
	idMu sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewTradeID returns a time-sortable id for rows exported without one.
// The id is stamped with the trade's exit time so imports sort like the journal.
func NewTradeID(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}

	idMu.Lock()
	defer idMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(at.UTC()), mono)
	if err != nil {
		// monotonic entropy overflow within one millisecond
		return ulid.Make().String()
	}
	return id.String()
}

// =============================================================================
// Field parsing (shared by CSV and SQLite readers)
// =============================================================================

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts RFC3339 and common spreadsheet layouts. Zone-less values are UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// unix seconds
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	return strconv.ParseFloat(s, 64)
}

// optFloat returns nil for an empty cell
func optFloat(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optTime(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseSide maps broker spellings onto contracts.Side
func parseSide(s string) (contracts.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy", "b", "l":
		return contracts.SideLong, nil
	case "short", "sell", "s", "sell_short", "sellshort":
		return contracts.SideShort, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}
