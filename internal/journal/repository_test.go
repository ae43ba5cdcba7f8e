package journal

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/pkg/config"
	"github.com/wonny/tradejournal/pkg/database"
)

// Integration: reads whatever journal.* holds in DATABASE_URL
func TestRepository_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, &config.Config{
		Database: config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 1},
	})
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.Pool)
	trades, err := repo.GetTrades(ctx, contracts.TradeFilter{Limit: 5})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
		t.Skip("journal schema not provisioned")
	}
	require.NoError(t, err)
	assert.LessOrEqual(t, len(trades), 5)

	for i := 1; i < len(trades); i++ {
		assert.False(t, trades[i].ExitTime.Before(trades[i-1].ExitTime), "trades must be ordered by exit_time")
	}
}
