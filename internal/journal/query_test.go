package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/tradejournal/internal/contracts"
)

func TestBuildTradeQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    contracts.TradeFilter
		ph        placeholder
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			ph:        dollar,
			wantWhere: " ORDER BY exit_time, trade_id",
		},
		{
			name:      "postgres full",
			filter:    contracts.TradeFilter{Account: "main", Symbol: "ES", From: from, To: to, Limit: 50},
			ph:        dollar,
			wantWhere: " WHERE account = $1 AND symbol = $2 AND exit_time >= $3 AND exit_time < $4 ORDER BY exit_time, trade_id LIMIT $5",
			wantArgs:  []any{"main", "ES", from, to, 50},
		},
		{
			name:      "sqlite setup tag",
			filter:    contracts.TradeFilter{SetupTag: "breakout"},
			ph:        question,
			wantWhere: " WHERE setup_tag = ? ORDER BY exit_time, trade_id",
			wantArgs:  []any{"breakout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildTradeQuery("journal.trades", tt.filter, tt.ph, pgTime)

			assert.True(t, strings.HasPrefix(query, "SELECT trade_id, symbol"))
			assert.True(t, strings.HasSuffix(query, "FROM journal.trades"+tt.wantWhere), query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildRangeQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildRangeQuery("time, equity_value", "equity", "account", "main", from, time.Time{}, question, sqliteTime)

	assert.Equal(t, "SELECT time, equity_value FROM equity WHERE account = ? AND time >= ? ORDER BY time", query)
	assert.Equal(t, []any{"main", "2024-01-01T00:00:00Z"}, args)
}
