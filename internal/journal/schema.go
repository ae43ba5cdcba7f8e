package journal

// PostgresSchema is the journal.* layout Repository reads.
// The engine never writes it; it is here for provisioning and integration tests.
const PostgresSchema = `
CREATE SCHEMA IF NOT EXISTS journal;

CREATE TABLE IF NOT EXISTS journal.trades (
	trade_id         TEXT PRIMARY KEY,
	account          TEXT NOT NULL DEFAULT '',
	symbol           TEXT NOT NULL,
	asset_class      TEXT NOT NULL DEFAULT '',
	setup_tag        TEXT NOT NULL DEFAULT '',
	side             TEXT NOT NULL CHECK (side IN ('long', 'short')),
	quantity         DOUBLE PRECISION NOT NULL DEFAULT 0,
	entry_time       TIMESTAMPTZ NOT NULL,
	exit_time        TIMESTAMPTZ NOT NULL,
	entry_price      DOUBLE PRECISION NOT NULL DEFAULT 0,
	exit_price       DOUBLE PRECISION NOT NULL DEFAULT 0,
	fees_commissions DOUBLE PRECISION NOT NULL DEFAULT 0,
	realized_pnl     DOUBLE PRECISION,
	planned_risk     DOUBLE PRECISION,
	stop_price       DOUBLE PRECISION,
	target_price     DOUBLE PRECISION,
	order_type       TEXT NOT NULL DEFAULT '',
	venue            TEXT NOT NULL DEFAULT '',
	intended_qty     DOUBLE PRECISION,
	intended_price   DOUBLE PRECISION,
	arrival_price    DOUBLE PRECISION,
	signal_time      TIMESTAMPTZ,
	vwap             DOUBLE PRECISION,
	twap             DOUBLE PRECISION,
	spread_bps       DOUBLE PRECISION,
	mae              DOUBLE PRECISION,
	mfe              DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_trades_account_exit ON journal.trades(account, exit_time);

CREATE TABLE IF NOT EXISTS journal.fills (
	trade_id  TEXT NOT NULL REFERENCES journal.trades(trade_id),
	price     DOUBLE PRECISION NOT NULL,
	qty       DOUBLE PRECISION NOT NULL,
	fill_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fills_trade ON journal.fills(trade_id);

CREATE TABLE IF NOT EXISTS journal.equity (
	account      TEXT NOT NULL,
	time         TIMESTAMPTZ NOT NULL,
	equity_value DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (account, time)
);

CREATE TABLE IF NOT EXISTS journal.benchmark (
	symbol           TEXT NOT NULL,
	time             TIMESTAMPTZ NOT NULL,
	benchmark_return DOUBLE PRECISION,
	benchmark_price  DOUBLE PRECISION,
	PRIMARY KEY (symbol, time)
);
`

// SQLiteSchema is the layout of a journal export file. Timestamps are RFC3339 TEXT.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id         TEXT PRIMARY KEY,
	account          TEXT NOT NULL DEFAULT '',
	symbol           TEXT NOT NULL,
	asset_class      TEXT NOT NULL DEFAULT '',
	setup_tag        TEXT NOT NULL DEFAULT '',
	side             TEXT NOT NULL,
	quantity         REAL NOT NULL DEFAULT 0,
	entry_time       TEXT NOT NULL DEFAULT '',
	exit_time        TEXT NOT NULL DEFAULT '',
	entry_price      REAL NOT NULL DEFAULT 0,
	exit_price       REAL NOT NULL DEFAULT 0,
	fees_commissions REAL NOT NULL DEFAULT 0,
	realized_pnl     REAL,
	planned_risk     REAL,
	stop_price       REAL,
	target_price     REAL,
	order_type       TEXT NOT NULL DEFAULT '',
	venue            TEXT NOT NULL DEFAULT '',
	intended_qty     REAL,
	intended_price   REAL,
	arrival_price    REAL,
	signal_time      TEXT,
	vwap             REAL,
	twap             REAL,
	spread_bps       REAL,
	mae              REAL,
	mfe              REAL
);

CREATE TABLE IF NOT EXISTS fills (
	trade_id  TEXT NOT NULL,
	price     REAL NOT NULL,
	qty       REAL NOT NULL,
	fill_time TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	account      TEXT NOT NULL,
	time         TEXT NOT NULL,
	equity_value REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS benchmark (
	symbol           TEXT NOT NULL,
	time             TEXT NOT NULL,
	benchmark_return REAL,
	benchmark_price  REAL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(exit_time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(account, time);
`
