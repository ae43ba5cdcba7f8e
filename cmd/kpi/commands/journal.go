package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/internal/kpi"
	"github.com/wonny/tradejournal/pkg/database"
)

// journalCmd represents the journal command
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Compute KPIs from a journal database",
	Long: `Reads trades, the account equity curve and a benchmark series from the
journal database and computes the KPI catalog.

Sources:
- PostgreSQL (DATABASE_URL, read-only sessions)
- SQLite export file (--sqlite, opened read-only)

The equity curve is loaded only when --account is set, the benchmark only
when --benchmark-symbol is set. --to is inclusive for plain dates.

Example:
  go run ./cmd/kpi journal --account main --from 2024-01-01 --to 2024-06-30
  go run ./cmd/kpi journal --sqlite export.db --account main --benchmark-symbol SPY
  go run ./cmd/kpi journal --sqlite export.db --by setup_tag
  go run ./cmd/kpi journal --account main --export snapshot.yaml`,
	RunE: runJournal,
}

var (
	journalSQLite    string
	journalAccount   string
	journalSymbol    string
	journalSetup     string
	journalFrom      string
	journalTo        string
	journalLimit     int
	journalBenchmark string
	journalBy        string
	journalExport    string
)

func init() {
	rootCmd.AddCommand(journalCmd)

	// Flags
	journalCmd.Flags().StringVar(&journalSQLite, "sqlite", "", "SQLite export file (default: PostgreSQL via DATABASE_URL)")
	journalCmd.Flags().StringVar(&journalAccount, "account", "", "account filter; also selects the equity curve")
	journalCmd.Flags().StringVar(&journalSymbol, "symbol", "", "symbol filter")
	journalCmd.Flags().StringVar(&journalSetup, "setup", "", "setup tag filter")
	journalCmd.Flags().StringVar(&journalFrom, "from", "", "start (YYYY-MM-DD or RFC3339), inclusive")
	journalCmd.Flags().StringVar(&journalTo, "to", "", "end (YYYY-MM-DD inclusive, or RFC3339 exclusive)")
	journalCmd.Flags().IntVar(&journalLimit, "limit", 0, "maximum number of trades (0 = all)")
	journalCmd.Flags().StringVar(&journalBenchmark, "benchmark-symbol", "", "benchmark series to load")
	journalCmd.Flags().StringVar(&journalBy, "by", "", "partition trades by field instead of one report")
	journalCmd.Flags().StringVar(&kpiList, "kpis", "", "comma-separated KPI ids (default: full catalog)")
	journalCmd.Flags().StringVar(&journalExport, "export", "", "also write the fetched dataset to a .json or .yaml file")
}

func runJournal(cmd *cobra.Command, args []string) error {
	q, err := journalQuery()
	if err != nil {
		return err
	}
	ids, err := parseKPIs(kpiList)
	if err != nil {
		return err
	}
	var key kpi.GroupKeyFunc
	if journalBy != "" {
		if key, err = kpi.GroupByField(journalBy); err != nil {
			return err
		}
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// 1. Open journal source
	var repo contracts.JournalRepository
	source := "postgres"
	if journalSQLite != "" {
		source = "sqlite:" + journalSQLite
		sqliteRepo, err := journal.OpenSQLite(journalSQLite)
		if err != nil {
			return fmt.Errorf("open sqlite journal: %w", err)
		}
		repo = sqliteRepo
	} else {
		db, err := database.New(ctx, rt.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		repo = journal.NewRepository(db.Pool)
	}
	defer repo.Close()

	// 2. Fetch
	ds, err := journal.Fetch(ctx, repo, q)
	if err != nil {
		return err
	}
	rt.log.WithFields(map[string]interface{}{
		"source":    source,
		"trades":    len(ds.Trades),
		"equity":    len(ds.Equity),
		"benchmark": len(ds.Benchmark),
	}).Info("Journal loaded")

	if journalExport != "" {
		if err := exportDataset(journalExport, ds); err != nil {
			return err
		}
	}

	fields := append([]Field{{"Source", source}}, datasetFields(ds)...)
	fields = append(fields, Field{"Profile", rt.kpiCfg.Meta.ProfileID}, Field{"Config hash", shortHash(rt.hash)})

	// 3. Compute
	if key != nil {
		by := strings.ToLower(strings.TrimSpace(journalBy))
		resp := handlers.GroupResponse{
			ConfigHash: rt.hash,
			By:         by,
			Groups:     rt.engine.ComputeByGroup(ds.Trades, key, ds.Equity, ds.Benchmark),
		}
		return renderGroups(cmd.OutOrStdout(), "Journal KPIs by "+by, fields, resp, ids)
	}

	var results []kpi.KPIResult
	if len(ids) == 0 {
		results = rt.engine.ComputeAll(ds.Trades, ds.Equity, ds.Benchmark)
	} else if results, err = rt.engine.Compute(ids, ds.Trades, ds.Equity, ds.Benchmark); err != nil {
		return err
	}
	return renderResults(cmd.OutOrStdout(), "Journal KPIs", fields, handlers.ComputeResponse{
		ConfigHash: rt.hash,
		Computed:   handlers.CountComputed(results),
		Results:    results,
	})
}

// journalQuery builds the repository query from flags
func journalQuery() (journal.Query, error) {
	from, err := parseRangeFlag(journalFrom, false)
	if err != nil {
		return journal.Query{}, fmt.Errorf("--from: %w", err)
	}
	to, err := parseRangeFlag(journalTo, true)
	if err != nil {
		return journal.Query{}, fmt.Errorf("--to: %w", err)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return journal.Query{}, fmt.Errorf("--from must be before --to")
	}
	if journalLimit < 0 {
		return journal.Query{}, fmt.Errorf("--limit must not be negative")
	}

	return journal.Query{
		Trades: contracts.TradeFilter{
			Account:  journalAccount,
			Symbol:   journalSymbol,
			SetupTag: journalSetup,
			From:     from,
			To:       to,
			Limit:    journalLimit,
		},
		BenchmarkSymbol: journalBenchmark,
	}, nil
}

// parseRangeFlag accepts a UTC date or an RFC3339 instant.
// A plain date used as an end bound covers the whole day.
func parseRangeFlag(s string, end bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", s)
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// exportDataset writes ds in the format named by the file extension
func exportDataset(path string, ds *journal.Dataset) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s", journal.ErrUnsupportedFormat, path)
	}

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer fh.Close()

	if ext == ".json" {
		err = writeJSON(fh, ds)
	} else {
		enc := yaml.NewEncoder(fh)
		enc.SetIndent(2)
		if err = enc.Encode(ds); err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return fh.Close()
}
