package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/kpi"
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute KPIs for a journal file",
	Long: `Computes the KPI catalog (or a subset) for a journal.

Input:
- --data: one JSON/YAML dataset (trades, equity, benchmark), or a trades CSV
- --trades/--equity/--benchmark: separate CSV exports

KPIs that cannot be computed are reported as n/a with a reason.

Example:
  go run ./cmd/kpi compute --trades trades.csv
  go run ./cmd/kpi compute --data journal.yaml --kpis sharpe_ratio,max_drawdown_percent
  go run ./cmd/kpi compute --trades trades.csv -o json
  go run ./cmd/kpi compute --trades trades.csv --remote http://localhost:8080`,
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)

	addInputFlags(computeCmd)
	addRemoteFlags(computeCmd)
	computeCmd.Flags().StringVar(&kpiList, "kpis", "", "comma-separated KPI ids (default: full catalog)")
}

func runCompute(cmd *cobra.Command, args []string) error {
	ids, err := parseKPIs(kpiList)
	if err != nil {
		return err
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	ds, err := loadInput()
	if err != nil {
		return err
	}

	var resp handlers.ComputeResponse
	if remoteURL != "" {
		client, err := newRemoteClient(remoteURL, remoteTimeout, rt.log)
		if err != nil {
			return err
		}
		if resp, err = client.compute(cmd.Context(), ds, ids); err != nil {
			return err
		}
	} else {
		var results []kpi.KPIResult
		if len(ids) == 0 {
			results = rt.engine.ComputeAll(ds.Trades, ds.Equity, ds.Benchmark)
		} else if results, err = rt.engine.Compute(ids, ds.Trades, ds.Equity, ds.Benchmark); err != nil {
			return err
		}
		resp = handlers.ComputeResponse{
			ConfigHash: rt.hash,
			Computed:   handlers.CountComputed(results),
			Results:    results,
		}
	}

	fields := append(datasetFields(ds),
		Field{"Profile", rt.kpiCfg.Meta.ProfileID},
		Field{"Config hash", shortHash(resp.ConfigHash)},
	)
	return renderResults(cmd.OutOrStdout(), "KPI Report", fields, resp)
}
