package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/internal/kpi"
)

// groupCmd represents the group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Compute KPIs per trade partition",
	Long: `Partitions the trades by one field and computes the catalog per partition.
The equity curve and benchmark are shared by every partition.

Fields: symbol, asset_class, side, setup_tag, venue, order_type

Example:
  go run ./cmd/kpi group --trades trades.csv --by symbol
  go run ./cmd/kpi group --data journal.json --by setup_tag --kpis net_pnl,win_rate,expectancy`,
	RunE: runGroup,
}

var (
	groupBy string
)

func init() {
	rootCmd.AddCommand(groupCmd)

	addInputFlags(groupCmd)
	addRemoteFlags(groupCmd)
	groupCmd.Flags().StringVar(&groupBy, "by", "", "trade field to partition by ("+strings.Join(kpi.GroupFields(), "|")+")")
	groupCmd.Flags().StringVar(&kpiList, "kpis", "", "comma-separated KPI ids to display (default: full catalog)")
	_ = groupCmd.MarkFlagRequired("by")
}

func runGroup(cmd *cobra.Command, args []string) error {
	key, err := kpi.GroupByField(groupBy)
	if err != nil {
		return err
	}
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

	resp, err := groupDataset(cmd, rt, ds, key)
	if err != nil {
		return err
	}

	fields := append(datasetFields(ds),
		Field{"Group by", resp.By},
		Field{"Profile", rt.kpiCfg.Meta.ProfileID},
		Field{"Config hash", shortHash(resp.ConfigHash)},
	)
	return renderGroups(cmd.OutOrStdout(), "KPI Report by "+resp.By, fields, resp, ids)
}

// groupDataset partitions locally, or through --remote when set
func groupDataset(cmd *cobra.Command, rt *runtimeDeps, ds *journal.Dataset, key kpi.GroupKeyFunc) (handlers.GroupResponse, error) {
	by := strings.ToLower(strings.TrimSpace(groupBy))

	if remoteURL != "" {
		client, err := newRemoteClient(remoteURL, remoteTimeout, rt.log)
		if err != nil {
			return handlers.GroupResponse{}, err
		}
		resp, err := client.group(cmd.Context(), ds, by)
		if err != nil {
			return handlers.GroupResponse{}, fmt.Errorf("remote group: %w", err)
		}
		return resp, nil
	}

	return handlers.GroupResponse{
		ConfigHash: rt.hash,
		By:         by,
		Groups:     rt.engine.ComputeByGroup(ds.Trades, key, ds.Equity, ds.Benchmark),
	}, nil
}
