package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/kpi"
)

// definitionsCmd represents the definitions command
var definitionsCmd = &cobra.Command{
	Use:     "definitions [id]",
	Aliases: []string{"defs", "catalog"},
	Short:   "Show the KPI catalog",
	Long: `Lists the KPI catalog, or shows one definition in full
(formula, required inputs, edge cases, worked example).

Categories: profitability_edge, risk_drawdown, risk_adjusted,
distribution, execution, exposure

Example:
  go run ./cmd/kpi definitions
  go run ./cmd/kpi definitions --category exposure
  go run ./cmd/kpi definitions sortino_ratio`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDefinitions,
}

var (
	definitionsCategory string
)

func init() {
	rootCmd.AddCommand(definitionsCmd)

	addRemoteFlags(definitionsCmd)
	definitionsCmd.Flags().StringVar(&definitionsCategory, "category", "", "only list one category")
}

func runDefinitions(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if remoteURL != "" {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		client, err := newRemoteClient(remoteURL, remoteTimeout, rt.log)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			def, err := client.definition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderDefinition(w, def)
		}
		defs, err := client.definitions(cmd.Context(), definitionsCategory)
		if err != nil {
			return err
		}
		return renderDefinitions(w, defs)
	}

	if len(args) == 1 {
		id, err := kpi.ParseID(args[0])
		if err != nil {
			return err
		}
		def, err := kpi.Definition(id)
		if err != nil {
			return err
		}
		return renderDefinition(w, def)
	}

	defs, err := filterCategory(kpi.Definitions(), definitionsCategory)
	if err != nil {
		return err
	}
	return renderDefinitions(w, defs)
}

func filterCategory(defs []kpi.KPIDefinition, category string) ([]kpi.KPIDefinition, error) {
	if category == "" {
		return defs, nil
	}
	want := kpi.Category(strings.ToLower(strings.TrimSpace(category)))
	var out []kpi.KPIDefinition
	for _, d := range defs {
		if d.Category == want {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return out, nil
}
