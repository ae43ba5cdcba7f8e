package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
	output     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Trading journal KPI engine",
	Long: `Trading journal KPI engine CLI

60 KPIs over a journal of closed trades, an optional equity curve
and an optional benchmark series.

Usage:
  go run ./cmd/kpi [command]

Examples:
  go run ./cmd/kpi definitions --category risk_adjusted
  go run ./cmd/kpi compute --trades trades.csv --equity equity.csv
  go run ./cmd/kpi group --data journal.json --by setup_tag
  go run ./cmd/kpi journal --sqlite export.db --account main
  go run ./cmd/kpi serve --port 8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch output {
		case outputTable, outputJSON, outputCSV:
			return nil
		default:
			return fmt.Errorf("--output must be one of: %s, %s, %s", outputTable, outputJSON, outputCSV)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "KPI engine config file (default is $KPI_CONFIG_PATH, then built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputTable, "output format (table|json|csv)")
}
