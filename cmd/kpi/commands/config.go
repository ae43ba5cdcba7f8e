package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/tradejournal/internal/kpiconfig"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the KPI engine configuration",
	Long: `Validates and prints the KPI engine configuration (YAML).

Resolution order: positional path, --config, $KPI_CONFIG_PATH, built-in defaults.

Example:
  go run ./cmd/kpi config check configs/kpi.yaml
  go run ./cmd/kpi config show --config configs/kpi.yaml`,
}

// configCheckCmd validates a config and prints its hash and warnings
var configCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a config file and print its hash",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigCheck,
}

// configShowCmd prints the effective config
var configShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print the effective config (defaults merged)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configShowCmd)
}

// resolveKPIConfig loads the positional path when given, else the runtime config
func resolveKPIConfig(args []string) (*kpiconfig.Config, string, error) {
	if len(args) == 1 {
		cfg, _, err := kpiconfig.Load(args[0])
		if err != nil {
			return nil, "", err
		}
		hash, err := kpiconfig.Hash(cfg)
		return cfg, hash, err
	}

	rt, err := loadRuntime()
	if err != nil {
		return nil, "", err
	}
	return rt.kpiCfg, rt.hash, nil
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	cfg, hash, err := resolveKPIConfig(args)
	if err != nil {
		return err
	}
	warnings := kpiconfig.Warn(cfg)
	w := cmd.OutOrStdout()

	if output == outputJSON {
		return writeJSON(w, map[string]interface{}{
			"valid":    true,
			"hash":     hash,
			"profile":  cfg.Meta.ProfileID,
			"version":  cfg.Meta.Version,
			"warnings": warnings,
		})
	}

	e := cfg.Engine
	PrintReportHeader(w, "KPI Config", []Field{
		{"Profile", cfg.Meta.ProfileID},
		{"Version", cfg.Meta.Version},
		{"Hash", hash},
	})
	PrintKeyValue(w, "annualization_days", strconv.FormatFloat(e.AnnualizationDays, 'g', -1, 64), 20)
	PrintKeyValue(w, "risk_free_rate", strconv.FormatFloat(e.RiskFreeRate, 'g', -1, 64), 20)
	PrintKeyValue(w, "omega_threshold", strconv.FormatFloat(e.OmegaThreshold, 'g', -1, 64), 20)
	PrintKeyValue(w, "var_confidence", strconv.FormatFloat(e.VaRConfidence, 'g', -1, 64), 20)
	PrintKeyValue(w, "downside_threshold", strconv.FormatFloat(e.DownsideThreshold, 'g', -1, 64), 20)
	PrintKeyValue(w, "workers", strconv.Itoa(e.Workers), 20)
	PrintKeyValue(w, "multipliers", fmt.Sprintf("%d overrides (defaults: %v)", len(cfg.Instruments.Multipliers), cfg.Instruments.IncludeDefaults), 20)
	fmt.Fprintln(w)

	for _, warn := range warnings {
		PrintWarning(w, warn.Code+": "+warn.Message)
	}
	PrintSuccess(w, "config is valid")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveKPIConfig(args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if output == outputJSON {
		return writeJSON(w, cfg)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
