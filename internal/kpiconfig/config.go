package kpiconfig

import (
	"fmt"

	"github.com/wonny/tradejournal/internal/instruments"
	"github.com/wonny/tradejournal/internal/kpi"
)

// Config는 KPI 엔진 설정 파일의 전체 구조
type Config struct {
	Meta        Meta        `yaml:"meta" json:"meta"`
	Engine      Engine      `yaml:"engine" json:"engine"`
	Instruments Instruments `yaml:"instruments" json:"instruments"`
}

// Meta identifies the configuration for reports and cache keys
type Meta struct {
	ProfileID   string `yaml:"profile_id" json:"profile_id"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Engine mirrors kpi.ComputeConfig in file form
type Engine struct {
	AnnualizationDays float64 `yaml:"annualization_days" json:"annualization_days"`
	RiskFreeRate      float64 `yaml:"risk_free_rate" json:"risk_free_rate"` // annual, fraction
	OmegaThreshold    float64 `yaml:"omega_threshold" json:"omega_threshold"`
	VaRConfidence     float64 `yaml:"var_confidence" json:"var_confidence"`
	DownsideThreshold float64 `yaml:"downside_threshold" json:"downside_threshold"`
	Workers           int     `yaml:"workers" json:"workers"` // 0 = runtime.NumCPU()
}

// Instruments configures the contract-multiplier lookup
type Instruments struct {
	IncludeDefaults bool               `yaml:"include_defaults" json:"include_defaults"`
	Multipliers     map[string]float64 `yaml:"multipliers,omitempty" json:"multipliers,omitempty"`
}

// Default returns the built-in profile
// ⭐ SSOT: 파일이 없을 때의 기본값
func Default() *Config {
	def := kpi.DefaultComputeConfig()
	return &Config{
		Meta: Meta{ProfileID: "default", Version: "1"},
		Engine: Engine{
			AnnualizationDays: def.AnnualizationDays,
			RiskFreeRate:      def.RiskFreeRate,
			OmegaThreshold:    def.OmegaThreshold,
			VaRConfidence:     def.VaRConfidence,
			DownsideThreshold: def.DownsideThreshold,
		},
		Instruments: Instruments{IncludeDefaults: true},
	}
}

// ComputeConfig converts the file settings into an engine configuration
func (c *Config) ComputeConfig() (kpi.ComputeConfig, error) {
	table, err := instruments.File{
		IncludeDefaults: c.Instruments.IncludeDefaults,
		Multipliers:     c.Instruments.Multipliers,
	}.Table()
	if err != nil {
		return kpi.ComputeConfig{}, err
	}

	cfg := kpi.ComputeConfig{
		AnnualizationDays: c.Engine.AnnualizationDays,
		RiskFreeRate:      c.Engine.RiskFreeRate,
		OmegaThreshold:    c.Engine.OmegaThreshold,
		VaRConfidence:     c.Engine.VaRConfidence,
		DownsideThreshold: c.Engine.DownsideThreshold,
		Workers:           c.Engine.Workers,
		Multipliers:       table,
	}
	if err := cfg.Validate(); err != nil {
		return kpi.ComputeConfig{}, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg.Normalize(), nil
}
