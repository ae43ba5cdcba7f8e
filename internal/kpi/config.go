package kpi

import (
	"fmt"
	"math"
	"runtime"

	"github.com/wonny/tradejournal/internal/contracts"
)

// ComputeConfig controls annualization and thresholds for every KPI.
// ⭐ SSOT: 기본값은 DefaultComputeConfig()에서만
type ComputeConfig struct {
	AnnualizationDays float64 `json:"annualization_days" yaml:"annualization_days"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"` // annual, fraction
	OmegaThreshold    float64 `json:"omega_threshold" yaml:"omega_threshold"`
	VaRConfidence     float64 `json:"var_confidence" yaml:"var_confidence"`
	DownsideThreshold float64 `json:"downside_threshold" yaml:"downside_threshold"`

	// Multipliers resolves contract multipliers; nil means 1 for every symbol
	Multipliers contracts.MultiplierLookup `json:"-" yaml:"-"`

	// Workers bounds partition parallelism in ComputeByGroup
	Workers int `json:"-" yaml:"-"`
}

// DefaultComputeConfig 기본 KPI 설정
func DefaultComputeConfig() ComputeConfig {
	return ComputeConfig{
		AnnualizationDays: 252,
		RiskFreeRate:      0,
		OmegaThreshold:    0,
		VaRConfidence:     0.95,
		DownsideThreshold: 0,
		Workers:           runtime.NumCPU(),
	}
}

// Normalize fills unset fields with defaults.
// Zero thresholds and a zero risk-free rate are meaningful and kept.
func (c ComputeConfig) Normalize() ComputeConfig {
	def := DefaultComputeConfig()
	if c.AnnualizationDays <= 0 {
		c.AnnualizationDays = def.AnnualizationDays
	}
	if c.VaRConfidence <= 0 || c.VaRConfidence >= 1 {
		c.VaRConfidence = def.VaRConfidence
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	return c
}

// Validate rejects settings that cannot be normalized silently.
// 0 in annualization_days / var_confidence means "use the default" (Normalize).
func (c ComputeConfig) Validate() error {
	for name, v := range map[string]float64{
		"annualization_days": c.AnnualizationDays,
		"risk_free_rate":     c.RiskFreeRate,
		"omega_threshold":    c.OmegaThreshold,
		"var_confidence":     c.VaRConfidence,
		"downside_threshold": c.DownsideThreshold,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", name, v)
		}
	}
	if c.AnnualizationDays < 0 {
		return fmt.Errorf("annualization_days must be positive (0 = default), got %v", c.AnnualizationDays)
	}
	if c.VaRConfidence < 0 || c.VaRConfidence >= 1 {
		return fmt.Errorf("var_confidence must be in (0, 1) (0 = default), got %v", c.VaRConfidence)
	}
	if c.RiskFreeRate <= -1 {
		return fmt.Errorf("risk_free_rate must be greater than -1, got %v", c.RiskFreeRate)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// riskFreePerPeriod de-annualizes the risk-free rate
func (c ComputeConfig) riskFreePerPeriod() float64 {
	return c.RiskFreeRate / c.AnnualizationDays
}
