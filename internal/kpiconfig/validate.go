package kpiconfig

import (
	"fmt"
	"math"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Engine ===
	e := cfg.Engine
	for field, v := range map[string]float64{
		"engine.annualization_days": e.AnnualizationDays,
		"engine.risk_free_rate":     e.RiskFreeRate,
		"engine.omega_threshold":    e.OmegaThreshold,
		"engine.var_confidence":     e.VaRConfidence,
		"engine.downside_threshold": e.DownsideThreshold,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ValidationError{field, "must be a finite number"}
		}
	}
	if e.AnnualizationDays <= 0 || e.AnnualizationDays > 366 {
		return ValidationError{"engine.annualization_days", "must be in (0, 366]"}
	}
	if e.VaRConfidence <= 0 || e.VaRConfidence >= 1 {
		return ValidationError{"engine.var_confidence", "must be in (0, 1)"}
	}
	if e.RiskFreeRate <= -1 || e.RiskFreeRate >= 1 {
		return ValidationError{"engine.risk_free_rate", "must be an annual fraction in (-1, 1)"}
	}
	if e.Workers < 0 {
		return ValidationError{"engine.workers", "must be >= 0"}
	}

	// === Instruments ===
	for sym, m := range cfg.Instruments.Multipliers {
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return ValidationError{"instruments.multipliers." + sym, "must be > 0"}
		}
	}

	return nil
}

// Warn reports settings that are legal but probably unintended
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	e := cfg.Engine
	if e.AnnualizationDays != 252 && e.AnnualizationDays != 365 {
		warnings = append(warnings, Warning{
			Code:    "ANNUALIZATION_UNUSUAL",
			Message: fmt.Sprintf("annualization_days=%v (expected 252 for equities or 365 for 24/7 markets)", e.AnnualizationDays),
		})
	}
	if e.RiskFreeRate > 0.2 {
		warnings = append(warnings, Warning{
			Code:    "RISK_FREE_HIGH",
			Message: fmt.Sprintf("risk_free_rate=%v looks like a percent; it is an annual fraction (0.04 = 4%%)", e.RiskFreeRate),
		})
	}
	if e.VaRConfidence < 0.9 {
		warnings = append(warnings, Warning{
			Code:    "VAR_CONFIDENCE_LOW",
			Message: fmt.Sprintf("var_confidence=%v is below the usual 0.95/0.99", e.VaRConfidence),
		})
	}
	if !cfg.Instruments.IncludeDefaults && len(cfg.Instruments.Multipliers) == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_MULTIPLIERS",
			Message: "no contract multipliers configured; futures P&L from prices will use 1",
		})
	}

	return warnings
}
