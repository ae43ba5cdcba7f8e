package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/wonny/tradejournal/internal/kpi"
	"github.com/wonny/tradejournal/internal/kpiconfig"
	"github.com/wonny/tradejournal/pkg/config"
	"github.com/wonny/tradejournal/pkg/logger"
)

// runtimeDeps is what every command needs before it touches data
type runtimeDeps struct {
	cfg    *config.Config
	log    *logger.Logger
	kpiCfg *kpiconfig.Config
	hash   string
	engine *kpi.Engine
}

// loadRuntime wires env config, logger and the KPI engine
// ⭐ SSOT: 커맨드 공통 초기화는 여기서만
func loadRuntime() (*runtimeDeps, error) {
	if env != "" {
		if err := os.Setenv("ENV", env); err != nil {
			return nil, fmt.Errorf("set ENV: %w", err)
		}
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. KPI engine config (flag > KPI_CONFIG_PATH > defaults)
	path := cfg.KPI.ConfigPath
	if configFile != "" {
		path = configFile
	}
	kpiCfg, err := kpiconfig.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load kpi config: %w", err)
	}
	for _, w := range kpiconfig.Warn(kpiCfg) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	hash, err := kpiconfig.Hash(kpiCfg)
	if err != nil {
		return nil, fmt.Errorf("hash kpi config: %w", err)
	}
	computeCfg, err := kpiCfg.ComputeConfig()
	if err != nil {
		return nil, fmt.Errorf("build compute config: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"profile":     kpiCfg.Meta.ProfileID,
		"config_hash": shortHash(hash),
	}).Debug("KPI engine configured")

	return &runtimeDeps{
		cfg:    cfg,
		log:    log,
		kpiCfg: kpiCfg,
		hash:   hash,
		engine: kpi.NewEngine(computeCfg, log),
	}, nil
}

// parseKPIs turns "net_pnl, win_rate" into ids, keeping order
func parseKPIs(list string) ([]kpi.KPIId, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var ids []kpi.KPIId
	for _, slug := range strings.Split(list, ",") {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		id, err := kpi.ParseID(slug)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func slugs(ids []kpi.KPIId) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
