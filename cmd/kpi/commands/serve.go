package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/api"
	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"api"},
	Short:   "Start the KPI API server",
	Long: `Starts the REST API server.

Redis (REDIS_ENABLED=true) backs the response cache and shares rate limits
across replicas; without it both run in process.

Endpoints:
  GET  /health                      - Health check
  GET  /api/kpi/definitions         - KPI catalog (?category=)
  GET  /api/kpi/definitions/{id}    - One definition
  GET  /api/kpi/group-fields        - Fields accepted by /group
  POST /api/kpi/compute             - Compute KPIs for a journal
  POST /api/kpi/group?by=symbol     - Compute KPIs per partition

Example:
  go run ./cmd/kpi serve
  go run ./cmd/kpi serve --port 9090 --config configs/kpi.yaml`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default is $PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	cfg, log := rt.cfg, rt.log

	// Override port if flag is set
	if servePort != "" {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Redis (optional)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rc.Close()

	var cache handlers.ResponseCache
	if rc.Enabled() {
		cache = redis.NewCache(rc, "tradejournal")
		log.Info("Connected to redis")
	}

	// 2. Handlers
	kpiHandler := handlers.NewKPIHandler(rt.engine, cache, cfg.KPI.CacheTTL, rt.hash, log)

	// 3. Router
	limiter := api.NewRateLimiter(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst, redis.NewRateLimiter(rc, "tradejournal"), log)
	router := api.NewRouter(kpiHandler, log, api.RouterOptions{
		RateLimiter:  limiter,
		MaxBodyBytes: cfg.API.MaxBodyBytes,
	})

	// 4. Server
	server := api.New(cfg, log, router)

	log.WithFields(map[string]interface{}{
		"profile":     rt.kpiCfg.Meta.ProfileID,
		"config_hash": shortHash(rt.hash),
		"cache":       cache != nil && cfg.KPI.CacheTTL > 0,
		"shared_rate": rc.Enabled(),
	}).Info("Initializing API server")

	w := cmd.OutOrStdout()
	PrintSuccess(w, fmt.Sprintf("Server running on http://localhost:%s", cfg.Port))
	PrintInfo(w, "Press Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
