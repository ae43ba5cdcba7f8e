package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/pkg/config"
	"github.com/wonny/tradejournal/pkg/database"
	"github.com/wonny/tradejournal/pkg/redis"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Connectivity checks for the journal database and redis",
	Long: `Tests the external dependencies and prints their status.

Example:
  go run ./cmd/kpi check db
  go run ./cmd/kpi check redis --env production`,
}

// checkDBCmd tests the PostgreSQL journal connection
var checkDBCmd = &cobra.Command{
	Use:   "db",
	Short: "PostgreSQL 연결 테스트",
	Long: `데이터베이스 연결을 테스트하고 풀 통계를 표시합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- 읽기 전용 연결 풀 생성
- Health Check 실행
- Connection Pool 통계 표시`,
	RunE: runCheckDB,
}

// checkRedisCmd tests the Redis connection used by the API cache
var checkRedisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis 연결 테스트",
	RunE:  runCheckRedis,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkDBCmd)
	checkCmd.AddCommand(checkRedisCmd)
}

func runCheckDB(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	PrintReportHeader(w, "Journal Database Check", []Field{
		{"ENV", rt.cfg.Env},
		{"Database URL", maskPassword(rt.cfg.Database.URL)},
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, rt.cfg)
	if err != nil {
		PrintError(w, "connection failed")
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	PrintSuccess(w, "Database connection established (read-only)")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		PrintError(w, "health check failed")
		return fmt.Errorf("health check: %w", err)
	}

	PrintKeyValue(w, "Healthy", fmt.Sprintf("%v", status.Healthy), 20)
	PrintKeyValue(w, "Response Time", status.ResponseTime.String(), 20)
	PrintKeyValue(w, "Max Connections", fmt.Sprintf("%d", status.Stats.MaxConns), 20)
	PrintKeyValue(w, "Total Connections", fmt.Sprintf("%d", status.Stats.TotalConns), 20)
	PrintKeyValue(w, "Idle Connections", fmt.Sprintf("%d", status.Stats.IdleConns), 20)
	PrintKeyValue(w, "Acquire Count", fmt.Sprintf("%d", status.Stats.AcquireCount), 20)
	fmt.Fprintln(w)
	PrintSuccess(w, "All checks passed")
	return nil
}

func runCheckRedis(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	PrintReportHeader(w, "Redis Check", []Field{
		{"ENV", rt.cfg.Env},
		{"Address", redisAddr(rt.cfg)},
		{"Enabled", fmt.Sprintf("%v", rt.cfg.Redis.Enabled)},
	})
	if !rt.cfg.Redis.Enabled {
		PrintInfo(w, "REDIS_ENABLED=false: API cache and rate limits run in process")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	rc, err := redis.New(ctx, rt.cfg)
	if err != nil {
		PrintError(w, "connection failed")
		return err
	}
	defer rc.Close()

	PrintKeyValue(w, "Response Time", time.Since(start).String(), 20)
	fmt.Fprintln(w)
	PrintSuccess(w, "All checks passed")
	return nil
}

// maskPassword hides the password in a database URL for display
func maskPassword(raw string) string {
	if raw == "" {
		return "(unset)"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}

func redisAddr(cfg *config.Config) string {
	return cfg.Redis.Host + ":" + cfg.Redis.Port
}
