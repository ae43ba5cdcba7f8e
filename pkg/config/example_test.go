package config_test

import (
	"fmt"

	"github.com/wonny/tradejournal/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("KPI config: %q\n", cfg.KPI.ConfigPath)

	// Only the journal commands need PostgreSQL
	if err := cfg.RequireDatabase(); err != nil {
		fmt.Println("journal database not configured")
	}
}
