package main

import (
	"os"

	"github.com/wonny/tradejournal/cmd/kpi/commands"
)

// main is the entry point for the KPI CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/kpi [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
