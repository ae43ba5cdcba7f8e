package logger_test

import (
	"errors"
	"os"

	"github.com/wonny/tradejournal/pkg/config"
	"github.com/wonny/tradejournal/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	// Create logger (SSOT)
	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Engine started")
	log.Warnf("%d trades skipped: zero notional", 3)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	log := logger.NewWithWriter(os.Stderr, "info")

	log.WithFields(map[string]interface{}{
		"trades":   120,
		"equity":   250,
		"computed": 54,
	}).Info("KPIs computed")
}

// Example_withError demonstrates error logging
func Example_withError() {
	log := logger.NewWithWriter(os.Stderr, "error")

	err := errors.New("journal query timeout")
	log.WithError(err).
		WithField("account", "main").
		Error("Failed to load equity curve")
}
