package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/wonny/tradejournal/pkg/config"
)

// decodeLines parses every JSON log line written to buf
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to parse log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	// "warning" is accepted as an alias, unknown levels fall back to info
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"WARNING", zerolog.WarnLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			New(&config.Config{Env: "test", LogLevel: tt.level, LogFormat: "json"})
			if zerolog.GlobalLevel() != tt.want {
				t.Errorf("Expected global level %v, got %v", tt.want, zerolog.GlobalLevel())
			}
		})
	}
}

func TestNew_WritesToStderr(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			// stdout는 KPI 출력 전용: 로그는 stderr로만
			oldStdout, oldStderr := os.Stdout, os.Stderr
			outR, outW, _ := os.Pipe()
			errR, errW, _ := os.Pipe()
			os.Stdout, os.Stderr = outW, errW

			New(&config.Config{Env: "test", LogLevel: "info", LogFormat: format}).Info("engine ready")

			outW.Close()
			errW.Close()
			os.Stdout, os.Stderr = oldStdout, oldStderr

			var stdout, stderr bytes.Buffer
			_, _ = io.Copy(&stdout, outR)
			_, _ = io.Copy(&stderr, errR)

			if stdout.Len() != 0 {
				t.Errorf("Expected nothing on stdout, got %q", stdout.String())
			}
			if !strings.Contains(stderr.String(), "engine ready") {
				t.Errorf("Expected stderr to contain the message, got %q", stderr.String())
			}
			if format == "json" && !strings.Contains(stderr.String(), `"env":"test"`) {
				t.Errorf("Expected env field, got %q", stderr.String())
			}
		})
	}
}

func TestNewWithWriter_LocalLevel(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")
	logger.Info("dropped")
	logger.Debugf("dropped %d", 1)
	logger.Warnf("%d trades skipped: zero notional", 3)
	logger.Error("journal unavailable")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries at warn level, got %d: %s", len(entries), buf.String())
	}
	if entries[0]["level"] != "warn" || entries[0]["message"] != "3 trades skipped: zero notional" {
		t.Errorf("Unexpected warn entry: %v", entries[0])
	}
	if entries[1]["level"] != "error" {
		t.Errorf("Expected error entry, got %v", entries[1])
	}

	// 전역 레벨은 변경하지 않음
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("NewWithWriter must not change the global level, got %v", zerolog.GlobalLevel())
	}
}

func TestWithFields_EngineSummary(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug")

	logger.WithField("request_id", "req-1").
		WithFields(map[string]interface{}{
			"trades":   42,
			"computed": 54,
			"symbol":   "ESZ4",
		}).
		Info("KPIs computed")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["request_id"] != "req-1" || e["symbol"] != "ESZ4" {
		t.Errorf("Expected string fields, got %v", e)
	}
	if e["trades"] != float64(42) || e["computed"] != float64(54) {
		t.Errorf("Expected numeric fields, got %v", e)
	}
	if e["message"] != "KPIs computed" {
		t.Errorf("Expected message 'KPIs computed', got %v", e["message"])
	}
}

func TestWithError(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")

	logger.WithError(errors.New("journal query failed")).Error("Failed to load trades")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0]["error"] != "journal query failed" {
		t.Errorf("Expected error field, got %v", entries[0]["error"])
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().WithField("k", "v").WithError(errors.New("x")).Info("discarded")
}
