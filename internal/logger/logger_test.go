package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "seed")

	if err := Init(Config{BaseDir: baseDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logDir := filepath.Join(baseDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("weekly reset applied", "week", "2026-W42")
	Error("commit failed", "error", "disk full")
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, BaseDir: t.TempDir()}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.DebugLevel)

	Debug("element unlocked", "element", "turtle")

	if !strings.Contains(buf.String(), "element unlocked") {
		t.Errorf("log output = %q, want message", buf.String())
	}
	if !strings.Contains(buf.String(), "turtle") {
		t.Errorf("log output = %q, want key/value", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// Must not panic.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
