package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jack22dx/seed/internal/config"
	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/logger"
	"github.com/jack22dx/seed/internal/mcp"
	"github.com/jack22dx/seed/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"init": true, "complete": true, "activity": true, "garden": true,
	"reset": true, "debug-reset": true,
	"prompt": true, "answer": true, "summary": true, "export-summary": true,
	"fact": true, "tip": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___  ___  ___  __
  / __|| __|| __||  \
  \__ \| _| | _| | |) |
  |___/|___||___||__/

  Activity progress and garden unlock engine

  Usage: seed <command> [options]
         seed --help

  MCP server mode requires piped input.`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil, nil, config.DefaultConfig())
		if err := app.Run(os.Args); err != nil {
			fatalf("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatalf("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".seed")

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, BaseDir: baseDir}); err != nil {
		fatalf("failed to initialize logger: %v", err)
	}
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn("unknown disabled_tools in config", "tools", unknown)
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		logger.Warn("unknown disabled_types in config", "types", unknown)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fatalf("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	ledger, err := ops.NewLedger(database, cfg)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()
	if _, err := ledger.InitializeIfEmpty(ctx); err != nil {
		fatalf("failed to seed store: %v", err)
	}

	// CLI mode: known subcommand
	if isCLIMode(os.Args) {
		// No scheduler runs in CLI mode; catch up on a missed reset first.
		if _, err := ledger.ResetIfDue(ctx, ledger.Now()); err != nil {
			logger.Error("startup reset check failed", "error", err)
		}

		app := newCLIApp(ledger, database, cfg)
		if err := app.RunContext(ctx, os.Args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			database.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'seed --help' for usage.\n")
		database.Close()
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(ledger, database, cfg, Version); err != nil {
		logger.Error("mcp server exited", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		database.Close()
		os.Exit(1)
	}
}
