package mcp

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jack22dx/seed/internal/config"
	"github.com/jack22dx/seed/internal/logger"
	"github.com/jack22dx/seed/internal/ops"
	"github.com/jack22dx/seed/internal/scheduler"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"activity", "garden", "journal", "oracle"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"activity_complete": {
		def:     completeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleComplete },
	},
	"activity_list": {
		def:     activityListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleActivityList },
	},
	"activity_get": {
		def:     activityGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleActivityGet },
	},
	"garden_list": {
		def:     gardenListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGardenList },
	},
	"garden_eligible": {
		def:     gardenEligibleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGardenEligible },
	},
	"garden_pick": {
		def:     gardenPickToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGardenPick },
	},
	"journal_prompt": {
		def:     journalPromptToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleJournalPrompt },
	},
	"journal_answer": {
		def:     journalAnswerToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleJournalAnswer },
	},
	"journal_summary": {
		def:     journalSummaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleJournalSummary },
	},
	"oracle_fact": {
		def:     oracleFactToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOracleFact },
	},
	"oracle_tip": {
		def:     oracleTipToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOracleTip },
	},
}

// AllToolNames returns a sorted list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "garden_pick" → "garden").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	sort.Strings(tools)
	return tools
}

// NewServer creates a new MCP server with Seed tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(ledger *ops.Ledger, db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"seed",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(ledger, db, cfg)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves MCP over stdio. The weekly reset scheduler runs until the
// transport closes.
func Run(ledger *ops.Ledger, db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(ledger, db, cfg, version)

	sched := scheduler.New(ledger, cfg.ResetInterval())
	sched.Start(context.Background())
	defer sched.Stop()

	logger.Info("mcp server starting", "version", version, "reset_interval", sched.Interval())
	return server.ServeStdio(s)
}
