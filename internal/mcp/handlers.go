package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/config"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/garden"
	"github.com/jack22dx/seed/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	ledger *ops.Ledger
	db     *sql.DB
	cfg    *config.Config
	picker *garden.Picker
}

// NewHandlers creates a new Handlers instance. The garden picker is seeded
// from cfg.PickSeed.
func NewHandlers(ledger *ops.Ledger, db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		ledger: ledger,
		db:     db,
		cfg:    cfg,
		picker: garden.NewSeededPicker(ledger.Catalog(), cfg.PickSeed),
	}
}

// Request types for each tool

// CompleteRequest represents the arguments for activity_complete.
type CompleteRequest struct {
	Activity string `json:"activity"`
	Element  string `json:"element,omitempty"`
}

// ActivityRequest represents the arguments for activity_get.
type ActivityRequest struct {
	Activity string `json:"activity"`
}

// GardenListRequest represents the arguments for garden_list.
type GardenListRequest struct {
	Activity    string `json:"activity,omitempty"`
	VisibleOnly bool   `json:"visible_only,omitempty"`
}

// EligibleRequest represents the arguments for garden_eligible and garden_pick.
type EligibleRequest struct {
	Activity string `json:"activity"`
	Count    *int   `json:"count,omitempty"`
}

// LeveledRequest represents the arguments for journal_prompt and oracle_tip.
type LeveledRequest struct {
	Type  string `json:"type"`
	Level int    `json:"level,omitempty"`
	Seq   int    `json:"seq,omitempty"`
}

// AnswerRequest represents the arguments for journal_answer.
type AnswerRequest struct {
	Type     string `json:"type"`
	PromptID int    `json:"prompt_id,omitempty"`
	Tab      string `json:"tab,omitempty"`
	Activity string `json:"activity,omitempty"`
	Level    int    `json:"level,omitempty"`
	Answer   string `json:"answer"`
}

// SummaryRequest represents the arguments for journal_summary.
type SummaryRequest struct {
	Type  string `json:"type"`
	Since int64  `json:"since,omitempty"`
}

// FactRequest represents the arguments for oracle_fact.
type FactRequest struct {
	Type string `json:"type"`
}

// ActivityListOutput is the result of activity_list.
type ActivityListOutput struct {
	Week       string            `json:"week"`
	Activities []activity.Record `json:"activities"`
}

// HandleComplete handles the activity_complete tool call.
func (h *Handlers) HandleComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[CompleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.ledger.RecordCompletion(ctx, ops.CompletionInput{
		Activity: args.Activity,
		Element:  args.Element,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleActivityList handles the activity_list tool call.
func (h *Handlers) HandleActivityList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ledger.GetAll(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(ActivityListOutput{
		Week:       activity.WeekKey(h.ledger.Now()),
		Activities: records,
	})
}

// HandleActivityGet handles the activity_get tool call.
func (h *Handlers) HandleActivityGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[ActivityRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.ledger.GetByName(ctx, args.Activity)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGardenList handles the garden_list tool call.
func (h *Handlers) HandleGardenList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[GardenListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListGarden(ctx, h.db, h.ledger.Catalog(), ops.GardenListInput{
		Activity:    args.Activity,
		VisibleOnly: args.VisibleOnly,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGardenEligible handles the garden_eligible tool call.
func (h *Handlers) HandleGardenEligible(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[EligibleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GardenEligible(ctx, h.ledger, h.ledger.Catalog(), ops.EligibleInput{
		Activity: args.Activity,
		Count:    args.Count,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGardenPick handles the garden_pick tool call.
func (h *Handlers) HandleGardenPick(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[EligibleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GardenPick(ctx, h.ledger, h.picker, h.ledger.Catalog(), ops.EligibleInput{
		Activity: args.Activity,
		Count:    args.Count,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleJournalPrompt handles the journal_prompt tool call.
func (h *Handlers) HandleJournalPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[LeveledRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NextPrompt(ctx, h.db, ops.NextPromptInput{
		Type:  args.Type,
		Level: args.Level,
		Seq:   args.Seq,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleJournalAnswer handles the journal_answer tool call.
func (h *Handlers) HandleJournalAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[AnswerRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.ledger.RecordAnswer(ctx, ops.AnswerInput{
		Type:     args.Type,
		PromptID: args.PromptID,
		Tab:      args.Tab,
		Activity: args.Activity,
		Level:    args.Level,
		Answer:   args.Answer,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleJournalSummary handles the journal_summary tool call.
func (h *Handlers) HandleJournalSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[SummaryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.WeeklySummary(ctx, h.db, ops.SummaryInput{
		Type:  args.Type,
		Since: args.Since,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleOracleFact handles the oracle_fact tool call.
func (h *Handlers) HandleOracleFact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[FactRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RandomFact(ctx, h.db, args.Type, nil)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleOracleTip handles the oracle_tip tool call.
func (h *Handlers) HandleOracleTip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[LeveledRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetTip(ctx, h.db, ops.TipInput{
		Type:  args.Type,
		Level: args.Level,
		Seq:   args.Seq,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Helper functions

// decode binds the tool arguments of req onto a request struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var args T
	if err := req.BindArguments(&args); err != nil {
		return args, fmt.Errorf("invalid tool arguments: %w", err)
	}
	return args, nil
}

// errorResult creates an MCP error result from any error.
// INTERNAL and PERSISTENCE errors are reduced to a fixed message so that
// SQL errors and file paths never reach the client.
func errorResult(err error) *mcp.CallToolResult {
	errorObj := map[string]any{
		"code":    string(errors.ErrInternal),
		"message": "an internal error occurred",
		"status":  500,
	}

	var sErr *errors.SeedError
	if stderrors.As(err, &sErr) {
		errorObj["code"] = string(sErr.Code)
		errorObj["status"] = sErr.Status
		switch sErr.Code {
		case errors.ErrInternal:
		case errors.ErrPersistence:
			if op, ok := sErr.Details["op"].(string); ok {
				errorObj["message"] = op + " failed"
			} else {
				errorObj["message"] = "write failed"
			}
		default:
			errorObj["message"] = sErr.Message
			if sErr.Details != nil {
				errorObj["details"] = sErr.Details
			}
		}
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
