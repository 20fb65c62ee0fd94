package ops

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/events"
	"github.com/jack22dx/seed/internal/logger"
	"github.com/jack22dx/seed/internal/oracle"
)

// NextPromptInput contains parameters for NextPrompt.
type NextPromptInput struct {
	Type  string // required
	Level int    // default: 1
	Seq   int    // default: 1
}

// NextPrompt returns the first prompt of a type at (level, seq).
// A miss is NOT_FOUND.
func NextPrompt(ctx context.Context, database *sql.DB, input NextPromptInput) (*oracle.Prompt, error) {
	typ, err := resolveType("type", input.Type)
	if err != nil {
		return nil, err
	}
	if input.Level == 0 {
		input.Level = 1
	}
	if input.Seq == 0 {
		input.Seq = 1
	}
	if input.Level < 0 || input.Seq < 0 {
		return nil, errors.NewInvalidRequest("level and seq must be positive")
	}
	return db.GetPromptAt(ctx, database, typ, input.Level, input.Seq)
}

// AnswerInput contains parameters for RecordAnswer.
type AnswerInput struct {
	Type     string // required
	PromptID int    // not checked against the prompt bank
	Tab      string
	Activity string
	Level    int
	Answer   string // required
}

// RecordAnswer appends one journal answer stamped with the ledger clock.
// Answers to the same prompt are kept as separate rows.
func (l *Ledger) RecordAnswer(ctx context.Context, input AnswerInput) (*oracle.Answer, error) {
	typ, err := resolveType("type", input.Type)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Answer) == "" {
		return nil, errors.NewInvalidRequest("answer is required")
	}
	if input.Level < 0 {
		return nil, errors.NewInvalidRequest("level must not be negative")
	}

	now := l.Now()
	id, err := generateULID(now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	a := &oracle.Answer{
		ID:       id,
		Type:     typ,
		PromptID: input.PromptID,
		Tab:      strings.TrimSpace(input.Tab),
		Activity: strings.TrimSpace(input.Activity),
		Level:    input.Level,
		Answer:   input.Answer,
		Date:     now.Unix(),
	}
	if err := db.InsertAnswer(ctx, l.db, a); err != nil {
		logger.Error("record answer failed", "type", typ, "prompt_id", a.PromptID, "error", err)
		return nil, errors.NewPersistence("record answer", err)
	}

	l.hub.Publish(events.Event{
		Type: events.AnswerRecorded,
		Data: map[string]any{"type": typ, "id": a.ID, "prompt_id": a.PromptID},
	})
	return a, nil
}

// SummaryInput contains parameters for WeeklySummary.
type SummaryInput struct {
	Type  string // required
	Since int64  // optional unix cut-off; 0 includes every answer
}

// SummaryEntry is one answer joined with its prompt.
type SummaryEntry struct {
	AnswerID string `json:"answer_id"`
	PromptID int    `json:"prompt_id"`
	Level    int    `json:"level"`
	Seq      int    `json:"seq"`
	Prompt   string `json:"prompt"`
	Answer   string `json:"answer"`
	Activity string `json:"activity,omitempty"`
	Date     int64  `json:"date"`
}

// SummaryGroup collects the entries of one tab.
type SummaryGroup struct {
	Tab     string         `json:"tab"`
	Entries []SummaryEntry `json:"entries"`
}

// SummaryOutput contains the result of WeeklySummary.
type SummaryOutput struct {
	Type      string         `json:"type"`
	Since     int64          `json:"since,omitempty"`
	Groups    []SummaryGroup `json:"groups"`
	Total     int            `json:"total"`
	Unmatched int            `json:"unmatched"`
}

// WeeklySummary joins a type's answers with its prompts, groups them by tab
// and orders each group by the prompt's (level, seq). Answers whose prompt
// does not exist are counted in Unmatched and left out.
func WeeklySummary(ctx context.Context, database *sql.DB, input SummaryInput) (*SummaryOutput, error) {
	typ, err := resolveType("type", input.Type)
	if err != nil {
		return nil, err
	}
	if input.Since < 0 {
		return nil, errors.NewInvalidRequest("since must not be negative")
	}

	prompts, err := db.ListPrompts(ctx, database, typ)
	if err != nil {
		return nil, err
	}
	answers, err := db.ListAnswers(ctx, database, typ, input.Since)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]oracle.Prompt, len(prompts))
	for _, p := range prompts {
		byID[p.ID] = p
	}

	out := &SummaryOutput{Type: typ, Since: input.Since, Groups: []SummaryGroup{}}
	groups := make(map[string][]SummaryEntry)
	for _, a := range answers {
		p, ok := byID[a.PromptID]
		if !ok {
			out.Unmatched++
			continue
		}
		groups[a.Tab] = append(groups[a.Tab], SummaryEntry{
			AnswerID: a.ID,
			PromptID: p.ID,
			Level:    p.Level,
			Seq:      p.Seq,
			Prompt:   p.Text,
			Answer:   a.Answer,
			Activity: a.Activity,
			Date:     a.Date,
		})
		out.Total++
	}

	tabs := make([]string, 0, len(groups))
	for tab := range groups {
		tabs = append(tabs, tab)
	}
	slices.Sort(tabs)

	for _, tab := range tabs {
		entries := groups[tab]
		// Answers arrive oldest first; a stable sort keeps that order within
		// one (level, seq).
		slices.SortStableFunc(entries, func(a, b SummaryEntry) int {
			if c := cmp.Compare(a.Level, b.Level); c != 0 {
				return c
			}
			return cmp.Compare(a.Seq, b.Seq)
		})
		out.Groups = append(out.Groups, SummaryGroup{Tab: tab, Entries: entries})
	}

	return out, nil
}
