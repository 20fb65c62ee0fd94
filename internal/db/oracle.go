package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/oracle"
)

// SeedBank inserts every prompt, fact and tip in bank, skipping keys that
// already exist. Returns the number of rows inserted.
func SeedBank(ctx context.Context, q Querier, bank oracle.Bank) (int, error) {
	inserted := 0
	for _, p := range bank.Prompts {
		n, err := execCount(ctx, q,
			"INSERT OR IGNORE INTO oracle_prompts (type, id, level, seq, text) VALUES (?, ?, ?, ?, ?)",
			p.Type, p.ID, p.Level, p.Seq, p.Text)
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	for _, f := range bank.Facts {
		n, err := execCount(ctx, q,
			"INSERT OR IGNORE INTO oracle_facts (type, id, text) VALUES (?, ?, ?)",
			f.Type, f.ID, f.Text)
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	for _, tip := range bank.Tips {
		n, err := execCount(ctx, q,
			"INSERT OR IGNORE INTO oracle_tips (type, level, seq, text) VALUES (?, ?, ?, ?)",
			tip.Type, tip.Level, tip.Seq, tip.Text)
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	return inserted, nil
}

// GetPromptAt returns the first prompt of typ at (level, seq).
func GetPromptAt(ctx context.Context, q Querier, typ string, level, seq int) (*oracle.Prompt, error) {
	row := q.QueryRowContext(ctx, `
		SELECT type, id, level, seq, text FROM oracle_prompts
		WHERE type = ? AND level = ? AND seq = ?
		ORDER BY level, seq, id
		LIMIT 1
	`, typ, level, seq)

	var p oracle.Prompt
	err := row.Scan(&p.Type, &p.ID, &p.Level, &p.Seq, &p.Text)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(fmt.Sprintf("prompt %s level %d seq %d", typ, level, seq))
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &p, nil
}

// ListPrompts returns all prompts of typ ordered by (level, seq, id).
func ListPrompts(ctx context.Context, q Querier, typ string) ([]oracle.Prompt, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT type, id, level, seq, text FROM oracle_prompts
		WHERE type = ?
		ORDER BY level, seq, id
	`, typ)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []oracle.Prompt
	for rows.Next() {
		var p oracle.Prompt
		if err := rows.Scan(&p.Type, &p.ID, &p.Level, &p.Seq, &p.Text); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// InsertAnswer appends an answer row.
func InsertAnswer(ctx context.Context, q Querier, a *oracle.Answer) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO oracle_answers (id, type, prompt_id, tab, activity, level, answer, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Type, a.PromptID, a.Tab, a.Activity, a.Level, a.Answer, a.Date)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListAnswers returns answers of typ created at or after since (0 = all),
// oldest first.
func ListAnswers(ctx context.Context, q Querier, typ string, since int64) ([]oracle.Answer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, type, prompt_id, tab, activity, level, answer, created_at
		FROM oracle_answers
		WHERE type = ? AND created_at >= ?
		ORDER BY created_at, id
	`, typ, since)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []oracle.Answer
	for rows.Next() {
		var a oracle.Answer
		if err := rows.Scan(&a.ID, &a.Type, &a.PromptID, &a.Tab, &a.Activity, &a.Level, &a.Answer, &a.Date); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// ListFacts returns all facts of typ ordered by id.
func ListFacts(ctx context.Context, q Querier, typ string) ([]oracle.Fact, error) {
	rows, err := q.QueryContext(ctx, "SELECT type, id, text FROM oracle_facts WHERE type = ? ORDER BY id", typ)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []oracle.Fact
	for rows.Next() {
		var f oracle.Fact
		if err := rows.Scan(&f.Type, &f.ID, &f.Text); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// GetTip returns the tip of typ at (level, seq).
func GetTip(ctx context.Context, q Querier, typ string, level, seq int) (*oracle.Tip, error) {
	var tip oracle.Tip
	err := q.QueryRowContext(ctx,
		"SELECT type, level, seq, text FROM oracle_tips WHERE type = ? AND level = ? AND seq = ?",
		typ, level, seq,
	).Scan(&tip.Type, &tip.Level, &tip.Seq, &tip.Text)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(fmt.Sprintf("tip %s level %d seq %d", typ, level, seq))
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &tip, nil
}

func execCount(ctx context.Context, q Querier, query string, args ...any) (int, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}
