package db

import (
	"context"
	"database/sql"

	"github.com/jack22dx/seed/internal/errors"
)

// ElementRow is the persisted part of a garden element.
type ElementRow struct {
	ID           string
	ActivityNorm string
	NameNorm     string
	X            float64
	Y            float64
	Scale        float64
	Visible      bool
	UnlockedAt   *int64
}

const elementColumns = `id, activity_norm, name_norm, pos_x, pos_y, scale, is_visible, unlocked_at`

// InsertElement stores e unless a row with the same id exists.
func InsertElement(ctx context.Context, q Querier, e *ElementRow) (bool, error) {
	query := `
		INSERT OR IGNORE INTO garden_elements (` + elementColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	var unlockedAt sql.NullInt64
	if e.UnlockedAt != nil {
		unlockedAt = sql.NullInt64{Int64: *e.UnlockedAt, Valid: true}
	}
	result, err := q.ExecContext(ctx, query,
		e.ID, e.ActivityNorm, e.NameNorm, e.X, e.Y, e.Scale, boolToInt(e.Visible), unlockedAt,
	)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// GetElement retrieves one element row by id.
func GetElement(ctx context.Context, q Querier, id string) (*ElementRow, error) {
	row := q.QueryRowContext(ctx, "SELECT "+elementColumns+" FROM garden_elements WHERE id = ?", id)
	e, err := scanElement(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// ListElements returns element rows for one activity, or all when
// activityNorm is empty.
func ListElements(ctx context.Context, q Querier, activityNorm string) ([]ElementRow, error) {
	query := "SELECT " + elementColumns + " FROM garden_elements"
	var args []any
	if activityNorm != "" {
		query += " WHERE activity_norm = ?"
		args = append(args, activityNorm)
	}
	query += " ORDER BY rowid"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []ElementRow
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// RevealElement flips is_visible to true if it is currently false.
// Reports whether the row changed; an already-visible or missing element is
// not an error.
func RevealElement(ctx context.Context, q Querier, id string, now int64) (bool, error) {
	result, err := q.ExecContext(ctx, `
		UPDATE garden_elements
		SET is_visible = 1, unlocked_at = ?
		WHERE id = ? AND is_visible = 0
	`, now, id)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// UpdatePlacement stores position and scale of an element.
func UpdatePlacement(ctx context.Context, q Querier, id string, x, y, scale float64) error {
	result, err := q.ExecContext(ctx, `
		UPDATE garden_elements SET pos_x = ?, pos_y = ?, scale = ? WHERE id = ?
	`, x, y, scale, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

func scanElement(row rowScanner) (*ElementRow, error) {
	var (
		e          ElementRow
		unlockedAt sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.ActivityNorm, &e.NameNorm, &e.X, &e.Y, &e.Scale, &e.Visible, &unlockedAt)
	if err != nil {
		return nil, err
	}
	if unlockedAt.Valid {
		e.UnlockedAt = &unlockedAt.Int64
	}
	return &e, nil
}
