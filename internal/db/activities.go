package db

import (
	"context"
	"database/sql"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/errors"
)

const activityColumns = `name_norm, name, count,
	monday, tuesday, wednesday, thursday, friday, saturday, sunday,
	updated_at`

// CountActivities returns the number of activity records.
func CountActivities(ctx context.Context, q Querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// InsertActivity stores r unless a record with the same normalized name
// exists. Reports whether a row was inserted.
func InsertActivity(ctx context.Context, q Querier, r *activity.Record, now int64) (bool, error) {
	cols := r.Week.Columns()
	query := `
		INSERT OR IGNORE INTO activities (
			name_norm, name, count,
			monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		r.NameNorm, r.Name, r.Count,
		boolToInt(cols[0]), boolToInt(cols[1]), boolToInt(cols[2]), boolToInt(cols[3]),
		boolToInt(cols[4]), boolToInt(cols[5]), boolToInt(cols[6]),
		now, now,
	)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	if n > 0 {
		r.UpdatedAt = now
	}
	return n > 0, nil
}

// GetActivity retrieves a record by normalized name.
func GetActivity(ctx context.Context, q Querier, nameNorm string) (*activity.Record, error) {
	row := q.QueryRowContext(ctx, "SELECT "+activityColumns+" FROM activities WHERE name_norm = ?", nameNorm)
	r, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(nameNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// ListActivities returns every record in insertion order.
func ListActivities(ctx context.Context, q Querier) ([]activity.Record, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+activityColumns+" FROM activities ORDER BY rowid")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []activity.Record
	for rows.Next() {
		r, err := scanActivity(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// UpdateActivity writes count and weekday flags of an existing record.
func UpdateActivity(ctx context.Context, q Querier, r *activity.Record, now int64) error {
	cols := r.Week.Columns()
	query := `
		UPDATE activities
		SET count = ?,
			monday = ?, tuesday = ?, wednesday = ?, thursday = ?,
			friday = ?, saturday = ?, sunday = ?,
			updated_at = ?
		WHERE name_norm = ?
	`
	result, err := q.ExecContext(ctx, query,
		r.Count,
		boolToInt(cols[0]), boolToInt(cols[1]), boolToInt(cols[2]), boolToInt(cols[3]),
		boolToInt(cols[4]), boolToInt(cols[5]), boolToInt(cols[6]),
		now, r.NameNorm,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(r.NameNorm)
	}
	r.UpdatedAt = now
	return nil
}

// ClearAllWeeks sets every weekday flag of every record to false.
// Returns the number of records touched.
func ClearAllWeeks(ctx context.Context, q Querier, now int64) (int64, error) {
	query := `
		UPDATE activities
		SET monday = 0, tuesday = 0, wednesday = 0, thursday = 0,
			friday = 0, saturday = 0, sunday = 0,
			updated_at = ?
	`
	result, err := q.ExecContext(ctx, query, now)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*activity.Record, error) {
	var (
		r    activity.Record
		cols [7]bool
	)
	err := row.Scan(
		&r.NameNorm, &r.Name, &r.Count,
		&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6],
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Week = activity.WeekFromColumns(cols)
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
