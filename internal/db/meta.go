package db

import (
	"context"
	"database/sql"

	"github.com/jack22dx/seed/internal/errors"
)

// MetaLastResetWeek holds the ISO week key of the last weekly reset.
const MetaLastResetWeek = "last_reset_week"

// GetMeta returns the value stored under key and whether it exists.
func GetMeta(ctx context.Context, q Querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return value, true, nil
}

// SetMeta upserts key.
func SetMeta(ctx context.Context, q Querier, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
