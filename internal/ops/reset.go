package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/events"
	"github.com/jack22dx/seed/internal/logger"
)

// ResetOutput reports a weekly reset pass.
type ResetOutput struct {
	Week     string `json:"week"`
	Reset    bool   `json:"reset"`
	Previous string `json:"previous,omitempty"`
	Cleared  int64  `json:"cleared"`
}

// ResetIfDue clears every weekday flag once per ISO week. The week of now
// (in the configured zone) is compared with the persisted last-reset week;
// a missing value counts as due and an earlier stored week is due. Calling it again in the same week is a
// no-op, and a week skipped while the process was asleep is caught up on the
// next call.
func (l *Ledger) ResetIfDue(ctx context.Context, now time.Time) (*ResetOutput, error) {
	return l.reset(ctx, now, false)
}

// ResetAllWeeklyFlags clears every weekday flag unconditionally and records
// the current week as reset.
func (l *Ledger) ResetAllWeeklyFlags(ctx context.Context) (*ResetOutput, error) {
	return l.reset(ctx, l.now(), true)
}

func (l *Ledger) reset(ctx context.Context, now time.Time, force bool) (*ResetOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now = now.In(l.loc)
	var out *ResetOutput
	err := db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		var err error
		out, err = rollWeek(ctx, tx, now, force)
		return err
	})
	if err != nil {
		logger.Error("weekly reset failed", "week", activity.WeekKey(now), "error", err)
		return nil, errors.NewPersistence("weekly reset", err)
	}

	l.publishReset(out, force)
	return out, nil
}

// rollWeek clears every weekday flag inside tx and records the week of now
// as reset. Unless force is set, nothing happens while the stored week is
// the current one or a later one; a clock or zone that moved backwards
// never clears the same week twice.
func rollWeek(ctx context.Context, tx *sql.Tx, now time.Time, force bool) (*ResetOutput, error) {
	out := &ResetOutput{Week: activity.WeekKey(now)}

	last, ok, err := db.GetMeta(ctx, tx, db.MetaLastResetWeek)
	if err != nil {
		return nil, err
	}
	out.Previous = last
	// Week keys are zero-padded, so string order is calendar order.
	if !force && ok && last >= out.Week {
		return out, nil
	}

	cleared, err := db.ClearAllWeeks(ctx, tx, now.Unix())
	if err != nil {
		return nil, err
	}
	if err := db.SetMeta(ctx, tx, db.MetaLastResetWeek, out.Week); err != nil {
		return nil, err
	}
	out.Reset = true
	out.Cleared = cleared
	return out, nil
}

func (l *Ledger) publishReset(out *ResetOutput, force bool) {
	if out == nil || !out.Reset {
		return
	}
	logger.Info("weekly flags reset", "week", out.Week, "previous", out.Previous, "records", out.Cleared, "forced", force)
	l.hub.Publish(events.Event{
		Type: events.WeekReset,
		Data: map[string]any{"week": out.Week},
	})
}
