package ops

import (
	"context"
	"database/sql"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/logger"
	"github.com/jack22dx/seed/internal/oracle"
)

// MetaCatalogVersion records the garden catalog version last seeded.
const MetaCatalogVersion = "catalog_version"

// InitOutput reports what InitializeIfEmpty created.
type InitOutput struct {
	Activities     int    `json:"activities"`
	Elements       int    `json:"elements"`
	Content        int    `json:"content"`
	CatalogVersion string `json:"catalog_version"`
	Week           string `json:"week"`
}

// InitializeIfEmpty seeds the baseline activity records when the store has
// none, then adds any missing garden element rows and oracle content. Running
// it again changes nothing.
//
// The current week is recorded as already reset so progress made before the
// first scheduler tick survives it.
func (l *Ledger) InitializeIfEmpty(ctx context.Context) (*InitOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()
	out := &InitOutput{CatalogVersion: l.catalog.Version(), Week: activity.WeekKey(now)}

	err := db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		n, err := db.CountActivities(ctx, tx)
		if err != nil {
			return err
		}
		if n == 0 {
			for _, name := range activity.Baseline {
				rec := activity.New(name)
				inserted, err := db.InsertActivity(ctx, tx, &rec, now.Unix())
				if err != nil {
					return err
				}
				if inserted {
					out.Activities++
				}
			}
		}

		for _, name := range l.catalog.Activities() {
			elements, err := l.catalog.Elements(name)
			if err != nil {
				return err
			}
			for _, e := range elements {
				row := &db.ElementRow{
					ID:           e.ID,
					ActivityNorm: activity.Normalize(e.Activity),
					NameNorm:     activity.Normalize(e.Name),
					Scale:        1,
					Visible:      e.Baseline,
				}
				inserted, err := db.InsertElement(ctx, tx, row)
				if err != nil {
					return err
				}
				if inserted {
					out.Elements++
				}
			}
		}

		out.Content, err = db.SeedBank(ctx, tx, oracle.DefaultBank())
		if err != nil {
			return err
		}

		if err := db.SetMeta(ctx, tx, MetaCatalogVersion, l.catalog.Version()); err != nil {
			return err
		}
		if _, ok, err := db.GetMeta(ctx, tx, db.MetaLastResetWeek); err != nil {
			return err
		} else if !ok {
			return db.SetMeta(ctx, tx, db.MetaLastResetWeek, out.Week)
		}
		return nil
	})
	if err != nil {
		logger.Error("initialize store failed", "error", err)
		return nil, errors.NewPersistence("initialize store", err)
	}

	if out.Activities > 0 || out.Elements > 0 || out.Content > 0 {
		logger.Info("store initialized",
			"activities", out.Activities, "elements", out.Elements, "content", out.Content,
			"catalog_version", out.CatalogVersion)
	}
	return out, nil
}
