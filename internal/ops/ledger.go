package ops

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/config"
	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/events"
	"github.com/jack22dx/seed/internal/garden"
	"github.com/jack22dx/seed/internal/logger"
)

// Ledger owns every mutation of activity and garden state. Mutations are
// serialized through one mutex and committed in one transaction each.
type Ledger struct {
	db      *sql.DB
	catalog *garden.Catalog
	hub     *events.Hub
	loc     *time.Location
	now     func() time.Time

	mu sync.Mutex
}

// LedgerOption customizes a Ledger.
type LedgerOption func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// WithHub publishes invalidation events to h.
func WithHub(h *events.Hub) LedgerOption {
	return func(l *Ledger) { l.hub = h }
}

// WithCatalog replaces the built-in garden catalog.
func WithCatalog(c *garden.Catalog) LedgerOption {
	return func(l *Ledger) { l.catalog = c }
}

// NewLedger returns a ledger over database using cfg's time zone.
func NewLedger(database *sql.DB, cfg *config.Config, opts ...LedgerOption) (*Ledger, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.NewInvalidRequest("invalid timezone: " + err.Error())
	}
	l := &Ledger{
		db:      database,
		catalog: garden.Default(),
		hub:     events.NewHub(),
		loc:     loc,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Catalog returns the garden catalog the ledger unlocks against.
func (l *Ledger) Catalog() *garden.Catalog {
	return l.catalog
}

// Hub returns the invalidation hub.
func (l *Ledger) Hub() *events.Hub {
	return l.hub
}

// Now returns the ledger clock in the configured zone.
func (l *Ledger) Now() time.Time {
	return l.now().In(l.loc)
}

// CompletionInput contains parameters for RecordCompletion.
type CompletionInput struct {
	Activity string // required
	Element  string // optional garden element to reveal
}

// CompletionOutput contains the committed result of RecordCompletion.
type CompletionOutput struct {
	Activity activity.Record `json:"activity"`
	Weekday  string          `json:"weekday"`
	Unlocked *garden.Element `json:"unlocked,omitempty"`
}

// RecordCompletion counts one finished session of an activity, marks today
// in this week's flags and, when the staged count clears the element's
// visibility threshold, reveals the named garden element.
//
// An element that is unknown, already visible or still below its threshold
// is silently skipped. If the week has turned over since the last reset,
// every activity's flags are cleared first. Nothing is written unless the
// whole change commits.
func (l *Ledger) RecordCompletion(ctx context.Context, input CompletionInput) (*CompletionOutput, error) {
	if strings.TrimSpace(input.Activity) == "" {
		return nil, errors.NewInvalidRequest("activity is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()

	rec, err := l.lookup(ctx, input.Activity)
	if err != nil {
		return nil, err
	}

	staged := *rec
	staged.Count++
	if err := staged.Week.Mark(now.Weekday()); err != nil {
		return nil, err
	}

	target := l.unlockTarget(staged, input.Element)

	var (
		unlocked *garden.Element
		roll     *ResetOutput
	)
	err = db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		// A completion that lands in a new week before the scheduler has
		// ticked rolls the week over first, so the tick cannot erase it.
		var err error
		roll, err = rollWeek(ctx, tx, now, false)
		if err != nil {
			return err
		}
		if roll.Reset {
			staged.Week.Clear()
			_ = staged.Week.Mark(now.Weekday())
		}

		if err := db.UpdateActivity(ctx, tx, &staged, now.Unix()); err != nil {
			return err
		}
		if target == nil {
			return nil
		}
		if err := ensureElementRow(ctx, tx, *target); err != nil {
			return err
		}
		changed, err := db.RevealElement(ctx, tx, target.ID, now.Unix())
		if err != nil {
			return err
		}
		if changed {
			unlocked = target
		}
		return nil
	})
	if err != nil {
		logger.Error("record completion failed", "activity", rec.Name, "error", err)
		return nil, errors.NewPersistence("record completion", err)
	}
	l.publishReset(roll, false)

	logger.Info("activity completed", "activity", staged.Name, "count", staged.Count, "weekday", now.Weekday())
	l.hub.Publish(events.Event{
		Type: events.ActivityUpdated,
		Data: map[string]any{"activity": staged.Name, "count": staged.Count},
	})
	if unlocked != nil {
		logger.Info("garden element unlocked", "activity", staged.Name, "element", unlocked.Name)
		l.hub.Publish(events.Event{
			Type: events.GardenUnlocked,
			Data: map[string]any{"activity": staged.Name, "element": unlocked.Name, "id": unlocked.ID},
		})
	}

	return &CompletionOutput{
		Activity: staged,
		Weekday:  now.Weekday().String(),
		Unlocked: unlocked,
	}, nil
}

// unlockTarget returns the element to reveal for a completion, or nil.
func (l *Ledger) unlockTarget(staged activity.Record, name string) *garden.Element {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	e, ok := l.catalog.Lookup(staged.Name, name)
	if !ok {
		logger.Debug("completion element not in catalog", "activity", staged.Name, "element", name)
		return nil
	}
	if !garden.VisibleAt(e, staged.Count) {
		logger.Debug("completion element below threshold",
			"activity", staged.Name, "element", e.Name, "count", staged.Count, "visible_after", e.VisibleAfter)
		return nil
	}
	return &e
}

// GetAll returns every activity record.
func (l *Ledger) GetAll(ctx context.Context) ([]activity.Record, error) {
	return db.ListActivities(ctx, l.db)
}

// GetByName returns one activity record by case-insensitive name.
func (l *Ledger) GetByName(ctx context.Context, name string) (*activity.Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewInvalidRequest("activity is required")
	}
	return l.lookup(ctx, name)
}

// Subscribe returns a feed of invalidation events, closed when ctx is done.
func (l *Ledger) Subscribe(ctx context.Context, buffer int) <-chan events.Event {
	return l.hub.Subscribe(ctx, buffer)
}

// DebugReset zeroes the count and weekday flags of one activity. Garden
// visibility is left untouched.
func (l *Ledger) DebugReset(ctx context.Context, name string) (*activity.Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewInvalidRequest("activity is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	staged := *rec
	staged.Count = 0
	staged.Week.Clear()

	if err := db.UpdateActivity(ctx, l.db, &staged, l.Now().Unix()); err != nil {
		logger.Error("debug reset failed", "activity", rec.Name, "error", err)
		return nil, errors.NewPersistence("debug reset", err)
	}

	logger.Warn("activity progress reset", "activity", staged.Name)
	l.hub.Publish(events.Event{
		Type: events.ActivityUpdated,
		Data: map[string]any{"activity": staged.Name, "count": 0},
	})
	return &staged, nil
}

func (l *Ledger) lookup(ctx context.Context, name string) (*activity.Record, error) {
	rec, err := db.GetActivity(ctx, l.db, activity.Normalize(name))
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.NewUnknownActivity(name)
	}
	return rec, err
}

// ensureElementRow creates the persisted state row of e if it is missing.
func ensureElementRow(ctx context.Context, q db.Querier, e garden.Element) error {
	_, err := db.InsertElement(ctx, q, &db.ElementRow{
		ID:           e.ID,
		ActivityNorm: activity.Normalize(e.Activity),
		NameNorm:     activity.Normalize(e.Name),
		Scale:        1,
		Visible:      e.Baseline,
	})
	return err
}
