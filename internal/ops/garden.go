package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/events"
	"github.com/jack22dx/seed/internal/garden"
	"github.com/jack22dx/seed/internal/logger"
)

// GardenListInput contains parameters for ListGarden.
type GardenListInput struct {
	Activity    string // optional; empty lists every activity
	VisibleOnly bool
}

// GardenListOutput contains the result of ListGarden.
type GardenListOutput struct {
	CatalogVersion string         `json:"catalog_version"`
	Items          []garden.State `json:"items"`
}

// ListGarden merges the static catalog with persisted placement and
// visibility. Elements without a stored row report their seed state.
func ListGarden(ctx context.Context, database *sql.DB, catalog *garden.Catalog, input GardenListInput) (*GardenListOutput, error) {
	names := catalog.Activities()
	if strings.TrimSpace(input.Activity) != "" {
		t, err := catalog.Table(input.Activity)
		if err != nil {
			return nil, err
		}
		names = []string{t.Activity}
	}

	out := &GardenListOutput{CatalogVersion: catalog.Version(), Items: []garden.State{}}
	for _, name := range names {
		rows, err := db.ListElements(ctx, database, activity.Normalize(name))
		if err != nil {
			return nil, err
		}
		byID := make(map[string]db.ElementRow, len(rows))
		for _, r := range rows {
			byID[r.ID] = r
		}

		elements, err := catalog.Elements(name)
		if err != nil {
			return nil, err
		}
		for _, e := range elements {
			st := garden.State{Element: e, Scale: 1, Visible: e.Baseline}
			if r, ok := byID[e.ID]; ok {
				st.X, st.Y, st.Scale = r.X, r.Y, r.Scale
				st.Visible = r.Visible
				st.UnlockedAt = r.UnlockedAt
			}
			if input.VisibleOnly && !st.Visible {
				continue
			}
			out.Items = append(out.Items, st)
		}
	}
	return out, nil
}

// EligibleInput contains parameters for GardenEligible and GardenPick.
type EligibleInput struct {
	Activity string // required
	Count    *int   // optional; default: the activity's stored count
}

// EligibleOutput contains the result of GardenEligible.
type EligibleOutput struct {
	Activity string   `json:"activity"`
	Count    int      `json:"count"`
	Names    []string `json:"names"`
	Default  string   `json:"default"`
}

// GardenEligible returns the element names offered for the activity's count.
func GardenEligible(ctx context.Context, repo ActivityRepository, catalog *garden.Catalog, input EligibleInput) (*EligibleOutput, error) {
	t, count, err := resolveCount(ctx, repo, catalog, input)
	if err != nil {
		return nil, err
	}
	names, err := catalog.Eligible(t.Activity, count)
	if err != nil {
		return nil, err
	}
	return &EligibleOutput{Activity: t.Activity, Count: count, Names: names, Default: t.Default}, nil
}

// PickOutput contains the result of GardenPick.
type PickOutput struct {
	Activity string         `json:"activity"`
	Count    int            `json:"count"`
	Element  garden.Element `json:"element"`
}

// GardenPick selects one element for the activity's count.
func GardenPick(ctx context.Context, repo ActivityRepository, picker *garden.Picker, catalog *garden.Catalog, input EligibleInput) (*PickOutput, error) {
	t, count, err := resolveCount(ctx, repo, catalog, input)
	if err != nil {
		return nil, err
	}
	e, err := picker.Pick(t.Activity, count)
	if err != nil {
		return nil, err
	}
	return &PickOutput{Activity: t.Activity, Count: count, Element: e}, nil
}

func resolveCount(ctx context.Context, repo ActivityRepository, catalog *garden.Catalog, input EligibleInput) (*garden.Table, int, error) {
	if strings.TrimSpace(input.Activity) == "" {
		return nil, 0, errors.NewInvalidRequest("activity is required")
	}
	t, err := catalog.Table(input.Activity)
	if err != nil {
		return nil, 0, err
	}
	if input.Count != nil {
		if *input.Count < 0 {
			return nil, 0, errors.NewInvalidRequest("count must not be negative")
		}
		return t, *input.Count, nil
	}
	rec, err := repo.GetByName(ctx, t.Activity)
	if err != nil {
		return nil, 0, err
	}
	return t, rec.Count, nil
}

// PlaceInput contains parameters for PlaceElement.
type PlaceInput struct {
	Activity string  // required
	Element  string  // required
	X        float64 // canvas position
	Y        float64
	Scale    float64 // must be positive
}

// PlaceElement stores the canvas position and scale of a garden element.
func (l *Ledger) PlaceElement(ctx context.Context, input PlaceInput) (*garden.State, error) {
	if strings.TrimSpace(input.Activity) == "" {
		return nil, errors.NewInvalidRequest("activity is required")
	}
	if strings.TrimSpace(input.Element) == "" {
		return nil, errors.NewInvalidRequest("element is required")
	}
	if input.Scale <= 0 {
		return nil, errors.NewInvalidRequest("scale must be positive")
	}

	t, err := l.catalog.Table(input.Activity)
	if err != nil {
		return nil, err
	}
	e, ok := l.catalog.Lookup(t.Activity, input.Element)
	if !ok {
		return nil, errors.NewUnknownElement(t.Activity, input.Element)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var row *db.ElementRow
	err = db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		if err := ensureElementRow(ctx, tx, e); err != nil {
			return err
		}
		if err := db.UpdatePlacement(ctx, tx, e.ID, input.X, input.Y, input.Scale); err != nil {
			return err
		}
		got, err := db.GetElement(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		row = got
		return nil
	})
	if err != nil {
		logger.Error("place element failed", "activity", t.Activity, "element", e.Name, "error", err)
		return nil, errors.NewPersistence("place element", err)
	}

	l.hub.Publish(events.Event{
		Type: events.GardenPlaced,
		Data: map[string]any{"activity": t.Activity, "element": e.Name, "id": e.ID},
	})

	return &garden.State{
		Element:    e,
		X:          row.X,
		Y:          row.Y,
		Scale:      row.Scale,
		Visible:    row.Visible,
		UnlockedAt: row.UnlockedAt,
	}, nil
}
