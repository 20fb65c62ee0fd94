package garden

import (
	"fmt"
	"path"
	"strings"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/errors"
)

// Catalog is the immutable set of per-activity tables.
type Catalog struct {
	version string
	order   []string
	tables  map[string]*Table
}

var defaultCatalog = mustBuild(CatalogVersion, defaultTables())

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// New builds a catalog from tables, filling in ids and asset ids and
// validating bucket layout.
func New(version string, tables []Table) (*Catalog, error) {
	c := &Catalog{
		version: version,
		tables:  make(map[string]*Table, len(tables)),
	}

	for _, t := range tables {
		key := activity.Normalize(t.Activity)
		if key == "" {
			return nil, fmt.Errorf("table with empty activity")
		}
		if _, dup := c.tables[key]; dup {
			return nil, fmt.Errorf("duplicate table for %q", t.Activity)
		}

		tbl := t
		tbl.Elements = make([]Element, len(t.Elements))
		folder := strings.ReplaceAll(key, " ", "-")
		for i, e := range t.Elements {
			e.Activity = t.Activity
			e.ID = ElementID(t.Activity, e.Name)
			if e.AssetID == "" {
				ext := ".png"
				if e.Kind == Animated {
					ext = ".gif"
				}
				e.AssetID = path.Join("garden", folder, e.Name+ext)
			}
			tbl.Elements[i] = e
		}

		if err := validate(&tbl); err != nil {
			return nil, err
		}

		c.tables[key] = &tbl
		c.order = append(c.order, key)
	}

	return c, nil
}

func mustBuild(version string, tables []Table) *Catalog {
	c, err := New(version, tables)
	if err != nil {
		panic(err)
	}
	return c
}

// validate checks that buckets are ordered and non-overlapping and that every
// named element (and the default) exists in the table.
func validate(t *Table) error {
	names := make(map[string]bool, len(t.Elements))
	for _, e := range t.Elements {
		norm := activity.Normalize(e.Name)
		if names[norm] {
			return fmt.Errorf("%s: duplicate element %q", t.Activity, e.Name)
		}
		names[norm] = true
	}
	if !names[activity.Normalize(t.Default)] {
		return fmt.Errorf("%s: default element %q not in catalog", t.Activity, t.Default)
	}

	prevMax := 0
	for i, b := range t.Buckets {
		if b.Max != 0 && b.Max <= b.Min {
			return fmt.Errorf("%s: bucket %d has empty range [%d,%d)", t.Activity, i, b.Min, b.Max)
		}
		if i > 0 {
			if prevMax == 0 || b.Min < prevMax {
				return fmt.Errorf("%s: bucket %d overlaps previous bucket", t.Activity, i)
			}
		}
		for _, n := range b.Names {
			if !names[activity.Normalize(n)] {
				return fmt.Errorf("%s: bucket %d names unknown element %q", t.Activity, i, n)
			}
		}
		prevMax = b.Max
	}
	return nil
}

// Version returns the table version.
func (c *Catalog) Version() string {
	return c.version
}

// Activities returns the catalogued activity names in table order.
func (c *Catalog) Activities() []string {
	out := make([]string, len(c.order))
	for i, key := range c.order {
		out[i] = c.tables[key].Activity
	}
	return out
}

// Table returns the table for activityName.
func (c *Catalog) Table(activityName string) (*Table, error) {
	t, ok := c.tables[activity.Normalize(activityName)]
	if !ok {
		return nil, errors.NewUnknownActivity(activityName)
	}
	return t, nil
}

// Elements returns a copy of the activity's elements.
func (c *Catalog) Elements(activityName string) ([]Element, error) {
	t, err := c.Table(activityName)
	if err != nil {
		return nil, err
	}
	return append([]Element(nil), t.Elements...), nil
}

// Lookup finds an element by case-insensitive name within an activity.
func (c *Catalog) Lookup(activityName, name string) (Element, bool) {
	t, err := c.Table(activityName)
	if err != nil {
		return Element{}, false
	}
	norm := activity.Normalize(name)
	for _, e := range t.Elements {
		if activity.Normalize(e.Name) == norm {
			return e, true
		}
	}
	return Element{}, false
}

// Eligible returns the element names offered at count. An empty result means
// no bucket covers count; callers fall back to the table default.
func (c *Catalog) Eligible(activityName string, count int) ([]string, error) {
	t, err := c.Table(activityName)
	if err != nil {
		return nil, err
	}
	for _, b := range t.Buckets {
		if b.Contains(count) {
			return append([]string(nil), b.Names...), nil
		}
	}
	return []string{}, nil
}

// Eligible is Default().Eligible.
func Eligible(activityName string, count int) ([]string, error) {
	return defaultCatalog.Eligible(activityName, count)
}
