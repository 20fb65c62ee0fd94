package garden

import "github.com/jack22dx/seed/internal/activity"

// CatalogVersion identifies the threshold tables below. Bump it whenever a
// bucket boundary or visibility threshold changes.
const CatalogVersion = "2026.10.1"

// Bucket maps the half-open count range [Min, Max) to element names.
// Max == 0 means unbounded.
type Bucket struct {
	Min   int      `json:"min"`
	Max   int      `json:"max,omitempty"`
	Names []string `json:"names"`
}

// Contains reports whether count falls in the bucket.
func (b Bucket) Contains(count int) bool {
	return count >= b.Min && (b.Max == 0 || count < b.Max)
}

// Table is the authoritative per-activity catalog. Buckets drive display
// selection; Element.VisibleAfter drives reveal. The two are independent.
type Table struct {
	Activity string    `json:"activity"`
	Default  string    `json:"default"`
	Buckets  []Bucket  `json:"buckets"`
	Elements []Element `json:"elements"`
}

func defaultTables() []Table {
	return []Table{
		{
			Activity: activity.Journaling,
			Default:  "sprout",
			Buckets: []Bucket{
				{Min: 1, Max: 3, Names: []string{"rose", "cherryblossom"}},
				{Min: 3, Max: 6, Names: []string{"tulip", "lavender", "sunflower"}},
				{Min: 6, Names: []string{"oak", "willow", "maple"}},
			},
			Elements: []Element{
				baseline("sprout"),
				baseline("rose"),
				baseline("cherryblossom"),
				baseline("tulip"),
				baseline("lavender"),
				baseline("sunflower"),
				baseline("oak"),
				baseline("willow"),
				baseline("maple"),
				animated("birdhouse", 4),
			},
		},
		{
			Activity: activity.Meditation,
			Default:  "pebble",
			Buckets: []Bucket{
				{Min: 1, Max: 4, Names: []string{"lotus", "lantern"}},
				{Min: 4, Max: 8, Names: []string{"bonsai", "bridge"}},
				{Min: 8, Names: []string{"pagoda", "buddha"}},
			},
			Elements: []Element{
				baseline("pebble"),
				static("lotus", 0),
				animated("lantern", 2),
				static("bonsai", 4),
				static("bridge", 6),
				static("pagoda", 9),
				static("buddha", 12),
			},
		},
		{
			Activity: activity.DigitalDetox,
			Default:  "grass",
			Buckets: []Bucket{
				{Min: 1, Max: 2, Names: []string{"snail"}},
				{Min: 2, Max: 5, Names: []string{"turtle", "frog"}},
				{Min: 5, Names: []string{"butterfly", "koi"}},
			},
			Elements: []Element{
				baseline("grass"),
				animated("snail", 0),
				animated("turtle", 1),
				animated("frog", 3),
				animated("butterfly", 5),
				animated("koi", 8),
			},
		},
	}
}
