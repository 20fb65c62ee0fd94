// Package garden is the static catalog of decorative garden elements and the
// count-driven policy deciding which ones are offered and which are revealed.
package garden

import (
	"github.com/google/uuid"

	"github.com/jack22dx/seed/internal/activity"
)

// Representation tags how an element is drawn. The engine never looks at
// asset bytes; the tag and AssetID are handed through to the UI.
type Representation string

const (
	Static   Representation = "static"
	Animated Representation = "animated"
)

// Element is one catalog entry.
type Element struct {
	// ID is stable across installs: a UUIDv5 of "activity/name".
	ID       string         `json:"id"`
	Activity string         `json:"activity"`
	Name     string         `json:"name"`
	Kind     Representation `json:"kind"`
	AssetID  string         `json:"asset_id"`

	// Baseline elements are visible from the first launch.
	Baseline bool `json:"baseline,omitempty"`

	// VisibleAfter gates non-baseline elements: visible once count > VisibleAfter.
	VisibleAfter int `json:"visible_after"`
}

// VisibleAt reports whether e may be revealed at the given cumulative count.
func VisibleAt(e Element, count int) bool {
	return e.Baseline || count > e.VisibleAfter
}

var elementNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jack22dx/seed/garden"))

// ElementID derives the stable id of an element.
func ElementID(activityName, name string) string {
	key := activity.Normalize(activityName) + "/" + activity.Normalize(name)
	return uuid.NewSHA1(elementNamespace, []byte(key)).String()
}

func static(name string, after int) Element {
	return Element{Name: name, Kind: Static, VisibleAfter: after}
}

func animated(name string, after int) Element {
	return Element{Name: name, Kind: Animated, VisibleAfter: after}
}

func baseline(name string) Element {
	return Element{Name: name, Kind: Static, Baseline: true}
}
