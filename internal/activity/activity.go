// Package activity holds the per-activity progress record: a cumulative
// completion count plus this week's per-weekday completion flags.
package activity

import (
	"regexp"
	"strings"
)

// Baseline activity names. One record per name is seeded at first launch.
const (
	Meditation   = "Meditation"
	Journaling   = "Journaling"
	DigitalDetox = "Digital Detox"
)

// Baseline lists the activities seeded into an empty store, in display order.
var Baseline = []string{Meditation, Journaling, DigitalDetox}

// Record is one activity's persisted progress.
type Record struct {
	// Name is the display name ("Digital Detox").
	Name string `json:"name"`

	// NameNorm is the normalized lookup key ("digital detox"); unique per store.
	NameNorm string `json:"-"`

	// Count is the cumulative number of completions. Never negative.
	Count int `json:"count"`

	// Week holds this week's completion flags.
	Week Week `json:"week"`

	// UpdatedAt is the Unix timestamp of the last committed change.
	UpdatedAt int64 `json:"updated_at"`
}

// New returns a zero-progress record for name.
func New(name string) Record {
	return Record{Name: name, NameNorm: Normalize(name)}
}

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize trims, lowercases and collapses internal whitespace so
// "  Digital   DETOX " and "digital detox" address the same record.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// Canonical returns the baseline display name matching s, if any.
func Canonical(s string) (string, bool) {
	norm := Normalize(s)
	for _, name := range Baseline {
		if Normalize(name) == norm {
			return name, true
		}
	}
	return "", false
}
