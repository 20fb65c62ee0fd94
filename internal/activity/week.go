package activity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jack22dx/seed/internal/errors"
)

// Week is the set of weekdays completed in the current week, indexed by
// time.Weekday (Sunday=0 … Saturday=6).
type Week [7]bool

// ColumnOrder is the storage order of the weekday columns (monday..sunday).
var ColumnOrder = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DayIndex maps a weekday to its flag index.
func DayIndex(day time.Weekday) (int, error) {
	if day < time.Sunday || day > time.Saturday {
		return 0, errors.NewDayResolution(int(day))
	}
	return int(day), nil
}

// SourceDayNumber returns the Sunday=1..Saturday=7 calendar number for day.
func SourceDayNumber(day time.Weekday) int {
	return int(day) + 1
}

// Mark sets the flag for day. Marking an already-set day is a no-op.
func (w *Week) Mark(day time.Weekday) error {
	idx, err := DayIndex(day)
	if err != nil {
		return err
	}
	w[idx] = true
	return nil
}

// Done reports whether day is marked. Out-of-range days are never done.
func (w Week) Done(day time.Weekday) bool {
	idx, err := DayIndex(day)
	if err != nil {
		return false
	}
	return w[idx]
}

// Days returns the number of marked days.
func (w Week) Days() int {
	n := 0
	for _, done := range w {
		if done {
			n++
		}
	}
	return n
}

// Clear unmarks every day.
func (w *Week) Clear() {
	*w = Week{}
}

// Columns returns the flags in ColumnOrder.
func (w Week) Columns() [7]bool {
	var cols [7]bool
	for i, day := range ColumnOrder {
		cols[i] = w[day]
	}
	return cols
}

// WeekFromColumns is the inverse of Columns.
func WeekFromColumns(cols [7]bool) Week {
	var w Week
	for i, day := range ColumnOrder {
		w[day] = cols[i]
	}
	return w
}

// MarshalJSON renders the week as {"monday": false, ...}.
func (w Week) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, 7)
	for _, day := range ColumnOrder {
		m[dayKey(day)] = w[day]
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts the MarshalJSON form.
func (w *Week) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	w.Clear()
	for _, day := range ColumnOrder {
		w[day] = m[dayKey(day)]
	}
	return nil
}

func dayKey(day time.Weekday) string {
	name := day.String()
	return string(name[0]+('a'-'A')) + name[1:]
}

// WeekKey returns the ISO-8601 week of t ("2026-W42"). Weeks start on Monday.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// StartOfWeek returns Monday 00:00 of t's ISO week, in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}
