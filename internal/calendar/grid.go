// Package calendar computes the month view: a fixed 42-cell grid with
// Monday-first weeks, each cell carrying the events starting on its date.
package calendar

import (
	"sort"
	"time"

	"github.com/petrenko-v/dayplanner/internal/storage"
	"github.com/petrenko-v/dayplanner/internal/util"
)

// GridCells is 6 full weeks, enough to hold any month with any weekday
// offset of its first day.
const GridCells = 42

// MaxVisibleEvents caps how many events a cell exposes for rendering.
// The full list stays on the cell.
const MaxVisibleEvents = 4

type Cell struct {
	Date           time.Time
	InCurrentMonth bool
	IsToday        bool
	Events         []storage.Event
}

// VisibleEvents returns at most MaxVisibleEvents events in order.
func (c Cell) VisibleEvents() []storage.Event {
	if len(c.Events) <= MaxVisibleEvents {
		return c.Events
	}
	return c.Events[:MaxVisibleEvents]
}

// HiddenCount returns how many events VisibleEvents omits.
func (c Cell) HiddenCount() int {
	if len(c.Events) <= MaxVisibleEvents {
		return 0
	}
	return len(c.Events) - MaxVisibleEvents
}

// MonthGrid builds the 42-cell grid for the month containing month.
// The first cell is the Monday on or before the 1st of the month, so the
// last cell is always a Sunday on or after the month end. Each event lands
// in exactly one cell: the one whose date equals the calendar date of its
// start time. Cell events are ordered by ascending start time, stable.
func MonthGrid(month time.Time, today time.Time, events []storage.Event) []Cell {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	offset := (int(first.Weekday()) + 6) % 7 // days back to Monday
	start := first.AddDate(0, 0, -offset)

	byDay := groupByDay(start.Location(), events)

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		date := start.AddDate(0, 0, i)
		cells = append(cells, Cell{
			Date:           date,
			InCurrentMonth: date.Month() == first.Month() && date.Year() == first.Year(),
			IsToday:        util.SameDay(date, today),
			Events:         byDay[dayKey(date)],
		})
	}
	return cells
}

func groupByDay(loc *time.Location, events []storage.Event) map[string][]storage.Event {
	sorted := make([]storage.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	byDay := make(map[string][]storage.Event)
	for _, event := range sorted {
		key := dayKey(event.StartTime.In(loc))
		byDay[key] = append(byDay[key], event)
	}
	return byDay
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
