package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/petrenko-v/dayplanner/internal/storage"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func event(id string, start time.Time) storage.Event {
	return storage.Event{
		ID:        id,
		Title:     id,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Priority:  storage.PriorityNormal,
		OwnerID:   "owner",
	}
}

func TestGridShape(t *testing.T) {
	// Every month of several years: always 42 cells, Monday first, Sunday
	// last, and the month itself a contiguous in-month run.
	for year := 2020; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			t.Run(fmt.Sprintf("%d-%02d", year, month), func(t *testing.T) {
				cells := MonthGrid(day(year, month, 15), day(2024, 3, 4), nil)
				require.Len(t, cells, GridCells)
				require.Equal(t, time.Monday, cells[0].Date.Weekday())
				require.Equal(t, time.Sunday, cells[len(cells)-1].Date.Weekday())

				firstIn, lastIn := -1, -1
				for i, cell := range cells {
					require.Equal(t, cells[0].Date.AddDate(0, 0, i), cell.Date)
					if cell.InCurrentMonth {
						if firstIn == -1 {
							firstIn = i
						}
						lastIn = i
					}
				}
				require.NotEqual(t, -1, firstIn)
				require.Equal(t, 1, cells[firstIn].Date.Day())
				daysIn := lastIn - firstIn + 1
				require.Equal(t, day(year, month, 1).AddDate(0, 1, -1).Day(), daysIn)
				for i := firstIn; i <= lastIn; i++ {
					require.True(t, cells[i].InCurrentMonth)
				}
			})
		}
	}
}

func TestGridEventPlacement(t *testing.T) {
	t.Run("each event lands in exactly one cell", func(t *testing.T) {
		events := []storage.Event{
			event("a", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
			event("b", time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)),
			event("c", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)),
			event("out-of-month", time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)),
		}
		cells := MonthGrid(day(2024, 3, 1), day(2024, 3, 4), events)

		seen := map[string]int{}
		for _, cell := range cells {
			for _, e := range cell.Events {
				seen[e.ID]++
				require.True(t, cell.Date.Year() == e.StartTime.Year() &&
					cell.Date.Month() == e.StartTime.Month() &&
					cell.Date.Day() == e.StartTime.Day())
			}
		}
		// Feb 26 2024 is a Monday inside the March grid, so all four land.
		for _, e := range events {
			require.Equal(t, 1, seen[e.ID], "event %s", e.ID)
		}
	})

	t.Run("standup before launch on march 4", func(t *testing.T) {
		events := []storage.Event{
			{
				ID: "2", Title: "Launch", Priority: storage.PriorityCritical,
				StartTime: time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC),
			},
			{
				ID: "1", Title: "Standup", Priority: storage.PriorityNormal,
				StartTime: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
			},
		}
		cells := MonthGrid(day(2024, 3, 1), day(2024, 3, 4), events)

		var target *Cell
		for i := range cells {
			if cells[i].Date.Equal(day(2024, 3, 4)) {
				target = &cells[i]
			}
		}
		require.NotNil(t, target)
		require.True(t, target.IsToday)
		require.Len(t, target.Events, 2)
		require.Equal(t, "Standup", target.Events[0].Title)
		require.Equal(t, "Launch", target.Events[1].Title)
	})

	t.Run("today marked only once", func(t *testing.T) {
		cells := MonthGrid(day(2024, 3, 1), day(2024, 3, 4), nil)
		count := 0
		for _, cell := range cells {
			if cell.IsToday {
				count++
			}
		}
		require.Equal(t, 1, count)
	})

	t.Run("today outside month not marked", func(t *testing.T) {
		cells := MonthGrid(day(2024, 3, 1), day(2024, 6, 1), nil)
		for _, cell := range cells {
			require.False(t, cell.IsToday)
		}
	})
}

func TestCellTruncation(t *testing.T) {
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	events := make([]storage.Event, 0, 6)
	for i := 0; i < 6; i++ {
		events = append(events, event(fmt.Sprintf("e%d", i), base.Add(time.Duration(i)*time.Hour)))
	}
	cells := MonthGrid(day(2024, 3, 1), day(2024, 3, 4), events)

	var target Cell
	for _, cell := range cells {
		if cell.Date.Equal(day(2024, 3, 4)) {
			target = cell
		}
	}
	require.Len(t, target.Events, 6)
	require.Len(t, target.VisibleEvents(), MaxVisibleEvents)
	require.Equal(t, 2, target.HiddenCount())
	// Truncation keeps order: the visible events are the earliest four.
	for i, e := range target.VisibleEvents() {
		require.Equal(t, fmt.Sprintf("e%d", i), e.ID)
	}
}

func TestCellNoTruncationUnderLimit(t *testing.T) {
	events := []storage.Event{event("only", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))}
	cells := MonthGrid(day(2024, 3, 1), day(2024, 3, 4), events)
	for _, cell := range cells {
		require.Equal(t, 0, cell.HiddenCount())
		require.Equal(t, cell.Events, cell.VisibleEvents())
	}
}
