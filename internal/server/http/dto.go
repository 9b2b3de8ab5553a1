package internalhttp

import (
	"errors"
	"fmt"
	"time"

	"github.com/petrenko-v/dayplanner/internal/app"
	"github.com/petrenko-v/dayplanner/internal/calendar"
	"github.com/petrenko-v/dayplanner/internal/storage"
	"github.com/petrenko-v/dayplanner/internal/util"
)

const dateLayout = "2006-01-02"

// eventRequest is the body for create and update. StartTime and EndTime are
// either RFC 3339 instants or time-of-day ("HH:MM") values; time-of-day
// input is combined against Date (default: today), with the end rolling to
// the next day when it would not follow the start.
type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Priority    string `json:"priority"`
}

func (r eventRequest) toInput() (app.EventInput, error) {
	in := app.EventInput{Title: r.Title, Description: r.Description}

	priority, err := storage.ParsePriority(r.Priority)
	if err != nil {
		return in, err
	}
	in.Priority = priority

	start, startErr := util.ParseInstant(r.StartTime)
	end, endErr := util.ParseInstant(r.EndTime)
	switch {
	case startErr == nil && endErr == nil:
		in.StartTime = start
		in.EndTime = end
	case startErr != nil && endErr != nil:
		base := time.Now()
		if r.Date != "" {
			base, err = time.Parse(dateLayout, r.Date)
			if err != nil {
				return in, fmt.Errorf("%w: bad date %q", app.ErrValidation, r.Date)
			}
		}
		in.StartTime, in.EndTime, err = util.NormalizeRange(base, r.StartTime, r.EndTime)
		if err != nil {
			return in, fmt.Errorf("%w: %s", app.ErrValidation, err)
		}
	default:
		return in, fmt.Errorf("%w: %s", app.ErrValidation,
			errors.New("startTime and endTime must both be timestamps or both be HH:MM"))
	}
	return in, nil
}

type cellResponse struct {
	Date           string          `json:"date"`
	InCurrentMonth bool            `json:"inCurrentMonth"`
	IsToday        bool            `json:"isToday"`
	Events         []storage.Event `json:"events"`
	HiddenCount    int             `json:"hiddenCount"`
	TotalEvents    int             `json:"totalEvents"`
}

func toCellResponse(c calendar.Cell) cellResponse {
	return cellResponse{
		Date:           c.Date.Format(dateLayout),
		InCurrentMonth: c.InCurrentMonth,
		IsToday:        c.IsToday,
		Events:         c.VisibleEvents(),
		HiddenCount:    c.HiddenCount(),
		TotalEvents:    len(c.Events),
	}
}

type gridResponse struct {
	Cells []cellResponse `json:"cells"`
}

type dayResponse struct {
	Date   string          `json:"date"`
	Events []storage.Event `json:"events"`
}

type listResponse struct {
	Events []storage.Event `json:"events"`
}
