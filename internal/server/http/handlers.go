package internalhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petrenko-v/dayplanner/internal/app"
	"github.com/petrenko-v/dayplanner/internal/search"
	"github.com/petrenko-v/dayplanner/internal/storage"
	"github.com/petrenko-v/dayplanner/internal/util"
	log "github.com/sirupsen/logrus"
)

type handlers struct {
	planner *app.App
}

func newHandlers(planner *app.App) *handlers {
	return &handlers{planner: planner}
}

// ListEvents handles GET /events?query=...&priority=...
func (h *handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	priority, err := search.ParsePriorityFilter(q.Get("priority"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown priority filter"))
		return
	}
	events, err := h.planner.FilterEvents(r.Context(), ownerID(r), q.Get("query"), priority)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Events: events})
}

// CreateEvent handles POST /events.
func (h *handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	event, err := h.planner.CreateEvent(r.Context(), ownerID(r), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /events/{id}.
func (h *handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	if err := h.planner.UpdateEvent(r.Context(), id, ownerID(r), in); err != nil {
		h.writeError(w, err)
		return
	}
	event, err := h.planner.GetEvent(r.Context(), id, ownerID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// RemoveEvent handles DELETE /events/{id}.
func (h *handlers) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.RemoveEvent(r.Context(), chi.URLParam(r, "id"), ownerID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MonthGrid handles GET /calendar/{year}/{month}.
func (h *handlers) MonthGrid(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	cells, err := h.planner.MonthGrid(r.Context(), ownerID(r), month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := gridResponse{Cells: make([]cellResponse, 0, len(cells))}
	for _, cell := range cells {
		resp.Cells = append(resp.Cells, toCellResponse(cell))
	}
	writeJSON(w, http.StatusOK, resp)
}

// DayCell handles GET /calendar/{year}/{month}/{day}: the full, untruncated
// event list of a single cell.
func (h *handlers) DayCell(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 1 || day > 31 {
		writeJSON(w, http.StatusBadRequest, errorBody("bad day"))
		return
	}
	date := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())

	events, err := h.planner.Events(r.Context(), ownerID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	selected := make([]storage.Event, 0)
	for _, event := range events {
		if util.SameDay(date, event.StartTime) {
			selected = append(selected, event)
		}
	}
	writeJSON(w, http.StatusOK, dayResponse{Date: date.Format(dateLayout), Events: selected})
}

func (h *handlers) decodeInput(w http.ResponseWriter, r *http.Request) (app.EventInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return app.EventInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return app.EventInput{}, false
	}
	return in, true
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrValidation),
		errors.Is(err, storage.ErrIncorrectEventTime),
		errors.Is(err, storage.ErrUnknownPriority),
		errors.Is(err, storage.ErrDuplicateEventID):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, storage.ErrNotFoundOrForbidden):
		// Never reveals whether the event exists for another user.
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, app.ErrMutationPending):
		writeJSON(w, http.StatusConflict, errorBody("another change for this event is in flight"))
	case errors.Is(err, app.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("temporary failure, retry"))
	default:
		log.Errorf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
	}
}

func monthParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody("bad year"))
		return time.Time{}, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorBody("bad month"))
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}
