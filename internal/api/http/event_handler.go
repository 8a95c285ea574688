package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/service"
)

type EventHandler struct {
	events service.EventService
	loc    *time.Location
}

func NewEventHandler(events service.EventService, loc *time.Location) *EventHandler {
	return &EventHandler{events: events, loc: loc}
}

func (h *EventHandler) register(r *mux.Router) {
	r.HandleFunc("/events/", h.List).Methods(http.MethodGet)
	r.HandleFunc("/events/", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/events/{id:[0-9]+}/", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/events/{id:[0-9]+}/", h.Update).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/events/{id:[0-9]+}/", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/events/{id:[0-9]+}/assignment-defaults/", h.AssignmentDefaults).Methods(http.MethodGet)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseEventFilter(r.URL.Query(), h.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	events, count, err := h.events.ListEvents(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, events, count, filter.ListOptions)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.EventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	event, err := h.events.CreateEvent(r.Context(), in, userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.EventPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	event, err := h.events.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.events.DeleteEvent(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignmentDefaults suggests the check-out and check-in times for a new
// furniture assignment on the event.
func (h *EventHandler) AssignmentDefaults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dates, err := h.events.DefaultAssignmentDates(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}
