package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/service"
)

type RentalHandler struct {
	rentals service.RentalService
	loc     *time.Location
}

func NewRentalHandler(rentals service.RentalService, loc *time.Location) *RentalHandler {
	return &RentalHandler{rentals: rentals, loc: loc}
}

func (h *RentalHandler) register(r *mux.Router) {
	r.HandleFunc("/rental-orders/", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/rental-orders/", h.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/rental-orders/{id:[0-9]+}/", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/rental-orders/{id:[0-9]+}/", h.UpdateOrder).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/rental-orders/{id:[0-9]+}/", h.DeleteOrder).Methods(http.MethodDelete)

	r.HandleFunc("/rental-lines/", h.ListLines).Methods(http.MethodGet)
	r.HandleFunc("/rental-lines/", h.CreateLine).Methods(http.MethodPost)
	r.HandleFunc("/rental-lines/{id:[0-9]+}/", h.GetLine).Methods(http.MethodGet)
	r.HandleFunc("/rental-lines/{id:[0-9]+}/", h.UpdateLine).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/rental-lines/{id:[0-9]+}/", h.DeleteLine).Methods(http.MethodDelete)
}

func (h *RentalHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseRentalOrderFilter(r.URL.Query(), h.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, count, err := h.rentals.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, orders, count, filter.ListOptions)
}

func (h *RentalHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.RentalOrderInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.rentals.CreateOrder(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *RentalHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.rentals.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.RentalOrderPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.rentals.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rentals.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RentalHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseRentalLineFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	lines, count, err := h.rentals.ListLines(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, lines, count, filter.ListOptions)
}

func (h *RentalHandler) CreateLine(w http.ResponseWriter, r *http.Request) {
	var in domain.RentalLineInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.rentals.CreateLine(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (h *RentalHandler) GetLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.rentals.GetLine(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (h *RentalHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.RentalLinePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.rentals.UpdateLine(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (h *RentalHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rentals.DeleteLine(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
