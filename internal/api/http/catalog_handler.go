package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/service"
)

// catalogHandler serves CRUD for one reference table.
type catalogHandler[T any] struct {
	svc service.CatalogService[T]
	id  func(*T) *int32
}

func registerCatalog[T any](r *mux.Router, path string, svc service.CatalogService[T], id func(*T) *int32) {
	h := &catalogHandler[T]{svc: svc, id: id}
	r.HandleFunc(path+"/", h.list).Methods(http.MethodGet)
	r.HandleFunc(path+"/", h.create).Methods(http.MethodPost)
	r.HandleFunc(path+"/{id:[0-9]+}/", h.get).Methods(http.MethodGet)
	r.HandleFunc(path+"/{id:[0-9]+}/", h.update).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc(path+"/{id:[0-9]+}/", h.delete).Methods(http.MethodDelete)
}

func (h *catalogHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseCatalogFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, count, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, count, filter.ListOptions)
}

func (h *catalogHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := decodeJSON(r, item); err != nil {
		writeError(w, r, err)
		return
	}
	*h.id(item) = 0
	if err := h.svc.Create(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *catalogHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// update decodes the body over the stored row, so PATCH and PUT both leave
// absent fields untouched.
func (h *catalogHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(r, item); err != nil {
		writeError(w, r, err)
		return
	}
	*h.id(item) = id
	if err := h.svc.Update(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *catalogHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// registerLookup serves read-only reference lists owned by other modules.
func registerLookup[T any](r *mux.Router, path string, svc service.LookupService[T]) {
	r.HandleFunc(path+"/", func(w http.ResponseWriter, r *http.Request) {
		filter, err := domain.ParseCatalogFilter(r.URL.Query())
		if err != nil {
			writeError(w, r, err)
			return
		}
		items, count, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeList(w, r, items, count, filter.ListOptions)
	}).Methods(http.MethodGet)

	r.HandleFunc(path+"/{id:[0-9]+}/", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}).Methods(http.MethodGet)
}
