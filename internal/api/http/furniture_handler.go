package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/service"
	"tracklet-backend/internal/utils"
)

type partUsage struct {
	Part  int32 `json:"part"`
	Count int   `json:"count"`
}

type FurnitureHandler struct {
	assignments service.FurnitureService
}

func NewFurnitureHandler(assignments service.FurnitureService) *FurnitureHandler {
	return &FurnitureHandler{assignments: assignments}
}

func (h *FurnitureHandler) register(r *mux.Router, path string) {
	r.HandleFunc(path+"/", h.List).Methods(http.MethodGet)
	r.HandleFunc(path+"/", h.Create).Methods(http.MethodPost)
	r.HandleFunc(path+"/usage/", h.Usage).Methods(http.MethodGet)
	r.HandleFunc(path+"/{id:[0-9]+}/", h.Get).Methods(http.MethodGet)
	r.HandleFunc(path+"/{id:[0-9]+}/", h.Update).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc(path+"/{id:[0-9]+}/", h.Delete).Methods(http.MethodDelete)
}

func (h *FurnitureHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseAssignmentFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, count, err := h.assignments.ListAssignments(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, rows, count, filter.ListOptions)
}

// Create answers 200 when the submission was merged into an existing
// (event, part) row and 201 when a new row was written.
func (h *FurnitureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.AssignmentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.assignments.CreateAssignment(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if row.UpdatedExisting {
		status = http.StatusOK
	}
	writeJSON(w, status, row)
}

func (h *FurnitureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.assignments.GetAssignment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *FurnitureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.AssignmentPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.assignments.UpdateAssignment(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *FurnitureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.assignments.DeleteAssignment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Usage reports how many active assignments hold a part.
func (h *FurnitureHandler) Usage(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get(domain.ParamPart)
	if raw == "" {
		writeError(w, r, domain.NewValidationError(domain.ParamPart, "This field is required."))
		return
	}
	part, err := utils.ParseID(raw)
	if err != nil {
		writeError(w, r, domain.NewValidationError(domain.ParamPart, "A valid integer is required."))
		return
	}
	count, err := h.assignments.PartUsage(r.Context(), part)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, partUsage{Part: part, Count: count})
}
