package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
	"tracklet-backend/internal/utils"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every non-validation error.
type errorBody struct {
	Detail string `json:"detail"`
}

// Page is the envelope returned when the request carries a limit.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps service errors onto status codes. Validation failures carry
// the field map as the body; record-level messages sit under
// non_field_errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		body := make(map[string][]string, len(verr.Fields))
		for field, msgs := range verr.Fields {
			if field == "" {
				field = "non_field_errors"
			}
			body[field] = append(body[field], msgs...)
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrInvalidTransition):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrModuleDisabled):
		writeDetail(w, http.StatusNotFound, "module disabled")
	case errors.Is(err, domain.ErrConflict):
		writeDetail(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
	case errors.Is(err, domain.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a request body into dst. Unknown fields are ignored.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return domain.NewValidationError("", "Unable to read request body.")
	}
	if len(body) == 0 {
		return domain.NewValidationError("", "No data provided.")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.NewValidationError(typeErr.Field, fmt.Sprintf("Invalid value for %s.", typeErr.Field))
		}
		return domain.NewValidationError("", "JSON parse error - "+err.Error())
	}
	return nil
}

// pathID reads the {id} route variable.
func pathID(r *http.Request) (int32, error) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// writeList writes the bare array, or the pagination envelope when the
// request asked for a limit.
func writeList[T any](w http.ResponseWriter, r *http.Request, items []T, count int, opts domain.ListOptions) {
	if items == nil {
		items = []T{}
	}
	if !opts.Paginated() {
		writeJSON(w, http.StatusOK, items)
		return
	}

	limit := *opts.Limit
	page := Page[T]{Count: count, Results: items}
	if limit > 0 && opts.Offset+limit < count {
		next := pageURL(r, limit, opts.Offset+limit)
		page.Next = &next
	}
	if opts.Offset > 0 {
		prev := pageURL(r, limit, max(opts.Offset-limit, 0))
		page.Previous = &prev
	}
	writeJSON(w, http.StatusOK, page)
}

func pageURL(r *http.Request, limit, offset int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}

	q := r.URL.Query()
	q.Set(domain.ParamLimit, strconv.Itoa(limit))
	if offset > 0 {
		q.Set(domain.ParamOffset, strconv.Itoa(offset))
	} else {
		q.Del(domain.ParamOffset)
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
