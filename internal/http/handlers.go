package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fatture/internal/adapters"
	"fatture/internal/core"
	"fatture/internal/log"
	"fatture/internal/remote"
	"fatture/internal/store"
)

// registerResource wires the CRUD routes for one collection.
func registerResource[T any](mux *http.ServeMux, base string, a *adapters.Adapter[T]) {
	prefix := "/api/" + base

	mux.HandleFunc("GET "+prefix, func(w http.ResponseWriter, r *http.Request) {
		if err := a.Refresh(r.Context()); err != nil {
			writeError(w, r, base, log.OpFetch, err)
			return
		}
		writeJSON(w, http.StatusOK, a.Data())
	})

	mux.HandleFunc("POST "+prefix, func(w http.ResponseWriter, r *http.Request) {
		var body T
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		created, err := a.Create(r.Context(), body)
		if err != nil {
			writeError(w, r, base, log.OpCreate, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	mux.HandleFunc("GET "+prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := a.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, r, base, "get", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	mux.HandleFunc("PATCH "+prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		var patch store.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		updated, err := a.Update(r.Context(), r.PathValue("id"), patch)
		if err != nil {
			writeError(w, r, base, log.OpUpdate, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	})

	mux.HandleFunc("DELETE "+prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := a.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, base, log.OpDelete, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed encoding response", log.FieldError, err)
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps domain and remote errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, collection, op string, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, remote.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, remote.ErrConstraint):
		status = http.StatusConflict
	case isValidationError(err):
		status = http.StatusBadRequest
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			log.FieldCollection, collection,
			log.FieldOperation, op,
			log.FieldError, err)
	}
	writeJSON(w, status, errorBody(err.Error()))
}

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrEmptyName,
	core.ErrEmptyDescription,
	core.ErrInvalidEmail,
	core.ErrMissingCustomer,
	core.ErrMissingCategory,
	core.ErrMissingAccount,
	core.ErrMissingInvoice,
	core.ErrInvalidStatus,
	core.ErrInvalidMethod,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
