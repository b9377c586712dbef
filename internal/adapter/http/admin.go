package http

import (
	"net/http"

	"github.com/pagesmith/pagesmith/internal/service"
)

// ListClients returns all client records.
func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.admin.List(r.Context()))
}

// GetClient returns one client record.
func (h *Handlers) GetClient(w http.ResponseWriter, r *http.Request) {
	rec, err := h.admin.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateClient onboards a new client record.
func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	rec, ok := readJSON[service.ClientRecord](w, r, maxBodySize)
	if !ok {
		return
	}
	created, err := h.admin.Create(r.Context(), rec)
	if err != nil {
		writeDomainError(w, err, "client not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateClient applies partial updates to a client record.
func (h *Handlers) UpdateClient(w http.ResponseWriter, r *http.Request) {
	upd, ok := readJSON[service.ClientUpdate](w, r, maxBodySize)
	if !ok {
		return
	}
	rec, err := h.admin.Update(r.Context(), urlParam(r, "id"), upd)
	if err != nil {
		writeDomainError(w, err, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteClient removes a client record.
func (h *Handlers) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "client not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
