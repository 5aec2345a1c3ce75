package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/hoaivu016/abc-backoffice/internal/service"
)

// StaffHandler handles staff CRUD endpoints.
type StaffHandler struct {
	Staff *service.StaffService
}

// List returns every staff member.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.Staff.List())
}

// Create adds a staff member.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.StaffInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	m, err := h.Staff.Add(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, m)
}

// Update replaces a staff member's editable fields.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.StaffInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	m, err := h.Staff.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, m)
}

// Delete removes a staff member. A 409 means the shared store still
// has rows referencing them and nothing was removed.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Staff.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
