package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/hoaivu016/abc-backoffice/internal/middleware"
	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/service"
)

// VehicleHandler handles vehicle CRUD and lifecycle endpoints.
type VehicleHandler struct {
	Vehicles *service.VehicleService
}

// List returns every vehicle.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.Vehicles.List())
}

// Get returns one vehicle by id.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Vehicles.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

// Create adds a vehicle.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.VehicleInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	v, err := h.Vehicles.Add(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, v)
}

// Update replaces a vehicle's editable fields.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.VehicleInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	v, err := h.Vehicles.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

// Delete removes a vehicle.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Vehicles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// StatusRequest is the JSON payload for a lifecycle change.
type StatusRequest struct {
	Status models.VehicleStatus `json:"status"`
	Amount float64              `json:"amount"`
}

// ChangeStatus moves a vehicle through its lifecycle. The acting user
// comes from the bearer token.
func (h *VehicleHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	changedBy := middleware.GetUserIDFromContext(r.Context())
	v, err := h.Vehicles.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.Amount, changedBy)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

// CostRequest is the JSON payload for booking a cost.
type CostRequest struct {
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
}

// AddCost books an expense against a vehicle.
func (h *VehicleHandler) AddCost(w http.ResponseWriter, r *http.Request) {
	var req CostRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	date := time.Time{}
	if req.Date != nil {
		date = *req.Date
	}
	v, err := h.Vehicles.AddCost(r.Context(), chi.URLParam(r, "id"), req.Amount, req.Description, date)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

// PaymentRequest is the JSON payload for recording a payment.
type PaymentRequest struct {
	Type   models.PaymentType `json:"type"`
	Amount float64            `json:"amount"`
	Notes  string             `json:"notes"`
}

// AddPayment records a payment received for a vehicle.
func (h *VehicleHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	v, err := h.Vehicles.AddPayment(r.Context(), chi.URLParam(r, "id"), req.Type, req.Amount, req.Notes)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, v)
}
