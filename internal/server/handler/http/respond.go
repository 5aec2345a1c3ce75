// Package http provides the HTTP handlers and routing for the
// back-office API.
package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
	"github.com/hoaivu016/abc-backoffice/internal/service"
)

// ErrResponse is the JSON body of every error reply.
type ErrResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Error: msg})
}

// respondServiceError maps service-layer sentinels to status codes.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrVehicleNotFound),
		errors.Is(err, service.ErrStaffNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, remote.ErrStaffReferenced):
		respondError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, service.ErrSellBelowPurchase):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, r, http.StatusBadRequest, err.Error())
	}
}
