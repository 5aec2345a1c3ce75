package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/service"
)

// KpiHandler handles KPI target and support bonus endpoints.
type KpiHandler struct {
	Kpi *service.KpiService
}

func periodParams(r *http.Request) (month, year int, err error) {
	month, err = strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, err
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

// Targets returns KPI targets for ?month=&year=.
func (h *KpiHandler) Targets(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodParams(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "month and year are required")
		return
	}
	render.JSON(w, r, h.Kpi.Targets(month, year))
}

// UpsertTargets replaces every KPI target for ?month=&year=.
func (h *KpiHandler) UpsertTargets(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodParams(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "month and year are required")
		return
	}
	var rows []models.KpiTarget
	if err := render.DecodeJSON(r.Body, &rows); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.Kpi.UpsertTargets(r.Context(), month, year, rows); err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, h.Kpi.Targets(month, year))
}

// Bonuses returns support bonuses for ?month=YYYY-MM.
func (h *KpiHandler) Bonuses(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.Kpi.Bonuses(r.URL.Query().Get("month")))
}

// UpsertBonuses replaces every support bonus for ?month=YYYY-MM.
func (h *KpiHandler) UpsertBonuses(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	var rows []models.SupportBonus
	if err := render.DecodeJSON(r.Body, &rows); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.Kpi.UpsertBonuses(r.Context(), month, rows); err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, h.Kpi.Bonuses(month))
}
