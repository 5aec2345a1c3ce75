package http

import (
	"fmt"
	"net/http"

	"github.com/hoaivu016/abc-backoffice/internal/report"
	"github.com/hoaivu016/abc-backoffice/internal/service"
)

// ReportHandler serves the monthly Excel report.
type ReportHandler struct {
	Vehicles *service.VehicleService
	Staff    *service.StaffService
	Kpi      *service.KpiService
}

// Monthly streams the workbook for ?month=&year=.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodParams(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "month and year are required")
		return
	}
	data, err := report.Monthly(month, year, h.Vehicles.List(), h.Staff.List(), h.Kpi.Targets(month, year))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(month, year)))
	_, _ = w.Write(data)
}
