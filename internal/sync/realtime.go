package sync

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
	"github.com/hoaivu016/abc-backoffice/internal/store"
)

// Row payloads on the push channel carry the raw table row, snake_case
// like everything at the remote boundary.
type vehicleRow struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Color           string          `json:"color"`
	ManufactureYear int             `json:"manufacture_year"`
	Odo             int             `json:"odo"`
	PurchasePrice   float64         `json:"purchase_price"`
	SellPrice       float64         `json:"sell_price"`
	ImportDate      time.Time       `json:"import_date"`
	ExportDate      *time.Time      `json:"export_date"`
	Status          string          `json:"status"`
	SaleStaffID     *string         `json:"sale_staff_id"`
	Notes           string          `json:"notes"`
	StatusHistory   json.RawMessage `json:"status_history"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type staffRow struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Team      string     `json:"team"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	JoinDate  time.Time  `json:"join_date"`
	LeaveDate *time.Time `json:"leave_date"`
	Status    string     `json:"status"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type kpiRow struct {
	StaffID      string    `json:"staff_id"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	TargetCount  int       `json:"target_count"`
	TargetAmount float64   `json:"target_amount"`
	SoldCount    int       `json:"sold_count"`
	SoldAmount   float64   `json:"sold_amount"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Applier feeds realtime row changes into the local store. Every change
// passes the NewerWins guard against the local row's timestamp, so the
// push path and the poll-based merge cannot fight over stale data.
type Applier struct {
	store *store.Store
	log   *zap.Logger
}

// NewApplier constructs an Applier.
func NewApplier(st *store.Store, log *zap.Logger) *Applier {
	return &Applier{store: st, log: log}
}

// Handle applies one change event. Malformed events are logged and
// dropped; the next poll cycle reconciles anything missed.
func (a *Applier) Handle(ev remote.ChangeEvent) {
	var err error
	switch ev.Table {
	case "vehicles":
		err = a.applyVehicle(ev)
	case "staff":
		err = a.applyStaff(ev)
	case "kpi_targets":
		err = a.applyKpi(ev)
	default:
		a.log.Debug("ignoring realtime event for unknown table", zap.String("table", ev.Table))
		return
	}
	if err != nil {
		a.log.Warn("failed to apply realtime event",
			zap.String("table", ev.Table), zap.String("op", ev.Op), zap.Error(err))
	}
}

func (a *Applier) applyVehicle(ev remote.ChangeEvent) error {
	var row vehicleRow
	if err := json.Unmarshal(ev.Row, &row); err != nil {
		return err
	}

	if ev.Op == "DELETE" {
		_, err := a.store.RemoveVehicle(row.ID)
		return err
	}

	local, exists := a.store.Vehicle(row.ID)
	if exists && !NewerWins(local.UpdatedAt, row.UpdatedAt) {
		return nil
	}

	v := models.Vehicle{
		ID:              row.ID,
		Name:            row.Name,
		Color:           row.Color,
		ManufactureYear: row.ManufactureYear,
		Odo:             row.Odo,
		PurchasePrice:   row.PurchasePrice,
		SellPrice:       row.SellPrice,
		ImportDate:      row.ImportDate,
		ExportDate:      row.ExportDate,
		Status:          models.VehicleStatus(row.Status),
		Notes:           row.Notes,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.SaleStaffID != nil {
		v.SaleStaffID = *row.SaleStaffID
	}
	if len(row.StatusHistory) > 0 {
		if err := json.Unmarshal(row.StatusHistory, &v.StatusHistory); err != nil {
			return err
		}
	}
	// The row event carries no nested cost/payment rows; keep the local
	// ones rather than dropping them.
	if exists {
		v.Costs = local.Costs
		v.Payments = local.Payments
	}
	models.Recalculate(&v, time.Now())
	return a.store.UpsertVehicle(v)
}

func (a *Applier) applyStaff(ev remote.ChangeEvent) error {
	var row staffRow
	if err := json.Unmarshal(ev.Row, &row); err != nil {
		return err
	}

	if ev.Op == "DELETE" {
		_, err := a.store.RemoveStaff(row.ID)
		return err
	}

	if local, exists := a.store.StaffByID(row.ID); exists && !NewerWins(local.UpdatedAt, row.UpdatedAt) {
		return nil
	}

	return a.store.UpsertStaff(models.Staff{
		ID:        row.ID,
		Name:      row.Name,
		Team:      row.Team,
		Role:      row.Role,
		Phone:     row.Phone,
		Email:     row.Email,
		JoinDate:  row.JoinDate,
		LeaveDate: row.LeaveDate,
		Status:    models.StaffStatus(row.Status),
		UpdatedAt: row.UpdatedAt,
	})
}

func (a *Applier) applyKpi(ev remote.ChangeEvent) error {
	var row kpiRow
	if err := json.Unmarshal(ev.Row, &row); err != nil {
		return err
	}

	target := models.KpiTarget{
		StaffID:      row.StaffID,
		Month:        row.Month,
		Year:         row.Year,
		TargetCount:  row.TargetCount,
		TargetAmount: row.TargetAmount,
		SoldCount:    row.SoldCount,
		SoldAmount:   row.SoldAmount,
		UpdatedAt:    row.UpdatedAt,
	}

	kpis := a.store.Kpis()
	out := kpis[:0]
	replaced := false
	for _, k := range kpis {
		if k.EntityID() != target.EntityID() {
			out = append(out, k)
			continue
		}
		replaced = true
		if ev.Op == "DELETE" {
			continue
		}
		if NewerWins(k.UpdatedAt, target.UpdatedAt) {
			out = append(out, target)
		} else {
			out = append(out, k)
		}
	}
	if !replaced && ev.Op != "DELETE" {
		out = append(out, target)
	}
	return a.store.SetKpis(out)
}
