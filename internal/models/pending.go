package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind enumerates the closed set of queueable mutations.
type ActionKind string

const (
	ActionVehicleAdd    ActionKind = "vehicle_add"
	ActionVehicleUpdate ActionKind = "vehicle_update"
	ActionVehicleDelete ActionKind = "vehicle_delete"
	ActionStaffAdd      ActionKind = "staff_add"
	ActionStaffUpdate   ActionKind = "staff_update"
	ActionStaffDelete   ActionKind = "staff_delete"
	ActionKpiUpdate     ActionKind = "kpi_update"
	ActionBonusUpdate   ActionKind = "bonus_update"
)

// PendingAction is one queued mutation awaiting replay against the remote
// store. Exactly one payload field is set, matching Kind. ID is a UUID
// idempotency key assigned at enqueue time so that an at-least-once replay
// stays safe; Timestamp is the enqueue time.
type PendingAction struct {
	ID        string     `json:"id"`
	Kind      ActionKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`

	Vehicle  *Vehicle       `json:"vehicle,omitempty"`
	Staff    *Staff         `json:"staff,omitempty"`
	Kpis     []KpiTarget    `json:"kpis,omitempty"`
	Bonuses  []SupportBonus `json:"bonuses,omitempty"`
	EntityID string         `json:"entityId,omitempty"`

	// KpiMonth/KpiYear scope a kpi_update; BonusMonth scopes a bonus_update.
	KpiMonth   int    `json:"kpiMonth,omitempty"`
	KpiYear    int    `json:"kpiYear,omitempty"`
	BonusMonth string `json:"bonusMonth,omitempty"`
}

func newAction(kind ActionKind) PendingAction {
	return PendingAction{ID: uuid.NewString(), Kind: kind, Timestamp: time.Now()}
}

// VehicleAction builds a vehicle_add or vehicle_update action.
func VehicleAction(kind ActionKind, v Vehicle) PendingAction {
	a := newAction(kind)
	a.Vehicle = &v
	a.EntityID = v.ID
	return a
}

// VehicleDeleteAction builds a vehicle_delete action.
func VehicleDeleteAction(id string) PendingAction {
	a := newAction(ActionVehicleDelete)
	a.EntityID = id
	return a
}

// StaffAction builds a staff_add or staff_update action.
func StaffAction(kind ActionKind, s Staff) PendingAction {
	a := newAction(kind)
	a.Staff = &s
	a.EntityID = s.ID
	return a
}

// StaffDeleteAction builds a staff_delete action.
func StaffDeleteAction(id string) PendingAction {
	a := newAction(ActionStaffDelete)
	a.EntityID = id
	return a
}

// KpiUpdateAction builds a kpi_update action replacing all targets for the
// given period.
func KpiUpdateAction(month, year int, rows []KpiTarget) PendingAction {
	a := newAction(ActionKpiUpdate)
	a.Kpis = rows
	a.KpiMonth = month
	a.KpiYear = year
	return a
}

// BonusUpdateAction builds a bonus_update action replacing all bonuses for
// the given bonus month.
func BonusUpdateAction(bonusMonth string, rows []SupportBonus) PendingAction {
	a := newAction(ActionBonusUpdate)
	a.Bonuses = rows
	a.BonusMonth = bonusMonth
	return a
}
