// Package models defines the core data structures of the dealership
// back office: vehicles, staff, KPI targets, support bonuses, users and
// the pending-action log entries exchanged with the remote store.
package models

import "time"

// VehicleStatus is a state in the vehicle lifecycle.
type VehicleStatus string

const (
	// StatusInStock means the vehicle is on the lot and available.
	StatusInStock VehicleStatus = "IN_STOCK"
	// StatusDeposited means a customer placed a cash deposit.
	StatusDeposited VehicleStatus = "DEPOSITED"
	// StatusBankDeposited means a bank placed a financing deposit.
	StatusBankDeposited VehicleStatus = "BANK_DEPOSITED"
	// StatusOffset means the bank financing has been offset against the price.
	StatusOffset VehicleStatus = "OFFSET"
	// StatusSold is terminal; the sale is finalized.
	StatusSold VehicleStatus = "SOLD"
)

// PaymentType classifies a payment recorded against a vehicle.
type PaymentType string

const (
	PaymentDeposit     PaymentType = "DEPOSIT"
	PaymentBankDeposit PaymentType = "BANK_DEPOSIT"
	PaymentOffset      PaymentType = "OFFSET"
	PaymentFull        PaymentType = "FULL_PAYMENT"
)

// PaymentInfo is a single payment received for a vehicle.
type PaymentInfo struct {
	ID     string      `json:"id"`
	Type   PaymentType `json:"type"`
	Amount float64     `json:"amount"`
	Date   time.Time   `json:"date"`
	Notes  string      `json:"notes,omitempty"`
}

// CostInfo is an expense booked against a vehicle (repair, transport, ...).
type CostInfo struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// StatusHistory records one lifecycle transition of a vehicle.
type StatusHistory struct {
	FromStatus VehicleStatus `json:"fromStatus"`
	ToStatus   VehicleStatus `json:"toStatus"`
	ChangedAt  time.Time     `json:"changedAt"`
	ChangedBy  string        `json:"changedBy,omitempty"`
}

// Vehicle is a unit of inventory. Debt, Profit and StorageDays are derived
// and must be recomputed from the other fields whenever they change; stored
// values are never trusted.
type Vehicle struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Color           string          `json:"color,omitempty"`
	ManufactureYear int             `json:"manufactureYear,omitempty"`
	Odo             int             `json:"odo,omitempty"`
	PurchasePrice   float64         `json:"purchasePrice"`
	SellPrice       float64         `json:"sellPrice"`
	ImportDate      time.Time       `json:"importDate"`
	ExportDate      *time.Time      `json:"exportDate,omitempty"`
	Status          VehicleStatus   `json:"status"`
	SaleStaffID     string          `json:"saleStaffId,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Costs           []CostInfo      `json:"costs"`
	Payments        []PaymentInfo   `json:"payments"`
	StatusHistory   []StatusHistory `json:"statusHistory"`
	Debt            float64         `json:"debt"`
	Profit          float64         `json:"profit"`
	StorageDays     int             `json:"storageDays"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// EntityID implements the identity used by the sync merge.
func (v Vehicle) EntityID() string { return v.ID }

// ModifiedAt reports when the row last changed, for last-write-wins guards.
func (v Vehicle) ModifiedAt() time.Time { return v.UpdatedAt }
