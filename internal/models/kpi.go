package models

import (
	"fmt"
	"time"
)

// KpiTarget is a monthly sales target for one staff member. Rows for a
// period are replaced wholesale on upsert, never merged row by row.
type KpiTarget struct {
	StaffID      string    `json:"staffId"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	TargetCount  int       `json:"targetCount"`
	TargetAmount float64   `json:"targetAmount"`
	SoldCount    int       `json:"soldCount"`
	SoldAmount   float64   `json:"soldAmount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EntityID is the composite key used by the sync merge.
func (k KpiTarget) EntityID() string {
	return fmt.Sprintf("%s/%04d-%02d", k.StaffID, k.Year, k.Month)
}

// ModifiedAt reports when the row last changed.
func (k KpiTarget) ModifiedAt() time.Time { return k.UpdatedAt }

// SupportBonus is a monthly bonus pool for a support department,
// keyed by bonus month ("2026-08") and department.
type SupportBonus struct {
	BonusMonth string    `json:"bonusMonth"`
	Department string    `json:"department"`
	Amount     float64   `json:"amount"`
	Notes      string    `json:"notes,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EntityID is the composite key used by the sync merge.
func (b SupportBonus) EntityID() string {
	return b.BonusMonth + "/" + b.Department
}

// ModifiedAt reports when the row last changed.
func (b SupportBonus) ModifiedAt() time.Time { return b.UpdatedAt }
