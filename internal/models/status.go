package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when a status change is not allowed
// by the vehicle lifecycle.
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

// allowedTransitions is the vehicle lifecycle. SOLD is terminal and
// DEPOSITED <-> BANK_DEPOSITED is forbidden in both directions.
var allowedTransitions = map[VehicleStatus][]VehicleStatus{
	StatusInStock:       {StatusDeposited, StatusBankDeposited, StatusSold},
	StatusDeposited:     {StatusSold, StatusInStock},
	StatusBankDeposited: {StatusOffset, StatusInStock},
	StatusOffset:        {StatusSold},
	StatusSold:          {},
}

// CanChangeStatus reports whether the lifecycle permits moving from one
// status to another. A no-op transition (from == to) is not a change and
// is rejected.
func CanChangeStatus(from, to VehicleStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// inferredPaymentType maps a transition to the payment it implies, if any.
func inferredPaymentType(from, to VehicleStatus) (PaymentType, bool) {
	switch {
	case to == StatusDeposited:
		return PaymentDeposit, true
	case to == StatusBankDeposited:
		return PaymentBankDeposit, true
	case from == StatusBankDeposited && to == StatusOffset:
		return PaymentOffset, true
	case to == StatusSold:
		return PaymentFull, true
	}
	return "", false
}

// ChangeStatus moves the vehicle to a new lifecycle status. It appends a
// StatusHistory record and, when the transition implies money changed
// hands, a synthesized PaymentInfo. Reaching SOLD settles the remaining
// debt with a FULL_PAYMENT entry; reverting to IN_STOCK discards all
// recorded payments. Derived fields are recomputed before returning.
func ChangeStatus(v *Vehicle, to VehicleStatus, amount float64, changedBy string, now time.Time) error {
	from := v.Status
	if !CanChangeStatus(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	v.StatusHistory = append(v.StatusHistory, StatusHistory{
		FromStatus: from,
		ToStatus:   to,
		ChangedAt:  now,
		ChangedBy:  changedBy,
	})

	switch to {
	case StatusInStock:
		// Reverting to stock cancels the pending sale entirely.
		v.Payments = nil
		v.ExportDate = nil
	case StatusSold:
		remaining := CalculateDebt(v.SellPrice, v.Payments)
		if remaining > 0 {
			v.Payments = append(v.Payments, PaymentInfo{
				ID:     uuid.NewString(),
				Type:   PaymentFull,
				Amount: remaining,
				Date:   now,
			})
		}
		exported := now
		v.ExportDate = &exported
	default:
		if pt, ok := inferredPaymentType(from, to); ok && amount > 0 {
			v.Payments = append(v.Payments, PaymentInfo{
				ID:     uuid.NewString(),
				Type:   pt,
				Amount: amount,
				Date:   now,
			})
		}
	}

	v.Status = to
	v.UpdatedAt = now
	Recalculate(v, now)
	return nil
}
