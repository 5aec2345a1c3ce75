package models

import "time"

// CalculateDebt returns the outstanding balance on a vehicle: sell price
// minus all recorded payments, floored at zero.
func CalculateDebt(sellPrice float64, payments []PaymentInfo) float64 {
	paid := 0.0
	for _, p := range payments {
		paid += p.Amount
	}
	debt := sellPrice - paid
	if debt < 0 {
		return 0
	}
	return debt
}

// CalculateProfit returns sell price minus purchase price and all costs.
func CalculateProfit(v *Vehicle) float64 {
	total := 0.0
	for _, c := range v.Costs {
		total += c.Amount
	}
	return v.SellPrice - v.PurchasePrice - total
}

// StorageDays returns whole days between import and export. An unsold
// vehicle counts up to now.
func StorageDays(importDate time.Time, exportDate *time.Time, now time.Time) int {
	end := now
	if exportDate != nil {
		end = *exportDate
	}
	if end.Before(importDate) {
		return 0
	}
	return int(end.Sub(importDate).Hours() / 24)
}

// Recalculate refreshes every derived field on the vehicle. Sold vehicles
// and vehicles returned to stock carry no debt regardless of payment
// history.
func Recalculate(v *Vehicle, now time.Time) {
	switch v.Status {
	case StatusSold, StatusInStock:
		v.Debt = 0
	default:
		v.Debt = CalculateDebt(v.SellPrice, v.Payments)
	}
	v.Profit = CalculateProfit(v)
	v.StorageDays = StorageDays(v.ImportDate, v.ExportDate, now)
}
