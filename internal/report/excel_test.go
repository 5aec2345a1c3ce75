package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hoaivu016/abc-backoffice/internal/models"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestMonthly_VehicleAndKpiSheets(t *testing.T) {
	exported := date(2025, 6, 20)
	vehicles := []models.Vehicle{
		{
			ID: "0601-01", Name: "Toyota Vios", Status: models.StatusSold,
			PurchasePrice: 300, SellPrice: 400, SaleStaffID: "NVA-01",
			ExportDate: &exported, Profit: 100,
		},
		{
			ID: "0610-01", Name: "Honda City", Status: models.StatusInStock,
			PurchasePrice: 350, SellPrice: 420,
		},
	}
	staff := []models.Staff{{ID: "NVA-01", Name: "Nguyen Van An"}}
	targets := []models.KpiTarget{
		{StaffID: "NVA-01", Month: 6, Year: 2025, TargetCount: 2, TargetAmount: 800},
	}

	data, err := Monthly(6, 2025, vehicles, staff, targets)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Monthly report", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Toyota Vios" {
		t.Errorf("B2 = %q; want Toyota Vios", got)
	}
	soldBy, _ := f.GetCellValue("Monthly report", "J2")
	if soldBy != "Nguyen Van An" {
		t.Errorf("J2 = %q; want staff name resolved", soldBy)
	}

	attainment, _ := f.GetCellValue("KPI", "F2")
	if attainment != "50%" {
		t.Errorf("attainment = %q; want 50%%", attainment)
	}
}

func TestMonthly_SoldOutsidePeriodExcluded(t *testing.T) {
	exported := date(2025, 5, 2)
	vehicles := []models.Vehicle{
		{ID: "0502-01", Name: "Old Sale", Status: models.StatusSold, ExportDate: &exported},
	}

	data, err := Monthly(6, 2025, vehicles, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("Monthly report", "A2")
	if got != "" {
		t.Errorf("A2 = %q; want empty, sale from another month excluded", got)
	}
}
