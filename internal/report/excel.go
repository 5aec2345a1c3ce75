// Package report builds the monthly back-office report as an Excel
// workbook: vehicles sold in the month plus KPI attainment per sales
// staff.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hoaivu016/abc-backoffice/internal/models"
)

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

// Monthly renders the report for (month, year) from the given data.
func Monthly(month, year int, vehicles []models.Vehicle, staff []models.Staff, targets []models.KpiTarget) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Monthly report"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"ID", "Vehicle", "Status", "Purchase", "Sell", "Costs", "Debt", "Profit", "Days on lot", "Sold by"}
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	staffNames := make(map[string]string, len(staff))
	for _, m := range staff {
		staffNames[m.ID] = m.Name
	}

	row := 2
	for _, v := range vehicles {
		if !inMonth(v, month, year) {
			continue
		}
		var costs float64
		for _, c := range v.Costs {
			costs += c.Amount
		}
		f.SetCellValue(sheet, cellName(1, row), v.ID)
		f.SetCellValue(sheet, cellName(2, row), v.Name)
		f.SetCellValue(sheet, cellName(3, row), string(v.Status))
		f.SetCellValue(sheet, cellName(4, row), v.PurchasePrice)
		f.SetCellValue(sheet, cellName(5, row), v.SellPrice)
		f.SetCellValue(sheet, cellName(6, row), costs)
		f.SetCellValue(sheet, cellName(7, row), v.Debt)
		f.SetCellValue(sheet, cellName(8, row), v.Profit)
		f.SetCellValue(sheet, cellName(9, row), v.StorageDays)
		if name, ok := staffNames[v.SaleStaffID]; ok {
			f.SetCellValue(sheet, cellName(10, row), name)
		}
		row++
	}

	kpiSheet := "KPI"
	if _, err := f.NewSheet(kpiSheet); err != nil {
		return nil, fmt.Errorf("create kpi sheet: %w", err)
	}
	kpiHeaders := []string{"Staff", "Target count", "Sold count", "Target amount", "Sold amount", "Attainment"}
	for i, name := range kpiHeaders {
		f.SetCellValue(kpiSheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(kpiSheet, "A1", cellName(len(kpiHeaders), 1), headerStyle)

	sold := soldByStaff(vehicles, month, year)
	row = 2
	for _, k := range targets {
		if k.Month != month || k.Year != year {
			continue
		}
		name := staffNames[k.StaffID]
		if name == "" {
			name = k.StaffID
		}
		s := sold[k.StaffID]
		f.SetCellValue(kpiSheet, cellName(1, row), name)
		f.SetCellValue(kpiSheet, cellName(2, row), k.TargetCount)
		f.SetCellValue(kpiSheet, cellName(3, row), s.count)
		f.SetCellValue(kpiSheet, cellName(4, row), k.TargetAmount)
		f.SetCellValue(kpiSheet, cellName(5, row), s.amount)
		if k.TargetCount > 0 {
			f.SetCellValue(kpiSheet, cellName(6, row), fmt.Sprintf("%.0f%%", float64(s.count)/float64(k.TargetCount)*100))
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// inMonth keeps vehicles sold in the period, plus unsold stock.
func inMonth(v models.Vehicle, month, year int) bool {
	if v.Status != models.StatusSold {
		return true
	}
	if v.ExportDate == nil {
		return false
	}
	return int(v.ExportDate.Month()) == month && v.ExportDate.Year() == year
}

type soldStats struct {
	count  int
	amount float64
}

func soldByStaff(vehicles []models.Vehicle, month, year int) map[string]soldStats {
	out := make(map[string]soldStats)
	for _, v := range vehicles {
		if v.Status != models.StatusSold || v.ExportDate == nil {
			continue
		}
		if int(v.ExportDate.Month()) != month || v.ExportDate.Year() != year {
			continue
		}
		s := out[v.SaleStaffID]
		s.count++
		s.amount += v.SellPrice
		out[v.SaleStaffID] = s
	}
	return out
}

// FileName is the suggested download name for the report.
func FileName(month, year int) string {
	return fmt.Sprintf("report-%04d-%02d.xlsx", year, month)
}
