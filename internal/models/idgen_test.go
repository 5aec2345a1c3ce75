package models

import (
	"testing"
	"time"
)

func TestNextVehicleID_SameDaySequence(t *testing.T) {
	june1 := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	existing := []Vehicle{{ID: "0601-01"}, {ID: "0601-02"}}

	if got := NextVehicleID(existing, june1); got != "0601-03" {
		t.Errorf("NextVehicleID = %q; want \"0601-03\"", got)
	}
}

func TestNextVehicleID_FreshDay(t *testing.T) {
	june2 := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)
	existing := []Vehicle{{ID: "0601-01"}, {ID: "0601-07"}}

	if got := NextVehicleID(existing, june2); got != "0602-01" {
		t.Errorf("NextVehicleID = %q; want \"0602-01\"", got)
	}
}

func TestNextVehicleID_IgnoresMalformedIDs(t *testing.T) {
	june1 := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	existing := []Vehicle{{ID: "0601-xx"}, {ID: "legacy-9"}, {ID: "0601-04"}}

	if got := NextVehicleID(existing, june1); got != "0601-05" {
		t.Errorf("NextVehicleID = %q; want \"0601-05\"", got)
	}
}

func TestNextStaffID(t *testing.T) {
	existing := []Staff{{ID: "NVA-01"}, {ID: "NVA-02"}, {ID: "TTB-01"}}

	if got := NextStaffID("Nguyen Van An", existing); got != "NVA-03" {
		t.Errorf("NextStaffID = %q; want \"NVA-03\"", got)
	}
	if got := NextStaffID("Tran Thi Bich", existing); got != "TTB-02" {
		t.Errorf("NextStaffID = %q; want \"TTB-02\"", got)
	}
	if got := NextStaffID("Le Minh", existing); got != "LM-01" {
		t.Errorf("NextStaffID = %q; want \"LM-01\"", got)
	}
}
