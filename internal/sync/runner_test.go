package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
	"github.com/hoaivu016/abc-backoffice/internal/store"
)

type fakeRemote struct {
	applied []string

	upsertVehicleErr error
	deleteStaffErr   error

	vehicles []models.Vehicle
	staff    []models.Staff
	kpis     []models.KpiTarget
	bonuses  []models.SupportBonus
	fetchErr error
}

func (f *fakeRemote) UpsertVehicle(_ context.Context, v models.Vehicle) error {
	if f.upsertVehicleErr != nil {
		return f.upsertVehicleErr
	}
	f.applied = append(f.applied, "vehicle:"+v.ID+":"+v.Name)
	return nil
}

func (f *fakeRemote) DeleteVehicle(_ context.Context, id string) error {
	f.applied = append(f.applied, "vehicle_delete:"+id)
	return nil
}

func (f *fakeRemote) UpsertStaff(_ context.Context, s models.Staff) error {
	f.applied = append(f.applied, "staff:"+s.ID)
	return nil
}

func (f *fakeRemote) DeleteStaff(_ context.Context, id string) error {
	if f.deleteStaffErr != nil {
		return f.deleteStaffErr
	}
	f.applied = append(f.applied, "staff_delete:"+id)
	return nil
}

func (f *fakeRemote) ReplaceKpiTargets(_ context.Context, month, year int, _ []models.KpiTarget) error {
	f.applied = append(f.applied, fmt.Sprintf("kpi:%d-%d", month, year))
	return nil
}

func (f *fakeRemote) ReplaceSupportBonuses(_ context.Context, bonusMonth string, _ []models.SupportBonus) error {
	f.applied = append(f.applied, "bonus:"+bonusMonth)
	return nil
}

func (f *fakeRemote) Vehicles(context.Context) ([]models.Vehicle, error) {
	return f.vehicles, f.fetchErr
}
func (f *fakeRemote) StaffList(context.Context) ([]models.Staff, error) {
	return f.staff, f.fetchErr
}
func (f *fakeRemote) KpiTargets(context.Context) ([]models.KpiTarget, error) {
	return f.kpis, f.fetchErr
}
func (f *fakeRemote) SupportBonuses(context.Context) ([]models.SupportBonus, error) {
	return f.bonuses, f.fetchErr
}

func newTestSyncer(t *testing.T, r Remote) (*Syncer, *store.Store, *store.Queue) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	q, err := store.OpenQueue(dir)
	if err != nil {
		t.Fatal(err)
	}
	return NewSyncer(st, q, r, "test-device", zap.NewNop()), st, q
}

func TestFlush_ReplaysInEnqueueOrder(t *testing.T) {
	fr := &fakeRemote{}
	s, _, q := newTestSyncer(t, fr)

	for _, name := range []string{"first", "second", "third"} {
		a := models.VehicleAction(models.ActionVehicleUpdate, models.Vehicle{ID: "0601-01", Name: name})
		if err := q.Enqueue(a); err != nil {
			t.Fatal(err)
		}
	}

	delivered, failed, err := s.Flush(context.Background())
	if err != nil || delivered != 3 || failed != 0 {
		t.Fatalf("delivered=%d failed=%d err=%v; want 3, 0, nil", delivered, failed, err)
	}
	want := []string{
		"vehicle:0601-01:first",
		"vehicle:0601-01:second",
		"vehicle:0601-01:third",
	}
	for i, w := range want {
		if fr.applied[i] != w {
			t.Fatalf("applied = %v; want %v", fr.applied, want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("queue length = %d after full delivery; want 0", q.Len())
	}
}

func TestFlush_RetainsFailedEntries(t *testing.T) {
	fr := &fakeRemote{upsertVehicleErr: errors.New("network down")}
	s, _, q := newTestSyncer(t, fr)

	failing := models.VehicleAction(models.ActionVehicleAdd, models.Vehicle{ID: "0601-01"})
	passing := models.StaffAction(models.ActionStaffAdd, models.Staff{ID: "NVA-01"})
	_ = q.Enqueue(failing)
	_ = q.Enqueue(passing)

	delivered, failed, err := s.Flush(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if delivered != 1 || failed != 1 {
		t.Errorf("delivered=%d failed=%d; want 1 and 1", delivered, failed)
	}

	left := q.Drain()
	if len(left) != 1 || left[0].ID != failing.ID {
		t.Errorf("remaining = %+v; failed entry must stay for the next cycle", left)
	}
}

func TestFlush_DropsUnreplayableStaffDelete(t *testing.T) {
	fr := &fakeRemote{deleteStaffErr: fmt.Errorf("delete staff: %w", remote.ErrStaffReferenced)}
	s, _, q := newTestSyncer(t, fr)
	_ = q.Enqueue(models.StaffDeleteAction("NVA-01"))

	delivered, failed, err := s.Flush(context.Background())
	if !errors.Is(err, remote.ErrStaffReferenced) {
		t.Fatalf("err = %v; want ErrStaffReferenced surfaced", err)
	}
	if delivered != 1 || failed != 0 {
		t.Errorf("delivered=%d failed=%d; poison entry must be dropped", delivered, failed)
	}
	if q.Len() != 0 {
		t.Errorf("queue length = %d; want 0, retrying can never succeed", q.Len())
	}
}

func TestSynchronize_MergesWithLocalPrecedence(t *testing.T) {
	fr := &fakeRemote{
		vehicles: []models.Vehicle{
			{ID: "0601-01", Name: "remote version"},
			{ID: "0601-02", Name: "remote only"},
		},
	}
	s, st, _ := newTestSyncer(t, fr)
	if err := st.UpsertVehicle(models.Vehicle{ID: "0601-01", Name: "local edit"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Synchronize(context.Background()); err != nil {
		t.Fatal(err)
	}

	byID := map[string]string{}
	for _, v := range st.Vehicles() {
		byID[v.ID] = v.Name
	}
	if byID["0601-01"] != "local edit" {
		t.Errorf("local edit lost: %v", byID)
	}
	if byID["0601-02"] != "remote only" {
		t.Errorf("remote-only vehicle not appended: %v", byID)
	}
	if st.LastSyncDevice() != "test-device" {
		t.Errorf("lastSyncDevice = %q; want test-device", st.LastSyncDevice())
	}
	if logs := st.SyncLogs(); len(logs) != 1 {
		t.Errorf("sync log entries = %d; want 1", len(logs))
	}
}

func TestSynchronize_FetchFailureKeepsCache(t *testing.T) {
	fr := &fakeRemote{fetchErr: errors.New("timeout")}
	s, st, _ := newTestSyncer(t, fr)
	if err := st.UpsertVehicle(models.Vehicle{ID: "0601-01", Name: "cached"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Synchronize(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if vs := st.Vehicles(); len(vs) != 1 || vs[0].Name != "cached" {
		t.Errorf("cache mutated on failed fetch: %+v", vs)
	}
}
