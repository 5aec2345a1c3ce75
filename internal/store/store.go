// Package store is the local side of the back office: a mutex-guarded
// in-memory copy of every collection, persisted as one JSON file per
// storage key. Writes land here first and reach the remote store later
// (immediately when online, via the pending queue otherwise). Saves
// rewrite the whole file; the last writer wins at the storage layer.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hoaivu016/abc-backoffice/internal/models"
)

// Storage keys. Each maps to <dir>/<key>.json.
const (
	KeyVehicles           = "vehicles"
	KeyStaffList          = "staffList"
	KeyKpis               = "kpis"
	KeySupportBonuses     = "supportBonuses"
	KeyPendingSync        = "pendingSync"
	KeyVehiclesBeforeSync = "vehicles_before_sync"
	KeyStaffBeforeSync    = "staff_before_sync"
	KeyLastSyncDevice     = "lastSyncDevice"
	KeySyncLogs           = "sync_logs"
)

// SyncLogEntry records the outcome of one synchronization cycle.
type SyncLogEntry struct {
	Time      time.Time `json:"time"`
	Device    string    `json:"device"`
	Drained   int       `json:"drained"`
	Delivered int       `json:"delivered"`
	Failed    int       `json:"failed"`
	Message   string    `json:"message,omitempty"`
}

// Store holds the local copies of all collections.
type Store struct {
	mu  sync.Mutex
	dir string

	vehicles []models.Vehicle
	staff    []models.Staff
	kpis     []models.KpiTarget
	bonuses  []models.SupportBonus
	device   string
	logs     []SyncLogEntry
}

// Open loads every collection from dir, creating it if needed. Missing
// files are treated as empty collections, same as a first run.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir}
	for _, part := range []struct {
		key string
		dst any
	}{
		{KeyVehicles, &s.vehicles},
		{KeyStaffList, &s.staff},
		{KeyKpis, &s.kpis},
		{KeySupportBonuses, &s.bonuses},
		{KeyLastSyncDevice, &s.device},
		{KeySyncLogs, &s.logs},
	} {
		if err := s.load(part.key, part.dst); err != nil {
			return nil, fmt.Errorf("load %s: %w", part.key, err)
		}
	}
	return s, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) load(key string, dst any) error {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(dst)
}

// save must be called with s.mu held.
func (s *Store) save(key string, src any) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(src)
}

// Vehicles returns a copy of the local vehicle list.
func (s *Store) Vehicles() []models.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}

// SetVehicles replaces the local vehicle list and persists it.
func (s *Store) SetVehicles(vs []models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = vs
	return s.save(KeyVehicles, s.vehicles)
}

// UpsertVehicle inserts or replaces one vehicle by id and persists.
func (s *Store) UpsertVehicle(v models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID == v.ID {
			s.vehicles[i] = v
			return s.save(KeyVehicles, s.vehicles)
		}
	}
	s.vehicles = append(s.vehicles, v)
	return s.save(KeyVehicles, s.vehicles)
}

// RemoveVehicle deletes one vehicle by id and persists. It reports
// whether the vehicle was present.
func (s *Store) RemoveVehicle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			s.vehicles = append(s.vehicles[:i], s.vehicles[i+1:]...)
			return true, s.save(KeyVehicles, s.vehicles)
		}
	}
	return false, nil
}

// Vehicle returns a copy of one vehicle by id.
func (s *Store) Vehicle(id string) (models.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// Staff returns a copy of the local staff list.
func (s *Store) Staff() []models.Staff {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Staff, len(s.staff))
	copy(out, s.staff)
	return out
}

// SetStaff replaces the local staff list and persists it.
func (s *Store) SetStaff(list []models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = list
	return s.save(KeyStaffList, s.staff)
}

// UpsertStaff inserts or replaces one staff member by id and persists.
func (s *Store) UpsertStaff(m models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == m.ID {
			s.staff[i] = m
			return s.save(KeyStaffList, s.staff)
		}
	}
	s.staff = append(s.staff, m)
	return s.save(KeyStaffList, s.staff)
}

// RemoveStaff deletes one staff member by id and persists.
func (s *Store) RemoveStaff(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == id {
			s.staff = append(s.staff[:i], s.staff[i+1:]...)
			return true, s.save(KeyStaffList, s.staff)
		}
	}
	return false, nil
}

// StaffByID returns a copy of one staff member by id.
func (s *Store) StaffByID(id string) (models.Staff, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.staff {
		if m.ID == id {
			return m, true
		}
	}
	return models.Staff{}, false
}

// Kpis returns a copy of the local KPI target list.
func (s *Store) Kpis() []models.KpiTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.KpiTarget, len(s.kpis))
	copy(out, s.kpis)
	return out
}

// SetKpis replaces the local KPI target list and persists it.
func (s *Store) SetKpis(rows []models.KpiTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kpis = rows
	return s.save(KeyKpis, s.kpis)
}

// ReplaceKpiPeriod drops every target for (month, year) and installs the
// given rows instead, mirroring the destructive-replace semantics of the
// remote store.
func (s *Store) ReplaceKpiPeriod(month, year int, rows []models.KpiTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.kpis[:0]
	for _, k := range s.kpis {
		if k.Month != month || k.Year != year {
			kept = append(kept, k)
		}
	}
	s.kpis = append(kept, rows...)
	return s.save(KeyKpis, s.kpis)
}

// Bonuses returns a copy of the local support bonus list.
func (s *Store) Bonuses() []models.SupportBonus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SupportBonus, len(s.bonuses))
	copy(out, s.bonuses)
	return out
}

// SetBonuses replaces the local support bonus list and persists it.
func (s *Store) SetBonuses(rows []models.SupportBonus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bonuses = rows
	return s.save(KeySupportBonuses, s.bonuses)
}

// ReplaceBonusMonth drops every bonus for the month and installs the given
// rows instead.
func (s *Store) ReplaceBonusMonth(bonusMonth string, rows []models.SupportBonus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.bonuses[:0]
	for _, b := range s.bonuses {
		if b.BonusMonth != bonusMonth {
			kept = append(kept, b)
		}
	}
	s.bonuses = append(kept, rows...)
	return s.save(KeySupportBonuses, s.bonuses)
}

// SnapshotBeforeSync writes the current vehicle and staff lists to the
// *_before_sync keys so a bad merge can be inspected or recovered.
func (s *Store) SnapshotBeforeSync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(KeyVehiclesBeforeSync, s.vehicles); err != nil {
		return err
	}
	return s.save(KeyStaffBeforeSync, s.staff)
}

// SetLastSyncDevice records which device ran the last sync cycle.
func (s *Store) SetLastSyncDevice(device string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = device
	return s.save(KeyLastSyncDevice, s.device)
}

// LastSyncDevice returns the device that ran the last sync cycle.
func (s *Store) LastSyncDevice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device
}

// AppendSyncLog appends one sync cycle record and persists the log.
func (s *Store) AppendSyncLog(e SyncLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, e)
	return s.save(KeySyncLogs, s.logs)
}

// SyncLogs returns a copy of the sync log.
func (s *Store) SyncLogs() []SyncLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SyncLogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// PruneSyncLogs drops log entries older than cutoff and reports how many
// were removed.
func (s *Store) PruneSyncLogs(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.logs[:0]
	for _, e := range s.logs {
		if !e.Time.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(s.logs) - len(kept)
	s.logs = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(KeySyncLogs, s.logs)
}
