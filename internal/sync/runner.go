package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
	"github.com/hoaivu016/abc-backoffice/internal/store"
)

// Remote is the subset of the remote store the syncer needs.
type Remote interface {
	UpsertVehicle(ctx context.Context, v models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
	UpsertStaff(ctx context.Context, s models.Staff) error
	DeleteStaff(ctx context.Context, id string) error
	ReplaceKpiTargets(ctx context.Context, month, year int, targets []models.KpiTarget) error
	ReplaceSupportBonuses(ctx context.Context, bonusMonth string, bonuses []models.SupportBonus) error
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	StaffList(ctx context.Context) ([]models.Staff, error)
	KpiTargets(ctx context.Context) ([]models.KpiTarget, error)
	SupportBonuses(ctx context.Context) ([]models.SupportBonus, error)
}

// Syncer replays the pending-action log and reconciles local collections
// with the remote store.
type Syncer struct {
	store  *store.Store
	queue  *store.Queue
	remote Remote
	device string
	log    *zap.Logger
}

// NewSyncer constructs a Syncer. device identifies this installation in
// the sync log.
func NewSyncer(st *store.Store, q *store.Queue, r Remote, device string, log *zap.Logger) *Syncer {
	return &Syncer{store: st, queue: q, remote: r, device: device, log: log}
}

// Flush replays the pending log against the remote store, strictly in
// enqueue order and one action at a time so two queued writes to the same
// entity cannot race. Delivered entries are removed individually; a
// failed entry stays queued for the next cycle and the pass continues.
// The one exception is a staff delete refused by referential integrity:
// retrying can never succeed, so the entry is dropped and the error
// surfaced. Per-entry errors are aggregated and returned together.
func (s *Syncer) Flush(ctx context.Context) (delivered, failed int, err error) {
	entries := s.queue.Drain()
	if len(entries) == 0 {
		return 0, 0, nil
	}

	var done []string
	var errs error
	for _, e := range entries {
		applyErr := s.apply(ctx, e)
		switch {
		case applyErr == nil:
			done = append(done, e.ID)
		case errors.Is(applyErr, remote.ErrStaffReferenced):
			// Poison entry. Drop it; the following fetch+merge restores
			// the staff member locally from the remote copy.
			done = append(done, e.ID)
			errs = multierr.Append(errs, applyErr)
			s.log.Warn("dropping unreplayable action",
				zap.String("action", e.ID),
				zap.String("kind", string(e.Kind)),
				zap.Error(applyErr))
		default:
			errs = multierr.Append(errs, applyErr)
			s.log.Warn("queued action failed, will retry next cycle",
				zap.String("action", e.ID),
				zap.String("kind", string(e.Kind)),
				zap.Error(applyErr))
		}
	}

	if rmErr := s.queue.Remove(done); rmErr != nil {
		errs = multierr.Append(errs, fmt.Errorf("confirm delivered entries: %w", rmErr))
	}
	return len(done), len(entries) - len(done), errs
}

func (s *Syncer) apply(ctx context.Context, a models.PendingAction) error {
	switch a.Kind {
	case models.ActionVehicleAdd, models.ActionVehicleUpdate:
		if a.Vehicle == nil {
			return fmt.Errorf("action %s has no vehicle payload", a.ID)
		}
		return s.remote.UpsertVehicle(ctx, *a.Vehicle)
	case models.ActionVehicleDelete:
		return s.remote.DeleteVehicle(ctx, a.EntityID)
	case models.ActionStaffAdd, models.ActionStaffUpdate:
		if a.Staff == nil {
			return fmt.Errorf("action %s has no staff payload", a.ID)
		}
		return s.remote.UpsertStaff(ctx, *a.Staff)
	case models.ActionStaffDelete:
		return s.remote.DeleteStaff(ctx, a.EntityID)
	case models.ActionKpiUpdate:
		return s.remote.ReplaceKpiTargets(ctx, a.KpiMonth, a.KpiYear, a.Kpis)
	case models.ActionBonusUpdate:
		return s.remote.ReplaceSupportBonuses(ctx, a.BonusMonth, a.Bonuses)
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

// Synchronize runs one full cycle: flush the queue, fetch all four
// collections, merge each with the local copy and write the result back
// to memory and disk. The pre-merge state is snapshotted first so a bad
// cycle can be inspected.
func (s *Syncer) Synchronize(ctx context.Context) error {
	started := time.Now()
	drained := s.queue.Len()

	delivered, failedCount, flushErr := s.Flush(ctx)

	if err := s.store.SnapshotBeforeSync(); err != nil {
		s.log.Warn("pre-sync snapshot failed", zap.Error(err))
	}

	var (
		vehicles []models.Vehicle
		staff    []models.Staff
		kpis     []models.KpiTarget
		bonuses  []models.SupportBonus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { vehicles, err = s.remote.Vehicles(gctx); return })
	g.Go(func() (err error) { staff, err = s.remote.StaffList(gctx); return })
	g.Go(func() (err error) { kpis, err = s.remote.KpiTargets(gctx); return })
	g.Go(func() (err error) { bonuses, err = s.remote.SupportBonuses(gctx); return })
	if err := g.Wait(); err != nil {
		// Degrade to cached data; the queue keeps local edits safe.
		return multierr.Append(flushErr, fmt.Errorf("fetch remote collections: %w", err))
	}

	now := time.Now()
	mergedVehicles := Merge(s.store.Vehicles(), vehicles)
	for i := range mergedVehicles {
		models.Recalculate(&mergedVehicles[i], now)
	}

	var errs error
	errs = multierr.Append(errs, s.store.SetVehicles(mergedVehicles))
	errs = multierr.Append(errs, s.store.SetStaff(Merge(s.store.Staff(), staff)))
	errs = multierr.Append(errs, s.store.SetKpis(Merge(s.store.Kpis(), kpis)))
	errs = multierr.Append(errs, s.store.SetBonuses(Merge(s.store.Bonuses(), bonuses)))
	errs = multierr.Append(errs, s.store.SetLastSyncDevice(s.device))

	logEntry := store.SyncLogEntry{
		Time:      started,
		Device:    s.device,
		Drained:   drained,
		Delivered: delivered,
		Failed:    failedCount,
	}
	if flushErr != nil {
		logEntry.Message = flushErr.Error()
	}
	errs = multierr.Append(errs, s.store.AppendSyncLog(logEntry))

	s.log.Info("sync cycle finished",
		zap.Int("drained", drained),
		zap.Int("delivered", delivered),
		zap.Int("failed", failedCount),
		zap.Duration("took", time.Since(started)))

	return multierr.Append(flushErr, errs)
}
