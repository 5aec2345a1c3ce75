package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/store"
)

var bonusMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// KpiRemote is the remote-store surface the KPI service uses.
type KpiRemote interface {
	ReplaceKpiTargets(ctx context.Context, month, year int, targets []models.KpiTarget) error
	ReplaceSupportBonuses(ctx context.Context, bonusMonth string, bonuses []models.SupportBonus) error
}

// KpiService owns KPI targets and support bonuses. Upserts replace every
// row of the period, locally and remotely; there is no row-level merge.
type KpiService struct {
	store  *store.Store
	queue  *store.Queue
	remote KpiRemote
	conn   Connectivity
	log    *zap.Logger
}

// NewKpiService constructs a KpiService.
func NewKpiService(st *store.Store, q *store.Queue, r KpiRemote, conn Connectivity, log *zap.Logger) *KpiService {
	return &KpiService{store: st, queue: q, remote: r, conn: conn, log: log}
}

// Targets returns KPI target rows for one period.
func (s *KpiService) Targets(month, year int) []models.KpiTarget {
	var out []models.KpiTarget
	for _, k := range s.store.Kpis() {
		if k.Month == month && k.Year == year {
			out = append(out, k)
		}
	}
	return out
}

// UpsertTargets replaces every KPI target for (month, year).
func (s *KpiService) UpsertTargets(ctx context.Context, month, year int, rows []models.KpiTarget) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}
	now := time.Now()
	for i := range rows {
		rows[i].Month = month
		rows[i].Year = year
		rows[i].UpdatedAt = now
		if rows[i].StaffID == "" {
			return errors.New("kpi target requires a staff id")
		}
	}

	if err := s.store.ReplaceKpiPeriod(month, year, rows); err != nil {
		return fmt.Errorf("save kpi targets locally: %w", err)
	}

	if s.conn.Online() {
		err := s.remote.ReplaceKpiTargets(ctx, month, year, rows)
		if err == nil {
			return nil
		}
		s.conn.MarkOffline()
		s.log.Warn("remote kpi write failed, queueing", zap.Error(err))
	}
	return s.queue.Enqueue(models.KpiUpdateAction(month, year, rows))
}

// Bonuses returns support bonus rows for one bonus month.
func (s *KpiService) Bonuses(bonusMonth string) []models.SupportBonus {
	var out []models.SupportBonus
	for _, b := range s.store.Bonuses() {
		if b.BonusMonth == bonusMonth {
			out = append(out, b)
		}
	}
	return out
}

// UpsertBonuses replaces every support bonus for the bonus month
// ("YYYY-MM").
func (s *KpiService) UpsertBonuses(ctx context.Context, bonusMonth string, rows []models.SupportBonus) error {
	if !bonusMonthPattern.MatchString(bonusMonth) {
		return fmt.Errorf("invalid bonus month %q", bonusMonth)
	}
	now := time.Now()
	for i := range rows {
		rows[i].BonusMonth = bonusMonth
		rows[i].UpdatedAt = now
		if rows[i].Department == "" {
			return errors.New("support bonus requires a department")
		}
	}

	if err := s.store.ReplaceBonusMonth(bonusMonth, rows); err != nil {
		return fmt.Errorf("save support bonuses locally: %w", err)
	}

	if s.conn.Online() {
		err := s.remote.ReplaceSupportBonuses(ctx, bonusMonth, rows)
		if err == nil {
			return nil
		}
		s.conn.MarkOffline()
		s.log.Warn("remote bonus write failed, queueing", zap.Error(err))
	}
	return s.queue.Enqueue(models.BonusUpdateAction(bonusMonth, rows))
}
