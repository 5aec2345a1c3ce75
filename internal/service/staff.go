package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
	"github.com/hoaivu016/abc-backoffice/internal/store"
)

// ErrStaffNotFound is returned for an unknown staff id.
var ErrStaffNotFound = errors.New("staff member not found")

// StaffRemote is the remote-store surface the staff service uses.
type StaffRemote interface {
	UpsertStaff(ctx context.Context, s models.Staff) error
	DeleteStaff(ctx context.Context, id string) error
}

// StaffService owns staff CRUD.
type StaffService struct {
	store  *store.Store
	queue  *store.Queue
	remote StaffRemote
	conn   Connectivity
	log    *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(st *store.Store, q *store.Queue, r StaffRemote, conn Connectivity, log *zap.Logger) *StaffService {
	return &StaffService{store: st, queue: q, remote: r, conn: conn, log: log}
}

// StaffInput carries the editable fields of a staff member.
type StaffInput struct {
	Name     string     `json:"name"`
	Team     string     `json:"team"`
	Role     string     `json:"role"`
	Phone    string     `json:"phone"`
	Email    string     `json:"email"`
	JoinDate *time.Time `json:"joinDate"`
}

// List returns the local staff list.
func (s *StaffService) List() []models.Staff {
	return s.store.Staff()
}

// Add creates a staff member with a generated initials-based id.
func (s *StaffService) Add(ctx context.Context, in StaffInput) (models.Staff, error) {
	if in.Name == "" {
		return models.Staff{}, errors.New("staff name is required")
	}
	now := time.Now()
	m := models.Staff{
		ID:        models.NextStaffID(in.Name, s.store.Staff()),
		Name:      in.Name,
		Team:      in.Team,
		Role:      in.Role,
		Phone:     in.Phone,
		Email:     in.Email,
		JoinDate:  now,
		Status:    models.StaffActive,
		UpdatedAt: now,
	}
	if in.JoinDate != nil {
		m.JoinDate = *in.JoinDate
	}
	if err := s.store.UpsertStaff(m); err != nil {
		return models.Staff{}, fmt.Errorf("save staff locally: %w", err)
	}
	return m, s.push(ctx, models.StaffAction(models.ActionStaffAdd, m))
}

// Update applies the input to an existing staff member.
func (s *StaffService) Update(ctx context.Context, id string, in StaffInput) (models.Staff, error) {
	m, ok := s.store.StaffByID(id)
	if !ok {
		return models.Staff{}, ErrStaffNotFound
	}
	if in.Name != "" {
		m.Name = in.Name
	}
	m.Team = in.Team
	m.Role = in.Role
	m.Phone = in.Phone
	m.Email = in.Email
	if in.JoinDate != nil {
		m.JoinDate = *in.JoinDate
	}
	m.UpdatedAt = time.Now()

	if err := s.store.UpsertStaff(m); err != nil {
		return models.Staff{}, fmt.Errorf("save staff locally: %w", err)
	}
	return m, s.push(ctx, models.StaffAction(models.ActionStaffUpdate, m))
}

// Delete removes a staff member. When the remote store refuses because
// other rows still reference them, the local copy is deliberately kept so
// local and remote stay consistent, and the error is returned to the
// caller instead of being queued.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.StaffByID(id); !ok {
		return ErrStaffNotFound
	}

	if s.conn.Online() {
		err := s.remote.DeleteStaff(ctx, id)
		switch {
		case err == nil:
			_, rmErr := s.store.RemoveStaff(id)
			return rmErr
		case errors.Is(err, remote.ErrStaffReferenced):
			return err
		default:
			s.conn.MarkOffline()
			s.log.Warn("remote staff delete failed, queueing", zap.Error(err))
		}
	}

	if _, err := s.store.RemoveStaff(id); err != nil {
		return fmt.Errorf("remove staff locally: %w", err)
	}
	return s.queue.Enqueue(models.StaffDeleteAction(id))
}

func (s *StaffService) push(ctx context.Context, a models.PendingAction) error {
	if s.conn.Online() {
		err := s.remote.UpsertStaff(ctx, *a.Staff)
		if err == nil {
			return nil
		}
		s.conn.MarkOffline()
		s.log.Warn("remote staff write failed, queueing",
			zap.String("kind", string(a.Kind)), zap.Error(err))
	}
	if err := s.queue.Enqueue(a); err != nil {
		return fmt.Errorf("queue %s: %w", a.Kind, err)
	}
	return nil
}
