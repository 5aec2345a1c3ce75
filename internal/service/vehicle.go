// Package service implements the business logic of the back office:
// validation, id generation, the optimistic-local write flow (local store
// first, remote push or pending queue second) and authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/store"
)

// ErrSellBelowPurchase rejects a sale that would lose money before any
// write is attempted.
var ErrSellBelowPurchase = errors.New("sell price must be greater than purchase price")

// ErrVehicleNotFound is returned for an unknown vehicle id.
var ErrVehicleNotFound = errors.New("vehicle not found")

// Connectivity is what services need from the connection monitor.
type Connectivity interface {
	Online() bool
	MarkOffline()
}

// VehicleRemote is the remote-store surface the vehicle service uses.
type VehicleRemote interface {
	UpsertVehicle(ctx context.Context, v models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// VehicleService owns vehicle CRUD and lifecycle changes.
type VehicleService struct {
	store  *store.Store
	queue  *store.Queue
	remote VehicleRemote
	conn   Connectivity
	log    *zap.Logger
}

// NewVehicleService constructs a VehicleService.
func NewVehicleService(st *store.Store, q *store.Queue, r VehicleRemote, conn Connectivity, log *zap.Logger) *VehicleService {
	return &VehicleService{store: st, queue: q, remote: r, conn: conn, log: log}
}

// VehicleInput carries the editable fields of a vehicle.
type VehicleInput struct {
	Name            string     `json:"name"`
	Color           string     `json:"color"`
	ManufactureYear int        `json:"manufactureYear"`
	Odo             int        `json:"odo"`
	PurchasePrice   float64    `json:"purchasePrice"`
	SellPrice       float64    `json:"sellPrice"`
	ImportDate      *time.Time `json:"importDate"`
	SaleStaffID     string     `json:"saleStaffId"`
	Notes           string     `json:"notes"`
}

func (in VehicleInput) validate() error {
	if in.Name == "" {
		return errors.New("vehicle name is required")
	}
	if in.SellPrice > 0 && in.SellPrice <= in.PurchasePrice {
		return ErrSellBelowPurchase
	}
	return nil
}

// List returns the local vehicle list with derived fields refreshed.
func (s *VehicleService) List() []models.Vehicle {
	now := time.Now()
	vehicles := s.store.Vehicles()
	for i := range vehicles {
		models.Recalculate(&vehicles[i], now)
	}
	return vehicles
}

// Get returns one vehicle with derived fields refreshed.
func (s *VehicleService) Get(id string) (models.Vehicle, error) {
	v, ok := s.store.Vehicle(id)
	if !ok {
		return models.Vehicle{}, ErrVehicleNotFound
	}
	models.Recalculate(&v, time.Now())
	return v, nil
}

// Add validates the input, generates the next day-scoped id, writes the
// vehicle locally and pushes it to the remote store (or queues it).
func (s *VehicleService) Add(ctx context.Context, in VehicleInput) (models.Vehicle, error) {
	if err := in.validate(); err != nil {
		return models.Vehicle{}, err
	}

	now := time.Now()
	v := models.Vehicle{
		ID:              models.NextVehicleID(s.store.Vehicles(), now),
		Name:            in.Name,
		Color:           in.Color,
		ManufactureYear: in.ManufactureYear,
		Odo:             in.Odo,
		PurchasePrice:   in.PurchasePrice,
		SellPrice:       in.SellPrice,
		ImportDate:      now,
		Status:          models.StatusInStock,
		SaleStaffID:     in.SaleStaffID,
		Notes:           in.Notes,
		UpdatedAt:       now,
	}
	if in.ImportDate != nil {
		v.ImportDate = *in.ImportDate
	}
	models.Recalculate(&v, now)

	if err := s.store.UpsertVehicle(v); err != nil {
		return models.Vehicle{}, fmt.Errorf("save vehicle locally: %w", err)
	}
	return v, s.push(ctx, models.VehicleAction(models.ActionVehicleAdd, v))
}

// Update applies the input to an existing vehicle.
func (s *VehicleService) Update(ctx context.Context, id string, in VehicleInput) (models.Vehicle, error) {
	if err := in.validate(); err != nil {
		return models.Vehicle{}, err
	}
	v, ok := s.store.Vehicle(id)
	if !ok {
		return models.Vehicle{}, ErrVehicleNotFound
	}

	now := time.Now()
	v.Name = in.Name
	v.Color = in.Color
	v.ManufactureYear = in.ManufactureYear
	v.Odo = in.Odo
	v.PurchasePrice = in.PurchasePrice
	v.SellPrice = in.SellPrice
	v.SaleStaffID = in.SaleStaffID
	v.Notes = in.Notes
	if in.ImportDate != nil {
		v.ImportDate = *in.ImportDate
	}
	v.UpdatedAt = now
	models.Recalculate(&v, now)

	if err := s.store.UpsertVehicle(v); err != nil {
		return models.Vehicle{}, fmt.Errorf("save vehicle locally: %w", err)
	}
	return v, s.push(ctx, models.VehicleAction(models.ActionVehicleUpdate, v))
}

// Delete removes a vehicle locally and remotely.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	removed, err := s.store.RemoveVehicle(id)
	if err != nil {
		return fmt.Errorf("remove vehicle locally: %w", err)
	}
	if !removed {
		return ErrVehicleNotFound
	}
	return s.push(ctx, models.VehicleDeleteAction(id))
}

// ChangeStatus moves a vehicle through its lifecycle. amount is the
// deposit amount for transitions that synthesize a payment.
func (s *VehicleService) ChangeStatus(ctx context.Context, id string, to models.VehicleStatus, amount float64, changedBy string) (models.Vehicle, error) {
	v, ok := s.store.Vehicle(id)
	if !ok {
		return models.Vehicle{}, ErrVehicleNotFound
	}
	if err := models.ChangeStatus(&v, to, amount, changedBy, time.Now()); err != nil {
		return models.Vehicle{}, err
	}
	if err := s.store.UpsertVehicle(v); err != nil {
		return models.Vehicle{}, fmt.Errorf("save vehicle locally: %w", err)
	}
	return v, s.push(ctx, models.VehicleAction(models.ActionVehicleUpdate, v))
}

// AddCost books an expense against a vehicle.
func (s *VehicleService) AddCost(ctx context.Context, id string, amount float64, description string, date time.Time) (models.Vehicle, error) {
	if amount <= 0 {
		return models.Vehicle{}, errors.New("cost amount must be positive")
	}
	v, ok := s.store.Vehicle(id)
	if !ok {
		return models.Vehicle{}, ErrVehicleNotFound
	}
	now := time.Now()
	if date.IsZero() {
		date = now
	}
	v.Costs = append(v.Costs, models.CostInfo{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: description,
		Date:        date,
	})
	v.UpdatedAt = now
	models.Recalculate(&v, now)

	if err := s.store.UpsertVehicle(v); err != nil {
		return models.Vehicle{}, fmt.Errorf("save vehicle locally: %w", err)
	}
	return v, s.push(ctx, models.VehicleAction(models.ActionVehicleUpdate, v))
}

// AddPayment records a payment received for a vehicle.
func (s *VehicleService) AddPayment(ctx context.Context, id string, pt models.PaymentType, amount float64, notes string) (models.Vehicle, error) {
	if amount <= 0 {
		return models.Vehicle{}, errors.New("payment amount must be positive")
	}
	v, ok := s.store.Vehicle(id)
	if !ok {
		return models.Vehicle{}, ErrVehicleNotFound
	}
	now := time.Now()
	v.Payments = append(v.Payments, models.PaymentInfo{
		ID:     uuid.NewString(),
		Type:   pt,
		Amount: amount,
		Date:   now,
		Notes:  notes,
	})
	v.UpdatedAt = now
	models.Recalculate(&v, now)

	if err := s.store.UpsertVehicle(v); err != nil {
		return models.Vehicle{}, fmt.Errorf("save vehicle locally: %w", err)
	}
	return v, s.push(ctx, models.VehicleAction(models.ActionVehicleUpdate, v))
}

// push sends one action to the remote store right away when online, and
// falls back to the pending queue when offline or on failure. The local
// write already happened and is never rolled back.
func (s *VehicleService) push(ctx context.Context, a models.PendingAction) error {
	if s.conn.Online() {
		var err error
		switch a.Kind {
		case models.ActionVehicleDelete:
			err = s.remote.DeleteVehicle(ctx, a.EntityID)
		default:
			err = s.remote.UpsertVehicle(ctx, *a.Vehicle)
		}
		if err == nil {
			return nil
		}
		s.conn.MarkOffline()
		s.log.Warn("remote vehicle write failed, queueing",
			zap.String("kind", string(a.Kind)), zap.Error(err))
	}
	if err := s.queue.Enqueue(a); err != nil {
		return fmt.Errorf("queue %s: %w", a.Kind, err)
	}
	return nil
}
