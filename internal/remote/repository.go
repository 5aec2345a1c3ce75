package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/lib/pq"
)

// ErrStaffReferenced is returned when a staff member cannot be deleted
// because remote rows still reference them. Retrying can never succeed,
// so callers must surface it instead of queueing the delete.
var ErrStaffReferenced = errors.New("staff member is referenced by other records")

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const fkViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == fkViolation
}

// Repository implements every collection operation against the hosted
// Postgres store.
type Repository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewRepository creates a Repository using the provided *sql.DB.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// Ping is the lightweight probe the connection monitor uses.
func (r *Repository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// Vehicles fetches every vehicle with its nested costs and payments.
// Derived fields (debt, profit, storage time) are not stored remotely and
// must be recomputed by the caller.
func (r *Repository) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, color, manufacture_year, odo, purchase_price, sell_price,
		       import_date, export_date, status, sale_staff_id, notes, status_history, updated_at
		FROM vehicles
	`)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	index := map[string]int{}
	for rows.Next() {
		var (
			v       models.Vehicle
			staffID sql.NullString
			history []byte
		)
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Color, &v.ManufactureYear, &v.Odo,
			&v.PurchasePrice, &v.SellPrice, &v.ImportDate, &v.ExportDate,
			&v.Status, &staffID, &v.Notes, &history, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		v.SaleStaffID = staffID.String
		if len(history) > 0 {
			if err := json.Unmarshal(history, &v.StatusHistory); err != nil {
				return nil, fmt.Errorf("decode status history for %s: %w", v.ID, err)
			}
		}
		index[v.ID] = len(vehicles)
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachCosts(ctx, vehicles, index); err != nil {
		return nil, err
	}
	if err := r.attachPayments(ctx, vehicles, index); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *Repository) attachCosts(ctx context.Context, vehicles []models.Vehicle, index map[string]int) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, vehicle_id, amount, description, cost_date FROM vehicle_costs
	`)
	if err != nil {
		return fmt.Errorf("query vehicle costs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c         models.CostInfo
			vehicleID string
		)
		if err := rows.Scan(&c.ID, &vehicleID, &c.Amount, &c.Description, &c.Date); err != nil {
			return fmt.Errorf("scan cost: %w", err)
		}
		if i, ok := index[vehicleID]; ok {
			vehicles[i].Costs = append(vehicles[i].Costs, c)
		}
	}
	return rows.Err()
}

func (r *Repository) attachPayments(ctx context.Context, vehicles []models.Vehicle, index map[string]int) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, vehicle_id, payment_type, amount, payment_date, notes FROM vehicle_payments
	`)
	if err != nil {
		return fmt.Errorf("query vehicle payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p         models.PaymentInfo
			vehicleID string
		)
		if err := rows.Scan(&p.ID, &vehicleID, &p.Type, &p.Amount, &p.Date, &p.Notes); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		if i, ok := index[vehicleID]; ok {
			vehicles[i].Payments = append(vehicles[i].Payments, p)
		}
	}
	return rows.Err()
}

// UpsertVehicle writes one vehicle and replaces its nested cost and
// payment rows, all in one transaction so a failure cannot leave the
// nested rows missing. Replaying the same action is a no-op, which keeps
// at-least-once queue delivery safe.
func (r *Repository) UpsertVehicle(ctx context.Context, v models.Vehicle) error {
	history, err := json.Marshal(v.StatusHistory)
	if err != nil {
		return fmt.Errorf("encode status history: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var staffID sql.NullString
	if v.SaleStaffID != "" {
		staffID = sql.NullString{String: v.SaleStaffID, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vehicles (id, name, color, manufacture_year, odo, purchase_price, sell_price,
		                      import_date, export_date, status, sale_staff_id, notes, status_history, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			manufacture_year = EXCLUDED.manufacture_year,
			odo = EXCLUDED.odo,
			purchase_price = EXCLUDED.purchase_price,
			sell_price = EXCLUDED.sell_price,
			import_date = EXCLUDED.import_date,
			export_date = EXCLUDED.export_date,
			status = EXCLUDED.status,
			sale_staff_id = EXCLUDED.sale_staff_id,
			notes = EXCLUDED.notes,
			status_history = EXCLUDED.status_history,
			updated_at = EXCLUDED.updated_at
	`, v.ID, v.Name, v.Color, v.ManufactureYear, v.Odo, v.PurchasePrice, v.SellPrice,
		v.ImportDate, v.ExportDate, v.Status, staffID, v.Notes, history, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert vehicle: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicle_costs WHERE vehicle_id = $1`, v.ID); err != nil {
		return fmt.Errorf("clear costs: %w", err)
	}
	for _, c := range v.Costs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO vehicle_costs (id, vehicle_id, amount, description, cost_date)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, v.ID, c.Amount, c.Description, c.Date); err != nil {
			return fmt.Errorf("insert cost: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicle_payments WHERE vehicle_id = $1`, v.ID); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}
	for _, p := range v.Payments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO vehicle_payments (id, vehicle_id, payment_type, amount, payment_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, v.ID, p.Type, p.Amount, p.Date, p.Notes); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteVehicle removes one vehicle; nested rows go with it via cascade.
func (r *Repository) DeleteVehicle(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}

// StaffList fetches every staff member.
func (r *Repository) StaffList(ctx context.Context) ([]models.Staff, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, team, role, phone, email, join_date, leave_date, status, updated_at
		FROM staff
	`)
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	var list []models.Staff
	for rows.Next() {
		var s models.Staff
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Team, &s.Role, &s.Phone, &s.Email,
			&s.JoinDate, &s.LeaveDate, &s.Status, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpsertStaff writes one staff member.
func (r *Repository) UpsertStaff(ctx context.Context, s models.Staff) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO staff (id, name, team, role, phone, email, join_date, leave_date, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			team = EXCLUDED.team,
			role = EXCLUDED.role,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			join_date = EXCLUDED.join_date,
			leave_date = EXCLUDED.leave_date,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.Name, s.Team, s.Role, s.Phone, s.Email, s.JoinDate, s.LeaveDate, s.Status, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert staff: %w", err)
	}
	return nil
}

// DeleteStaff removes one staff member. A foreign-key violation (KPI rows
// still pointing at them) comes back as ErrStaffReferenced.
func (r *Repository) DeleteStaff(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete staff %s: %w", id, ErrStaffReferenced)
		}
		return fmt.Errorf("delete staff: %w", err)
	}
	return nil
}

// KpiTargets fetches every KPI target row.
func (r *Repository) KpiTargets(ctx context.Context) ([]models.KpiTarget, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT staff_id, month, year, target_count, target_amount, sold_count, sold_amount, updated_at
		FROM kpi_targets
	`)
	if err != nil {
		return nil, fmt.Errorf("query kpi targets: %w", err)
	}
	defer rows.Close()

	var list []models.KpiTarget
	for rows.Next() {
		var k models.KpiTarget
		if err := rows.Scan(
			&k.StaffID, &k.Month, &k.Year, &k.TargetCount, &k.TargetAmount,
			&k.SoldCount, &k.SoldAmount, &k.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan kpi target: %w", err)
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

// ReplaceKpiTargets deletes all rows for the period and reinserts the
// given ones, in one transaction. This destructive replace is the upsert
// semantic of the store; there is no row-level merge.
func (r *Repository) ReplaceKpiTargets(ctx context.Context, month, year int, targets []models.KpiTarget) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM kpi_targets WHERE month = $1 AND year = $2`, month, year); err != nil {
		return fmt.Errorf("clear kpi period: %w", err)
	}
	for _, k := range targets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kpi_targets (staff_id, month, year, target_count, target_amount, sold_count, sold_amount, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, k.StaffID, k.Month, k.Year, k.TargetCount, k.TargetAmount, k.SoldCount, k.SoldAmount, k.UpdatedAt); err != nil {
			return fmt.Errorf("insert kpi target: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SupportBonuses fetches every support bonus row.
func (r *Repository) SupportBonuses(ctx context.Context) ([]models.SupportBonus, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT bonus_month, department, amount, notes, updated_at FROM support_bonuses
	`)
	if err != nil {
		return nil, fmt.Errorf("query support bonuses: %w", err)
	}
	defer rows.Close()

	var list []models.SupportBonus
	for rows.Next() {
		var b models.SupportBonus
		if err := rows.Scan(&b.BonusMonth, &b.Department, &b.Amount, &b.Notes, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan support bonus: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ReplaceSupportBonuses deletes all rows for the bonus month and
// reinserts the given ones, in one transaction.
func (r *Repository) ReplaceSupportBonuses(ctx context.Context, bonusMonth string, bonuses []models.SupportBonus) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM support_bonuses WHERE bonus_month = $1`, bonusMonth); err != nil {
		return fmt.Errorf("clear bonus month: %w", err)
	}
	for _, b := range bonuses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO support_bonuses (bonus_month, department, amount, notes, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, b.BonusMonth, b.Department, b.Amount, b.Notes, b.UpdatedAt); err != nil {
			return fmt.Errorf("insert support bonus: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UserByEmail fetches one user by email for login.
func (r *Repository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, status, updated_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Status, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts one user.
func (r *Repository) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Status, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
