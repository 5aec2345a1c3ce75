package remote

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoaivu016/abc-backoffice/internal/models"
)

func setupMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to open sqlmock database")
	repo := NewRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestUpsertVehicle_ReplacesNestedRowsInOneTx(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	v := models.Vehicle{
		ID:         "0601-01",
		Name:       "Toyota Vios 2021",
		Status:     models.StatusDeposited,
		SellPrice:  100,
		ImportDate: now,
		UpdatedAt:  now,
		Costs:      []models.CostInfo{{ID: "c1", Amount: 5, Description: "transport", Date: now}},
		Payments:   []models.PaymentInfo{{ID: "p1", Type: models.PaymentDeposit, Amount: 30, Date: now}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vehicles`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM vehicle_costs WHERE vehicle_id = $1`)).
		WithArgs(v.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vehicle_costs`)).
		WithArgs("c1", v.ID, 5.0, "transport", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM vehicle_payments WHERE vehicle_id = $1`)).
		WithArgs(v.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vehicle_payments`)).
		WithArgs("p1", v.ID, string(models.PaymentDeposit), 30.0, now, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertVehicle(context.Background(), v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertVehicle_RollsBackOnNestedFailure(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	v := models.Vehicle{
		ID:         "0601-01",
		ImportDate: now,
		Status:     models.StatusInStock,
		Costs:      []models.CostInfo{{ID: "c1", Amount: 5, Date: now}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vehicles`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM vehicle_costs`)).
		WithArgs(v.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vehicle_costs`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	require.Error(t, repo.UpsertVehicle(context.Background(), v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStaff_ForeignKeyViolation(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM staff WHERE id = $1`)).
		WithArgs("NVA-01").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.DeleteStaff(context.Background(), "NVA-01")
	assert.ErrorIs(t, err, ErrStaffReferenced)
}

func TestDeleteStaff_GenericFailure(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM staff WHERE id = $1`)).
		WithArgs("NVA-01").
		WillReturnError(errors.New("connection reset"))

	err := repo.DeleteStaff(context.Background(), "NVA-01")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStaffReferenced)
}

func TestReplaceKpiTargets_DeleteThenInsert(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	targets := []models.KpiTarget{
		{StaffID: "NVA-01", Month: 6, Year: 2026, TargetCount: 4, UpdatedAt: now},
		{StaffID: "TTB-01", Month: 6, Year: 2026, TargetCount: 2, UpdatedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kpi_targets WHERE month = $1 AND year = $2`)).
		WithArgs(6, 2026).
		WillReturnResult(sqlmock.NewResult(0, 3))
	for _, k := range targets {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kpi_targets`)).
			WithArgs(k.StaffID, k.Month, k.Year, k.TargetCount, 0.0, 0, 0.0, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceKpiTargets(context.Background(), 6, 2026, targets))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicles_ScanAndGroupNestedRows(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	vehicleCols := []string{
		"id", "name", "color", "manufacture_year", "odo", "purchase_price", "sell_price",
		"import_date", "export_date", "status", "sale_staff_id", "notes", "status_history", "updated_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vehicles`)).
		WillReturnRows(sqlmock.NewRows(vehicleCols).
			AddRow("0601-01", "Vios", "white", 2021, 40000, 70.0, 100.0, now, nil, "DEPOSITED", "NVA-01", "", []byte(`[]`), now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vehicle_costs`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "amount", "description", "cost_date"}).
			AddRow("c1", "0601-01", 5.0, "transport", now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vehicle_payments`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "payment_type", "amount", "payment_date", "notes"}).
			AddRow("p1", "0601-01", "DEPOSIT", 30.0, now, ""))

	vehicles, err := repo.Vehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)

	v := vehicles[0]
	assert.Equal(t, "NVA-01", v.SaleStaffID)
	assert.Len(t, v.Costs, 1)
	assert.Len(t, v.Payments, 1)
}

func TestUserByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
