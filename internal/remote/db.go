// Package remote talks to the hosted Postgres store. All columns are
// snake_case at this boundary and translated to the camelCase in-memory
// model explicitly, field by field, on every read and write.
package remote

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'staff',
    status TEXT NOT NULL DEFAULT 'ACTIVE',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS staff (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    team TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    join_date TIMESTAMPTZ NOT NULL,
    leave_date TIMESTAMPTZ,
    status TEXT NOT NULL DEFAULT 'ACTIVE',
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vehicles (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    manufacture_year INT NOT NULL DEFAULT 0,
    odo INT NOT NULL DEFAULT 0,
    purchase_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    sell_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    import_date TIMESTAMPTZ NOT NULL,
    export_date TIMESTAMPTZ,
    status TEXT NOT NULL,
    sale_staff_id TEXT,
    notes TEXT NOT NULL DEFAULT '',
    status_history JSONB NOT NULL DEFAULT '[]',
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vehicle_costs (
    id TEXT PRIMARY KEY,
    vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
    amount DOUBLE PRECISION NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    cost_date TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vehicle_payments (
    id TEXT PRIMARY KEY,
    vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
    payment_type TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    payment_date TIMESTAMPTZ NOT NULL,
    notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS kpi_targets (
    staff_id TEXT NOT NULL REFERENCES staff(id),
    month INT NOT NULL,
    year INT NOT NULL,
    target_count INT NOT NULL DEFAULT 0,
    target_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    sold_count INT NOT NULL DEFAULT 0,
    sold_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (staff_id, month, year)
);

CREATE TABLE IF NOT EXISTS support_bonuses (
    bonus_month TEXT NOT NULL,
    department TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (bonus_month, department)
);
`

// InitPostgres opens a connection to the remote store and bootstraps the
// schema. When the store is unreachable the handle is still returned
// alongside the error, so the caller can start offline and let the
// connection monitor pick the store up later.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return db, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return db, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
