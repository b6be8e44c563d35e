// Package postgres opens the database connection and owns the schema the
// stores expect.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Schema creates the tables the stores use. Money is stored as a fixed
// two-decimal string next to its currency; the version column backs the
// optimistic lock on accounts.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	phone_number  TEXT NOT NULL,
	address_line1 TEXT NOT NULL,
	address_line2 TEXT NOT NULL DEFAULT '',
	address_line3 TEXT NOT NULL DEFAULT '',
	town          TEXT NOT NULL,
	county        TEXT NOT NULL,
	postcode      TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	account_number TEXT PRIMARY KEY,
	sort_code      TEXT NOT NULL,
	owner_id       TEXT NOT NULL,
	name           TEXT NOT NULL,
	type           TEXT NOT NULL,
	status         TEXT NOT NULL,
	balance        TEXT NOT NULL,
	currency       TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	version        BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_owner_id ON accounts (owner_id);

CREATE TABLE IF NOT EXISTS transactions (
	id             TEXT PRIMARY KEY,
	account_number TEXT NOT NULL,
	type           TEXT NOT NULL,
	amount         TEXT NOT NULL,
	balance_after  TEXT NOT NULL,
	currency       TEXT NOT NULL,
	reference      TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_number ON transactions (account_number, created_at);
`

// Open connects, verifies the connection and applies the schema.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
