package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the DDL for the three tables this service owns. Installments and
// payment events live as JSONB documents on the ledger row so the whole
// aggregate commits in a single row write inside the surrounding transaction.
const schema = `
CREATE TABLE IF NOT EXISTS voucher_sequences (
	scope_key  TEXT PRIMARY KEY,
	last_value BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS vouchers (
	id                TEXT PRIMARY KEY,
	number            TEXT NOT NULL UNIQUE,
	student_id        TEXT NOT NULL,
	org_id            TEXT NOT NULL,
	period            TEXT NOT NULL,
	installment_label TEXT NOT NULL DEFAULT '',
	amount            NUMERIC(20,8) NOT NULL,
	due_date          TIMESTAMPTZ NOT NULL,
	voucher_status    TEXT NOT NULL DEFAULT 'unpaid',
	ledger_id         TEXT NOT NULL,
	payment_date      TIMESTAMPTZ,
	payment_method    TEXT,
	payment_reference TEXT,
	status            TEXT NOT NULL DEFAULT 'published',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	created_by        TEXT NOT NULL DEFAULT '',
	updated_by        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_vouchers_org_period ON vouchers (org_id, period);
CREATE INDEX IF NOT EXISTS idx_vouchers_student ON vouchers (student_id);

CREATE TABLE IF NOT EXISTS ledgers (
	id             TEXT PRIMARY KEY,
	org_id         TEXT NOT NULL,
	student_id     TEXT NOT NULL,
	period         TEXT NOT NULL,
	total_assigned NUMERIC(20,8) NOT NULL DEFAULT 0,
	total_paid     NUMERIC(20,8) NOT NULL DEFAULT 0,
	total_pending  NUMERIC(20,8) NOT NULL DEFAULT 0,
	installments   JSONB NOT NULL DEFAULT '[]',
	payments       JSONB NOT NULL DEFAULT '[]',
	status         TEXT NOT NULL DEFAULT 'published',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	created_by     TEXT NOT NULL DEFAULT '',
	updated_by     TEXT NOT NULL DEFAULT '',
	UNIQUE (org_id, student_id, period)
);

-- students and organizations are owned by the enrollment system; created
-- here only so a fresh local database is usable end to end
CREATE TABLE IF NOT EXISTS students (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	roll_number TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS organizations (
	id   TEXT PRIMARY KEY,
	code TEXT NOT NULL,
	name TEXT NOT NULL
);
`

// Migrate creates the schema if it does not exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed creating schema resources: %w", err)
	}
	return nil
}
