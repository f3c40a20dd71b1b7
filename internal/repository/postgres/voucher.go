package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/feeflow/feeflow/internal/domain/voucher"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type voucherRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewVoucherRepository(client postgres.IClient, logger *logger.Logger) voucher.Repository {
	return &voucherRepository{
		client: client,
		logger: logger,
	}
}

func (r *voucherRepository) Create(ctx context.Context, v *voucher.Voucher) error {
	query := `
		INSERT INTO vouchers (
			id, number, student_id, org_id, period, installment_label,
			amount, due_date, voucher_status, ledger_id,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :number, :student_id, :org_id, :period, :installment_label,
			:amount, :due_date, :voucher_status, :ledger_id,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.client.Querier(ctx), query, v); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ierr.WithError(err).
				WithHint("A voucher with this number already exists").
				WithReportableDetails(map[string]any{
					"number": v.Number,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("voucher creation failed").
			WithReportableDetails(map[string]any{
				"voucher_id": v.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *voucherRepository) Get(ctx context.Context, id string) (*voucher.Voucher, error) {
	query := `
		SELECT * FROM vouchers
		WHERE id = $1 AND status = $2`

	var v voucher.Voucher
	if err := r.client.Querier(ctx).GetContext(ctx, &v, query, id, types.StatusPublished); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("voucher not found").
				WithHintf("Voucher with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("voucher lookup failed").
			Mark(ierr.ErrDatabase)
	}

	return &v, nil
}

// GetOutstanding deliberately collapses "missing", "already paid", and
// "owned by another org" into one not-found error so payment retries stay
// idempotent for the client.
func (r *voucherRepository) GetOutstanding(ctx context.Context, id string, orgID string) (*voucher.Voucher, error) {
	query := `
		SELECT * FROM vouchers
		WHERE id = $1 AND org_id = $2 AND voucher_status = $3 AND status = $4`

	// Locked inside the payment transaction so a racing second payment waits
	// here and then sees the voucher already paid, surfacing the same
	// not-found error as any other retry.
	if r.client.TxFromContext(ctx) != nil {
		query += `
		FOR UPDATE`
	}

	var v voucher.Voucher
	if err := r.client.Querier(ctx).GetContext(ctx, &v, query, id, orgID, types.VoucherStatusUnpaid, types.StatusPublished); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("voucher not found or already paid").
				WithHint("Voucher not found or already paid").
				WithReportableDetails(map[string]any{
					"voucher_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("voucher lookup failed").
			Mark(ierr.ErrDatabase)
	}

	return &v, nil
}

func (r *voucherRepository) Update(ctx context.Context, v *voucher.Voucher) error {
	v.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE vouchers SET
			number = :number,
			voucher_status = :voucher_status,
			payment_date = :payment_date,
			payment_method = :payment_method,
			payment_reference = :payment_reference,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	result, err := sqlx.NamedExecContext(ctx, r.client.Querier(ctx), query, v)
	if err != nil {
		return ierr.WithError(err).
			WithHint("voucher update failed").
			WithReportableDetails(map[string]any{
				"voucher_id": v.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("voucher not found").
			WithHintf("Voucher with ID %s was not found", v.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *voucherRepository) ListFallbackNumbered(ctx context.Context) ([]*voucher.Voucher, error) {
	query := `
		SELECT * FROM vouchers
		WHERE number LIKE $1 AND status = $2
		ORDER BY created_at`

	vouchers := []*voucher.Voucher{}
	if err := r.client.Querier(ctx).SelectContext(ctx, &vouchers, query, voucher.FallbackNumberPrefix+"%", types.StatusPublished); err != nil {
		return nil, ierr.WithError(err).
			WithHint("fallback voucher scan failed").
			Mark(ierr.ErrDatabase)
	}

	return vouchers, nil
}
