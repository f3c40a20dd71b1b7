package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/feeflow/feeflow/internal/domain/ledger"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/lib/pq"
)

type ledgerRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewLedgerRepository(client postgres.IClient, logger *logger.Logger) ledger.Repository {
	return &ledgerRepository{
		client: client,
		logger: logger,
	}
}

// ledgerRow maps the ledgers table. Installments and payment events are
// JSONB documents so the whole aggregate commits as one row write.
type ledgerRow struct {
	ledger.Ledger
	InstallmentsJSON []byte `db:"installments"`
	PaymentsJSON     []byte `db:"payments"`
}

func (row *ledgerRow) toDomain() (*ledger.Ledger, error) {
	l := row.Ledger
	l.Installments = []*ledger.InstallmentEntry{}
	l.Payments = []*ledger.PaymentEvent{}

	if len(row.InstallmentsJSON) > 0 {
		if err := json.Unmarshal(row.InstallmentsJSON, &l.Installments); err != nil {
			return nil, ierr.WithError(err).
				WithHint("ledger installments are corrupted").
				Mark(ierr.ErrDatabase)
		}
	}
	if len(row.PaymentsJSON) > 0 {
		if err := json.Unmarshal(row.PaymentsJSON, &l.Payments); err != nil {
			return nil, ierr.WithError(err).
				WithHint("ledger payments are corrupted").
				Mark(ierr.ErrDatabase)
		}
	}

	return &l, nil
}

func marshalCollections(l *ledger.Ledger) ([]byte, []byte, error) {
	installments, err := json.Marshal(l.Installments)
	if err != nil {
		return nil, nil, ierr.WithError(err).
			WithHint("ledger installments could not be encoded").
			Mark(ierr.ErrSystem)
	}
	payments, err := json.Marshal(l.Payments)
	if err != nil {
		return nil, nil, ierr.WithError(err).
			WithHint("ledger payments could not be encoded").
			Mark(ierr.ErrSystem)
	}
	return installments, payments, nil
}

func (r *ledgerRepository) Create(ctx context.Context, l *ledger.Ledger) error {
	installments, payments, err := marshalCollections(l)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ledgers (
			id, org_id, student_id, period,
			total_assigned, total_paid, total_pending,
			installments, payments,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)`

	if _, err := r.client.Querier(ctx).ExecContext(ctx, query,
		l.ID, l.OrgID, l.StudentID, l.Period,
		l.TotalAssigned, l.TotalPaid, l.TotalPending,
		installments, payments,
		l.Status, l.CreatedAt, l.UpdatedAt, l.CreatedBy, l.UpdatedBy,
	); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ierr.WithError(err).
				WithHint("A ledger already exists for this student and period").
				WithReportableDetails(map[string]any{
					"student_id": l.StudentID,
					"period":     l.Period,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("ledger creation failed").
			WithReportableDetails(map[string]any{
				"ledger_id":  l.ID,
				"student_id": l.StudentID,
				"period":     l.Period,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *ledgerRepository) Get(ctx context.Context, id string) (*ledger.Ledger, error) {
	query := `
		SELECT * FROM ledgers
		WHERE id = $1 AND status = $2`

	var row ledgerRow
	if err := r.client.Querier(ctx).GetContext(ctx, &row, query, id, types.StatusPublished); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("ledger not found").
				WithHintf("Ledger with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("ledger lookup failed").
			Mark(ierr.ErrDatabase)
	}

	return row.toDomain()
}

func (r *ledgerRepository) GetByStudentPeriod(ctx context.Context, orgID, studentID, period string) (*ledger.Ledger, error) {
	query := `
		SELECT * FROM ledgers
		WHERE org_id = $1 AND student_id = $2 AND period = $3 AND status = $4`

	// Inside a transaction the ledger row is read with a row lock: it is the
	// serialization point for concurrent installment and payment application,
	// and an unlocked read-modify-write would lose whichever write lands
	// second.
	if r.client.TxFromContext(ctx) != nil {
		query += `
		FOR UPDATE`
	}

	var row ledgerRow
	if err := r.client.Querier(ctx).GetContext(ctx, &row, query, orgID, studentID, period, types.StatusPublished); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("ledger not found").
				WithHintf("No ledger exists for student %s in period %s", studentID, period).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("ledger lookup failed").
			Mark(ierr.ErrDatabase)
	}

	return row.toDomain()
}

func (r *ledgerRepository) Update(ctx context.Context, l *ledger.Ledger) error {
	installments, payments, err := marshalCollections(l)
	if err != nil {
		return err
	}

	l.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE ledgers SET
			total_assigned = $2,
			total_paid = $3,
			total_pending = $4,
			installments = $5,
			payments = $6,
			updated_at = $7,
			updated_by = $8
		WHERE id = $1`

	result, err := r.client.Querier(ctx).ExecContext(ctx, query,
		l.ID,
		l.TotalAssigned, l.TotalPaid, l.TotalPending,
		installments, payments,
		l.UpdatedAt, l.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("ledger update failed").
			WithReportableDetails(map[string]any{
				"ledger_id": l.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("ledger not found").
			WithHintf("Ledger with ID %s was not found", l.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
