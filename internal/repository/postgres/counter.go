package postgres

import (
	"context"
	"database/sql"

	"github.com/feeflow/feeflow/internal/domain/counter"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
)

type counterRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewCounterRepository(client postgres.IClient, logger *logger.Logger) counter.Repository {
	return &counterRepository{
		client: client,
		logger: logger,
	}
}

// Increment uses a single upsert with RETURNING so that the fetch-old-value,
// write-new-value pair is one atomic statement at the storage layer. Two
// concurrent callers serialize on the sequence row and can never observe the
// same value.
func (r *counterRepository) Increment(ctx context.Context, scopeKey string) (int64, error) {
	query := `
		INSERT INTO voucher_sequences (scope_key, last_value, created_at, updated_at)
		VALUES ($1, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (scope_key) DO UPDATE
		SET last_value = voucher_sequences.last_value + 1,
			updated_at = CURRENT_TIMESTAMP
		RETURNING last_value`

	var lastValue int64
	if err := r.client.Querier(ctx).GetContext(ctx, &lastValue, query, scopeKey); err != nil {
		return 0, ierr.WithError(err).
			WithHint("voucher sequence generation failed").
			WithReportableDetails(map[string]any{
				"scope_key": scopeKey,
			}).
			Mark(ierr.ErrDatabase)
	}

	r.logger.Infow("generated voucher sequence",
		"scope_key", scopeKey,
		"sequence", lastValue)

	return lastValue, nil
}

func (r *counterRepository) Get(ctx context.Context, scopeKey string) (*counter.Counter, error) {
	query := `
		SELECT scope_key, last_value, created_at, updated_at
		FROM voucher_sequences
		WHERE scope_key = $1`

	var c counter.Counter
	if err := r.client.Querier(ctx).GetContext(ctx, &c, query, scopeKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("counter not found").
				WithHintf("No counter exists for scope %s", scopeKey).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("counter lookup failed").
			Mark(ierr.ErrDatabase)
	}

	return &c, nil
}
