package testutil

import (
	"context"
	"sync"

	"github.com/feeflow/feeflow/internal/postgres"
	"github.com/jmoiron/sqlx"
)

// MockPostgresClient satisfies postgres.IClient for service tests that use
// in-memory repositories. WithTx runs the function under a mutex, standing
// in for the row locks that serialize transactions against a real database.
type MockPostgresClient struct {
	mu sync.Mutex
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient() postgres.IClient {
	return &MockPostgresClient{}
}

func (m *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

func (m *MockPostgresClient) TxFromContext(ctx context.Context) *sqlx.Tx {
	return nil
}

func (m *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	return nil
}
