package ledger

import "context"

// Repository defines the interface for ledger persistence operations
type Repository interface {
	// Create creates a new ledger
	Create(ctx context.Context, l *Ledger) error

	// Get retrieves a ledger by ID
	Get(ctx context.Context, id string) (*Ledger, error)

	// GetByStudentPeriod retrieves the ledger for a (org, student, period)
	// triple; returns a not-found error when no ledger exists yet
	GetByStudentPeriod(ctx context.Context, orgID, studentID, period string) (*Ledger, error)

	// Update persists changes to an existing ledger, including its
	// installment and payment collections
	Update(ctx context.Context, l *Ledger) error
}
