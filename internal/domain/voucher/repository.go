package voucher

import "context"

// Repository defines the interface for voucher persistence operations
type Repository interface {
	// Create creates a new voucher
	Create(ctx context.Context, v *Voucher) error

	// Get retrieves a voucher by ID
	Get(ctx context.Context, id string) (*Voucher, error)

	// GetOutstanding retrieves a voucher by ID that is still unpaid and
	// owned by the given org. A missing, already-paid, or foreign-org
	// voucher all return the same not-found error so that payment retries
	// stay idempotent for the client.
	GetOutstanding(ctx context.Context, id string, orgID string) (*Voucher, error)

	// Update persists changes to an existing voucher
	Update(ctx context.Context, v *Voucher) error

	// ListFallbackNumbered retrieves all vouchers whose number still carries
	// the fallback prefix, ordered by creation time
	ListFallbackNumbered(ctx context.Context) ([]*Voucher, error)
}
