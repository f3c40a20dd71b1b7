package testutil

import (
	"context"

	"github.com/feeflow/feeflow/internal/domain/voucher"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryVoucherStore implements voucher.Repository
type InMemoryVoucherStore struct {
	*InMemoryStore[*voucher.Voucher]
}

// NewInMemoryVoucherStore creates a new in-memory voucher store
func NewInMemoryVoucherStore() *InMemoryVoucherStore {
	return &InMemoryVoucherStore{
		InMemoryStore: NewInMemoryStore[*voucher.Voucher](),
	}
}

// copyVoucher returns a deep copy so callers cannot mutate stored state
func copyVoucher(v *voucher.Voucher) *voucher.Voucher {
	if v == nil {
		return nil
	}

	copied := *v
	if v.PaymentDate != nil {
		copied.PaymentDate = lo.ToPtr(*v.PaymentDate)
	}
	if v.PaymentMethod != nil {
		copied.PaymentMethod = lo.ToPtr(*v.PaymentMethod)
	}
	if v.PaymentReference != nil {
		copied.PaymentReference = lo.ToPtr(*v.PaymentReference)
	}
	return &copied
}

func (s *InMemoryVoucherStore) Create(ctx context.Context, v *voucher.Voucher) error {
	if v == nil {
		return ierr.NewError("voucher cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, v.ID, copyVoucher(v)); err != nil {
		return ierr.WithError(err).
			WithHint("voucher creation failed").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryVoucherStore) Get(ctx context.Context, id string) (*voucher.Voucher, error) {
	v, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("voucher not found").
			WithHintf("Voucher with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyVoucher(v), nil
}

func (s *InMemoryVoucherStore) GetOutstanding(ctx context.Context, id string, orgID string) (*voucher.Voucher, error) {
	v, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || v.OrgID != orgID || v.VoucherStatus != types.VoucherStatusUnpaid {
		return nil, ierr.NewError("voucher not found or already paid").
			WithHint("Voucher not found or already paid").
			WithReportableDetails(map[string]any{
				"voucher_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyVoucher(v), nil
}

func (s *InMemoryVoucherStore) Update(ctx context.Context, v *voucher.Voucher) error {
	if err := s.InMemoryStore.Update(ctx, v.ID, copyVoucher(v)); err != nil {
		return ierr.NewError("voucher not found").
			WithHintf("Voucher with ID %s was not found", v.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryVoucherStore) ListFallbackNumbered(ctx context.Context) ([]*voucher.Voucher, error) {
	vouchers, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, v *voucher.Voucher, _ interface{}) bool {
			return voucher.IsFallbackNumber(v.Number)
		},
		func(i, j *voucher.Voucher) bool {
			return i.CreatedAt.Before(j.CreatedAt)
		})
	if err != nil {
		return nil, err
	}

	result := make([]*voucher.Voucher, len(vouchers))
	for i, v := range vouchers {
		result[i] = copyVoucher(v)
	}
	return result, nil
}
