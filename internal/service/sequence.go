package service

import (
	"context"

	"github.com/feeflow/feeflow/internal/domain/counter"
	ierr "github.com/feeflow/feeflow/internal/errors"
)

// SequenceService hands out voucher sequence numbers. All mutual exclusion
// is delegated to the storage layer's atomic increment; the service never
// holds in-process locks.
type SequenceService interface {
	// Next returns the next sequence number for the org + period scope.
	// On error no number has been consumed.
	Next(ctx context.Context, orgCode, period string) (int64, error)
}

type sequenceService struct {
	ServiceParams
}

// NewSequenceService creates a new sequence service
func NewSequenceService(params ServiceParams) SequenceService {
	return &sequenceService{
		ServiceParams: params,
	}
}

func (s *sequenceService) Next(ctx context.Context, orgCode, period string) (int64, error) {
	if period == "" {
		return 0, ierr.NewError("period is required").
			WithHint("Sequence scope requires a billing period").
			Mark(ierr.ErrValidation)
	}

	return s.CounterRepo.Increment(ctx, counter.ScopeKey(orgCode, period))
}
