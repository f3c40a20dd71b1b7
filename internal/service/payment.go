package service

import (
	"context"
	"time"

	"github.com/feeflow/feeflow/internal/api/dto"
	"github.com/feeflow/feeflow/internal/domain/voucher"
	"github.com/feeflow/feeflow/internal/types"
)

// PaymentService transitions a voucher from unpaid to paid. The transition
// is terminal and transactional: the voucher status change and the ledger
// payment application commit together or not at all.
type PaymentService interface {
	Pay(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.VoucherResponse, error)
	GetVoucher(ctx context.Context, id string) (*dto.VoucherResponse, error)
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

func (s *paymentService) Pay(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.VoucherResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	reference := req.PaymentReference
	if reference == "" {
		reference = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT)
	}

	ledgerService := NewLedgerService(s.ServiceParams)

	var paid *voucher.Voucher
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		// The outstanding lookup is the transition guard: missing, foreign,
		// and already-paid vouchers all surface as the same not-found error.
		v, err := s.VoucherRepo.GetOutstanding(ctx, req.VoucherID, req.OrgID)
		if err != nil {
			return err
		}

		if err := v.MarkPaid(paymentDate, req.PaymentMethod, reference); err != nil {
			return err
		}

		if err := s.VoucherRepo.Update(ctx, v); err != nil {
			return err
		}

		if _, err := ledgerService.ApplyPayment(ctx, ApplyPaymentInput{
			OrgID:     v.OrgID,
			StudentID: v.StudentID,
			Period:    v.Period,
			VoucherID: v.ID,
			Amount:    v.Amount,
			Date:      paymentDate,
			Method:    req.PaymentMethod,
			Reference: reference,
		}); err != nil {
			return err
		}

		paid = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded voucher payment",
		"voucher_id", paid.ID,
		"number", paid.Number,
		"amount", paid.Amount.String(),
		"method", req.PaymentMethod,
		"reference", reference)

	return dto.NewVoucherResponse(paid), nil
}

func (s *paymentService) GetVoucher(ctx context.Context, id string) (*dto.VoucherResponse, error) {
	v, err := s.VoucherRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewVoucherResponse(v), nil
}
