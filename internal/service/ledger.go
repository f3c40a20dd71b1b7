package service

import (
	"context"
	"time"

	"github.com/feeflow/feeflow/internal/domain/ledger"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/shopspring/decimal"
)

// ApplyInstallmentInput describes one new charge against a student's ledger
type ApplyInstallmentInput struct {
	OrgID     string
	StudentID string
	Period    string
	VoucherID string
	Name      string
	Amount    decimal.Decimal
	DueDate   time.Time
}

// ApplyPaymentInput describes one payment to settle against a ledger installment
type ApplyPaymentInput struct {
	OrgID     string
	StudentID string
	Period    string
	VoucherID string
	Amount    decimal.Decimal
	Date      time.Time
	Method    types.PaymentMethod
	Reference string
}

// LedgerService mutates the per-student aggregate ledger. Both operations
// expect to run inside the caller's transaction context so the ledger change
// commits or rolls back together with the voucher write that triggered it,
// and so the repository's locked read serializes concurrent mutation of the
// same ledger row.
type LedgerService interface {
	ApplyNewInstallment(ctx context.Context, input ApplyInstallmentInput) (*ledger.Ledger, error)
	ApplyPayment(ctx context.Context, input ApplyPaymentInput) (*ledger.Ledger, error)
	GetLedger(ctx context.Context, id string) (*ledger.Ledger, error)
}

type ledgerService struct {
	ServiceParams
}

// NewLedgerService creates a new ledger service
func NewLedgerService(params ServiceParams) LedgerService {
	return &ledgerService{
		ServiceParams: params,
	}
}

// ApplyNewInstallment upserts the ledger for (org, student, period),
// appends the installment, and raises the assigned and pending totals.
func (s *ledgerService) ApplyNewInstallment(ctx context.Context, input ApplyInstallmentInput) (*ledger.Ledger, error) {
	if input.StudentID == "" || input.Period == "" {
		return nil, ierr.NewError("student id and period are required").
			WithHint("Ledger scope requires a student and a billing period").
			Mark(ierr.ErrValidation)
	}

	newEntry := func() *ledger.InstallmentEntry {
		return &ledger.InstallmentEntry{
			VoucherID: input.VoucherID,
			Name:      input.Name,
			Amount:    input.Amount,
			DueDate:   input.DueDate,
		}
	}

	led, err := s.LedgerRepo.GetByStudentPeriod(ctx, input.OrgID, input.StudentID, input.Period)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	if led == nil {
		led = ledger.New(
			types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEDGER),
			input.OrgID,
			input.StudentID,
			input.Period,
			types.GetDefaultBaseModel(ctx),
		)
		led.AddInstallment(newEntry())

		err := s.LedgerRepo.Create(ctx, led)
		if ierr.IsAlreadyExists(err) {
			// Lost the first-installment race: a concurrent transaction
			// committed the ledger for this scope between our lookup and the
			// insert. The row exists now, so reload it under lock and append
			// there instead of failing the recipient.
			led, err = s.LedgerRepo.GetByStudentPeriod(ctx, input.OrgID, input.StudentID, input.Period)
			if err != nil {
				return nil, err
			}
			led.AddInstallment(newEntry())
			err = s.LedgerRepo.Update(ctx, led)
		}
		if err != nil {
			return nil, err
		}
	} else {
		led.AddInstallment(newEntry())
		if err := s.LedgerRepo.Update(ctx, led); err != nil {
			return nil, err
		}
	}

	s.Logger.Debugw("applied new installment",
		"ledger_id", led.ID,
		"student_id", input.StudentID,
		"period", input.Period,
		"amount", input.Amount.String(),
		"total_pending", led.TotalPending.String())

	return led, nil
}

// ApplyPayment settles a payment against the installment belonging to the
// voucher and appends a payment event. Overpayment beyond the installment's
// remaining balance is rejected and the ledger left unchanged.
func (s *ledgerService) ApplyPayment(ctx context.Context, input ApplyPaymentInput) (*ledger.Ledger, error) {
	if !input.Amount.IsPositive() {
		return nil, ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	led, err := s.LedgerRepo.GetByStudentPeriod(ctx, input.OrgID, input.StudentID, input.Period)
	if err != nil {
		return nil, err
	}

	if err := led.ApplyPayment(input.VoucherID, input.Amount, input.Date, input.Method, input.Reference); err != nil {
		return nil, err
	}

	if err := s.LedgerRepo.Update(ctx, led); err != nil {
		return nil, err
	}

	s.Logger.Infow("applied payment to ledger",
		"ledger_id", led.ID,
		"voucher_id", input.VoucherID,
		"amount", input.Amount.String(),
		"total_paid", led.TotalPaid.String(),
		"total_pending", led.TotalPending.String())

	return led, nil
}

func (s *ledgerService) GetLedger(ctx context.Context, id string) (*ledger.Ledger, error) {
	return s.LedgerRepo.Get(ctx, id)
}
