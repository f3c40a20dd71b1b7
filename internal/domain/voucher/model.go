package voucher

import (
	"time"

	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/shopspring/decimal"
)

// Voucher represents a single payment instruction (chalan) issued to a
// student. Vouchers are append-only audit records: after issuance only the
// payment fields change, and only through the payment path. The number may
// additionally be rewritten by the offline repair job when the voucher was
// issued with a fallback identifier.
type Voucher struct {
	ID               string               `db:"id" json:"id"`
	Number           string               `db:"number" json:"number"`
	StudentID        string               `db:"student_id" json:"student_id"`
	OrgID            string               `db:"org_id" json:"org_id"`
	Period           string               `db:"period" json:"period"`
	InstallmentLabel string               `db:"installment_label" json:"installment_label"`
	Amount           decimal.Decimal      `db:"amount" json:"amount"`
	DueDate          time.Time            `db:"due_date" json:"due_date"`
	VoucherStatus    types.VoucherStatus  `db:"voucher_status" json:"voucher_status"`
	LedgerID         string               `db:"ledger_id" json:"ledger_id"`
	PaymentDate      *time.Time           `db:"payment_date" json:"payment_date,omitempty"`
	PaymentMethod    *types.PaymentMethod `db:"payment_method" json:"payment_method,omitempty"`
	PaymentReference *string              `db:"payment_reference" json:"payment_reference,omitempty"`
	types.BaseModel
}

func (v *Voucher) Validate() error {
	if v.StudentID == "" {
		return ierr.NewError("student id is required").
			WithHint("Voucher must belong to a student").
			Mark(ierr.ErrValidation)
	}

	if v.Period == "" {
		return ierr.NewError("period is required").
			WithHint("Voucher must belong to a billing period").
			Mark(ierr.ErrValidation)
	}

	if !v.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Voucher amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": v.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// MarkPaid applies the unpaid -> paid transition on the model. The caller is
// responsible for persisting the change inside the same transaction as the
// corresponding ledger update.
func (v *Voucher) MarkPaid(date time.Time, method types.PaymentMethod, reference string) error {
	if v.VoucherStatus != types.VoucherStatusUnpaid {
		return ierr.NewError("voucher is not unpaid").
			WithHint("Voucher not found or already paid").
			WithReportableDetails(map[string]any{
				"voucher_id": v.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	v.VoucherStatus = types.VoucherStatusPaid
	v.PaymentDate = &date
	v.PaymentMethod = &method
	v.PaymentReference = &reference
	return nil
}
