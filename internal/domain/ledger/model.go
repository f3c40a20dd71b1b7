package ledger

import (
	"time"

	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/shopspring/decimal"
)

// Ledger is the running account of assigned, paid, and pending amounts for
// one student in one billing period. Invariant at all times:
// TotalPending == TotalAssigned - TotalPaid. The ledger row is the
// serialization point for concurrent installment additions and payment
// applications against that student.
type Ledger struct {
	ID            string              `db:"id" json:"id"`
	OrgID         string              `db:"org_id" json:"org_id"`
	StudentID     string              `db:"student_id" json:"student_id"`
	Period        string              `db:"period" json:"period"`
	TotalAssigned decimal.Decimal     `db:"total_assigned" json:"total_assigned"`
	TotalPaid     decimal.Decimal     `db:"total_paid" json:"total_paid"`
	TotalPending  decimal.Decimal     `db:"total_pending" json:"total_pending"`
	Installments  []*InstallmentEntry `db:"-" json:"installments"`
	Payments      []*PaymentEvent     `db:"-" json:"payments"`
	types.BaseModel
}

// InstallmentEntry is one charge line item within a ledger, associated with
// exactly one voucher
type InstallmentEntry struct {
	VoucherID  string                  `json:"voucher_id"`
	Name       string                  `json:"name"`
	Amount     decimal.Decimal         `json:"amount"`
	DueDate    time.Time               `json:"due_date"`
	Status     types.InstallmentStatus `json:"status"`
	PaidAmount decimal.Decimal         `json:"paid_amount"`
	PaidDate   *time.Time              `json:"paid_date,omitempty"`
}

// PaymentEvent is an append-only record of one payment applied to the ledger
type PaymentEvent struct {
	Amount    decimal.Decimal     `json:"amount"`
	Date      time.Time           `json:"date"`
	Method    types.PaymentMethod `json:"method"`
	Reference string              `json:"reference"`
	VoucherID string              `json:"voucher_id"`
}

// New creates a zeroed ledger for a (org, student, period) triple
func New(id, orgID, studentID, period string, base types.BaseModel) *Ledger {
	return &Ledger{
		ID:            id,
		OrgID:         orgID,
		StudentID:     studentID,
		Period:        period,
		TotalAssigned: decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalPending:  decimal.Zero,
		Installments:  []*InstallmentEntry{},
		Payments:      []*PaymentEvent{},
		BaseModel:     base,
	}
}

// AddInstallment appends a new charge line item and raises the assigned and
// pending totals by its amount
func (l *Ledger) AddInstallment(entry *InstallmentEntry) {
	entry.Status = types.InstallmentStatusPending
	entry.PaidAmount = decimal.Zero
	l.Installments = append(l.Installments, entry)
	l.TotalAssigned = l.TotalAssigned.Add(entry.Amount)
	l.TotalPending = l.TotalPending.Add(entry.Amount)
}

// ApplyPayment settles amount against the installment belonging to
// voucherID. Overpayment beyond the installment's remaining balance is
// rejected, never clamped; the ledger is unchanged on error.
func (l *Ledger) ApplyPayment(voucherID string, amount decimal.Decimal, date time.Time, method types.PaymentMethod, reference string) error {
	var target *InstallmentEntry
	for _, entry := range l.Installments {
		if entry.VoucherID == voucherID {
			target = entry
			break
		}
	}

	if target == nil {
		return ierr.NewError("installment not found").
			WithHint("Ledger has no installment for this voucher").
			WithReportableDetails(map[string]any{
				"ledger_id":  l.ID,
				"voucher_id": voucherID,
			}).
			Mark(ierr.ErrNotFound)
	}

	remaining := target.Amount.Sub(target.PaidAmount)
	if amount.GreaterThan(remaining) {
		return ierr.NewError("payment exceeds installment balance").
			WithHint("Payment amount is more than the remaining balance").
			WithReportableDetails(map[string]any{
				"ledger_id":  l.ID,
				"voucher_id": voucherID,
				"amount":     amount.String(),
				"remaining":  remaining.String(),
			}).
			Mark(ierr.ErrConflict)
	}

	target.PaidAmount = target.PaidAmount.Add(amount)
	if target.PaidAmount.Equal(target.Amount) {
		target.Status = types.InstallmentStatusPaid
	}
	paidDate := date
	target.PaidDate = &paidDate

	l.TotalPaid = l.TotalPaid.Add(amount)
	l.TotalPending = l.TotalPending.Sub(amount)

	l.Payments = append(l.Payments, &PaymentEvent{
		Amount:    amount,
		Date:      date,
		Method:    method,
		Reference: reference,
		VoucherID: voucherID,
	})

	return nil
}
