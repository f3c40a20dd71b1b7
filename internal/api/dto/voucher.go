package dto

import (
	"time"

	"github.com/feeflow/feeflow/internal/domain/voucher"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/feeflow/feeflow/internal/validator"
	"github.com/shopspring/decimal"
)

// IssueVouchersRequest represents a request to issue vouchers for a batch of students
type IssueVouchersRequest struct {
	StudentIDs       []string        `json:"student_ids" binding:"required" validate:"required,min=1,dive,required"`
	OrgID            string          `json:"org_id" binding:"required" validate:"required"`
	Period           string          `json:"period" binding:"required" validate:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	DueDate          time.Time       `json:"due_date" binding:"required" validate:"required"`
	InstallmentLabel string          `json:"installment_label,omitempty"`
}

func (r *IssueVouchersRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Voucher amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// VoucherResponse represents a voucher view returned to callers
type VoucherResponse struct {
	ID               string               `json:"id"`
	Number           string               `json:"number"`
	StudentID        string               `json:"student_id"`
	OrgID            string               `json:"org_id"`
	Period           string               `json:"period"`
	InstallmentLabel string               `json:"installment_label"`
	Amount           decimal.Decimal      `json:"amount"`
	DueDate          time.Time            `json:"due_date"`
	VoucherStatus    types.VoucherStatus  `json:"voucher_status"`
	LedgerID         string               `json:"ledger_id"`
	PaymentDate      *time.Time           `json:"payment_date,omitempty"`
	PaymentMethod    *types.PaymentMethod `json:"payment_method,omitempty"`
	PaymentReference *string              `json:"payment_reference,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// NewVoucherResponse creates a voucher response from a voucher
func NewVoucherResponse(v *voucher.Voucher) *VoucherResponse {
	if v == nil {
		return nil
	}
	return &VoucherResponse{
		ID:               v.ID,
		Number:           v.Number,
		StudentID:        v.StudentID,
		OrgID:            v.OrgID,
		Period:           v.Period,
		InstallmentLabel: v.InstallmentLabel,
		Amount:           v.Amount,
		DueDate:          v.DueDate,
		VoucherStatus:    v.VoucherStatus,
		LedgerID:         v.LedgerID,
		PaymentDate:      v.PaymentDate,
		PaymentMethod:    v.PaymentMethod,
		PaymentReference: v.PaymentReference,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// IssueVoucherResult is the per-student outcome of a batch issuance
type IssueVoucherResult struct {
	Outcome     types.IssueOutcome `json:"outcome"`
	StudentID   string             `json:"student_id"`
	StudentName string             `json:"student_name"`
	RollNumber  string             `json:"roll_number,omitempty"`
	Voucher     *VoucherResponse   `json:"voucher,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// IssueVouchersResponse represents the result of a batch issuance
type IssueVouchersResponse struct {
	Items            []*IssueVoucherResult `json:"items"`
	Succeeded        int                   `json:"succeeded"`
	Failed           int                   `json:"failed"`
	FailedStudentIDs []string              `json:"failed_student_ids,omitempty"`
}
