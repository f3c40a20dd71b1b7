package dto

import (
	"time"

	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/feeflow/feeflow/internal/validator"
)

// RecordPaymentRequest represents a request to settle an unpaid voucher
type RecordPaymentRequest struct {
	VoucherID        string              `json:"voucher_id" binding:"required" validate:"required"`
	OrgID            string              `json:"org_id" binding:"required" validate:"required"`
	PaymentDate      time.Time           `json:"payment_date"`
	PaymentMethod    types.PaymentMethod `json:"payment_method" binding:"required"`
	PaymentReference string              `json:"payment_reference,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.PaymentMethod.Validate() {
		return ierr.NewError("invalid payment method").
			WithHintf("Payment method %s is not supported", r.PaymentMethod).
			Mark(ierr.ErrValidation)
	}

	return nil
}
