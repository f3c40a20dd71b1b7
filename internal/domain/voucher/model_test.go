package voucher

import (
	"testing"
	"time"

	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherValidate(t *testing.T) {
	v := &Voucher{
		ID:            "vch_1",
		Number:        "ABC-202401-0001",
		StudentID:     "stu_1",
		OrgID:         "org_1",
		Period:        "202401",
		Amount:        decimal.NewFromInt(500),
		VoucherStatus: types.VoucherStatusUnpaid,
	}
	require.NoError(t, v.Validate())

	missing := *v
	missing.StudentID = ""
	assert.True(t, ierr.IsValidation(missing.Validate()))

	zero := *v
	zero.Amount = decimal.Zero
	assert.True(t, ierr.IsValidation(zero.Validate()))

	negative := *v
	negative.Amount = decimal.NewFromInt(-500)
	assert.True(t, ierr.IsValidation(negative.Validate()))
}

func TestMarkPaid(t *testing.T) {
	v := &Voucher{
		ID:            "vch_1",
		StudentID:     "stu_1",
		Period:        "202401",
		Amount:        decimal.NewFromInt(500),
		VoucherStatus: types.VoucherStatusUnpaid,
	}

	paidAt := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, v.MarkPaid(paidAt, types.PaymentMethodCash, "RC-001"))

	assert.Equal(t, types.VoucherStatusPaid, v.VoucherStatus)
	require.NotNil(t, v.PaymentDate)
	assert.Equal(t, paidAt, *v.PaymentDate)
	require.NotNil(t, v.PaymentMethod)
	assert.Equal(t, types.PaymentMethodCash, *v.PaymentMethod)
	require.NotNil(t, v.PaymentReference)
	assert.Equal(t, "RC-001", *v.PaymentReference)

	// The transition is terminal
	err := v.MarkPaid(paidAt, types.PaymentMethodCash, "RC-002")
	assert.True(t, ierr.IsNotFound(err))
	assert.Equal(t, "RC-001", *v.PaymentReference)
}
