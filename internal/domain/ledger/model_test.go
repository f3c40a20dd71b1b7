package ledger

import (
	"testing"
	"time"

	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger() *Ledger {
	return New("ldg_1", "org_1", "stu_1", "202401", types.BaseModel{Status: types.StatusPublished})
}

func TestAddInstallment(t *testing.T) {
	l := newTestLedger()
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	l.AddInstallment(&InstallmentEntry{
		VoucherID: "vch_1",
		Name:      "Fee 202401",
		Amount:    decimal.NewFromInt(500),
		DueDate:   due,
	})

	assert.True(t, l.TotalAssigned.Equal(decimal.NewFromInt(500)))
	assert.True(t, l.TotalPaid.IsZero())
	assert.True(t, l.TotalPending.Equal(decimal.NewFromInt(500)))
	require.Len(t, l.Installments, 1)
	assert.Equal(t, types.InstallmentStatusPending, l.Installments[0].Status)

	// Totals are additive across installments
	l.AddInstallment(&InstallmentEntry{
		VoucherID: "vch_2",
		Name:      "Lab Fee",
		Amount:    decimal.NewFromInt(300),
		DueDate:   due,
	})

	assert.True(t, l.TotalAssigned.Equal(decimal.NewFromInt(800)))
	assert.True(t, l.TotalPending.Equal(decimal.NewFromInt(800)))
}

func TestApplyPayment(t *testing.T) {
	l := newTestLedger()
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	l.AddInstallment(&InstallmentEntry{
		VoucherID: "vch_1",
		Name:      "Fee 202401",
		Amount:    decimal.NewFromInt(500),
		DueDate:   due,
	})

	paidAt := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	err := l.ApplyPayment("vch_1", decimal.NewFromInt(500), paidAt, types.PaymentMethodBank, "RC-001")
	require.NoError(t, err)

	assert.True(t, l.TotalPaid.Equal(decimal.NewFromInt(500)))
	assert.True(t, l.TotalPending.IsZero())
	assert.Equal(t, types.InstallmentStatusPaid, l.Installments[0].Status)
	require.Len(t, l.Payments, 1)
	assert.Equal(t, "RC-001", l.Payments[0].Reference)
}

func TestApplyPaymentUnknownVoucher(t *testing.T) {
	l := newTestLedger()

	err := l.ApplyPayment("vch_missing", decimal.NewFromInt(500), time.Now().UTC(), types.PaymentMethodCash, "RC-001")
	assert.True(t, ierr.IsNotFound(err))
}

func TestApplyPaymentOverpayRejected(t *testing.T) {
	l := newTestLedger()
	l.AddInstallment(&InstallmentEntry{
		VoucherID: "vch_1",
		Name:      "Fee 202401",
		Amount:    decimal.NewFromInt(500),
		DueDate:   time.Now().UTC(),
	})

	err := l.ApplyPayment("vch_1", decimal.NewFromInt(600), time.Now().UTC(), types.PaymentMethodCash, "RC-001")
	require.Error(t, err)
	assert.True(t, ierr.IsConflict(err))

	// Rejection leaves the ledger untouched
	assert.True(t, l.TotalPaid.IsZero())
	assert.True(t, l.TotalPending.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, types.InstallmentStatusPending, l.Installments[0].Status)
	assert.Empty(t, l.Payments)
}
