package types

// Status is a type for the lifecycle status of a persisted resource.
// This is used to determine if a record should be included in queries.
// Any changes to this type should be reflected in the database schema by running migrations
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// VoucherStatus is the payment state of a voucher. Vouchers move from
// unpaid to paid exactly once; there is no cancellation state.
type VoucherStatus string

const (
	VoucherStatusUnpaid VoucherStatus = "unpaid"
	VoucherStatusPaid   VoucherStatus = "paid"
)

// InstallmentStatus is the state of a single ledger installment entry
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

// IssueOutcome tags each per-student result of a batch issuance so callers
// can branch on the outcome instead of parsing voucher number strings
type IssueOutcome string

const (
	// IssueOutcomeIssued means the voucher carries a proper sequential number
	IssueOutcomeIssued IssueOutcome = "issued"
	// IssueOutcomeFallback means the numbering store was unavailable and the
	// voucher carries a tagged temporary number pending repair
	IssueOutcomeFallback IssueOutcome = "fallback"
	// IssueOutcomeFailed means no voucher was persisted for this student
	IssueOutcomeFailed IssueOutcome = "failed"
)

// PaymentMethod is the channel through which a voucher was settled
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) Validate() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBank, PaymentMethodOnline:
		return true
	}
	return false
}
