package testutil

import (
	"context"
	"fmt"

	"github.com/feeflow/feeflow/internal/domain/ledger"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/samber/lo"
)

// InMemoryLedgerStore implements ledger.Repository
type InMemoryLedgerStore struct {
	*InMemoryStore[*ledger.Ledger]
	failStudents map[string]error
}

// NewInMemoryLedgerStore creates a new in-memory ledger store
func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		InMemoryStore: NewInMemoryStore[*ledger.Ledger](),
		failStudents:  make(map[string]error),
	}
}

// FailForStudent makes ledger lookups for studentID return err, so one
// recipient in a batch can be made to fail while the rest succeed
func (s *InMemoryLedgerStore) FailForStudent(studentID string, err error) {
	s.failStudents[studentID] = err
}

// copyLedger returns a deep copy including installments and payments
func copyLedger(l *ledger.Ledger) *ledger.Ledger {
	if l == nil {
		return nil
	}

	copied := *l
	copied.Installments = make([]*ledger.InstallmentEntry, len(l.Installments))
	for i, entry := range l.Installments {
		e := *entry
		if entry.PaidDate != nil {
			e.PaidDate = lo.ToPtr(*entry.PaidDate)
		}
		copied.Installments[i] = &e
	}
	copied.Payments = make([]*ledger.PaymentEvent, len(l.Payments))
	for i, event := range l.Payments {
		e := *event
		copied.Payments[i] = &e
	}
	return &copied
}

func studentPeriodKey(orgID, studentID, period string) string {
	return fmt.Sprintf("%s/%s/%s", orgID, studentID, period)
}

func (s *InMemoryLedgerStore) Create(ctx context.Context, l *ledger.Ledger) error {
	if l == nil {
		return ierr.NewError("ledger cannot be nil").
			Mark(ierr.ErrValidation)
	}

	// Same uniqueness the (org_id, student_id, period) constraint enforces
	existing, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, other *ledger.Ledger, _ interface{}) bool {
			return studentPeriodKey(other.OrgID, other.StudentID, other.Period) == studentPeriodKey(l.OrgID, l.StudentID, l.Period)
		}, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ierr.NewError("ledger already exists").
			WithHint("A ledger already exists for this student and period").
			WithReportableDetails(map[string]any{
				"student_id": l.StudentID,
				"period":     l.Period,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, l.ID, copyLedger(l)); err != nil {
		return ierr.WithError(err).
			WithHint("ledger creation failed").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryLedgerStore) Get(ctx context.Context, id string) (*ledger.Ledger, error) {
	l, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("ledger not found").
			WithHintf("Ledger with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyLedger(l), nil
}

func (s *InMemoryLedgerStore) GetByStudentPeriod(ctx context.Context, orgID, studentID, period string) (*ledger.Ledger, error) {
	if err, ok := s.failStudents[studentID]; ok {
		return nil, ierr.WithError(err).
			WithHint("ledger lookup failed").
			Mark(ierr.ErrDatabase)
	}

	ledgers, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, l *ledger.Ledger, _ interface{}) bool {
			return studentPeriodKey(l.OrgID, l.StudentID, l.Period) == studentPeriodKey(orgID, studentID, period)
		}, nil)
	if err != nil {
		return nil, err
	}

	if len(ledgers) == 0 {
		return nil, ierr.NewError("ledger not found").
			WithHintf("No ledger exists for student %s in period %s", studentID, period).
			Mark(ierr.ErrNotFound)
	}

	return copyLedger(ledgers[0]), nil
}

// Clear removes all ledgers and failure injection
func (s *InMemoryLedgerStore) Clear() {
	s.InMemoryStore.Clear()
	s.failStudents = make(map[string]error)
}

func (s *InMemoryLedgerStore) Update(ctx context.Context, l *ledger.Ledger) error {
	if err := s.InMemoryStore.Update(ctx, l.ID, copyLedger(l)); err != nil {
		return ierr.NewError("ledger not found").
			WithHintf("Ledger with ID %s was not found", l.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
