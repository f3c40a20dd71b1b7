package testutil

import (
	"context"
	"sync"

	"github.com/feeflow/feeflow/internal/domain/directory"
	ierr "github.com/feeflow/feeflow/internal/errors"
)

// InMemoryDirectory implements directory.StudentDirectory and
// directory.OrgDirectory backed by seeded maps.
type InMemoryDirectory struct {
	mu         sync.RWMutex
	students   map[string]*directory.Student
	orgs       map[string]*directory.Organization
	studentErr error
}

// NewInMemoryDirectory creates a new in-memory directory
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		students: make(map[string]*directory.Student),
		orgs:     make(map[string]*directory.Organization),
	}
}

// SeedStudent registers a student for lookup
func (d *InMemoryDirectory) SeedStudent(s *directory.Student) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.students[s.ID] = s
}

// SeedOrganization registers an organization for lookup
func (d *InMemoryDirectory) SeedOrganization(o *directory.Organization) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.orgs[o.ID] = o
}

// FailStudentsWith makes every student lookup return err until reset with nil
func (d *InMemoryDirectory) FailStudentsWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.studentErr = err
}

func (d *InMemoryDirectory) GetStudent(ctx context.Context, id string) (*directory.Student, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.studentErr != nil {
		return nil, d.studentErr
	}

	s, ok := d.students[id]
	if !ok {
		return nil, ierr.NewError("student not found").
			WithHintf("Student with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	copied := *s
	return &copied, nil
}

func (d *InMemoryDirectory) GetOrganization(ctx context.Context, id string) (*directory.Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	o, ok := d.orgs[id]
	if !ok {
		return nil, ierr.NewError("organization not found").
			WithHintf("Organization with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

// Clear removes all seeded entries and failure injection
func (d *InMemoryDirectory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.students = make(map[string]*directory.Student)
	d.orgs = make(map[string]*directory.Organization)
	d.studentErr = nil
}
