package postgres

import (
	"context"
	"database/sql"

	"github.com/feeflow/feeflow/internal/domain/directory"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
)

// studentDirectory and orgDirectory are read-only views over tables owned by
// the enrollment system. This core never writes to them.

type studentDirectory struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewStudentDirectory(client postgres.IClient, logger *logger.Logger) directory.StudentDirectory {
	return &studentDirectory{
		client: client,
		logger: logger,
	}
}

func (d *studentDirectory) GetStudent(ctx context.Context, id string) (*directory.Student, error) {
	query := `
		SELECT id, name, roll_number FROM students
		WHERE id = $1`

	var row struct {
		ID         string `db:"id"`
		Name       string `db:"name"`
		RollNumber string `db:"roll_number"`
	}
	if err := d.client.Querier(ctx).GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("student not found").
				WithHintf("Student with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("student lookup failed").
			Mark(ierr.ErrDatabase)
	}

	return &directory.Student{
		ID:         row.ID,
		Name:       row.Name,
		RollNumber: row.RollNumber,
	}, nil
}

type orgDirectory struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewOrgDirectory(client postgres.IClient, logger *logger.Logger) directory.OrgDirectory {
	return &orgDirectory{
		client: client,
		logger: logger,
	}
}

func (d *orgDirectory) GetOrganization(ctx context.Context, id string) (*directory.Organization, error) {
	query := `
		SELECT id, code, name FROM organizations
		WHERE id = $1`

	var row struct {
		ID   string `db:"id"`
		Code string `db:"code"`
		Name string `db:"name"`
	}
	if err := d.client.Querier(ctx).GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("organization not found").
				WithHintf("Organization with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("organization lookup failed").
			Mark(ierr.ErrDatabase)
	}

	return &directory.Organization{
		ID:   row.ID,
		Code: row.Code,
		Name: row.Name,
	}, nil
}
