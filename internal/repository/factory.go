package repository

import (
	"github.com/feeflow/feeflow/internal/domain/counter"
	"github.com/feeflow/feeflow/internal/domain/directory"
	"github.com/feeflow/feeflow/internal/domain/ledger"
	"github.com/feeflow/feeflow/internal/domain/voucher"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
	postgresRepo "github.com/feeflow/feeflow/internal/repository/postgres"
)

func NewCounterRepository(client postgres.IClient, logger *logger.Logger) counter.Repository {
	return postgresRepo.NewCounterRepository(client, logger)
}

func NewVoucherRepository(client postgres.IClient, logger *logger.Logger) voucher.Repository {
	return postgresRepo.NewVoucherRepository(client, logger)
}

func NewLedgerRepository(client postgres.IClient, logger *logger.Logger) ledger.Repository {
	return postgresRepo.NewLedgerRepository(client, logger)
}

func NewStudentDirectory(client postgres.IClient, logger *logger.Logger) directory.StudentDirectory {
	return postgresRepo.NewStudentDirectory(client, logger)
}

func NewOrgDirectory(client postgres.IClient, logger *logger.Logger) directory.OrgDirectory {
	return postgresRepo.NewOrgDirectory(client, logger)
}
