package service

import (
	"github.com/feeflow/feeflow/internal/config"
	"github.com/feeflow/feeflow/internal/domain/counter"
	"github.com/feeflow/feeflow/internal/domain/directory"
	"github.com/feeflow/feeflow/internal/domain/ledger"
	"github.com/feeflow/feeflow/internal/domain/voucher"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	CounterRepo counter.Repository
	VoucherRepo voucher.Repository
	LedgerRepo  ledger.Repository

	// External collaborators, read-only
	StudentDirectory directory.StudentDirectory
	OrgDirectory     directory.OrgDirectory
}

func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	counterRepo counter.Repository,
	voucherRepo voucher.Repository,
	ledgerRepo ledger.Repository,
	studentDirectory directory.StudentDirectory,
	orgDirectory directory.OrgDirectory,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		DB:               db,
		CounterRepo:      counterRepo,
		VoucherRepo:      voucherRepo,
		LedgerRepo:       ledgerRepo,
		StudentDirectory: studentDirectory,
		OrgDirectory:     orgDirectory,
	}
}
