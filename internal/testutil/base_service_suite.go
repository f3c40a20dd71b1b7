package testutil

import (
	"context"

	"github.com/feeflow/feeflow/internal/config"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
	"github.com/feeflow/feeflow/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory implementations of every repository the
// services depend on.
type Stores struct {
	CounterRepo *InMemoryCounterStore
	VoucherRepo *InMemoryVoucherStore
	LedgerRepo  *InMemoryLedgerStore
	Directory   *InMemoryDirectory
}

// BaseServiceTestSuite provides common functionality for service tests
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	logger *logger.Logger
	db     postgres.IClient
	stores Stores
}

// SetupSuite initializes shared resources
func (s *BaseServiceTestSuite) SetupSuite() {
	s.cfg = config.GetDefaultConfig()
	log, err := logger.NewLogger(s.cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.logger = log
	validator.NewValidator()
}

// SetupTest prepares fresh state for each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.db = NewMockPostgresClient()
	s.stores = Stores{
		CounterRepo: NewInMemoryCounterStore(),
		VoucherRepo: NewInMemoryVoucherStore(),
		LedgerRepo:  NewInMemoryLedgerStore(),
		Directory:   NewInMemoryDirectory(),
	}
}

// TearDownTest clears per-test state
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.CounterRepo.Clear()
	s.stores.VoucherRepo.Clear()
	s.stores.LedgerRepo.Clear()
	s.stores.Directory.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}
