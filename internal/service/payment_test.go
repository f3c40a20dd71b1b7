package service

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feeflow/feeflow/internal/api/dto"
	"github.com/feeflow/feeflow/internal/domain/directory"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/testutil"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentService
	issuance IssuanceService
	testData struct {
		voucher *dto.VoucherResponse
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupServices()
	s.setupTestData()
}

func (s *PaymentServiceSuite) setupServices() {
	params := ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               s.GetDB(),
		CounterRepo:      s.GetStores().CounterRepo,
		VoucherRepo:      s.GetStores().VoucherRepo,
		LedgerRepo:       s.GetStores().LedgerRepo,
		StudentDirectory: s.GetStores().Directory,
		OrgDirectory:     s.GetStores().Directory,
	}
	s.service = NewPaymentService(params)
	s.issuance = NewIssuanceService(params)
}

func (s *PaymentServiceSuite) setupTestData() {
	s.GetStores().Directory.SeedOrganization(&directory.Organization{
		ID:   "org_test",
		Code: "ABC",
		Name: "Test School",
	})
	s.GetStores().Directory.SeedStudent(&directory.Student{
		ID:         "stu_1",
		Name:       "Aisha Khan",
		RollNumber: "R-001",
	})

	resp, err := s.issuance.Issue(s.GetContext(), &dto.IssueVouchersRequest{
		StudentIDs: []string{"stu_1"},
		OrgID:      "org_test",
		Period:     "202401",
		Amount:     decimal.NewFromInt(500),
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.Require().Equal(1, resp.Succeeded)
	s.testData.voucher = resp.Items[0].Voucher
}

func (s *PaymentServiceSuite) newRequest() *dto.RecordPaymentRequest {
	return &dto.RecordPaymentRequest{
		VoucherID:     s.testData.voucher.ID,
		OrgID:         "org_test",
		PaymentDate:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		PaymentMethod: types.PaymentMethodBank,
	}
}

func (s *PaymentServiceSuite) TestPay() {
	req := s.newRequest()
	req.PaymentReference = "BANK-TXN-42"

	paid, err := s.service.Pay(s.GetContext(), req)
	s.NoError(err)
	s.Equal(types.VoucherStatusPaid, paid.VoucherStatus)
	s.Require().NotNil(paid.PaymentDate)
	s.Equal(req.PaymentDate, *paid.PaymentDate)
	s.Require().NotNil(paid.PaymentMethod)
	s.Equal(types.PaymentMethodBank, *paid.PaymentMethod)
	s.Require().NotNil(paid.PaymentReference)
	s.Equal("BANK-TXN-42", *paid.PaymentReference)

	// The ledger settled in the same transaction
	led, err := s.GetStores().LedgerRepo.Get(s.GetContext(), paid.LedgerID)
	s.Require().NoError(err)
	s.True(led.TotalPaid.Equal(decimal.NewFromInt(500)))
	s.True(led.TotalPending.IsZero())
	s.Equal(types.InstallmentStatusPaid, led.Installments[0].Status)
	s.Require().Len(led.Payments, 1)
	s.Equal("BANK-TXN-42", led.Payments[0].Reference)
}

func (s *PaymentServiceSuite) TestPayGeneratesReceiptReference() {
	paid, err := s.service.Pay(s.GetContext(), s.newRequest())
	s.NoError(err)
	s.Require().NotNil(paid.PaymentReference)
	s.True(strings.HasPrefix(*paid.PaymentReference, "RC-"))
}

func (s *PaymentServiceSuite) TestConcurrentPaymentsApplyExactlyOnce() {
	const n = 5

	var wg sync.WaitGroup
	var succeeded int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Pay(s.GetContext(), s.newRequest())
			if err == nil {
				atomic.AddInt32(&succeeded, 1)
				return
			}
			s.True(ierr.IsNotFound(err))
		}()
	}
	wg.Wait()

	s.Equal(int32(1), succeeded)

	// The ledger recorded the payment once, never n times
	led, err := s.GetStores().LedgerRepo.Get(s.GetContext(), s.testData.voucher.LedgerID)
	s.Require().NoError(err)
	s.True(led.TotalPaid.Equal(decimal.NewFromInt(500)))
	s.True(led.TotalPending.IsZero())
	s.Len(led.Payments, 1)
}

func (s *PaymentServiceSuite) TestPayRacingIssueLosesNeitherWrite() {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, err := s.service.Pay(s.GetContext(), s.newRequest())
		s.NoError(err)
	}()
	go func() {
		defer wg.Done()
		resp, err := s.issuance.Issue(s.GetContext(), &dto.IssueVouchersRequest{
			StudentIDs: []string{"stu_1"},
			OrgID:      "org_test",
			Period:     "202401",
			Amount:     decimal.NewFromInt(300),
			DueDate:    time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		})
		s.NoError(err)
		s.Equal(1, resp.Succeeded)
	}()
	wg.Wait()

	// Both mutations of the shared ledger survived regardless of ordering
	led, err := s.GetStores().LedgerRepo.Get(s.GetContext(), s.testData.voucher.LedgerID)
	s.Require().NoError(err)
	s.Len(led.Installments, 2)
	s.True(led.TotalAssigned.Equal(decimal.NewFromInt(800)))
	s.True(led.TotalPaid.Equal(decimal.NewFromInt(500)))
	s.True(led.TotalPending.Equal(decimal.NewFromInt(300)))
	s.Len(led.Payments, 1)
}

func (s *PaymentServiceSuite) TestPayTwiceReturnsNotFound() {
	_, err := s.service.Pay(s.GetContext(), s.newRequest())
	s.Require().NoError(err)

	_, err = s.service.Pay(s.GetContext(), s.newRequest())
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestPayForeignOrgReturnsNotFound() {
	s.GetStores().Directory.SeedOrganization(&directory.Organization{
		ID:   "org_other",
		Code: "XYZ",
		Name: "Other School",
	})

	req := s.newRequest()
	req.OrgID = "org_other"

	// A voucher belonging to another org is indistinguishable from a
	// missing one
	_, err := s.service.Pay(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestPayUnknownVoucher() {
	req := s.newRequest()
	req.VoucherID = "vch_missing"

	_, err := s.service.Pay(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestPayMissingVoucherIDRejected() {
	req := s.newRequest()
	req.VoucherID = ""

	_, err := s.service.Pay(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestPayInvalidMethod() {
	req := s.newRequest()
	req.PaymentMethod = "barter"

	_, err := s.service.Pay(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestGetVoucher() {
	resp, err := s.service.GetVoucher(s.GetContext(), s.testData.voucher.ID)
	s.NoError(err)
	s.Equal(s.testData.voucher.ID, resp.ID)
	s.Equal(types.VoucherStatusUnpaid, resp.VoucherStatus)

	_, err = s.service.GetVoucher(s.GetContext(), "vch_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
