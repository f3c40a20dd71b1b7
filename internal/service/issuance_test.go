package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/feeflow/feeflow/internal/api/dto"
	"github.com/feeflow/feeflow/internal/domain/directory"
	"github.com/feeflow/feeflow/internal/domain/voucher"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/testutil"
	"github.com/feeflow/feeflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type IssuanceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  IssuanceService
	testData struct {
		org      *directory.Organization
		students []*directory.Student
	}
}

func TestIssuanceService(t *testing.T) {
	suite.Run(t, new(IssuanceServiceSuite))
}

func (s *IssuanceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *IssuanceServiceSuite) setupService() {
	s.service = NewIssuanceService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               s.GetDB(),
		CounterRepo:      s.GetStores().CounterRepo,
		VoucherRepo:      s.GetStores().VoucherRepo,
		LedgerRepo:       s.GetStores().LedgerRepo,
		StudentDirectory: s.GetStores().Directory,
		OrgDirectory:     s.GetStores().Directory,
	})
}

func (s *IssuanceServiceSuite) setupTestData() {
	s.testData.org = &directory.Organization{
		ID:   "org_test",
		Code: "ABC",
		Name: "Test School",
	}
	s.GetStores().Directory.SeedOrganization(s.testData.org)

	s.testData.students = []*directory.Student{
		{ID: "stu_1", Name: "Aisha Khan", RollNumber: "R-001"},
		{ID: "stu_2", Name: "Bilal Ahmed", RollNumber: "R-002"},
		{ID: "stu_3", Name: "Chandra Rao", RollNumber: "R-003"},
	}
	for _, student := range s.testData.students {
		s.GetStores().Directory.SeedStudent(student)
	}
}

func (s *IssuanceServiceSuite) newRequest(studentIDs ...string) *dto.IssueVouchersRequest {
	return &dto.IssueVouchersRequest{
		StudentIDs: studentIDs,
		OrgID:      s.testData.org.ID,
		Period:     "202401",
		Amount:     decimal.NewFromInt(500),
		DueDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (s *IssuanceServiceSuite) TestIssueSingleStudent() {
	resp, err := s.service.Issue(s.GetContext(), s.newRequest("stu_1"))
	s.NoError(err)
	s.Equal(1, resp.Succeeded)
	s.Equal(0, resp.Failed)
	s.Require().Len(resp.Items, 1)

	result := resp.Items[0]
	s.Equal(types.IssueOutcomeIssued, result.Outcome)
	s.Equal("Aisha Khan", result.StudentName)
	s.Equal("R-001", result.RollNumber)
	s.Require().NotNil(result.Voucher)
	s.Equal("ABC-202401-0001", result.Voucher.Number)
	s.Equal(types.VoucherStatusUnpaid, result.Voucher.VoucherStatus)
	s.Equal("Fee 202401", result.Voucher.InstallmentLabel)

	// The voucher and its ledger installment were persisted together
	led, err := s.GetStores().LedgerRepo.Get(s.GetContext(), result.Voucher.LedgerID)
	s.Require().NoError(err)
	s.True(led.TotalAssigned.Equal(decimal.NewFromInt(500)))
	s.True(led.TotalPaid.IsZero())
	s.True(led.TotalPending.Equal(decimal.NewFromInt(500)))
	s.Require().Len(led.Installments, 1)
	s.Equal(result.Voucher.ID, led.Installments[0].VoucherID)
}

func (s *IssuanceServiceSuite) TestSecondVoucherReusesLedger() {
	resp, err := s.service.Issue(s.GetContext(), s.newRequest("stu_1"))
	s.Require().NoError(err)
	first := resp.Items[0].Voucher

	req := s.newRequest("stu_1")
	req.Amount = decimal.NewFromInt(300)
	req.InstallmentLabel = "Lab Fee"
	resp, err = s.service.Issue(s.GetContext(), req)
	s.Require().NoError(err)
	second := resp.Items[0].Voucher

	s.Equal(first.LedgerID, second.LedgerID)
	s.Equal("ABC-202401-0002", second.Number)

	led, err := s.GetStores().LedgerRepo.Get(s.GetContext(), first.LedgerID)
	s.Require().NoError(err)
	s.True(led.TotalAssigned.Equal(decimal.NewFromInt(800)))
	s.True(led.TotalPending.Equal(decimal.NewFromInt(800)))
	s.Len(led.Installments, 2)
}

func (s *IssuanceServiceSuite) TestIssueBatchNumbersFollowRecipientOrder() {
	resp, err := s.service.Issue(s.GetContext(), s.newRequest("stu_1", "stu_2", "stu_3"))
	s.NoError(err)
	s.Equal(3, resp.Succeeded)
	s.Require().Len(resp.Items, 3)

	for i, result := range resp.Items {
		s.Equal(types.IssueOutcomeIssued, result.Outcome)
		s.Equal(fmt.Sprintf("ABC-202401-%04d", i+1), result.Voucher.Number)

		// Each student got their own ledger carrying the full amount
		led, err := s.GetStores().LedgerRepo.Get(s.GetContext(), result.Voucher.LedgerID)
		s.Require().NoError(err)
		s.Equal(result.StudentID, led.StudentID)
		s.True(led.TotalPending.Equal(decimal.NewFromInt(500)))
	}
}

func (s *IssuanceServiceSuite) TestFallbackNumberingWhenCounterUnavailable() {
	s.GetStores().CounterRepo.FailWith(fmt.Errorf("counter store unavailable"))

	resp, err := s.service.Issue(s.GetContext(), s.newRequest("stu_1"))
	s.NoError(err)
	s.Equal(1, resp.Succeeded)

	result := resp.Items[0]
	s.Equal(types.IssueOutcomeFallback, result.Outcome)
	s.Require().NotNil(result.Voucher)
	s.True(voucher.IsFallbackNumber(result.Voucher.Number))

	// The voucher still committed with its ledger installment
	led, err := s.GetStores().LedgerRepo.Get(s.GetContext(), result.Voucher.LedgerID)
	s.Require().NoError(err)
	s.True(led.TotalPending.Equal(decimal.NewFromInt(500)))
}

func (s *IssuanceServiceSuite) TestFailedStudentDoesNotAbortBatch() {
	s.GetStores().LedgerRepo.FailForStudent("stu_2", fmt.Errorf("connection reset"))

	resp, err := s.service.Issue(s.GetContext(), s.newRequest("stu_1", "stu_2", "stu_3"))
	s.NoError(err)
	s.Equal(2, resp.Succeeded)
	s.Equal(1, resp.Failed)
	s.Equal([]string{"stu_2"}, resp.FailedStudentIDs)

	s.Equal(types.IssueOutcomeIssued, resp.Items[0].Outcome)
	s.Equal(types.IssueOutcomeFailed, resp.Items[1].Outcome)
	s.NotEmpty(resp.Items[1].Error)
	s.Nil(resp.Items[1].Voucher)
	s.Equal(types.IssueOutcomeIssued, resp.Items[2].Outcome)
}

func (s *IssuanceServiceSuite) TestStudentLookupFailureUsesPlaceholder() {
	s.GetStores().Directory.FailStudentsWith(fmt.Errorf("directory timeout"))

	resp, err := s.service.Issue(s.GetContext(), s.newRequest("stu_1"))
	s.NoError(err)
	s.Equal(1, resp.Succeeded)

	result := resp.Items[0]
	s.Equal(types.IssueOutcomeIssued, result.Outcome)
	s.Equal("(unknown student)", result.StudentName)
	s.Require().NotNil(result.Voucher)

	// The committed voucher survives the display-metadata miss
	_, err = s.GetStores().VoucherRepo.Get(s.GetContext(), result.Voucher.ID)
	s.NoError(err)
}

func (s *IssuanceServiceSuite) TestConcurrentIssuesLoseNoInstallments() {
	const n = 10

	// Every call targets the same (org, student, period), so all of them
	// contend on one ledger row
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := s.service.Issue(s.GetContext(), s.newRequest("stu_1"))
			s.NoError(err)
			s.Equal(1, resp.Succeeded)
		}()
	}
	wg.Wait()

	led, err := s.GetStores().LedgerRepo.GetByStudentPeriod(s.GetContext(), "org_test", "stu_1", "202401")
	s.Require().NoError(err)
	s.Len(led.Installments, n)
	s.True(led.TotalAssigned.Equal(decimal.NewFromInt(n*500)))
	s.True(led.TotalPending.Equal(decimal.NewFromInt(n*500)))

	// And every installment kept its own voucher
	seen := make(map[string]bool)
	for _, entry := range led.Installments {
		s.False(seen[entry.VoucherID])
		seen[entry.VoucherID] = true
	}
}

func (s *IssuanceServiceSuite) TestConfiguredDefaultOrgCodeUsedWhenOrgHasNone() {
	s.GetStores().Directory.SeedOrganization(&directory.Organization{
		ID:   "org_nocode",
		Name: "Codeless School",
	})

	cfg := *s.GetConfig()
	cfg.Voucher.DefaultOrgCode = "ZED"
	svc := NewIssuanceService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           &cfg,
		DB:               s.GetDB(),
		CounterRepo:      s.GetStores().CounterRepo,
		VoucherRepo:      s.GetStores().VoucherRepo,
		LedgerRepo:       s.GetStores().LedgerRepo,
		StudentDirectory: s.GetStores().Directory,
		OrgDirectory:     s.GetStores().Directory,
	})

	req := s.newRequest("stu_1")
	req.OrgID = "org_nocode"

	resp, err := svc.Issue(s.GetContext(), req)
	s.NoError(err)
	s.Equal(1, resp.Succeeded)
	s.Equal("ZED-202401-0001", resp.Items[0].Voucher.Number)
}

func (s *IssuanceServiceSuite) TestUnknownOrganization() {
	req := s.newRequest("stu_1")
	req.OrgID = "org_missing"

	_, err := s.service.Issue(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *IssuanceServiceSuite) TestInvalidRequest() {
	req := s.newRequest("stu_1")
	req.Amount = decimal.Zero

	_, err := s.service.Issue(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *IssuanceServiceSuite) TestMissingRequiredFieldsRejected() {
	req := s.newRequest()
	_, err := s.service.Issue(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	req = s.newRequest("stu_1")
	req.OrgID = ""
	_, err = s.service.Issue(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	req = s.newRequest("stu_1")
	req.Period = ""
	_, err = s.service.Issue(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
