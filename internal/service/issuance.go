package service

import (
	"context"
	"fmt"
	"time"

	"github.com/feeflow/feeflow/internal/api/dto"
	"github.com/feeflow/feeflow/internal/domain/voucher"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/types"
)

// IssuanceService creates vouchers for a batch of students, one counter
// increment and one voucher+ledger transaction per student. Atomicity is
// per student, not per batch: a failed student is reported in the response
// and does not roll back committed siblings.
type IssuanceService interface {
	Issue(ctx context.Context, req *dto.IssueVouchersRequest) (*dto.IssueVouchersResponse, error)
}

type issuanceService struct {
	ServiceParams
}

// NewIssuanceService creates a new issuance service
func NewIssuanceService(params ServiceParams) IssuanceService {
	return &issuanceService{
		ServiceParams: params,
	}
}

func (s *issuanceService) Issue(ctx context.Context, req *dto.IssueVouchersRequest) (*dto.IssueVouchersResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	org, err := s.OrgDirectory.GetOrganization(ctx, req.OrgID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Organization %s was not found", req.OrgID).
			Mark(ierr.ErrNotFound)
	}

	orgCode := org.Code
	if orgCode == "" {
		orgCode = s.Config.Voucher.DefaultOrgCode
	}

	label := req.InstallmentLabel
	if label == "" {
		label = fmt.Sprintf("Fee %s", req.Period)
	}

	sequenceService := NewSequenceService(s.ServiceParams)
	ledgerService := NewLedgerService(s.ServiceParams)

	resp := &dto.IssueVouchersResponse{
		Items: make([]*dto.IssueVoucherResult, 0, len(req.StudentIDs)),
	}

	// Students are processed sequentially: number assignment within a batch
	// follows recipient order, and the counter row serializes concurrent
	// batches anyway.
	for _, studentID := range req.StudentIDs {
		result := s.issueOne(ctx, sequenceService, ledgerService, req, orgCode, label, studentID)
		resp.Items = append(resp.Items, result)

		if result.Outcome == types.IssueOutcomeFailed {
			resp.Failed++
			resp.FailedStudentIDs = append(resp.FailedStudentIDs, studentID)
		} else {
			resp.Succeeded++
		}
	}

	s.Logger.Infow("issued voucher batch",
		"org_id", req.OrgID,
		"period", req.Period,
		"requested", len(req.StudentIDs),
		"succeeded", resp.Succeeded,
		"failed", resp.Failed)

	return resp, nil
}

// issueOne processes a single student: one sequence number, one transaction
// persisting the voucher and its ledger installment together.
func (s *issuanceService) issueOne(
	ctx context.Context,
	sequenceService SequenceService,
	ledgerService LedgerService,
	req *dto.IssueVouchersRequest,
	orgCode string,
	label string,
	studentID string,
) *dto.IssueVoucherResult {
	outcome := types.IssueOutcomeIssued

	var number string
	sequence, err := sequenceService.Next(ctx, orgCode, req.Period)
	if err != nil {
		// Availability over strict numbering continuity: tag the voucher
		// with a temporary number and keep going. The repair job rewrites
		// these once the numbering store is reachable again.
		number = voucher.FallbackNumber(orgCode, time.Now().UTC())
		outcome = types.IssueOutcomeFallback
		s.Logger.Warnw("voucher numbering degraded, using fallback number",
			"student_id", studentID,
			"period", req.Period,
			"number", number,
			"error", err)
	} else {
		number = voucher.FormatNumber(orgCode, req.Period, sequence)
	}

	v := &voucher.Voucher{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_VOUCHER),
		Number:           number,
		StudentID:        studentID,
		OrgID:            req.OrgID,
		Period:           req.Period,
		InstallmentLabel: label,
		Amount:           req.Amount,
		DueDate:          req.DueDate,
		VoucherStatus:    types.VoucherStatusUnpaid,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}

	// Transactional workflow begins here: the voucher and its ledger
	// installment commit together or not at all.
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		led, err := ledgerService.ApplyNewInstallment(ctx, ApplyInstallmentInput{
			OrgID:     req.OrgID,
			StudentID: studentID,
			Period:    req.Period,
			VoucherID: v.ID,
			Name:      label,
			Amount:    req.Amount,
			DueDate:   req.DueDate,
		})
		if err != nil {
			return err
		}

		v.LedgerID = led.ID
		if err := v.Validate(); err != nil {
			return err
		}

		return s.VoucherRepo.Create(ctx, v)
	})
	if err != nil {
		s.Logger.Errorw("voucher issuance failed for student",
			"student_id", studentID,
			"period", req.Period,
			"error", err)
		return &dto.IssueVoucherResult{
			Outcome:   types.IssueOutcomeFailed,
			StudentID: studentID,
			Error:     err.Error(),
		}
	}

	result := &dto.IssueVoucherResult{
		Outcome:   outcome,
		StudentID: studentID,
		Voucher:   dto.NewVoucherResponse(v),
	}

	// Display metadata is best effort: a directory miss gets a placeholder,
	// never a rollback of the committed voucher.
	student, err := s.StudentDirectory.GetStudent(ctx, studentID)
	if err != nil {
		s.Logger.Warnw("student lookup failed, using placeholder name",
			"student_id", studentID,
			"error", err)
		result.StudentName = "(unknown student)"
	} else {
		result.StudentName = student.Name
		result.RollNumber = student.RollNumber
	}

	return result
}
