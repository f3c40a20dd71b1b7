package service

import (
	"context"

	"github.com/feeflow/feeflow/internal/domain/voucher"
)

// RepairResult summarizes one repair run
type RepairResult struct {
	Scanned          int      `json:"scanned"`
	Repaired         int      `json:"repaired"`
	Failed           int      `json:"failed"`
	FailedVoucherIDs []string `json:"failed_voucher_ids,omitempty"`
}

// RepairService rewrites fallback-numbered vouchers with proper sequential
// numbers. Runs out-of-band, never as part of request serving. Idempotent
// across runs: repaired numbers no longer match the scan predicate, so a
// re-run after a partial failure picks up only the unrepaired remainder.
type RepairService interface {
	Run(ctx context.Context) (*RepairResult, error)
}

type repairService struct {
	ServiceParams
}

// NewRepairService creates a new repair service
func NewRepairService(params ServiceParams) RepairService {
	return &repairService{
		ServiceParams: params,
	}
}

func (s *repairService) Run(ctx context.Context) (*RepairResult, error) {
	vouchers, err := s.VoucherRepo.ListFallbackNumbered(ctx)
	if err != nil {
		// The scan failing is the one unrecoverable outcome; per-record
		// errors below are logged and counted instead.
		return nil, err
	}

	result := &RepairResult{Scanned: len(vouchers)}
	sequenceService := NewSequenceService(s.ServiceParams)

	s.Logger.Infow("repairing fallback voucher numbers", "candidates", len(vouchers))

	for _, v := range vouchers {
		if err := s.repairOne(ctx, sequenceService, v); err != nil {
			s.Logger.Errorw("voucher number repair failed",
				"voucher_id", v.ID,
				"number", v.Number,
				"error", err)
			result.Failed++
			result.FailedVoucherIDs = append(result.FailedVoucherIDs, v.ID)
			continue
		}
		result.Repaired++
	}

	s.Logger.Infow("voucher number repair finished",
		"scanned", result.Scanned,
		"repaired", result.Repaired,
		"failed", result.Failed)

	return result, nil
}

func (s *repairService) repairOne(ctx context.Context, sequenceService SequenceService, v *voucher.Voucher) error {
	org, err := s.OrgDirectory.GetOrganization(ctx, v.OrgID)
	if err != nil {
		return err
	}

	orgCode := org.Code
	if orgCode == "" {
		orgCode = s.Config.Voucher.DefaultOrgCode
	}

	// The scope key is recomputed from the voucher's original issuance
	// period, not the current month, so the repaired number lands in the
	// right sequence run. Each repair consumes a fresh, never-reused number.
	sequence, err := sequenceService.Next(ctx, orgCode, v.Period)
	if err != nil {
		return err
	}

	oldNumber := v.Number
	v.Number = voucher.FormatNumber(orgCode, v.Period, sequence)

	if err := s.VoucherRepo.Update(ctx, v); err != nil {
		return err
	}

	s.Logger.Infow("repaired voucher number",
		"voucher_id", v.ID,
		"old_number", oldNumber,
		"new_number", v.Number)

	return nil
}
