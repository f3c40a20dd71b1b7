package v1

import (
	"net/http"

	"github.com/feeflow/feeflow/internal/api/dto"
	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/service"
	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	issuance service.IssuanceService
	payments service.PaymentService
	log      *logger.Logger
}

func NewVoucherHandler(issuance service.IssuanceService, payments service.PaymentService, log *logger.Logger) *VoucherHandler {
	return &VoucherHandler{issuance: issuance, payments: payments, log: log}
}

// IssueVouchers issues vouchers for a batch of students
func (h *VoucherHandler) IssueVouchers(c *gin.Context) {
	var req dto.IssueVouchersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind issue request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.issuance.Issue(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to issue vouchers", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// PayVoucher settles an unpaid voucher
func (h *VoucherHandler) PayVoucher(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind payment request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.payments.Pay(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("failed to record payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetVoucher returns a voucher by ID
func (h *VoucherHandler) GetVoucher(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Voucher ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.payments.GetVoucher(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to get voucher", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
