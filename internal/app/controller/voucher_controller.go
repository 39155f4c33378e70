package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type VoucherController struct {
	voucherService service.VoucherService
}

func NewVoucherController(voucherService service.VoucherService) *VoucherController {
	return &VoucherController{
		voucherService: voucherService,
	}
}

type ValidateVoucherRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"gte=0"`
}

type VoucherRequest struct {
	Code        string     `json:"code"`
	Discount    float64    `json:"discount" binding:"required,gt=0"`
	MinPurchase float64    `json:"min_purchase" binding:"gte=0"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	UsageLimit  int        `json:"usage_limit" binding:"gte=0"`
}

func respondVoucherError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, service.ErrVoucherNotFound):
		errors.NotFound(c, errors.VoucherNotFound, "Voucher tidak ditemukan")
	case stderrors.Is(err, service.ErrVoucherInactive):
		errors.BadRequest(c, errors.VoucherInactive, "Voucher tidak aktif")
	case stderrors.Is(err, service.ErrVoucherExpired):
		errors.BadRequest(c, errors.VoucherExpired, "Voucher sudah kedaluwarsa")
	case stderrors.Is(err, service.ErrVoucherExhausted):
		errors.BadRequest(c, errors.VoucherExhausted, "Kuota voucher sudah habis")
	case stderrors.Is(err, service.ErrVoucherMinPurchase):
		errors.BadRequest(c, errors.VoucherMinPurchase, "Belanja belum mencapai minimum voucher")
	case stderrors.Is(err, service.ErrInvalidVoucher):
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data voucher tidak valid")
	default:
		errors.Internal(c, "")
	}
}

// ValidateVoucher checks a code against the customer's current subtotal.
// The result is advisory: checkout re-validates against the live cart.
// POST /api/v1/vouchers/validate
func (ctrl *VoucherController) ValidateVoucher(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ValidateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	validation, err := ctrl.voucherService.Validate(req.Code, req.Subtotal)
	if err != nil {
		log.Warn("Voucher validation failed", map[string]interface{}{
			"code":  req.Code,
			"error": err.Error(),
		})
		respondVoucherError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"voucher": validation,
	})
}

// ListVouchers returns every voucher (admin only).
// GET /api/v1/admin/vouchers
func (ctrl *VoucherController) ListVouchers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vouchers, err := ctrl.voucherService.ListVouchers()
	if err != nil {
		log.Error("Failed to list vouchers", err, nil)
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vouchers": vouchers,
		"count":    len(vouchers),
	})
}

// CreateVoucher adds a voucher; an empty code gets generated (admin only).
// POST /api/v1/admin/vouchers
func (ctrl *VoucherController) CreateVoucher(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	voucher := &model.Voucher{
		Code:        req.Code,
		Discount:    req.Discount,
		MinPurchase: req.MinPurchase,
		Active:      req.Active,
		ExpiresAt:   req.ExpiresAt,
		UsageLimit:  req.UsageLimit,
	}

	if err := ctrl.voucherService.CreateVoucher(voucher); err != nil {
		log.Warn("Voucher creation failed", map[string]interface{}{
			"code":  req.Code,
			"error": err.Error(),
		})
		respondVoucherError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Voucher berhasil dibuat",
		"voucher": voucher,
	})
}

// UpdateVoucher edits a voucher; the code stays fixed (admin only).
// PUT /api/v1/admin/vouchers/:id
func (ctrl *VoucherController) UpdateVoucher(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID voucher tidak valid")
		return
	}

	var req VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	voucher := &model.Voucher{
		ID:          uint(id),
		Discount:    req.Discount,
		MinPurchase: req.MinPurchase,
		Active:      req.Active,
		ExpiresAt:   req.ExpiresAt,
		UsageLimit:  req.UsageLimit,
	}

	if err := ctrl.voucherService.UpdateVoucher(voucher); err != nil {
		log.Warn("Voucher update failed", map[string]interface{}{
			"voucher_id": id,
			"error":      err.Error(),
		})
		respondVoucherError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voucher berhasil diperbarui",
		"voucher": voucher,
	})
}

// DeleteVoucher removes a voucher (admin only).
// DELETE /api/v1/admin/vouchers/:id
func (ctrl *VoucherController) DeleteVoucher(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID voucher tidak valid")
		return
	}

	if err := ctrl.voucherService.DeleteVoucher(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrVoucherNotFound) {
			errors.NotFound(c, errors.VoucherNotFound, "Voucher tidak ditemukan")
			return
		}
		log.Error("Failed to delete voucher", err, map[string]interface{}{
			"voucher_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voucher berhasil dihapus",
	})
}
