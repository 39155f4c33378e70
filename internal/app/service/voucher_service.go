package service

import (
	"errors"
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"github.com/adeliap/rotiku-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrVoucherNotFound    = errors.New("voucher not found")
	ErrVoucherInactive    = errors.New("voucher is inactive")
	ErrVoucherExpired     = errors.New("voucher has expired")
	ErrVoucherExhausted   = errors.New("voucher usage limit reached")
	ErrVoucherMinPurchase = errors.New("subtotal below voucher minimum purchase")
	ErrInvalidVoucher     = errors.New("invalid voucher data")
)

// VoucherValidation is what a successful code check hands back. The caller
// keeps it alongside the cart; checkout validates the code AGAIN against
// the live subtotal, so a validation that has gone stale is rejected there.
type VoucherValidation struct {
	VoucherID   uint    `json:"voucher_id"`
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	MinPurchase float64 `json:"min_purchase"`
}

type VoucherService interface {
	Validate(code string, subtotal float64) (*VoucherValidation, error)
	ListVouchers() ([]model.Voucher, error)
	CreateVoucher(voucher *model.Voucher) error
	UpdateVoucher(voucher *model.Voucher) error
	DeleteVoucher(id uint) error
	DeactivateExpired() (int64, error)
}

type voucherService struct {
	voucherRepo repository.VoucherRepository
	now         func() time.Time
}

func NewVoucherService(voucherRepo repository.VoucherRepository) VoucherService {
	return &voucherService{
		voucherRepo: voucherRepo,
		now:         time.Now,
	}
}

// Validate checks a code against the given subtotal. Every rejection has
// its own sentinel so the API can tell the customer exactly what is wrong.
func (s *voucherService) Validate(code string, subtotal float64) (*VoucherValidation, error) {
	logger.Debug("Validating voucher", map[string]interface{}{
		"code":     code,
		"subtotal": subtotal,
	})

	voucher, err := s.voucherRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Voucher not found", map[string]interface{}{
				"code": code,
			})
			return nil, ErrVoucherNotFound
		}
		return nil, err
	}

	if !voucher.Active {
		return nil, ErrVoucherInactive
	}
	if voucher.Expired(s.now()) {
		return nil, ErrVoucherExpired
	}
	if voucher.Exhausted() {
		return nil, ErrVoucherExhausted
	}
	if subtotal < voucher.MinPurchase {
		logger.Warn("Voucher minimum purchase not met", map[string]interface{}{
			"code":         code,
			"subtotal":     subtotal,
			"min_purchase": voucher.MinPurchase,
		})
		return nil, ErrVoucherMinPurchase
	}

	logger.Info("Voucher validated", map[string]interface{}{
		"code":     code,
		"discount": voucher.Discount,
	})
	return &VoucherValidation{
		VoucherID:   voucher.ID,
		Code:        voucher.Code,
		Discount:    voucher.Discount,
		MinPurchase: voucher.MinPurchase,
	}, nil
}

func (s *voucherService) ListVouchers() ([]model.Voucher, error) {
	vouchers, err := s.voucherRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list vouchers", err, nil)
		return nil, err
	}
	return vouchers, nil
}

func (s *voucherService) CreateVoucher(voucher *model.Voucher) error {
	if voucher.Discount <= 0 || voucher.MinPurchase < 0 || voucher.UsageLimit < 0 {
		return ErrInvalidVoucher
	}
	if voucher.Code == "" {
		voucher.Code = util.GenerateVoucherCode("ROTI", 6)
	}

	logger.Info("Creating voucher", map[string]interface{}{
		"code":         voucher.Code,
		"discount":     voucher.Discount,
		"min_purchase": voucher.MinPurchase,
	})

	if err := s.voucherRepo.Create(voucher); err != nil {
		logger.Error("Failed to create voucher", err, map[string]interface{}{
			"code": voucher.Code,
		})
		return err
	}

	logger.Info("Voucher created successfully", map[string]interface{}{
		"voucher_id": voucher.ID,
		"code":       voucher.Code,
	})
	return nil
}

func (s *voucherService) UpdateVoucher(voucher *model.Voucher) error {
	if voucher.Discount <= 0 || voucher.MinPurchase < 0 || voucher.UsageLimit < 0 {
		return ErrInvalidVoucher
	}

	existing, err := s.voucherRepo.FindByID(voucher.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoucherNotFound
		}
		return err
	}

	// The code and usage count are immutable after creation.
	voucher.Code = existing.Code
	voucher.UsedCount = existing.UsedCount

	if err := s.voucherRepo.Update(voucher); err != nil {
		logger.Error("Failed to update voucher", err, map[string]interface{}{
			"voucher_id": voucher.ID,
		})
		return err
	}
	return nil
}

func (s *voucherService) DeleteVoucher(id uint) error {
	logger.Info("Deleting voucher", map[string]interface{}{
		"voucher_id": id,
	})

	if _, err := s.voucherRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoucherNotFound
		}
		return err
	}

	if err := s.voucherRepo.Delete(id); err != nil {
		logger.Error("Failed to delete voucher", err, map[string]interface{}{
			"voucher_id": id,
		})
		return err
	}
	return nil
}

// DeactivateExpired flips past-expiry vouchers inactive. The scheduler
// calls this nightly so a lapsed code stops validating even between
// per-request expiry checks.
func (s *voucherService) DeactivateExpired() (int64, error) {
	count, err := s.voucherRepo.DeactivateExpired(s.now())
	if err != nil {
		logger.Error("Failed to deactivate expired vouchers", err, nil)
		return 0, err
	}

	if count > 0 {
		logger.Info("Expired vouchers deactivated", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
