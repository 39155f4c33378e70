package repository

import (
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

type VoucherRepository interface {
	Create(voucher *model.Voucher) error
	FindAll() ([]model.Voucher, error)
	FindByID(id uint) (*model.Voucher, error)
	FindByCode(code string) (*model.Voucher, error)
	Update(voucher *model.Voucher) error
	Delete(id uint) error
	IncrementUsage(id uint) error
	DeactivateExpired(now time.Time) (int64, error)
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(voucher *model.Voucher) error {
	logger.Debug("Creating voucher in database", map[string]interface{}{
		"code": voucher.Code,
	})

	if err := r.db.Create(voucher).Error; err != nil {
		logger.Error("Failed to create voucher in database", err, map[string]interface{}{
			"code": voucher.Code,
		})
		return err
	}
	return nil
}

func (r *voucherRepository) FindAll() ([]model.Voucher, error) {
	var vouchers []model.Voucher
	err := r.db.Order("created_at DESC").Find(&vouchers).Error
	if err != nil {
		logger.Error("Failed to find vouchers in database", err, nil)
		return nil, err
	}
	return vouchers, nil
}

func (r *voucherRepository) FindByID(id uint) (*model.Voucher, error) {
	var voucher model.Voucher
	err := r.db.First(&voucher, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find voucher by ID in database", err, map[string]interface{}{
				"voucher_id": id,
			})
		}
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) FindByCode(code string) (*model.Voucher, error) {
	var voucher model.Voucher
	err := r.db.Where("code = ?", code).First(&voucher).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find voucher by code in database", err, map[string]interface{}{
				"code": code,
			})
		}
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) Update(voucher *model.Voucher) error {
	logger.Debug("Updating voucher in database", map[string]interface{}{
		"voucher_id": voucher.ID,
	})

	if err := r.db.Save(voucher).Error; err != nil {
		logger.Error("Failed to update voucher in database", err, map[string]interface{}{
			"voucher_id": voucher.ID,
		})
		return err
	}
	return nil
}

func (r *voucherRepository) Delete(id uint) error {
	logger.Debug("Deleting voucher from database", map[string]interface{}{
		"voucher_id": id,
	})

	if err := r.db.Delete(&model.Voucher{}, id).Error; err != nil {
		logger.Error("Failed to delete voucher from database", err, map[string]interface{}{
			"voucher_id": id,
		})
		return err
	}
	return nil
}

func (r *voucherRepository) IncrementUsage(id uint) error {
	if err := r.db.Model(&model.Voucher{}).
		Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
		logger.Error("Failed to increment voucher usage in database", err, map[string]interface{}{
			"voucher_id": id,
		})
		return err
	}
	return nil
}

func (r *voucherRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Voucher{}).
		Where("active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		Update("active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate expired vouchers in database", result.Error, nil)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
