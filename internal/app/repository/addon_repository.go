package repository

import (
	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddonRepository interface {
	Create(addon *model.ProductAddon) error
	FindByID(id uint) (*model.ProductAddon, error)
	FindByIDs(ids []uint) ([]model.ProductAddon, error)
	FindByProductID(productID uint) ([]model.ProductAddon, error)
	Update(addon *model.ProductAddon) error
	Delete(id uint) error
}

type addonRepository struct {
	db *gorm.DB
}

func NewAddonRepository(db *gorm.DB) AddonRepository {
	return &addonRepository{db: db}
}

func (r *addonRepository) Create(addon *model.ProductAddon) error {
	logger.Debug("Creating product addon in database", map[string]interface{}{
		"product_id": addon.ProductID,
		"name":       addon.Name,
	})

	if err := r.db.Create(addon).Error; err != nil {
		logger.Error("Failed to create product addon in database", err, map[string]interface{}{
			"product_id": addon.ProductID,
			"name":       addon.Name,
		})
		return err
	}
	return nil
}

func (r *addonRepository) FindByID(id uint) (*model.ProductAddon, error) {
	var addon model.ProductAddon
	err := r.db.First(&addon, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product addon by ID in database", err, map[string]interface{}{
				"addon_id": id,
			})
		}
		return nil, err
	}
	return &addon, nil
}

func (r *addonRepository) FindByIDs(ids []uint) ([]model.ProductAddon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []model.ProductAddon
	err := r.db.Where("id IN ?", ids).Find(&addons).Error
	if err != nil {
		logger.Error("Failed to find product addons by IDs in database", err, map[string]interface{}{
			"addon_ids": ids,
		})
		return nil, err
	}
	return addons, nil
}

func (r *addonRepository) FindByProductID(productID uint) ([]model.ProductAddon, error) {
	var addons []model.ProductAddon
	err := r.db.Where("product_id = ?", productID).Order("id ASC").Find(&addons).Error
	if err != nil {
		logger.Error("Failed to find product addons by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return addons, nil
}

func (r *addonRepository) Update(addon *model.ProductAddon) error {
	logger.Debug("Updating product addon in database", map[string]interface{}{
		"addon_id": addon.ID,
	})

	if err := r.db.Save(addon).Error; err != nil {
		logger.Error("Failed to update product addon in database", err, map[string]interface{}{
			"addon_id": addon.ID,
		})
		return err
	}
	return nil
}

func (r *addonRepository) Delete(id uint) error {
	logger.Debug("Deleting product addon from database", map[string]interface{}{
		"addon_id": id,
	})

	if err := r.db.Delete(&model.ProductAddon{}, id).Error; err != nil {
		logger.Error("Failed to delete product addon from database", err, map[string]interface{}{
			"addon_id": id,
		})
		return err
	}
	return nil
}
