package repository

import (
	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

type SettingRepository interface {
	Get() (*model.StoreSetting, error)
	Update(setting *model.StoreSetting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get returns the single settings row, creating it open on first access.
func (r *settingRepository) Get() (*model.StoreSetting, error) {
	var setting model.StoreSetting
	err := r.db.First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		setting = model.StoreSetting{Closed: false}
		if err := r.db.Create(&setting).Error; err != nil {
			logger.Error("Failed to create store setting in database", err, nil)
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		logger.Error("Failed to find store setting in database", err, nil)
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Update(setting *model.StoreSetting) error {
	logger.Debug("Updating store setting in database", map[string]interface{}{
		"closed": setting.Closed,
	})

	if err := r.db.Save(setting).Error; err != nil {
		logger.Error("Failed to update store setting in database", err, nil)
		return err
	}
	return nil
}
