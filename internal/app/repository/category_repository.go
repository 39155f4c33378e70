package repository

import (
	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	CreateJenis(jenis *model.Jenis) error
	FindAllJenis() ([]model.Jenis, error)
	FindJenisByID(id uint) (*model.Jenis, error)
	UpdateJenis(jenis *model.Jenis) error
	DeleteJenis(id uint) error
	CountProductsByJenis(jenisID uint) (int64, error)

	CreateSubJenis(sub *model.SubJenis) error
	FindSubJenisByJenisID(jenisID uint) ([]model.SubJenis, error)
	FindSubJenisByID(id uint) (*model.SubJenis, error)
	UpdateSubJenis(sub *model.SubJenis) error
	DeleteSubJenis(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) CreateJenis(jenis *model.Jenis) error {
	logger.Debug("Creating jenis in database", map[string]interface{}{
		"name": jenis.Name,
	})

	if err := r.db.Create(jenis).Error; err != nil {
		logger.Error("Failed to create jenis in database", err, map[string]interface{}{
			"name": jenis.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAllJenis() ([]model.Jenis, error) {
	var jenis []model.Jenis
	err := r.db.Preload("SubJenis").Order("name ASC").Find(&jenis).Error
	if err != nil {
		logger.Error("Failed to find jenis in database", err, nil)
		return nil, err
	}
	return jenis, nil
}

func (r *categoryRepository) FindJenisByID(id uint) (*model.Jenis, error) {
	var jenis model.Jenis
	err := r.db.Preload("SubJenis").First(&jenis, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find jenis by ID in database", err, map[string]interface{}{
				"jenis_id": id,
			})
		}
		return nil, err
	}
	return &jenis, nil
}

func (r *categoryRepository) UpdateJenis(jenis *model.Jenis) error {
	if err := r.db.Save(jenis).Error; err != nil {
		logger.Error("Failed to update jenis in database", err, map[string]interface{}{
			"jenis_id": jenis.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) DeleteJenis(id uint) error {
	logger.Debug("Deleting jenis from database", map[string]interface{}{
		"jenis_id": id,
	})

	if err := r.db.Delete(&model.Jenis{}, id).Error; err != nil {
		logger.Error("Failed to delete jenis from database", err, map[string]interface{}{
			"jenis_id": id,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) CountProductsByJenis(jenisID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("jenis_id = ?", jenisID).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count products by jenis in database", err, map[string]interface{}{
			"jenis_id": jenisID,
		})
		return 0, err
	}
	return count, nil
}

func (r *categoryRepository) CreateSubJenis(sub *model.SubJenis) error {
	logger.Debug("Creating sub jenis in database", map[string]interface{}{
		"jenis_id": sub.JenisID,
		"name":     sub.Name,
	})

	if err := r.db.Create(sub).Error; err != nil {
		logger.Error("Failed to create sub jenis in database", err, map[string]interface{}{
			"jenis_id": sub.JenisID,
			"name":     sub.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindSubJenisByJenisID(jenisID uint) ([]model.SubJenis, error) {
	var subs []model.SubJenis
	err := r.db.Where("jenis_id = ?", jenisID).Order("name ASC").Find(&subs).Error
	if err != nil {
		logger.Error("Failed to find sub jenis by jenis ID in database", err, map[string]interface{}{
			"jenis_id": jenisID,
		})
		return nil, err
	}
	return subs, nil
}

func (r *categoryRepository) FindSubJenisByID(id uint) (*model.SubJenis, error) {
	var sub model.SubJenis
	err := r.db.First(&sub, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find sub jenis by ID in database", err, map[string]interface{}{
				"sub_jenis_id": id,
			})
		}
		return nil, err
	}
	return &sub, nil
}

func (r *categoryRepository) UpdateSubJenis(sub *model.SubJenis) error {
	if err := r.db.Save(sub).Error; err != nil {
		logger.Error("Failed to update sub jenis in database", err, map[string]interface{}{
			"sub_jenis_id": sub.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) DeleteSubJenis(id uint) error {
	logger.Debug("Deleting sub jenis from database", map[string]interface{}{
		"sub_jenis_id": id,
	})

	if err := r.db.Delete(&model.SubJenis{}, id).Error; err != nil {
		logger.Error("Failed to delete sub jenis from database", err, map[string]interface{}{
			"sub_jenis_id": id,
		})
		return err
	}
	return nil
}
