package service

import (
	"errors"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still has products")
	ErrInvalidCategory  = errors.New("invalid category data")
)

type CategoryService interface {
	ListJenis() ([]model.Jenis, error)
	CreateJenis(jenis *model.Jenis) error
	UpdateJenis(jenis *model.Jenis) error
	DeleteJenis(id uint) error

	ListSubJenis(jenisID uint) ([]model.SubJenis, error)
	CreateSubJenis(sub *model.SubJenis) error
	UpdateSubJenis(sub *model.SubJenis) error
	DeleteSubJenis(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListJenis() ([]model.Jenis, error) {
	jenis, err := s.categoryRepo.FindAllJenis()
	if err != nil {
		logger.Error("Failed to list jenis", err, nil)
		return nil, err
	}
	return jenis, nil
}

func (s *categoryService) CreateJenis(jenis *model.Jenis) error {
	if jenis.Name == "" {
		return ErrInvalidCategory
	}

	logger.Info("Creating jenis", map[string]interface{}{
		"name": jenis.Name,
	})

	if err := s.categoryRepo.CreateJenis(jenis); err != nil {
		logger.Error("Failed to create jenis", err, map[string]interface{}{
			"name": jenis.Name,
		})
		return err
	}
	return nil
}

func (s *categoryService) UpdateJenis(jenis *model.Jenis) error {
	if jenis.Name == "" {
		return ErrInvalidCategory
	}

	if _, err := s.categoryRepo.FindJenisByID(jenis.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.categoryRepo.UpdateJenis(jenis); err != nil {
		logger.Error("Failed to update jenis", err, map[string]interface{}{
			"jenis_id": jenis.ID,
		})
		return err
	}
	return nil
}

// DeleteJenis refuses to delete a category that still has products; the
// back office must reassign or remove them first.
func (s *categoryService) DeleteJenis(id uint) error {
	logger.Info("Deleting jenis", map[string]interface{}{
		"jenis_id": id,
	})

	if _, err := s.categoryRepo.FindJenisByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	count, err := s.categoryRepo.CountProductsByJenis(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Cannot delete jenis: products still attached", map[string]interface{}{
			"jenis_id":      id,
			"product_count": count,
		})
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.DeleteJenis(id); err != nil {
		logger.Error("Failed to delete jenis", err, map[string]interface{}{
			"jenis_id": id,
		})
		return err
	}
	return nil
}

func (s *categoryService) ListSubJenis(jenisID uint) ([]model.SubJenis, error) {
	subs, err := s.categoryRepo.FindSubJenisByJenisID(jenisID)
	if err != nil {
		logger.Error("Failed to list sub jenis", err, map[string]interface{}{
			"jenis_id": jenisID,
		})
		return nil, err
	}
	return subs, nil
}

func (s *categoryService) CreateSubJenis(sub *model.SubJenis) error {
	if sub.Name == "" {
		return ErrInvalidCategory
	}

	if _, err := s.categoryRepo.FindJenisByID(sub.JenisID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	logger.Info("Creating sub jenis", map[string]interface{}{
		"jenis_id": sub.JenisID,
		"name":     sub.Name,
	})

	if err := s.categoryRepo.CreateSubJenis(sub); err != nil {
		logger.Error("Failed to create sub jenis", err, map[string]interface{}{
			"jenis_id": sub.JenisID,
			"name":     sub.Name,
		})
		return err
	}
	return nil
}

func (s *categoryService) UpdateSubJenis(sub *model.SubJenis) error {
	if sub.Name == "" {
		return ErrInvalidCategory
	}

	existing, err := s.categoryRepo.FindSubJenisByID(sub.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	// A sub jenis stays under its parent jenis.
	sub.JenisID = existing.JenisID

	if err := s.categoryRepo.UpdateSubJenis(sub); err != nil {
		logger.Error("Failed to update sub jenis", err, map[string]interface{}{
			"sub_jenis_id": sub.ID,
		})
		return err
	}
	return nil
}

func (s *categoryService) DeleteSubJenis(id uint) error {
	logger.Info("Deleting sub jenis", map[string]interface{}{
		"sub_jenis_id": id,
	})

	if _, err := s.categoryRepo.FindSubJenisByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.categoryRepo.DeleteSubJenis(id); err != nil {
		logger.Error("Failed to delete sub jenis", err, map[string]interface{}{
			"sub_jenis_id": id,
		})
		return err
	}
	return nil
}
