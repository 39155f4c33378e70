package service

import (
	"errors"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrAddonNotFound   = errors.New("product addon not found")
	ErrInvalidProduct  = errors.New("invalid product data")
)

// ProductListOptions narrows catalog listings for the storefront and the
// back office. Zero values mean "no filter".
type ProductListOptions struct {
	JenisID    *uint
	SubJenisID *uint
	OrderDay   model.OrderDay
	Search     string
	InStock    bool
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(product *model.Product, days []model.OrderDay) error
	UpdateProduct(product *model.Product, days []model.OrderDay) error
	DeleteProduct(id uint) error

	CreateAddon(addon *model.ProductAddon) error
	UpdateAddon(addon *model.ProductAddon) error
	DeleteAddon(id uint) error
	GetProductAddons(productID uint) ([]model.ProductAddon, error)
}

type productService struct {
	productRepo repository.ProductRepository
	addonRepo   repository.AddonRepository
}

func NewProductService(productRepo repository.ProductRepository, addonRepo repository.AddonRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		addonRepo:   addonRepo,
	}
}

// validateDays rejects an empty or malformed day set. A product with no
// orderable day would be impossible to add to a cart.
func validateDays(days []model.OrderDay) error {
	if len(days) == 0 {
		return ErrInvalidProduct
	}
	for _, d := range days {
		if !model.ValidOrderDay(d) {
			return ErrInvalidProduct
		}
	}
	return nil
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"jenis_id":     opts.JenisID,
		"sub_jenis_id": opts.SubJenisID,
		"order_day":    opts.OrderDay,
		"search":       opts.Search,
		"in_stock":     opts.InStock,
	})

	if opts.OrderDay != "" && !model.ValidOrderDay(opts.OrderDay) {
		return nil, ErrInvalidProduct
	}

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		JenisID:    opts.JenisID,
		SubJenisID: opts.SubJenisID,
		OrderDay:   opts.OrderDay,
		Search:     opts.Search,
		InStock:    opts.InStock,
	})
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product, days []model.OrderDay) error {
	logger.Info("Creating new product", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
		"days":  days,
	})

	if product.Name == "" || product.Price <= 0 {
		return ErrInvalidProduct
	}
	if product.DiscountPrice != nil && *product.DiscountPrice < 0 {
		return ErrInvalidProduct
	}
	if err := validateDays(days); err != nil {
		return err
	}
	product.SetAvailableDays(days)

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (s *productService) UpdateProduct(product *model.Product, days []model.OrderDay) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	existing, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot update: product not found", map[string]interface{}{
				"product_id": product.ID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	if product.Name == "" || product.Price <= 0 {
		return ErrInvalidProduct
	}
	if product.DiscountPrice != nil && *product.DiscountPrice < 0 {
		return ErrInvalidProduct
	}

	if len(days) > 0 {
		if err := validateDays(days); err != nil {
			return err
		}
		product.SetAvailableDays(days)
	} else {
		product.AvailableDays = existing.AvailableDays
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot delete: product not found", map[string]interface{}{
				"product_id": id,
			})
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) CreateAddon(addon *model.ProductAddon) error {
	logger.Info("Creating product addon", map[string]interface{}{
		"product_id": addon.ProductID,
		"name":       addon.Name,
	})

	if addon.Name == "" || addon.AdditionalPrice < 0 {
		return ErrInvalidProduct
	}

	if _, err := s.productRepo.FindByID(addon.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.addonRepo.Create(addon); err != nil {
		logger.Error("Failed to create product addon", err, map[string]interface{}{
			"product_id": addon.ProductID,
			"name":       addon.Name,
		})
		return err
	}

	logger.Info("Product addon created successfully", map[string]interface{}{
		"addon_id": addon.ID,
	})
	return nil
}

func (s *productService) UpdateAddon(addon *model.ProductAddon) error {
	logger.Info("Updating product addon", map[string]interface{}{
		"addon_id": addon.ID,
	})

	existing, err := s.addonRepo.FindByID(addon.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddonNotFound
		}
		return err
	}

	if addon.Name == "" || addon.AdditionalPrice < 0 {
		return ErrInvalidProduct
	}

	// An addon never migrates between products.
	addon.ProductID = existing.ProductID

	if err := s.addonRepo.Update(addon); err != nil {
		logger.Error("Failed to update product addon", err, map[string]interface{}{
			"addon_id": addon.ID,
		})
		return err
	}
	return nil
}

func (s *productService) DeleteAddon(id uint) error {
	logger.Info("Deleting product addon", map[string]interface{}{
		"addon_id": id,
	})

	if _, err := s.addonRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddonNotFound
		}
		return err
	}

	if err := s.addonRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product addon", err, map[string]interface{}{
			"addon_id": id,
		})
		return err
	}
	return nil
}

func (s *productService) GetProductAddons(productID uint) ([]model.ProductAddon, error) {
	addons, err := s.addonRepo.FindByProductID(productID)
	if err != nil {
		logger.Error("Failed to fetch product addons", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return addons, nil
}
