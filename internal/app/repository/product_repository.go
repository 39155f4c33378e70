package repository

import (
	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	JenisID    *uint
	SubJenisID *uint
	OrderDay   model.OrderDay
	Search     string
	InStock    bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	BulkCreate(products []model.Product, batchSize int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Preload("Addons").Preload("Jenis").Preload("SubJenis")
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{})
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"jenis_id":     filter.JenisID,
		"sub_jenis_id": filter.SubJenisID,
		"order_day":    filter.OrderDay,
		"search":       filter.Search,
	})

	query := r.baseQuery()

	if filter.JenisID != nil {
		query = query.Where("jenis_id = ?", *filter.JenisID)
	}
	if filter.SubJenisID != nil {
		query = query.Where("sub_jenis_id = ?", *filter.SubJenisID)
	}
	if filter.OrderDay != "" {
		// available_days is a comma-joined list; wrap both sides in commas
		// so "monday" cannot match inside another value.
		query = query.Where("(',' || available_days || ',') LIKE ?", "%,"+string(filter.OrderDay)+",%")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR name_en LIKE ?", pattern, pattern)
	}
	if filter.InStock {
		query = query.Where("stock_quantity > 0")
	}

	var products []model.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, nil)
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.baseQuery().First(&product, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products in database", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}
