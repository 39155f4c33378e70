package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	NameEn        string   `json:"name_en"`
	Description   string   `json:"description"`
	DescriptionEn string   `json:"description_en"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price"`
	StockQuantity int      `json:"stock_quantity" binding:"gte=0"`
	AvailableDays []string `json:"available_days" binding:"required"`
	ImageURL      string   `json:"image_url"`
	JenisID       *uint    `json:"jenis_id"`
	SubJenisID    *uint    `json:"sub_jenis_id"`
}

type AddonRequest struct {
	Name            string  `json:"name" binding:"required"`
	NameEn          string  `json:"name_en"`
	AdditionalPrice float64 `json:"additional_price" binding:"gte=0"`
}

// parseUintQuery reads an optional unsigned query parameter. The older
// mobile client still sends ref_jenis_id, so the caller may pass several
// aliases for the same filter.
func parseUintQuery(c *gin.Context, names ...string) (*uint, error) {
	for _, name := range names {
		v := c.Query(name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, err
		}
		id := uint(parsed)
		return &id, nil
	}
	return nil, nil
}

func toOrderDays(days []string) []model.OrderDay {
	out := make([]model.OrderDay, 0, len(days))
	for _, d := range days {
		out = append(out, model.OrderDay(d))
	}
	return out
}

// ListProducts returns the catalog, optionally filtered.
// GET /api/v1/products?jenis_id=&sub_jenis_id=&day=&search=&in_stock=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	jenisID, err := parseUintQuery(c, "jenis_id", "ref_jenis_id")
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID jenis tidak valid")
		return
	}
	subJenisID, err := parseUintQuery(c, "sub_jenis_id", "ref_sub_jenis_id")
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID sub jenis tidak valid")
		return
	}

	opts := service.ProductListOptions{
		JenisID:    jenisID,
		SubJenisID: subJenisID,
		OrderDay:   model.OrderDay(c.Query("day")),
		Search:     c.Query("search"),
		InStock:    c.Query("in_stock") == "true",
	}

	products, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidProduct) {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Hari tidak valid")
			return
		}
		log.Error("Failed to fetch products", err, nil)
		errors.Internal(c, "")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns a product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(id))
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Produk tidak ditemukan")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a new product (admin only).
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	product := &model.Product{
		Name:          req.Name,
		NameEn:        req.NameEn,
		Description:   req.Description,
		DescriptionEn: req.DescriptionEn,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		JenisID:       req.JenisID,
		SubJenisID:    req.SubJenisID,
	}

	if err := ctrl.productService.CreateProduct(product, toOrderDays(req.AvailableDays)); err != nil {
		if stderrors.Is(err, service.ErrInvalidProduct) {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Data produk tidak valid")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Produk berhasil dibuat",
		"product": product,
	})
}

// UpdateProduct updates an existing product (admin only).
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	product := &model.Product{
		ID:            uint(id),
		Name:          req.Name,
		NameEn:        req.NameEn,
		Description:   req.Description,
		DescriptionEn: req.DescriptionEn,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		JenisID:       req.JenisID,
		SubJenisID:    req.SubJenisID,
	}

	if err := ctrl.productService.UpdateProduct(product, toOrderDays(req.AvailableDays)); err != nil {
		switch {
		case stderrors.Is(err, service.ErrProductNotFound):
			errors.NotFound(c, errors.ProductNotFound, "Produk tidak ditemukan")
		case stderrors.Is(err, service.ErrInvalidProduct):
			errors.BadRequest(c, errors.ValidationInvalidInput, "Data produk tidak valid")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			errors.Internal(c, "")
		}
		return
	}

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Produk berhasil diperbarui",
		"product": product,
	})
}

// DeleteProduct deletes a product (admin only).
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Produk tidak ditemukan")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.Internal(c, "")
		return
	}

	log.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Produk berhasil dihapus",
	})
}

// GetProductAddons lists a product's addons.
// GET /api/v1/products/:id/addons
func (ctrl *ProductController) GetProductAddons(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	addons, err := ctrl.productService.GetProductAddons(uint(id))
	if err != nil {
		log.Error("Failed to fetch product addons", err, map[string]interface{}{
			"product_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addons": addons,
	})
}

// CreateAddon attaches an addon to a product (admin only).
// POST /api/v1/admin/products/:id/addons
func (ctrl *ProductController) CreateAddon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	var req AddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	addon := &model.ProductAddon{
		ProductID:       uint(productID),
		Name:            req.Name,
		NameEn:          req.NameEn,
		AdditionalPrice: req.AdditionalPrice,
	}

	if err := ctrl.productService.CreateAddon(addon); err != nil {
		switch {
		case stderrors.Is(err, service.ErrProductNotFound):
			errors.NotFound(c, errors.ProductNotFound, "Produk tidak ditemukan")
		case stderrors.Is(err, service.ErrInvalidProduct):
			errors.BadRequest(c, errors.ValidationInvalidInput, "Data tambahan tidak valid")
		default:
			log.Error("Failed to create addon", err, map[string]interface{}{
				"product_id": productID,
			})
			errors.Internal(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tambahan berhasil dibuat",
		"addon":   addon,
	})
}

// UpdateAddon edits an addon (admin only).
// PUT /api/v1/admin/addons/:id
func (ctrl *ProductController) UpdateAddon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID tambahan tidak valid")
		return
	}

	var req AddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	addon := &model.ProductAddon{
		ID:              uint(id),
		Name:            req.Name,
		NameEn:          req.NameEn,
		AdditionalPrice: req.AdditionalPrice,
	}

	if err := ctrl.productService.UpdateAddon(addon); err != nil {
		switch {
		case stderrors.Is(err, service.ErrAddonNotFound):
			errors.NotFound(c, errors.ProductAddonInvalid, "Tambahan tidak ditemukan")
		case stderrors.Is(err, service.ErrInvalidProduct):
			errors.BadRequest(c, errors.ValidationInvalidInput, "Data tambahan tidak valid")
		default:
			log.Error("Failed to update addon", err, map[string]interface{}{
				"addon_id": id,
			})
			errors.Internal(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tambahan berhasil diperbarui",
		"addon":   addon,
	})
}

// DeleteAddon removes an addon (admin only).
// DELETE /api/v1/admin/addons/:id
func (ctrl *ProductController) DeleteAddon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID tambahan tidak valid")
		return
	}

	if err := ctrl.productService.DeleteAddon(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrAddonNotFound) {
			errors.NotFound(c, errors.ProductAddonInvalid, "Tambahan tidak ditemukan")
			return
		}
		log.Error("Failed to delete addon", err, map[string]interface{}{
			"addon_id": id,
		})
		errors.Internal(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tambahan berhasil dihapus",
	})
}
