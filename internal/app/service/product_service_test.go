package service

import (
	"testing"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	addonRepo := repository.NewAddonRepository(testDB)
	return NewProductService(productRepo, addonRepo), testDB
}

func weekdays() []model.OrderDay {
	return []model.OrderDay{
		model.DayMonday, model.DayTuesday, model.DayWednesday,
		model.DayThursday, model.DayFriday,
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product := &model.Product{
		Name:          "Croissant Mentega",
		Price:         18000,
		StockQuantity: 12,
	}
	require.NoError(t, svc.CreateProduct(product, weekdays()))
	assert.NotZero(t, product.ID)
	assert.True(t, product.AvailableOn(model.DayMonday))
	assert.False(t, product.AvailableOn(model.DaySunday))
}

func TestProductService_CreateProduct_Invalid(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	err := svc.CreateProduct(&model.Product{Name: "", Price: 10000}, weekdays())
	assert.ErrorIs(t, err, ErrInvalidProduct)

	err = svc.CreateProduct(&model.Product{Name: "Gratis", Price: 0}, weekdays())
	assert.ErrorIs(t, err, ErrInvalidProduct)

	// No orderable day would make the product impossible to buy.
	err = svc.CreateProduct(&model.Product{Name: "Roti", Price: 10000}, nil)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	err = svc.CreateProduct(&model.Product{Name: "Roti", Price: 10000},
		[]model.OrderDay{model.OrderDay("payday")})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestProductService_UpdateProduct_KeepsDaysWhenOmitted(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product := &model.Product{Name: "Bolu Pandan", Price: 30000, StockQuantity: 4}
	require.NoError(t, svc.CreateProduct(product, []model.OrderDay{model.DaySaturday, model.DaySunday}))

	update := &model.Product{
		ID:            product.ID,
		Name:          "Bolu Pandan Premium",
		Price:         35000,
		StockQuantity: 6,
	}
	require.NoError(t, svc.UpdateProduct(update, nil))

	stored, err := svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bolu Pandan Premium", stored.Name)
	assert.True(t, stored.AvailableOn(model.DaySaturday))
	assert.False(t, stored.AvailableOn(model.DayMonday))
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	err := svc.UpdateProduct(&model.Product{ID: 9999, Name: "Hantu", Price: 1000}, weekdays())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product := &model.Product{Name: "Roti Gandum", Price: 15000}
	require.NoError(t, svc.CreateProduct(product, weekdays()))
	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err := svc.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = svc.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ListProducts_Filters(t *testing.T) {
	svc, testDB := setupProductServiceTest(t)

	jenis := &model.Jenis{Name: "Roti Manis"}
	require.NoError(t, testDB.Create(jenis).Error)

	manis := &model.Product{Name: "Roti Coklat", Price: 12000, StockQuantity: 3, JenisID: &jenis.ID}
	require.NoError(t, svc.CreateProduct(manis, []model.OrderDay{model.DayMonday}))

	tawar := &model.Product{Name: "Roti Tawar", Price: 14000, StockQuantity: 0}
	require.NoError(t, svc.CreateProduct(tawar, []model.OrderDay{model.DaySunday}))

	byJenis, err := svc.ListProducts(ProductListOptions{JenisID: &jenis.ID})
	require.NoError(t, err)
	require.Len(t, byJenis, 1)
	assert.Equal(t, "Roti Coklat", byJenis[0].Name)

	byDay, err := svc.ListProducts(ProductListOptions{OrderDay: model.DaySunday})
	require.NoError(t, err)
	require.Len(t, byDay, 1)
	assert.Equal(t, "Roti Tawar", byDay[0].Name)

	inStock, err := svc.ListProducts(ProductListOptions{InStock: true})
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	assert.Equal(t, "Roti Coklat", inStock[0].Name)

	bySearch, err := svc.ListProducts(ProductListOptions{Search: "tawar"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Roti Tawar", bySearch[0].Name)

	_, err = svc.ListProducts(ProductListOptions{OrderDay: model.OrderDay("yesterday")})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestProductService_Addons(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product := &model.Product{Name: "Pizza Roti", Price: 22000, StockQuantity: 8}
	require.NoError(t, svc.CreateProduct(product, weekdays()))

	addon := &model.ProductAddon{ProductID: product.ID, Name: "Keju Mozarella", AdditionalPrice: 7000}
	require.NoError(t, svc.CreateAddon(addon))
	assert.NotZero(t, addon.ID)

	// Addon for a missing product is rejected.
	err := svc.CreateAddon(&model.ProductAddon{ProductID: 9999, Name: "Sosis"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	// An addon never migrates between products on update.
	other := &model.Product{Name: "Donat", Price: 9000}
	require.NoError(t, svc.CreateProduct(other, weekdays()))

	update := &model.ProductAddon{
		ID:              addon.ID,
		ProductID:       other.ID,
		Name:            "Keju Cheddar",
		AdditionalPrice: 6000,
	}
	require.NoError(t, svc.UpdateAddon(update))
	assert.Equal(t, product.ID, update.ProductID)

	addons, err := svc.GetProductAddons(product.ID)
	require.NoError(t, err)
	require.Len(t, addons, 1)
	assert.Equal(t, "Keju Cheddar", addons[0].Name)

	require.NoError(t, svc.DeleteAddon(addon.ID))
	err = svc.DeleteAddon(addon.ID)
	assert.ErrorIs(t, err, ErrAddonNotFound)
}
