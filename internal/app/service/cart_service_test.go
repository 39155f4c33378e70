package service

import (
	"context"
	"testing"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cartTestEnv struct {
	db          *gorm.DB
	cartService CartService
	cartRepo    repository.CartRepository
	storeStatus StoreStatusService
	user        *model.User
	product     *model.Product
	addonKeju   *model.ProductAddon
	addonCoklat *model.ProductAddon
}

func setupCartServiceTest(t *testing.T) *cartTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	addonRepo := repository.NewAddonRepository(testDB)
	settingRepo := repository.NewSettingRepository(testDB)
	storeStatus := NewStoreStatusService(settingRepo)
	cartService := NewCartService(cartRepo, productRepo, addonRepo, storeStatus)

	user := &model.User{
		Email:        "pelanggan@example.com",
		PasswordHash: "hash",
		Name:         "Pelanggan Uji",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:          "Roti Sobek Coklat",
		Price:         25000,
		StockQuantity: 5,
	}
	product.SetAvailableDays([]model.OrderDay{
		model.DayMonday, model.DayTuesday, model.DayWednesday,
		model.DayThursday, model.DayFriday,
	})
	require.NoError(t, testDB.Create(product).Error)

	addonKeju := &model.ProductAddon{
		ProductID:       product.ID,
		Name:            "Keju",
		AdditionalPrice: 5000,
	}
	require.NoError(t, testDB.Create(addonKeju).Error)

	addonCoklat := &model.ProductAddon{
		ProductID:       product.ID,
		Name:            "Coklat",
		AdditionalPrice: 3000,
	}
	require.NoError(t, testDB.Create(addonCoklat).Error)

	return &cartTestEnv{
		db:          testDB,
		cartService: cartService,
		cartRepo:    cartRepo,
		storeStatus: storeStatus,
		user:        user,
		product:     product,
		addonKeju:   addonKeju,
		addonCoklat: addonCoklat,
	}
}

func TestCartService_AddToCart_CreatesLineWithSnapshots(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonKeju.ID}, 2)
	require.NoError(t, err)

	assert.NotEmpty(t, item.CartKey)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, float64(25000), item.UnitPrice)
	assert.Equal(t, float64(5000), item.AddonTotal)
	assert.Equal(t, "Roti Sobek Coklat", item.ProductName)
	assert.Equal(t, float64(60000), item.LineTotal())
}

func TestCartService_AddToCart_MergesSameIdentity(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	first, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonKeju.ID, env.addonCoklat.ID}, 2)
	require.NoError(t, err)

	// Same selection in reverse order is the same identity.
	second, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonCoklat.ID, env.addonKeju.ID}, 1)
	require.NoError(t, err)

	assert.Equal(t, first.CartKey, second.CartKey)
	assert.Equal(t, 3, second.Quantity)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartService_AddToCart_DistinctDayMakesNewLine(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayTuesday, nil, 1)
	require.NoError(t, err)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCartService_AddToCart_DistinctAddonSetMakesNewLine(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonKeju.ID}, 1)
	require.NoError(t, err)

	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonCoklat.ID}, 1)
	require.NoError(t, err)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCartService_AddToCart_StockCeilingSpansLines(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	// Stock is 5. Three on Monday plus three on Tuesday would be six.
	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 3)
	require.NoError(t, err)

	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayTuesday, nil, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Two more still fit.
	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayTuesday, nil, 2)
	assert.NoError(t, err)
}

func TestCartService_AddToCart_DayUnavailable(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DaySunday, nil, 1)
	assert.ErrorIs(t, err, ErrDayUnavailable)

	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.OrderDay("someday"), nil, 1)
	assert.ErrorIs(t, err, ErrDayUnavailable)
}

func TestCartService_AddToCart_RejectsForeignAddon(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	other := &model.Product{Name: "Donat Gula", Price: 8000, StockQuantity: 10}
	other.SetAvailableDays([]model.OrderDay{model.DayMonday})
	require.NoError(t, env.db.Create(other).Error)

	foreignAddon := &model.ProductAddon{ProductID: other.ID, Name: "Gula Halus"}
	require.NoError(t, env.db.Create(foreignAddon).Error)

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{foreignAddon.ID}, 1)
	assert.ErrorIs(t, err, ErrInvalidAddon)

	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{9999}, 1)
	assert.ErrorIs(t, err, ErrInvalidAddon)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddToCart_StoreClosed(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := env.storeStatus.SetClosed(ctx, true, "Libur Lebaran")
	require.NoError(t, err)

	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	env := setupCartServiceTest(t)

	_, err := env.cartService.AddToCart(context.Background(), env.user.ID, 9999,
		model.DayMonday, nil, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_UpdateQuantity_RaiseWithinOwnLine(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 2)
	require.NoError(t, err)

	// The line's own quantity is excluded from the baseline, so it can go
	// all the way up to the full stock.
	err = env.cartService.UpdateQuantity(ctx, env.user.ID, item.CartKey, 5)
	require.NoError(t, err)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_UpdateQuantity_RespectsOtherLines(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 2)
	require.NoError(t, err)
	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayTuesday, nil, 2)
	require.NoError(t, err)

	// 2 on the other line + 4 here would exceed stock 5.
	err = env.cartService.UpdateQuantity(ctx, env.user.ID, item.CartKey, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	err = env.cartService.UpdateQuantity(ctx, env.user.ID, item.CartKey, 3)
	assert.NoError(t, err)
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 2)
	require.NoError(t, err)

	err = env.cartService.UpdateQuantity(ctx, env.user.ID, item.CartKey, 0)
	require.NoError(t, err)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestCartService_UpdateQuantity_DecreaseAllowedWhileClosed(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 3)
	require.NoError(t, err)

	_, err = env.storeStatus.SetClosed(ctx, true, "")
	require.NoError(t, err)

	// Lowering is fine with the store closed; raising is not.
	err = env.cartService.UpdateQuantity(ctx, env.user.ID, item.CartKey, 1)
	assert.NoError(t, err)

	err = env.cartService.UpdateQuantity(ctx, env.user.ID, item.CartKey, 4)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestCartService_UpdateQuantity_NotFound(t *testing.T) {
	env := setupCartServiceTest(t)

	err := env.cartService.UpdateQuantity(context.Background(), env.user.ID, "missing-key", 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_EditItem_ChangesDayAndAddons(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonKeju.ID}, 2)
	require.NoError(t, err)

	edited, err := env.cartService.EditItem(env.user.ID, item.CartKey,
		model.DayFriday, []uint{env.addonCoklat.ID})
	require.NoError(t, err)

	assert.Equal(t, item.CartKey, edited.CartKey)
	assert.Equal(t, model.DayFriday, edited.OrderDay)
	assert.Equal(t, float64(3000), edited.AddonTotal)
	assert.Equal(t, 2, edited.Quantity)
	// Unit price snapshot is untouched by an edit.
	assert.Equal(t, float64(25000), edited.UnitPrice)
}

func TestCartService_EditItem_MergesIntoExistingLine(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	target, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonKeju.ID}, 2)
	require.NoError(t, err)

	source, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayTuesday, nil, 1)
	require.NoError(t, err)

	merged, err := env.cartService.EditItem(env.user.ID, source.CartKey,
		model.DayMonday, []uint{env.addonKeju.ID})
	require.NoError(t, err)

	assert.Equal(t, target.CartKey, merged.CartKey)
	assert.Equal(t, 3, merged.Quantity)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartService_EditItem_NoopWhenIdentityUnchanged(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addonKeju.ID, env.addonCoklat.ID}, 2)
	require.NoError(t, err)

	same, err := env.cartService.EditItem(env.user.ID, item.CartKey,
		model.DayMonday, []uint{env.addonCoklat.ID, env.addonKeju.ID})
	require.NoError(t, err)
	assert.Equal(t, item.CartKey, same.CartKey)
	assert.Equal(t, 2, same.Quantity)
}

func TestCartService_EditItem_DayUnavailable(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	_, err = env.cartService.EditItem(env.user.ID, item.CartKey, model.DaySaturday, nil)
	assert.ErrorIs(t, err, ErrDayUnavailable)
}

func TestCartService_RemoveFromCart_Idempotent(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	item, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	require.NoError(t, env.cartService.RemoveFromCart(env.user.ID, item.CartKey))
	// A second removal of the same key is still a success.
	assert.NoError(t, env.cartService.RemoveFromCart(env.user.ID, item.CartKey))
	assert.NoError(t, env.cartService.RemoveFromCart(env.user.ID, "never-existed"))
}

func TestCartService_ClearCart(t *testing.T) {
	env := setupCartServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)
	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayTuesday, nil, 1)
	require.NoError(t, err)

	require.NoError(t, env.cartService.ClearCart(env.user.ID))

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)

	// Clearing an already-empty cart is fine.
	assert.NoError(t, env.cartService.ClearCart(env.user.ID))
}

func TestCartService_Subtotal(t *testing.T) {
	env := setupCartServiceTest(t)

	items := []model.CartItem{
		{UnitPrice: 25000, AddonTotal: 5000, Quantity: 2}, // 60000
		{UnitPrice: 8000, AddonTotal: 0, Quantity: 3},     // 24000
	}
	assert.Equal(t, float64(84000), env.cartService.Subtotal(items))
	assert.Equal(t, float64(0), env.cartService.Subtotal(nil))
}

func TestCartService_Total(t *testing.T) {
	env := setupCartServiceTest(t)

	// Delivery keeps the fee.
	assert.Equal(t, float64(95000),
		env.cartService.Total(100000, 15000, 10000, model.FulfillmentDelivery))

	// Pickup zeroes the fee.
	assert.Equal(t, float64(85000),
		env.cartService.Total(100000, 15000, 10000, model.FulfillmentPickup))

	// A discount larger than the order never pushes the total negative.
	assert.Equal(t, float64(0),
		env.cartService.Total(10000, 50000, 0, model.FulfillmentPickup))
}
