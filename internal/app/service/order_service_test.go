package service

import (
	"context"
	"sync"
	"testing"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingNotifier captures hub pushes so tests can assert on them.
type recordingNotifier struct {
	mu        sync.Mutex
	newOrders []*model.Order
	statuses  []model.OrderStatus
}

func (n *recordingNotifier) NotifyNewOrder(order *model.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newOrders = append(n.newOrders, order)
}

func (n *recordingNotifier) NotifyOrderStatus(orderID uint, status model.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, status)
}

type orderTestEnv struct {
	db           *gorm.DB
	orderService OrderService
	cartService  CartService
	storeStatus  StoreStatusService
	notifier     *recordingNotifier
	user         *model.User
	product      *model.Product
	addon        *model.ProductAddon
}

const testDeliveryFee = 10000

func setupOrderServiceTest(t *testing.T) *orderTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	addonRepo := repository.NewAddonRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	settingRepo := repository.NewSettingRepository(testDB)

	storeStatus := NewStoreStatusService(settingRepo)
	cartService := NewCartService(cartRepo, productRepo, addonRepo, storeStatus)
	notifier := &recordingNotifier{}
	orderService := NewOrderService(orderRepo, cartRepo, storeStatus, notifier, testDeliveryFee, testDB)

	user := &model.User{
		Email:        "pelanggan@example.com",
		PasswordHash: "hash",
		Name:         "Pelanggan Uji",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:          "Roti Tawar Susu",
		Price:         20000,
		StockQuantity: 10,
	}
	product.SetAvailableDays([]model.OrderDay{
		model.DayMonday, model.DayTuesday, model.DayWednesday,
		model.DayThursday, model.DayFriday, model.DaySaturday, model.DaySunday,
	})
	require.NoError(t, testDB.Create(product).Error)

	addon := &model.ProductAddon{
		ProductID:       product.ID,
		Name:            "Keju",
		AdditionalPrice: 5000,
	}
	require.NoError(t, testDB.Create(addon).Error)

	return &orderTestEnv{
		db:           testDB,
		orderService: orderService,
		cartService:  cartService,
		storeStatus:  storeStatus,
		notifier:     notifier,
		user:         user,
		product:      product,
		addon:        addon,
	}
}

func TestOrderService_Checkout_DeliveryWithVoucher(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	voucher := &model.Voucher{Code: "HEMAT15", Discount: 15000, MinPurchase: 50000, Active: true}
	require.NoError(t, env.db.Create(voucher).Error)

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, []uint{env.addon.ID}, 2) // (20000+5000)*2 = 50000
	require.NoError(t, err)
	_, err = env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayTuesday, nil, 1) // 20000
	require.NoError(t, err)

	order, err := env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentDelivery,
		DeliveryAddress: "Jl. Melati No. 3, Bandung",
		VoucherCode:     "HEMAT15",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(70000), order.Subtotal)
	assert.Equal(t, float64(15000), order.VoucherDiscount)
	assert.Equal(t, float64(testDeliveryFee), order.DeliveryFee)
	assert.Equal(t, float64(65000), order.TotalAmount)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Len(t, order.OrderItems, 2)

	// Stock drops by the summed quantity across both lines.
	var product model.Product
	require.NoError(t, env.db.First(&product, env.product.ID).Error)
	assert.Equal(t, 7, product.StockQuantity)

	// Voucher usage counted, cart cleared, back office notified.
	var usedVoucher model.Voucher
	require.NoError(t, env.db.First(&usedVoucher, voucher.ID).Error)
	assert.Equal(t, 1, usedVoucher.UsedCount)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)

	require.Len(t, env.notifier.newOrders, 1)
	assert.Equal(t, order.ID, env.notifier.newOrders[0].ID)
}

func TestOrderService_Checkout_CashPickupWithChange(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 2) // 40000
	require.NoError(t, err)

	order, err := env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodCash,
		ReceivedAmount:  50000,
		FulfillmentType: model.FulfillmentPickup,
	})
	require.NoError(t, err)

	// Pickup zeroes the delivery fee; cash is settled on the spot.
	assert.Equal(t, float64(0), order.DeliveryFee)
	assert.Equal(t, float64(40000), order.TotalAmount)
	assert.Equal(t, float64(50000), order.ReceivedAmount)
	assert.Equal(t, float64(10000), order.ChangeAmount)
	assert.Equal(t, model.PaymentStatusCompleted, order.PaymentStatus)
}

func TestOrderService_Checkout_CashInsufficient(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 2)
	require.NoError(t, err)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodCash,
		ReceivedAmount:  30000,
		FulfillmentType: model.FulfillmentPickup,
	})
	assert.ErrorIs(t, err, ErrCashInsufficient)

	// Nothing committed: stock and cart untouched.
	var product model.Product
	require.NoError(t, env.db.First(&product, env.product.ID).Error)
	assert.Equal(t, 10, product.StockQuantity)

	items, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	env := setupOrderServiceTest(t)

	_, err := env.orderService.Checkout(context.Background(), env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_Checkout_DeliveryNeedsAddress(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		DeliveryAddress: "   ",
	})
	assert.ErrorIs(t, err, ErrAddressRequired)
}

func TestOrderService_Checkout_InvalidPaymentMethod(t *testing.T) {
	env := setupOrderServiceTest(t)

	_, err := env.orderService.Checkout(context.Background(), env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethod("crypto"),
		FulfillmentType: model.FulfillmentPickup,
	})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestOrderService_Checkout_StoreClosed(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	_, err = env.storeStatus.SetClosed(ctx, true, "Tutup sementara")
	require.NoError(t, err)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
	})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestOrderService_Checkout_StockDroppedSinceAdd(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 5)
	require.NoError(t, err)

	// The kasir sells most of the tray over the counter in the meantime.
	require.NoError(t, env.db.Model(&model.Product{}).
		Where("id = ?", env.product.ID).
		Update("stock_quantity", 3).Error)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestOrderService_Checkout_VoucherRevalidatedAgainstLiveSubtotal(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	voucher := &model.Voucher{Code: "MIN100", Discount: 20000, MinPurchase: 100000, Active: true}
	require.NoError(t, env.db.Create(voucher).Error)

	// Subtotal 40000 is below the 100000 minimum, so the checkout as a
	// whole fails even though the code exists and is active.
	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 2)
	require.NoError(t, err)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
		VoucherCode:     "MIN100",
	})
	assert.ErrorIs(t, err, ErrVoucherMinPurchase)

	// The failed attempt burned no stock and no voucher usage.
	var v model.Voucher
	require.NoError(t, env.db.First(&v, voucher.ID).Error)
	assert.Equal(t, 0, v.UsedCount)

	var product model.Product
	require.NoError(t, env.db.First(&product, env.product.ID).Error)
	assert.Equal(t, 10, product.StockQuantity)
}

func TestOrderService_Checkout_VoucherInactiveOrExhausted(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	inactive := &model.Voucher{Code: "MATI", Discount: 5000, Active: false}
	require.NoError(t, env.db.Create(inactive).Error)
	exhausted := &model.Voucher{Code: "HABIS", Discount: 5000, Active: true, UsageLimit: 2, UsedCount: 2}
	require.NoError(t, env.db.Create(exhausted).Error)

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
		VoucherCode:     "MATI",
	})
	assert.ErrorIs(t, err, ErrVoucherInactive)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
		VoucherCode:     "HABIS",
	})
	assert.ErrorIs(t, err, ErrVoucherExhausted)

	_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
		VoucherCode:     "TIDAKADA",
	})
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestOrderService_Checkout_DiscountNeverPushesTotalNegative(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	voucher := &model.Voucher{Code: "JUMBO", Discount: 500000, Active: true}
	require.NoError(t, env.db.Create(voucher).Error)

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	order, err := env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodCash,
		ReceivedAmount:  0,
		FulfillmentType: model.FulfillmentPickup,
		VoucherCode:     "JUMBO",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), order.TotalAmount)
	assert.Equal(t, float64(0), order.ChangeAmount)
}

func TestOrderService_GetOrderByID_OwnershipEnforced(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	order, err := env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
	})
	require.NoError(t, err)

	found, err := env.orderService.GetOrderByID(env.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Another user sees it as missing, not forbidden.
	_, err = env.orderService.GetOrderByID(env.user.ID+1, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Staff lookup skips the ownership check.
	staffView, err := env.orderService.GetOrderForStaff(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, staffView.ID)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	order, err := env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
	})
	require.NoError(t, err)

	require.NoError(t, env.orderService.UpdateOrderStatus(order.ID, model.OrderStatusBaking))

	updated, err := env.orderService.GetOrderForStaff(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusBaking, updated.Status)

	// The status change is pushed to the back office.
	require.Len(t, env.notifier.statuses, 1)
	assert.Equal(t, model.OrderStatusBaking, env.notifier.statuses[0])

	err = env.orderService.UpdateOrderStatus(order.ID, model.OrderStatus("burnt"))
	assert.Error(t, err)

	err = env.orderService.UpdateOrderStatus(9999, model.OrderStatusReady)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListOrders_FiltersByStatus(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
			model.DayMonday, nil, 1)
		require.NoError(t, err)
		_, err = env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
			PaymentMethod:   model.PaymentMethodTransfer,
			FulfillmentType: model.FulfillmentPickup,
		})
		require.NoError(t, err)
	}

	all, err := env.orderService.ListOrders("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, env.orderService.UpdateOrderStatus(all[0].ID, model.OrderStatusCompleted))

	pending, err := env.orderService.ListOrders(model.OrderStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = env.orderService.ListOrders(model.OrderStatus("nonsense"))
	assert.Error(t, err)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	env := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := env.cartService.AddToCart(ctx, env.user.ID, env.product.ID,
		model.DayMonday, nil, 1)
	require.NoError(t, err)

	order, err := env.orderService.Checkout(ctx, env.user.ID, CheckoutInput{
		PaymentMethod:   model.PaymentMethodTransfer,
		FulfillmentType: model.FulfillmentPickup,
	})
	require.NoError(t, err)

	require.NoError(t, env.orderService.UpdatePaymentStatus(order.ID, model.PaymentStatusCompleted))

	updated, err := env.orderService.GetOrderForStaff(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, updated.PaymentStatus)

	err = env.orderService.UpdatePaymentStatus(order.ID, model.PaymentStatus("iou"))
	assert.Error(t, err)
}
