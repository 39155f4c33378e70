package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrAddressRequired  = errors.New("delivery requires an address")
	ErrInvalidPayment   = errors.New("invalid payment method")
	ErrCashInsufficient = errors.New("received cash below order total")
)

// OrderNotifier pushes order events to the back office. The hub implements
// it; a nil notifier disables the push.
type OrderNotifier interface {
	NotifyNewOrder(order *model.Order)
	NotifyOrderStatus(orderID uint, status model.OrderStatus)
}

// CheckoutInput carries everything the customer confirms on the checkout
// screen. VoucherCode is re-validated against the live subtotal inside
// the checkout transaction, so a code that stopped qualifying since the
// customer applied it fails the whole checkout.
type CheckoutInput struct {
	PaymentMethod   model.PaymentMethod
	ReceivedAmount  float64
	FulfillmentType model.FulfillmentType
	DeliveryAddress string
	VoucherCode     string
}

type OrderService interface {
	Checkout(ctx context.Context, userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	GetOrderForStaff(orderID uint) (*model.Order, error)
	ListOrders(status model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	storeStatus StoreStatusService
	notifier    OrderNotifier
	deliveryFee float64
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	storeStatus StoreStatusService,
	notifier OrderNotifier,
	deliveryFee float64,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		storeStatus: storeStatus,
		notifier:    notifier,
		deliveryFee: deliveryFee,
		db:          db,
	}
}

func validOrderStatus(status model.OrderStatus) bool {
	switch status {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusBaking,
		model.OrderStatusReady, model.OrderStatusCompleted, model.OrderStatusCancelled:
		return true
	}
	return false
}

func validPaymentStatus(status model.PaymentStatus) bool {
	switch status {
	case model.PaymentStatusPending, model.PaymentStatusCompleted,
		model.PaymentStatusFailed, model.PaymentStatusRefunded:
		return true
	}
	return false
}

// addonSnapshot renders the chosen addons as a readable line for the order
// history, so the kitchen still sees "Keju, Coklat" after an addon is
// renamed or deleted.
func addonSnapshot(addons []model.ProductAddon) string {
	if len(addons) == 0 {
		return ""
	}
	names := make([]string, 0, len(addons))
	for _, a := range addons {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func (s *orderService) Checkout(ctx context.Context, userID uint, input CheckoutInput) (*model.Order, error) {
	if input.FulfillmentType == "" {
		input.FulfillmentType = model.FulfillmentDelivery
	}

	logger.Info("Starting checkout", map[string]interface{}{
		"user_id":          userID,
		"payment_method":   input.PaymentMethod,
		"fulfillment_type": input.FulfillmentType,
		"voucher_code":     input.VoucherCode,
	})

	if input.PaymentMethod != model.PaymentMethodCash && input.PaymentMethod != model.PaymentMethodTransfer {
		return nil, ErrInvalidPayment
	}
	if input.FulfillmentType == model.FulfillmentDelivery && strings.TrimSpace(input.DeliveryAddress) == "" {
		logger.Warn("Checkout rejected: delivery without address", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrAddressRequired
	}

	closed, err := s.storeStatus.IsClosed(ctx)
	if err != nil {
		return nil, err
	}
	if closed {
		logger.Warn("Checkout rejected: store is closed", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrStoreClosed
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	// A product can appear on several lines (different days or addon sets);
	// the stock check and decrement run once per product over the summed
	// quantity.
	productQty := make(map[uint]int)
	for _, item := range cartItems {
		productQty[item.ProductID] += item.Quantity
	}

	var (
		subtotal   float64
		orderItems []model.OrderItem
	)

	for productID, qty := range productQty {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, productID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product vanished during checkout", map[string]interface{}{
					"user_id":    userID,
					"product_id": productID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to lock product during checkout", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, err
		}

		if product.StockQuantity < qty {
			tx.Rollback()
			logger.Warn("Checkout failed: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
				"requested":  qty,
				"available":  product.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		if err := tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement product stock", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, err
		}
	}

	for _, item := range cartItems {
		unitPrice := item.UnitPrice + item.AddonTotal
		orderItems = append(orderItems, model.OrderItem{
			ProductID:     item.ProductID,
			OrderDay:      item.OrderDay,
			Quantity:      item.Quantity,
			Price:         unitPrice,
			ProductName:   item.ProductName,
			AddonSnapshot: addonSnapshot(item.Addons),
		})
		subtotal += item.LineTotal()
	}

	var (
		voucherID       *uint
		voucherCode     string
		voucherDiscount float64
	)

	if input.VoucherCode != "" {
		var voucher model.Voucher
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ?", input.VoucherCode).
			First(&voucher).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVoucherNotFound
			}
			logger.Error("Failed to lock voucher during checkout", err, map[string]interface{}{
				"user_id": userID,
				"code":    input.VoucherCode,
			})
			return nil, err
		}

		// Full re-validation against the live subtotal. A voucher the
		// customer applied earlier may no longer qualify after cart edits.
		switch {
		case !voucher.Active:
			tx.Rollback()
			return nil, ErrVoucherInactive
		case voucher.Expired(time.Now()):
			tx.Rollback()
			return nil, ErrVoucherExpired
		case voucher.Exhausted():
			tx.Rollback()
			return nil, ErrVoucherExhausted
		case subtotal < voucher.MinPurchase:
			tx.Rollback()
			logger.Warn("Checkout failed: voucher minimum no longer met", map[string]interface{}{
				"user_id":      userID,
				"code":         voucher.Code,
				"subtotal":     subtotal,
				"min_purchase": voucher.MinPurchase,
			})
			return nil, ErrVoucherMinPurchase
		}

		if err := tx.Model(&model.Voucher{}).
			Where("id = ?", voucher.ID).
			Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to increment voucher usage", err, map[string]interface{}{
				"voucher_id": voucher.ID,
			})
			return nil, err
		}

		id := voucher.ID
		voucherID = &id
		voucherCode = voucher.Code
		voucherDiscount = voucher.Discount
	}

	deliveryFee := s.deliveryFee
	if input.FulfillmentType == model.FulfillmentPickup {
		deliveryFee = 0
	}

	total := subtotal - voucherDiscount + deliveryFee
	if total < 0 {
		total = 0
	}

	var receivedAmount, changeAmount float64
	if input.PaymentMethod == model.PaymentMethodCash {
		if input.ReceivedAmount < total {
			tx.Rollback()
			logger.Warn("Checkout failed: received cash below total", map[string]interface{}{
				"user_id":  userID,
				"received": input.ReceivedAmount,
				"total":    total,
			})
			return nil, ErrCashInsufficient
		}
		receivedAmount = input.ReceivedAmount
		changeAmount = input.ReceivedAmount - total
	}

	order := &model.Order{
		UserID:          userID,
		Subtotal:        subtotal,
		VoucherID:       voucherID,
		VoucherCode:     voucherCode,
		VoucherDiscount: voucherDiscount,
		DeliveryFee:     deliveryFee,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		ReceivedAmount:  receivedAmount,
		ChangeAmount:    changeAmount,
		FulfillmentType: input.FulfillmentType,
		DeliveryAddress: input.DeliveryAddress,
		OrderItems:      orderItems,
	}

	if input.PaymentMethod == model.PaymentMethodCash {
		order.PaymentStatus = model.PaymentStatusCompleted
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":      userID,
			"total_amount": total,
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":          userID,
		"order_id":         order.ID,
		"subtotal":         subtotal,
		"voucher_discount": voucherDiscount,
		"total_amount":     total,
		"item_count":       len(orderItems),
	})

	placed, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewOrder(placed)
	}
	return placed, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	// A foreign order looks like a missing one to the requester.
	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderForStaff skips the ownership check; the router gates it behind
// the kasir and admin roles.
func (s *orderService) GetOrderForStaff(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListOrders returns the back-office order board, optionally narrowed to
// one status.
func (s *orderService) ListOrders(status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !validOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	orders, err := s.orderRepo.FindAll(status)
	if err != nil {
		logger.Error("Failed to list orders", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	if !validOrderStatus(status) {
		return fmt.Errorf("unknown order status %q", status)
	}

	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(orderID, status)
	}
	return nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	if !validPaymentStatus(status) {
		return fmt.Errorf("unknown payment status %q", status)
	}

	logger.Info("Updating payment status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to update payment status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}
	return nil
}
