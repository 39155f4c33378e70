package service

import (
	"context"
	"errors"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAddon      = errors.New("invalid product addon")
	ErrDayUnavailable    = errors.New("product not available on that day")
	ErrStoreClosed       = errors.New("store is closed")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// CartService owns the cart line list and is its only mutation surface.
//
// Line identity is product + order day + addon set. Additions with the
// same identity merge into one line; the stock ceiling is enforced over
// the SUM of a product's lines regardless of identity. The service never
// clamps a rejected quantity — the caller re-prompts the user.
type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(ctx context.Context, userID, productID uint, orderDay model.OrderDay, addonIDs []uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(ctx context.Context, userID uint, cartKey string, quantity int) error
	EditItem(userID uint, cartKey string, orderDay model.OrderDay, addonIDs []uint) (*model.CartItem, error)
	RemoveFromCart(userID uint, cartKey string) error
	ClearCart(userID uint) error
	Subtotal(items []model.CartItem) float64
	Total(subtotal, voucherDiscount, deliveryFee float64, fulfillment model.FulfillmentType) float64
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	addonRepo   repository.AddonRepository
	storeStatus StoreStatusService
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addonRepo repository.AddonRepository,
	storeStatus StoreStatusService,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addonRepo:   addonRepo,
		storeStatus: storeStatus,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cartItems, nil
}

// resolveAddons loads the requested addons and checks every one belongs to
// the product. Unknown or foreign addon IDs reject the whole request.
func (s *cartService) resolveAddons(productID uint, addonIDs []uint) ([]model.ProductAddon, float64, error) {
	if len(addonIDs) == 0 {
		return nil, 0, nil
	}

	addons, err := s.addonRepo.FindByIDs(addonIDs)
	if err != nil {
		return nil, 0, err
	}

	found := make(map[uint]bool, len(addons))
	var total float64
	for _, a := range addons {
		if a.ProductID != productID {
			logger.Warn("Addon does not belong to product", map[string]interface{}{
				"addon_id":   a.ID,
				"product_id": productID,
			})
			return nil, 0, ErrInvalidAddon
		}
		found[a.ID] = true
		total += a.AdditionalPrice
	}
	for _, id := range addonIDs {
		if !found[id] {
			logger.Warn("Addon not found", map[string]interface{}{
				"addon_id": id,
			})
			return nil, 0, ErrInvalidAddon
		}
	}

	return addons, total, nil
}

func (s *cartService) AddToCart(ctx context.Context, userID, productID uint, orderDay model.OrderDay, addonIDs []uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"order_day":  orderDay,
		"addon_ids":  addonIDs,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	closed, err := s.storeStatus.IsClosed(ctx)
	if err != nil {
		return nil, err
	}
	if closed {
		logger.Warn("Cannot add to cart: store is closed", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrStoreClosed
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if !model.ValidOrderDay(orderDay) || !product.AvailableOn(orderDay) {
		logger.Warn("Cannot add to cart: day unavailable", map[string]interface{}{
			"product_id":     productID,
			"order_day":      orderDay,
			"available_days": product.AvailableDays,
		})
		return nil, ErrDayUnavailable
	}

	addons, addonTotal, err := s.resolveAddons(productID, addonIDs)
	if err != nil {
		return nil, err
	}

	// Stock ceiling over every line of this product, any day or addon set.
	existingTotal, err := s.cartRepo.SumQuantityByProduct(userID, productID, 0)
	if err != nil {
		return nil, err
	}
	if existingTotal+quantity > product.StockQuantity {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"in_cart":    existingTotal,
			"requested":  quantity,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	addonKey := model.AddonSetKey(addonIDs)
	existing, err := s.cartRepo.FindByIdentity(userID, productID, orderDay, addonKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		logger.Info("Cart line merged", map[string]interface{}{
			"cart_item_id": existing.ID,
			"cart_key":     existing.CartKey,
			"quantity":     existing.Quantity,
		})
		return existing, nil
	}

	cartItem := &model.CartItem{
		CartKey:     uuid.New().String(),
		UserID:      userID,
		ProductID:   productID,
		OrderDay:    orderDay,
		Quantity:    quantity,
		AddonKey:    addonKey,
		UnitPrice:   product.EffectivePrice(),
		AddonTotal:  addonTotal,
		ProductName: product.Name,
		ImageURL:    product.ImageURL,
		Addons:      addons,
	}

	if err := s.cartRepo.Create(cartItem); err != nil {
		return nil, err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"cart_key":     cartItem.CartKey,
	})
	return cartItem, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID uint, cartKey string, quantity int) error {
	logger.Info("Updating cart quantity", map[string]interface{}{
		"user_id":  userID,
		"cart_key": cartKey,
		"quantity": quantity,
	})

	cartItem, err := s.cartRepo.FindByCartKey(userID, cartKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	// Zero or negative means remove.
	if quantity <= 0 {
		return s.cartRepo.Delete(cartItem.ID)
	}

	if quantity > cartItem.Quantity {
		closed, err := s.storeStatus.IsClosed(ctx)
		if err != nil {
			return err
		}
		if closed {
			logger.Warn("Cannot increase quantity: store is closed", map[string]interface{}{
				"user_id":  userID,
				"cart_key": cartKey,
			})
			return ErrStoreClosed
		}
	}

	product, err := s.productRepo.FindByID(cartItem.ProductID)
	if err != nil {
		return err
	}

	// The edited line's old quantity is excluded from the baseline, so a
	// line can always be raised to its fair share of remaining stock.
	otherTotal, err := s.cartRepo.SumQuantityByProduct(userID, cartItem.ProductID, cartItem.ID)
	if err != nil {
		return err
	}
	if otherTotal+quantity > product.StockQuantity {
		logger.Warn("Cannot update quantity: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"cart_key":   cartKey,
			"other_qty":  otherTotal,
			"requested":  quantity,
			"available":  product.StockQuantity,
		})
		return ErrInsufficientStock
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		return err
	}

	logger.Info("Cart quantity updated", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"quantity":     quantity,
	})
	return nil
}

// EditItem rewrites a line's order day and addon set. When the new
// identity collides with another existing line the two merge: the other
// line absorbs this line's quantity and this line is deleted. The
// product's total quantity is unchanged either way, so no stock check is
// needed here.
func (s *cartService) EditItem(userID uint, cartKey string, orderDay model.OrderDay, addonIDs []uint) (*model.CartItem, error) {
	logger.Info("Editing cart item", map[string]interface{}{
		"user_id":   userID,
		"cart_key":  cartKey,
		"order_day": orderDay,
		"addon_ids": addonIDs,
	})

	cartItem, err := s.cartRepo.FindByCartKey(userID, cartKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	product, err := s.productRepo.FindByID(cartItem.ProductID)
	if err != nil {
		return nil, err
	}

	if !model.ValidOrderDay(orderDay) || !product.AvailableOn(orderDay) {
		logger.Warn("Cannot edit cart item: day unavailable", map[string]interface{}{
			"product_id": cartItem.ProductID,
			"order_day":  orderDay,
		})
		return nil, ErrDayUnavailable
	}

	addons, addonTotal, err := s.resolveAddons(cartItem.ProductID, addonIDs)
	if err != nil {
		return nil, err
	}

	newKey := model.AddonSetKey(addonIDs)
	if orderDay == cartItem.OrderDay && newKey == cartItem.AddonKey {
		return cartItem, nil
	}

	other, err := s.cartRepo.FindByIdentity(userID, cartItem.ProductID, orderDay, newKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if other != nil {
		other.Quantity += cartItem.Quantity
		if err := s.cartRepo.Update(other); err != nil {
			return nil, err
		}
		if err := s.cartRepo.Delete(cartItem.ID); err != nil {
			return nil, err
		}
		logger.Info("Cart lines merged on edit", map[string]interface{}{
			"kept_cart_key":    other.CartKey,
			"removed_cart_key": cartItem.CartKey,
			"quantity":         other.Quantity,
		})
		return other, nil
	}

	cartItem.OrderDay = orderDay
	cartItem.AddonKey = newKey
	cartItem.AddonTotal = addonTotal
	if err := s.cartRepo.ReplaceAddons(cartItem, addons); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Update(cartItem); err != nil {
		return nil, err
	}

	logger.Info("Cart item customization updated", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"order_day":    orderDay,
	})
	return cartItem, nil
}

// RemoveFromCart is idempotent: removing an absent key is a success.
func (s *cartService) RemoveFromCart(userID uint, cartKey string) error {
	cartItem, err := s.cartRepo.FindByCartKey(userID, cartKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Cart item already removed", map[string]interface{}{
				"user_id":  userID,
				"cart_key": cartKey,
			})
			return nil
		}
		return err
	}

	if err := s.cartRepo.Delete(cartItem.ID); err != nil {
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// Subtotal sums line totals on the prices snapshotted at add time.
func (s *cartService) Subtotal(items []model.CartItem) float64 {
	var subtotal float64
	for i := range items {
		subtotal += items[i].LineTotal()
	}
	return subtotal
}

// Total applies the voucher discount and delivery fee. Pickup zeroes the
// fee; the result never goes below zero.
func (s *cartService) Total(subtotal, voucherDiscount, deliveryFee float64, fulfillment model.FulfillmentType) float64 {
	if fulfillment == model.FulfillmentPickup {
		deliveryFee = 0
	}
	total := subtotal - voucherDiscount + deliveryFee
	if total < 0 {
		return 0
	}
	return total
}
