package repository

import (
	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cartItem *model.CartItem) error
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindByCartKey(userID uint, cartKey string) (*model.CartItem, error)
	// FindByIdentity looks up the one line matching the full cart identity:
	// user + product + order day + canonical addon key.
	FindByIdentity(userID, productID uint, orderDay model.OrderDay, addonKey string) (*model.CartItem, error)
	// SumQuantityByProduct totals quantities across all of the user's lines
	// for a product. excludeID skips one line (0 skips nothing); the cart
	// service uses it to leave the edited line out of the stock baseline.
	SumQuantityByProduct(userID, productID uint, excludeID uint) (int, error)
	Update(cartItem *model.CartItem) error
	ReplaceAddons(cartItem *model.CartItem, addons []model.ProductAddon) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":    cartItem.UserID,
		"product_id": cartItem.ProductID,
		"order_day":  cartItem.OrderDay,
		"quantity":   cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"product_id": cartItem.ProductID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"cart_key":     cartItem.CartKey,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	var cartItems []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Addons").
		Order("created_at ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cartItems, nil
}

func (r *cartRepository) FindByCartKey(userID uint, cartKey string) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.Where("user_id = ? AND cart_key = ?", userID, cartKey).
		Preload("Product").
		Preload("Addons").
		First(&cartItem).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart item by cart key in database", err, map[string]interface{}{
				"user_id":  userID,
				"cart_key": cartKey,
			})
		}
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) FindByIdentity(userID, productID uint, orderDay model.OrderDay, addonKey string) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.Where(
		"user_id = ? AND product_id = ? AND order_day = ? AND addon_key = ?",
		userID, productID, orderDay, addonKey,
	).First(&cartItem).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart item by identity in database", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
				"order_day":  orderDay,
				"addon_key":  addonKey,
			})
		}
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) SumQuantityByProduct(userID, productID uint, excludeID uint) (int, error) {
	var total int64
	query := r.db.Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	if err != nil {
		logger.Error("Failed to sum cart quantity by product in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return 0, err
	}
	return int(total), nil
}

func (r *cartRepository) Update(cartItem *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"quantity":     cartItem.Quantity,
	})

	if err := r.db.Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) ReplaceAddons(cartItem *model.CartItem, addons []model.ProductAddon) error {
	logger.Debug("Replacing cart item addons in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"addon_count":  len(addons),
	})

	if err := r.db.Model(cartItem).Association("Addons").Replace(addons); err != nil {
		logger.Error("Failed to replace cart item addons in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting cart items by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items by user ID from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
