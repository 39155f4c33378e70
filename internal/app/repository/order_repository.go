package repository

import (
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll(status model.OrderStatus) ([]model.Order, error)
	FindByDateRange(from, to time.Time) ([]model.Order, error)
	UpdateStatus(orderID uint, status model.OrderStatus) error
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Preload("Voucher")
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.preloadOrder().First(&order, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.preloadOrder().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

// FindAll lists every order for the back office, newest first. An empty
// status returns all of them.
func (r *orderRepository) FindAll(status model.OrderStatus) ([]model.Order, error) {
	query := r.preloadOrder().Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindByDateRange(from, to time.Time) ([]model.Order, error) {
	logger.Debug("Finding orders by date range in database", map[string]interface{}{
		"from": from,
		"to":   to,
	})

	var orders []model.Order
	err := r.preloadOrder().
		Preload("User").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by date range in database", err, nil)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(orderID uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", orderID).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": orderID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	logger.Debug("Updating payment status in database", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", orderID).Update("payment_status", status)
	if result.Error != nil {
		logger.Error("Failed to update payment status in database", result.Error, map[string]interface{}{
			"order_id": orderID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
