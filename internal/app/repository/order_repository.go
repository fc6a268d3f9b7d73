package repository

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrStatusConflict is returned when a guarded status transition matched
// no row, meaning the order was not in the expected state.
var ErrStatusConflict = errors.New("order not in expected status")

type OrderFilter struct {
	UserID uint
	Status model.OrderStatus
	Search string // matches tracking number or order ID
	Page   int
	Limit  int
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	Update(order *model.Order) error
	Delete(id uint) error
	FindByID(id uint) (*model.Order, error)
	FindByIDForUser(id, userID uint) (*model.Order, error)
	FindAll(filter OrderFilter) ([]model.Order, int64, error)
	CancelPending(orderID, userID uint) error
	CreatePaymentClaim(tx *gorm.DB, claim *model.PaymentClaim) error
	ClaimPayment(tx *gorm.DB, orderID, paymentID uint) error
	CountByAddress(addressID uint) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id": order.UserID,
		"cart_id": order.CartID,
		"items":   len(order.Items),
	})

	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
			"cart_id": order.CartID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Order{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete order", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("Address").
		Preload("Payment").
		First(&order, id).Error
	if err != nil {
		logger.Debug("Order not found by ID", map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDForUser(id, userID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("Address").
		Preload("Payment").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		logger.Debug("Order not found for user", map[string]interface{}{
			"order_id": id,
			"user_id":  userID,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindAll(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders", map[string]interface{}{
		"user_id": filter.UserID,
		"status":  filter.Status,
		"search":  filter.Search,
	})

	query := r.db.Model(&model.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("tracking_no LIKE ? OR CAST(id AS TEXT) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders", err, nil)
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var orders []model.Order
	err := query.
		Preload("Items").
		Preload("Payment").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders", err, nil)
		return nil, 0, err
	}
	return orders, total, nil
}

// CancelPending flips a pending order to cancel. The guarded WHERE
// rejects the transition if the order was paid or cancelled in the
// meantime.
func (r *orderRepository) CancelPending(orderID, userID uint) error {
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", orderID, userID, model.OrderStatusPending).
		Update("status", model.OrderStatusCancel)
	if result.Error != nil {
		logger.Error("Failed to cancel order", result.Error, map[string]interface{}{
			"order_id": orderID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Order cancel rejected, not pending", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
		})
		return ErrStatusConflict
	}
	return nil
}

func (r *orderRepository) CreatePaymentClaim(tx *gorm.DB, claim *model.PaymentClaim) error {
	logger.Debug("Creating payment claim", map[string]interface{}{
		"order_id": claim.OrderID,
		"user_id":  claim.UserID,
	})

	if err := tx.Create(claim).Error; err != nil {
		logger.Error("Failed to create payment claim", err, map[string]interface{}{
			"order_id": claim.OrderID,
		})
		return err
	}
	return nil
}

// ClaimPayment attaches a payment claim to a pending, unclaimed order
// and marks it paid. At most one claim can ever win: the guarded WHERE
// matches only while payment_id is still NULL.
func (r *orderRepository) ClaimPayment(tx *gorm.DB, orderID, paymentID uint) error {
	result := tx.Model(&model.Order{}).
		Where("id = ? AND status = ? AND payment_id IS NULL", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusPaid,
			"payment_id": paymentID,
		})
	if result.Error != nil {
		logger.Error("Failed to claim payment on order", result.Error, map[string]interface{}{
			"order_id":   orderID,
			"payment_id": paymentID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Payment claim rejected", map[string]interface{}{
			"order_id":   orderID,
			"payment_id": paymentID,
		})
		return ErrStatusConflict
	}
	return nil
}

func (r *orderRepository) CountByAddress(addressID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("address_id = ?", addressID).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count orders by address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return 0, err
	}
	return count, nil
}
