package repository

import (
	"time"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindActiveByUser(userID uint) (*model.Cart, error)
	FindByID(id uint) (*model.Cart, error)
	FindStaleActive(before time.Time) ([]model.Cart, error)
	UpdateStatus(tx *gorm.DB, cartID uint, status model.CartStatus) error
	AddItem(item *model.CartItem) error
	UpdateItem(item *model.CartItem) error
	FindItem(cartID, itemID uint) (*model.CartItem, error)
	FindItemsByIDs(cartID uint, itemIDs []uint) ([]model.CartItem, error)
	DeleteItem(itemID uint) error
	DeleteItems(tx *gorm.DB, itemIDs []uint) error
	CountItems(tx *gorm.DB, cartID uint) (int64, error)
	RecomputeSummary(tx *gorm.DB, cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindActiveByUser(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		Order("created_at DESC").
		First(&cart).Error
	if err != nil {
		logger.Debug("Active cart not found for user", map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindByID(id uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.Preload("Items").Preload("Items.Product").First(&cart, id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindStaleActive returns empty active carts not updated since the given
// time. Used by the cleanup scheduler.
func (r *cartRepository) FindStaleActive(before time.Time) ([]model.Cart, error) {
	var carts []model.Cart
	err := r.db.
		Where("status = ?", model.CartStatusActive).
		Where("updated_at < ?", before).
		Where("NOT EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id AND cart_items.deleted_at IS NULL)").
		Find(&carts).Error
	if err != nil {
		logger.Error("Failed to find stale carts", err, nil)
		return nil, err
	}
	return carts, nil
}

func (r *cartRepository) UpdateStatus(tx *gorm.DB, cartID uint, status model.CartStatus) error {
	logger.Debug("Updating cart status", map[string]interface{}{
		"cart_id": cartID,
		"status":  status,
	})

	err := tx.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("status", status).Error
	if err != nil {
		logger.Error("Failed to update cart status", err, map[string]interface{}{
			"cart_id": cartID,
			"status":  status,
		})
		return err
	}
	return nil
}

func (r *cartRepository) AddItem(item *model.CartItem) error {
	logger.Debug("Adding cart item", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to add cart item", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item", map[string]interface{}{
		"item_id":  item.ID,
		"quantity": item.Quantity,
		"selected": item.Selected,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindItem(cartID, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		logger.Debug("Cart item not found", map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemsByIDs(cartID uint, itemIDs []uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Preload("Product").
		Where("cart_id = ? AND id IN ?", cartID, itemIDs).
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find cart items by IDs", err, map[string]interface{}{
			"cart_id": cartID,
			"count":   len(itemIDs),
		})
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) DeleteItem(itemID uint) error {
	logger.Debug("Deleting cart item", map[string]interface{}{
		"item_id": itemID,
	})

	if err := r.db.Delete(&model.CartItem{}, itemID).Error; err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItems(tx *gorm.DB, itemIDs []uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := tx.Delete(&model.CartItem{}, itemIDs).Error; err != nil {
		logger.Error("Failed to delete cart items", err, map[string]interface{}{
			"count": len(itemIDs),
		})
		return err
	}
	return nil
}

func (r *cartRepository) CountItems(tx *gorm.DB, cartID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.CartItem{}).Where("cart_id = ?", cartID).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count cart items", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return 0, err
	}
	return count, nil
}

// RecomputeSummary rebuilds the cart totals from the surviving line
// items joined to live product prices. Totals are never adjusted
// incrementally; this aggregate is the single source of truth.
func (r *cartRepository) RecomputeSummary(tx *gorm.DB, cartID uint) error {
	logger.Debug("Recomputing cart summary", map[string]interface{}{
		"cart_id": cartID,
	})

	var summary struct {
		TotalAmount int
		TotalPrice  float64
	}
	err := tx.Model(&model.CartItem{}).
		Select("COALESCE(SUM(cart_items.quantity), 0) AS total_amount, COALESCE(SUM(cart_items.quantity * products.price), 0) AS total_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Scan(&summary).Error
	if err != nil {
		logger.Error("Failed to aggregate cart summary", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	err = tx.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_amount": summary.TotalAmount,
			"total_price":  summary.TotalPrice,
		}).Error
	if err != nil {
		logger.Error("Failed to store cart summary", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Cart summary recomputed", map[string]interface{}{
		"cart_id":      cartID,
		"total_amount": summary.TotalAmount,
		"total_price":  summary.TotalPrice,
	})
	return nil
}
