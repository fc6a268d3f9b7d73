package repository

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	Add(item *model.WishlistItem) error
	Remove(userID, productID uint) error
	FindByUser(userID uint) ([]model.WishlistItem, error)
	Exists(userID, productID uint) (bool, error)
	ProductIDsForUser(userID uint) (map[uint]bool, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(item *model.WishlistItem) error {
	logger.Debug("Adding wishlist item", map[string]interface{}{
		"user_id":    item.UserID,
		"product_id": item.ProductID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to add wishlist item", err, map[string]interface{}{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) Remove(userID, productID uint) error {
	logger.Debug("Removing wishlist item", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{}).Error
	if err != nil {
		logger.Error("Failed to remove wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) FindByUser(userID uint) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.Preload("Product").Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find wishlist for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) Exists(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProductIDsForUser returns the set of wishlisted product IDs, used to
// decorate catalog listings.
func (r *wishlistRepository) ProductIDsForUser(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&model.WishlistItem{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load wishlist product IDs", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
