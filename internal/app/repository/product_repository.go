package repository

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrStockConflict is returned when a stock decrement would drive stock
// below zero.
var ErrStockConflict = errors.New("insufficient stock for decrement")

type ProductFilter struct {
	CategoryID uint
	OwnerID    uint
	Search     string
	ActiveOnly bool
	Page       int
	Limit      int
}

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
	FindAll(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	DecrementStock(tx *gorm.DB, productID uint, quantity int) error
	BulkCreate(products []model.Product, batchSize int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products", map[string]interface{}{
		"category_id": filter.CategoryID,
		"owner_id":    filter.OwnerID,
		"search":      filter.Search,
	})

	query := r.db.Model(&model.Product{}).Preload("Category").Preload("Owner")

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ?", like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err, nil)
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var products []model.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products", err, nil)
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").Preload("Owner").First(&product, id).Error; err != nil {
		logger.Debug("Product not found by ID", map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return products, nil
}

// DecrementStock decrements stock inside tx. The WHERE clause guards
// against concurrent checkouts: if another transaction consumed the
// stock first, no row is updated and ErrStockConflict is returned.
func (r *productRepository) DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement product stock", result.Error, map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Stock decrement rejected", map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return ErrStockConflict
	}
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}
