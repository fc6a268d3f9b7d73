package repository

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
	FindAll(activeOnly bool) ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
	})
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAll(activeOnly bool) ([]model.Category, error) {
	query := r.db.Model(&model.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		logger.Debug("Category not found by ID", map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
