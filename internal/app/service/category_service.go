package service

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryInput struct {
	Name     string
	IsActive *bool
}

type CategoryService interface {
	Create(input CategoryInput) (*model.Category, error)
	Update(id uint, input CategoryInput) (*model.Category, error)
	Delete(id uint) error
	List(activeOnly bool) ([]model.Category, error)
	Get(id uint) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(input CategoryInput) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name": input.Name,
	})

	category := &model.Category{Name: input.Name, IsActive: true}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	logger.Info("Category updated", map[string]interface{}{
		"category_id": category.ID,
	})
	return category, nil
}

func (s *categoryService) Delete(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}

func (s *categoryService) List(activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(activeOnly)
}

func (s *categoryService) Get(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}
