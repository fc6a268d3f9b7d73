package service

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is not available")
)

type ProductInput struct {
	Name        string
	Description string
	Price       *float64
	Cost        *float64
	Stock       *int
	IsActive    *bool
	ImageURL    *string
	CategoryID  uint
	OwnerID     *uint
}

// ProductView decorates a product with per-viewer state.
type ProductView struct {
	model.Product
	Wishlisted bool `json:"wishlisted"`
}

type ProductService interface {
	Create(input ProductInput) (*model.Product, error)
	Update(id uint, input ProductInput) (*model.Product, error)
	Delete(id uint) error
	List(filter repository.ProductFilter, viewerID uint) ([]ProductView, int64, error)
	Get(id uint, viewerID uint) (*ProductView, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	ownerRepo    repository.OwnerRepository
	wishlistRepo repository.WishlistRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	ownerRepo repository.OwnerRepository,
	wishlistRepo repository.WishlistRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		ownerRepo:    ownerRepo,
		wishlistRepo: wishlistRepo,
	}
}

func (s *productService) Create(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":        input.Name,
		"category_id": input.CategoryID,
	})

	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if input.OwnerID != nil {
		if _, err := s.ownerRepo.FindByID(*input.OwnerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, err
		}
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		OwnerID:     input.OwnerID,
		IsActive:    true,
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Cost != nil {
		product.Cost = *input.Cost
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) Update(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.CategoryID != 0 {
		if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.OwnerID != nil {
		if _, err := s.ownerRepo.FindByID(*input.OwnerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, err
		}
		product.OwnerID = input.OwnerID
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Cost != nil {
		product.Cost = *input.Cost
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) Delete(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// List returns products with the viewer's wishlist flags applied.
// viewerID zero means an anonymous viewer.
func (s *productService) List(filter repository.ProductFilter, viewerID uint) ([]ProductView, int64, error) {
	products, total, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, 0, err
	}

	wishlisted := map[uint]bool{}
	if viewerID != 0 {
		wishlisted, err = s.wishlistRepo.ProductIDsForUser(viewerID)
		if err != nil {
			return nil, 0, err
		}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			Product:    p,
			Wishlisted: wishlisted[p.ID],
		})
	}
	return views, total, nil
}

func (s *productService) Get(id uint, viewerID uint) (*ProductView, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	view := &ProductView{Product: *product}
	if viewerID != 0 {
		exists, err := s.wishlistRepo.Exists(viewerID, id)
		if err != nil {
			return nil, err
		}
		view.Wishlisted = exists
	}
	return view, nil
}
