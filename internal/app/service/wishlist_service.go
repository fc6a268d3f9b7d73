package service

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistItemExists   = errors.New("product already in wishlist")
	ErrWishlistItemNotFound = errors.New("product not in wishlist")
)

type WishlistService interface {
	Add(userID, productID uint) (*model.WishlistItem, error)
	Remove(userID, productID uint) error
	List(userID uint) ([]model.WishlistItem, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *wishlistService) Add(userID, productID uint) (*model.WishlistItem, error) {
	logger.Info("Adding product to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrWishlistItemExists
	}

	item := &model.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.wishlistRepo.Add(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *wishlistService) Remove(userID, productID uint) error {
	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrWishlistItemNotFound
	}
	return s.wishlistRepo.Remove(userID, productID)
}

func (s *wishlistService) List(userID uint) ([]model.WishlistItem, error) {
	return s.wishlistRepo.FindByUser(userID)
}
