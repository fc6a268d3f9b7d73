package service

import (
	"errors"
	"time"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("active cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

type UpdateCartItemInput struct {
	Quantity *int
	Selected *bool
}

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID, productID uint, quantity int) (*model.Cart, error)
	UpdateItem(userID, itemID uint, input UpdateCartItemInput) (*model.Cart, error)
	RemoveItem(userID, itemID uint) (*model.Cart, error)
	CloseStaleCarts(age time.Duration) (int, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// GetCart returns the user's active cart, creating an empty one when
// none exists.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActiveByUser(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	logger.Info("No active cart, creating one", map[string]interface{}{
		"user_id": userID,
	})
	cart = &model.Cart{UserID: userID, Status: model.CartStatusActive}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem puts a product into the active cart. Adding a product that is
// already a line item merges into it, raising the quantity and
// re-selecting the line.
func (s *cartService) AddItem(userID, productID uint, quantity int) (*model.Cart, error) {
	logger.Info("Adding product to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		logger.Warn("Rejected inactive product for cart", map[string]interface{}{
			"product_id": productID,
		})
		return nil, ErrProductInactive
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	var existing *model.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			existing = &cart.Items[i]
			break
		}
	}

	if existing != nil {
		existing.Quantity += quantity
		existing.Selected = true
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
	} else {
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Selected:  true,
		}
		if err := s.cartRepo.AddItem(item); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.RecomputeSummary(s.db, cart.ID); err != nil {
		return nil, err
	}
	return s.cartRepo.FindByID(cart.ID)
}

// UpdateItem changes quantity or the selected flag. A quantity of zero
// or less removes the line item.
func (s *cartService) UpdateItem(userID, itemID uint, input UpdateCartItemInput) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	item, err := s.cartRepo.FindItem(cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if input.Quantity != nil && *input.Quantity <= 0 {
		logger.Info("Quantity dropped to zero, removing line item", map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return s.RemoveItem(userID, itemID)
	}

	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Selected != nil {
		item.Selected = *input.Selected
	}

	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	if err := s.cartRepo.RecomputeSummary(s.db, cart.ID); err != nil {
		return nil, err
	}
	return s.cartRepo.FindByID(cart.ID)
}

// RemoveItem deletes a line item and recomputes the totals. When the
// last item is removed the cart closes.
func (s *cartService) RemoveItem(userID, itemID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if _, err := s.cartRepo.FindItem(cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(itemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.RecomputeSummary(s.db, cart.ID); err != nil {
		return nil, err
	}

	remaining, err := s.cartRepo.CountItems(s.db, cart.ID)
	if err != nil {
		return nil, err
	}
	if remaining == 0 {
		logger.Info("Cart emptied, closing it", map[string]interface{}{
			"cart_id": cart.ID,
			"user_id": userID,
		})
		if err := s.cartRepo.UpdateStatus(s.db, cart.ID, model.CartStatusCheckedOut); err != nil {
			return nil, err
		}
	}
	return s.cartRepo.FindByID(cart.ID)
}

// CloseStaleCarts closes empty active carts idle for longer than age.
// Called by the scheduler; carts holding items are left alone.
func (s *cartService) CloseStaleCarts(age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	carts, err := s.cartRepo.FindStaleActive(cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, cart := range carts {
		if err := s.cartRepo.UpdateStatus(s.db, cart.ID, model.CartStatusCheckedOut); err != nil {
			logger.Error("Failed to close stale cart", err, map[string]interface{}{
				"cart_id": cart.ID,
			})
			continue
		}
		closed++
	}

	if closed > 0 {
		logger.Info("Closed stale carts", map[string]interface{}{
			"count": closed,
		})
	}
	return closed, nil
}
