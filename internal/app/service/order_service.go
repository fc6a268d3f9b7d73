package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"github.com/ikkim/shopmall-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrNoActiveCart        = errors.New("no active cart to check out")
	ErrInvalidLineItems    = errors.New("line items missing or not owned by the cart")
	ErrAddressNotFound     = errors.New("address not found")
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")
	ErrInvalidTransition   = errors.New("order status transition not allowed")
)

// InsufficientStockError reports which product ran out and how much is
// left, so the client can adjust the cart.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Remaining   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, remaining %d",
		e.ProductName, e.Requested, e.Remaining)
}

type CheckoutInput struct {
	AddressID   uint
	LineItemIDs []uint
}

type AdminOrderUpdateInput struct {
	Status     *model.OrderStatus
	TrackingNo *string
}

type OrderService interface {
	Checkout(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint, page, limit int) ([]model.Order, int64, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	AdminListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	AdminGetOrder(orderID uint) (*model.Order, error)
	AdminUpdateOrder(orderID uint, input AdminOrderUpdateInput) (*model.Order, error)
	AdminDeleteOrder(orderID uint) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	notifier    NotificationService
	checkoutCfg *config.CheckoutConfig
	orderCfg    *config.OrderConfig
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	notifier NotificationService,
	checkoutCfg *config.CheckoutConfig,
	orderCfg *config.OrderConfig,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		notifier:    notifier,
		checkoutCfg: checkoutCfg,
		orderCfg:    orderCfg,
		db:          db,
	}
}

// Checkout converts the selected cart line items into a pending order.
// The whole conversion is one transaction: stock decrements, the order
// with its snapshot items, line item deletion and the cart summary all
// land together or not at all.
func (s *orderService) Checkout(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id":    userID,
		"address_id": input.AddressID,
		"line_items": len(input.LineItemIDs),
	})

	if len(input.LineItemIDs) == 0 {
		return nil, ErrInvalidLineItems
	}

	if _, err := s.addressRepo.FindByIDForUser(input.AddressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout rejected, address not found for user", map[string]interface{}{
				"user_id":    userID,
				"address_id": input.AddressID,
			})
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout rejected, no active cart", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrNoActiveCart
		}
		return nil, err
	}

	// Every requested line item must belong to this cart. A count
	// mismatch means a stale or foreign ID slipped in.
	items, err := s.cartRepo.FindItemsByIDs(cart.ID, input.LineItemIDs)
	if err != nil {
		return nil, err
	}
	if len(items) != len(input.LineItemIDs) {
		logger.Warn("Checkout rejected, line item mismatch", map[string]interface{}{
			"cart_id":   cart.ID,
			"requested": len(input.LineItemIDs),
			"found":     len(items),
		})
		return nil, ErrInvalidLineItems
	}

	// Pre-flight stock check for a friendly error before the
	// transaction. The decrement below re-validates under the
	// transaction anyway.
	for _, item := range items {
		if item.Product.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Requested:   item.Quantity,
				Remaining:   item.Product.Stock,
			}
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		totalAmount int
		totalPrice  float64
		orderItems  []model.OrderItem
		itemIDs     []uint
	)
	for _, item := range items {
		if err := s.productRepo.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
			tx.Rollback()
			if errors.Is(err, repository.ErrStockConflict) {
				// Re-read outside the aborted tx for the message.
				product, findErr := s.productRepo.FindByID(item.ProductID)
				remaining := 0
				name := item.Product.Name
				if findErr == nil {
					remaining = product.Stock
					name = product.Name
				}
				logger.Warn("Checkout lost stock race", map[string]interface{}{
					"product_id": item.ProductID,
					"requested":  item.Quantity,
					"remaining":  remaining,
				})
				return nil, &InsufficientStockError{
					ProductID:   item.ProductID,
					ProductName: name,
					Requested:   item.Quantity,
					Remaining:   remaining,
				}
			}
			return nil, err
		}

		totalAmount += item.Quantity
		totalPrice += float64(item.Quantity) * item.Product.Price
		orderItems = append(orderItems, model.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			ProductPrice: item.Product.Price,
			Quantity:     item.Quantity,
		})
		itemIDs = append(itemIDs, item.ID)
	}

	order := &model.Order{
		UserID:      userID,
		CartID:      cart.ID,
		AddressID:   input.AddressID,
		TotalAmount: totalAmount,
		TotalPrice:  totalPrice + s.checkoutCfg.ShippingFee,
		Status:      model.OrderStatusPending,
		TrackingNo:  util.GenerateTrackingNo(),
		Items:       orderItems,
	}
	if err := s.orderRepo.Create(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.cartRepo.DeleteItems(tx, itemIDs); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.cartRepo.RecomputeSummary(tx, cart.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	remaining, err := s.cartRepo.CountItems(tx, cart.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if remaining == 0 {
		if err := s.cartRepo.UpdateStatus(tx, cart.ID, model.CartStatusCheckedOut); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, err
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_price":  order.TotalPrice,
		"total_amount": order.TotalAmount,
		"cart_closed":  remaining == 0,
	})

	s.notifier.Notify(userID, model.NotificationOrderStatus,
		"Order placed",
		fmt.Sprintf("Order #%d was created and is awaiting payment.", order.ID))

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint, page, limit int) ([]model.Order, int64, error) {
	return s.orderRepo.FindAll(repository.OrderFilter{
		UserID: userID,
		Page:   page,
		Limit:  limit,
	})
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// CancelOrder lets the owner cancel an order while it is still pending.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	logger.Info("Cancelling order", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})

	if _, err := s.orderRepo.FindByIDForUser(orderID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.orderRepo.CancelPending(orderID, userID); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrOrderNotCancellable
		}
		return nil, err
	}

	s.notifier.Notify(userID, model.NotificationOrderStatus,
		"Order cancelled",
		fmt.Sprintf("Order #%d was cancelled.", orderID))

	return s.orderRepo.FindByID(orderID)
}

func (s *orderService) AdminListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.FindAll(filter)
}

func (s *orderService) AdminGetOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// AdminUpdateOrder edits status and tracking number. With strict
// transitions enabled only pending->paid and pending->cancel are
// accepted; otherwise admins may correct the status freely.
func (s *orderService) AdminUpdateOrder(orderID uint, input AdminOrderUpdateInput) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	statusChanged := false
	if input.Status != nil && *input.Status != order.Status {
		if s.orderCfg.StrictStatusTransitions && !allowedTransition(order.Status, *input.Status) {
			logger.Warn("Rejected order status transition", map[string]interface{}{
				"order_id": orderID,
				"from":     order.Status,
				"to":       *input.Status,
			})
			return nil, ErrInvalidTransition
		}
		order.Status = *input.Status
		statusChanged = true
	}
	if input.TrackingNo != nil {
		order.TrackingNo = *input.TrackingNo
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order updated by admin", map[string]interface{}{
		"order_id": orderID,
		"status":   order.Status,
	})

	if statusChanged {
		s.notifier.Notify(order.UserID, model.NotificationOrderStatus,
			"Order updated",
			fmt.Sprintf("Order #%d is now %s.", order.ID, order.Status))
	}
	return order, nil
}

func (s *orderService) AdminDeleteOrder(orderID uint) error {
	if err := s.orderRepo.Delete(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Order deleted by admin", map[string]interface{}{
		"order_id": orderID,
	})
	return nil
}

func allowedTransition(from, to model.OrderStatus) bool {
	switch from {
	case model.OrderStatusPending:
		return to == model.OrderStatusPaid || to == model.OrderStatusCancel
	default:
		return false
	}
}
