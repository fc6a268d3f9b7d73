package service

import (
	"testing"

	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	orderService OrderService
	cartService  CartService
	user         *model.User
	address      *model.Address
	product      *model.Product
	db           *gorm.DB
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	notifier := NewNotificationService(notificationRepo, nil)
	cartService := NewCartService(cartRepo, productRepo, testDB)
	orderService := NewOrderService(
		orderRepo,
		cartRepo,
		productRepo,
		addressRepo,
		notifier,
		&config.CheckoutConfig{ShippingFee: 50},
		&config.OrderConfig{},
		testDB,
	)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		FirstName:    "Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	address := &model.Address{
		UserID:    user.ID,
		Recipient: "Buyer",
		Phone:     "0812345678",
		Detail:    "99 Test Road",
		Province:  "Bangkok",
		Postcode:  "10110",
	}
	testDB.Create(address)

	category := &model.Category{Name: "Snacks", IsActive: true}
	testDB.Create(category)

	product := &model.Product{
		Name:       "Seaweed Crisps",
		Price:      35,
		Stock:      10,
		IsActive:   true,
		CategoryID: category.ID,
	}
	testDB.Create(product)

	return &orderServiceFixture{
		orderService: orderService,
		cartService:  cartService,
		user:         user,
		address:      address,
		product:      product,
		db:           testDB,
	}
}

func (f *orderServiceFixture) addToCart(t *testing.T, productID uint, quantity int) *model.Cart {
	t.Helper()
	cart, err := f.cartService.AddItem(f.user.ID, productID, quantity)
	require.NoError(t, err)
	return cart
}

func TestOrderService_Checkout(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 3)
	itemID := cart.Items[0].ID

	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{itemID},
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 3, order.TotalAmount)
	assert.Equal(t, 3*35.0+50, order.TotalPrice)
	assert.NotEmpty(t, order.TrackingNo)
	require.Len(t, order.Items, 1)
	assert.Equal(t, f.product.ID, order.Items[0].ProductID)
	assert.Equal(t, "Seaweed Crisps", order.Items[0].ProductName)
	assert.Equal(t, 35.0, order.Items[0].ProductPrice)
	assert.Equal(t, 3, order.Items[0].Quantity)

	// Stock decremented
	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 7, product.Stock)

	// Consumed cart is empty and closed
	var closed model.Cart
	require.NoError(t, f.db.First(&closed, cart.ID).Error)
	assert.Equal(t, model.CartStatusCheckedOut, closed.Status)
	assert.Equal(t, 0, closed.TotalAmount)
}

func TestOrderService_Checkout_PartialCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	other := &model.Product{
		Name: "Rice Crackers", Price: 20, Stock: 5, IsActive: true, CategoryID: f.product.CategoryID,
	}
	f.db.Create(other)

	cart := f.addToCart(t, f.product.ID, 2)
	firstItemID := cart.Items[0].ID
	f.addToCart(t, other.ID, 1)

	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{firstItemID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, order.TotalAmount)

	// Cart survives with the remaining item and a fresh summary
	var remaining model.Cart
	require.NoError(t, f.db.First(&remaining, cart.ID).Error)
	assert.Equal(t, model.CartStatusActive, remaining.Status)
	assert.Equal(t, 1, remaining.TotalAmount)
	assert.Equal(t, 20.0, remaining.TotalPrice)
}

func TestOrderService_Checkout_NoActiveCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{1},
	})
	assert.ErrorIs(t, err, ErrNoActiveCart)
}

func TestOrderService_Checkout_EmptyLineItems(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{},
	})
	assert.ErrorIs(t, err, ErrInvalidLineItems)
}

func TestOrderService_Checkout_ForeignLineItem(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	itemID := cart.Items[0].ID

	_, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{itemID, 9999},
	})
	assert.ErrorIs(t, err, ErrInvalidLineItems)

	// Nothing consumed
	var untouched model.Cart
	require.NoError(t, f.db.First(&untouched, cart.ID).Error)
	assert.Equal(t, model.CartStatusActive, untouched.Status)
}

func TestOrderService_Checkout_AddressNotOwned(t *testing.T) {
	f := setupOrderServiceTest(t)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", FirstName: "Stranger"}
	f.db.Create(stranger)
	foreignAddress := &model.Address{
		UserID: stranger.ID, Recipient: "Stranger", Phone: "02",
		Detail: "1 Elsewhere", Province: "Chiang Mai", Postcode: "50000",
	}
	f.db.Create(foreignAddress)

	cart := f.addToCart(t, f.product.ID, 1)

	_, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   foreignAddress.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestOrderService_Checkout_InsufficientStock(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 8)
	itemID := cart.Items[0].ID

	// Stock drops between add-to-cart and checkout
	f.db.Model(&model.Product{}).Where("id = ?", f.product.ID).Update("stock", 2)

	_, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{itemID},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, f.product.ID, stockErr.ProductID)
	assert.Equal(t, 8, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Remaining)

	// Atomicity: no order, stock untouched, cart intact
	var orderCount int64
	f.db.Model(&model.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)

	var product model.Product
	f.db.First(&product, f.product.ID)
	assert.Equal(t, 2, product.Stock)

	var untouched model.Cart
	require.NoError(t, f.db.First(&untouched, cart.ID).Error)
	assert.Equal(t, model.CartStatusActive, untouched.Status)
}

func TestOrderService_Checkout_SellOutOnOneItemAbortsAll(t *testing.T) {
	f := setupOrderServiceTest(t)

	scarce := &model.Product{
		Name: "Limited Edition", Price: 200, Stock: 1, IsActive: true, CategoryID: f.product.CategoryID,
	}
	f.db.Create(scarce)

	cart := f.addToCart(t, f.product.ID, 2)
	firstItemID := cart.Items[0].ID
	cart = f.addToCart(t, scarce.ID, 1)
	var secondItemID uint
	for _, item := range cart.Items {
		if item.ProductID == scarce.ID {
			secondItemID = item.ID
		}
	}

	// The scarce product sells out before checkout
	f.db.Model(&model.Product{}).Where("id = ?", scarce.ID).Update("stock", 0)

	_, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{firstItemID, secondItemID},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, scarce.ID, stockErr.ProductID)

	// The first product's decrement must have been rolled back
	var product model.Product
	f.db.First(&product, f.product.ID)
	assert.Equal(t, 10, product.Stock)
}

func TestOrderService_OrderSnapshotSurvivesCatalogEdits(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	require.NoError(t, err)

	f.db.Model(&model.Product{}).Where("id = ?", f.product.ID).
		Updates(map[string]interface{}{"name": "Renamed", "price": 999})

	found, err := f.orderService.GetOrderByID(f.user.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Seaweed Crisps", found.Items[0].ProductName)
	assert.Equal(t, 35.0, found.Items[0].ProductPrice)
	assert.Equal(t, 35.0+50, found.TotalPrice)
}

func TestOrderService_CancelOrder(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	require.NoError(t, err)

	cancelled, err := f.orderService.CancelOrder(f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancel, cancelled.Status)
}

func TestOrderService_CancelOrder_RejectsPaid(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	require.NoError(t, err)

	f.db.Model(&model.Order{}).Where("id = ?", order.ID).Update("status", model.OrderStatusPaid)

	_, err = f.orderService.CancelOrder(f.user.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestOrderService_CancelOrder_ForeignOrder(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	require.NoError(t, err)

	_, err = f.orderService.CancelOrder(f.user.ID+1, order.ID)
	assert.Error(t, err)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	_, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	require.NoError(t, err)

	orders, total, err := f.orderService.GetUserOrders(f.user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	// Another user sees nothing
	orders, total, err = f.orderService.GetUserOrders(f.user.ID+1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Len(t, orders, 0)
}

func TestOrderService_AdminUpdateOrder_TrackingNo(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	require.NoError(t, err)

	trackingNo := "TH123456789"
	updated, err := f.orderService.AdminUpdateOrder(order.ID, AdminOrderUpdateInput{TrackingNo: &trackingNo})
	require.NoError(t, err)
	assert.Equal(t, trackingNo, updated.TrackingNo)
	assert.Equal(t, model.OrderStatusPending, updated.Status)
}

func TestOrderService_AdminUpdateOrder_StrictTransitions(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	strict := NewOrderService(
		orderRepo,
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB),
		repository.NewAddressRepository(testDB),
		NewNotificationService(repository.NewNotificationRepository(testDB), nil),
		&config.CheckoutConfig{ShippingFee: 50},
		&config.OrderConfig{StrictStatusTransitions: true},
		testDB,
	)

	order := &model.Order{UserID: 1, CartID: 1, AddressID: 1, TotalPrice: 100, TotalAmount: 1, Status: model.OrderStatusCancel}
	require.NoError(t, orderRepo.Create(testDB, order))

	paid := model.OrderStatusPaid
	_, err = strict.AdminUpdateOrder(order.ID, AdminOrderUpdateInput{Status: &paid})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrderService_AdminDeleteOrder(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart := f.addToCart(t, f.product.ID, 1)
	order, err := f.orderService.Checkout(f.user.ID, CheckoutInput{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	require.NoError(t, err)

	require.NoError(t, f.orderService.AdminDeleteOrder(order.ID))

	_, err = f.orderService.GetOrderByID(f.user.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_AdminDeleteOrder_NotFound(t *testing.T) {
	f := setupOrderServiceTest(t)

	err := f.orderService.AdminDeleteOrder(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
