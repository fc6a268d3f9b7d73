package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderControllerFixture struct {
	controller  *OrderController
	router      *gin.Engine
	cartService service.CartService
	db          *gorm.DB
	user        *model.User
	address     *model.Address
	product     *model.Product
}

func setupOrderControllerTest(t *testing.T) *orderControllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	notifier := service.NewNotificationService(repository.NewNotificationRepository(testDB), nil)
	auditService := service.NewAuditService(repository.NewAuditLogRepository(testDB))

	cartService := service.NewCartService(cartRepo, productRepo, testDB)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		productRepo,
		addressRepo,
		notifier,
		&config.CheckoutConfig{ShippingFee: 50},
		&config.OrderConfig{},
		testDB,
	)
	orderController := NewOrderController(orderService, auditService)

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

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return &orderControllerFixture{
		controller:  orderController,
		router:      router,
		cartService: cartService,
		db:          testDB,
		user:        user,
		address:     address,
		product:     product,
	}
}

func TestOrderController_Checkout(t *testing.T) {
	f := setupOrderControllerTest(t)

	cart, err := f.cartService.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	f.router.POST("/orders/checkout", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.Checkout(c)
	})

	body, _ := json.Marshal(CheckoutRequest{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	order := response["order"]
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 2*35.0+50, order.TotalPrice)

	// Checkout leaves an audit trail
	var auditCount int64
	f.db.Model(&model.AuditLog{}).Where("action = ?", "order.checkout").Count(&auditCount)
	assert.Equal(t, int64(1), auditCount)
}

func TestOrderController_Checkout_MissingBodyFields(t *testing.T) {
	f := setupOrderControllerTest(t)

	f.router.POST("/orders/checkout", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/checkout",
		bytes.NewBufferString(`{"line_item_ids": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_Checkout_NoActiveCart(t *testing.T) {
	f := setupOrderControllerTest(t)

	f.router.POST("/orders/checkout", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.Checkout(c)
	})

	body, _ := json.Marshal(CheckoutRequest{AddressID: f.address.ID, LineItemIDs: []uint{1}})
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_Checkout_InsufficientStock(t *testing.T) {
	f := setupOrderControllerTest(t)

	cart, err := f.cartService.AddItem(f.user.ID, f.product.ID, 8)
	require.NoError(t, err)

	f.db.Model(&model.Product{}).Where("id = ?", f.product.ID).Update("stock", 2)

	f.router.POST("/orders/checkout", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.Checkout(c)
	})

	body, _ := json.Marshal(CheckoutRequest{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(f.product.ID), response["product_id"])
	assert.Equal(t, float64(8), response["requested"])
	assert.Equal(t, float64(2), response["remaining"])
}

func TestOrderController_Cancel(t *testing.T) {
	f := setupOrderControllerTest(t)

	cart, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)

	f.router.POST("/orders/checkout", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.Checkout(c)
	})
	f.router.POST("/orders/:id/cancel", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.Cancel(c)
	})

	body, _ := json.Marshal(CheckoutRequest{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var checkoutResponse map[string]model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkoutResponse))
	orderID := checkoutResponse["order"].ID

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/cancel", orderID), nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cancelResponse map[string]model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelResponse))
	assert.Equal(t, model.OrderStatusCancel, cancelResponse["order"].Status)
}

func TestOrderController_List(t *testing.T) {
	f := setupOrderControllerTest(t)

	cart, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)

	f.router.POST("/orders/checkout", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.Checkout(c)
	})
	f.router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.List(c)
	})

	body, _ := json.Marshal(CheckoutRequest{
		AddressID:   f.address.ID,
		LineItemIDs: []uint{cart.Items[0].ID},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Orders []model.Order `json:"orders"`
		Total  int64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(1), response.Total)
	assert.Len(t, response.Orders, 1)
}

func TestOrderController_AdminUpdate_InvalidStatus(t *testing.T) {
	f := setupOrderControllerTest(t)

	f.router.PUT("/admin/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, f.user.ID)
		f.controller.AdminUpdate(c)
	})

	req := httptest.NewRequest(http.MethodPut, "/admin/orders/1",
		bytes.NewBufferString(`{"status": "refunded"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
