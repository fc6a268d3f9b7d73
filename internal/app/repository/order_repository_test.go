package repository

import (
	"testing"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (OrderRepository, *model.User, *model.Address, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := NewOrderRepository(testDB)

	user := &model.User{
		Email:        "order@example.com",
		PasswordHash: "hash",
		FirstName:    "Order",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	address := &model.Address{
		UserID:    user.ID,
		Recipient: "Order Tester",
		Phone:     "0812345678",
		Detail:    "99 Test Road",
		Province:  "Bangkok",
		Postcode:  "10110",
	}
	testDB.Create(address)

	return orderRepo, user, address, testDB
}

func createTestOrder(t *testing.T, repo OrderRepository, testDB *gorm.DB, userID, addressID uint, status model.OrderStatus) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID:      userID,
		CartID:      1,
		AddressID:   addressID,
		TotalPrice:  150,
		TotalAmount: 2,
		Status:      status,
		TrackingNo:  "TRK-TEST",
	}
	require.NoError(t, repo.Create(testDB, order))
	return order
}

func TestOrderRepository_CancelPending(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	order := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)

	require.NoError(t, orderRepo.CancelPending(order.ID, user.ID))

	found, err := orderRepo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancel, found.Status)
}

func TestOrderRepository_CancelPending_RejectsNonPending(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	order := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPaid)

	err := orderRepo.CancelPending(order.ID, user.ID)
	assert.ErrorIs(t, err, ErrStatusConflict)

	found, _ := orderRepo.FindByID(order.ID)
	assert.Equal(t, model.OrderStatusPaid, found.Status)
}

func TestOrderRepository_CancelPending_RejectsForeignOrder(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	order := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)

	err := orderRepo.CancelPending(order.ID, user.ID+1)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestOrderRepository_ClaimPayment(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	order := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)

	claim := &model.PaymentClaim{
		OrderID:      order.ID,
		UserID:       user.ID,
		Amount:       150,
		TransferDate: "2026-09-01",
		TransferTime: "14:30",
	}
	require.NoError(t, orderRepo.CreatePaymentClaim(testDB, claim))
	require.NoError(t, orderRepo.ClaimPayment(testDB, order.ID, claim.ID))

	found, err := orderRepo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, found.Status)
	require.NotNil(t, found.PaymentID)
	assert.Equal(t, claim.ID, *found.PaymentID)
}

func TestOrderRepository_ClaimPayment_SecondClaimLoses(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	order := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)

	first := &model.PaymentClaim{
		OrderID: order.ID, UserID: user.ID, Amount: 150,
		TransferDate: "2026-09-01", TransferTime: "14:30",
	}
	require.NoError(t, orderRepo.CreatePaymentClaim(testDB, first))
	require.NoError(t, orderRepo.ClaimPayment(testDB, order.ID, first.ID))

	// The guarded update refuses once payment_id is set
	err := orderRepo.ClaimPayment(testDB, order.ID, first.ID+100)
	assert.ErrorIs(t, err, ErrStatusConflict)

	found, _ := orderRepo.FindByID(order.ID)
	assert.Equal(t, first.ID, *found.PaymentID)
}

func TestOrderRepository_CreatePaymentClaim_DuplicateOrder(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	order := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)

	first := &model.PaymentClaim{
		OrderID: order.ID, UserID: user.ID, Amount: 150,
		TransferDate: "2026-09-01", TransferTime: "14:30",
	}
	require.NoError(t, orderRepo.CreatePaymentClaim(testDB, first))

	second := &model.PaymentClaim{
		OrderID: order.ID, UserID: user.ID, Amount: 150,
		TransferDate: "2026-09-01", TransferTime: "15:00",
	}
	err := orderRepo.CreatePaymentClaim(testDB, second)
	assert.Error(t, err)
}

func TestOrderRepository_FindAll_Filters(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)
	paid := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPaid)

	orders, total, err := orderRepo.FindAll(OrderFilter{Status: model.OrderStatusPaid, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, paid.ID, orders[0].ID)

	orders, total, err = orderRepo.FindAll(OrderFilter{UserID: user.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)
}

func TestOrderRepository_FindByIDForUser(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	order := createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)

	found, err := orderRepo.FindByIDForUser(order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = orderRepo.FindByIDForUser(order.ID, user.ID+1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_CountByAddress(t *testing.T) {
	orderRepo, user, address, testDB := setupOrderRepositoryTest(t)

	count, err := orderRepo.CountByAddress(address.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	createTestOrder(t, orderRepo, testDB, user.ID, address.ID, model.OrderStatusPending)

	count, err = orderRepo.CountByAddress(address.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
