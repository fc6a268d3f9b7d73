package repository

import (
	"testing"
	"time"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDashboardRepositoryTest(t *testing.T) (DashboardRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewDashboardRepository(testDB), testDB
}

func seedDashboardData(t *testing.T, testDB *gorm.DB) {
	t.Helper()

	user := &model.User{Email: "dash@example.com", PasswordHash: "hash", FirstName: "Dash"}
	testDB.Create(user)

	category := &model.Category{Name: "Snacks", IsActive: true}
	testDB.Create(category)

	product := &model.Product{Name: "Seaweed Crisps", Price: 35, Stock: 10, IsActive: true, CategoryID: category.ID}
	testDB.Create(product)

	march := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	paid := &model.Order{
		UserID: user.ID, CartID: 1, AddressID: 1,
		TotalPrice: 120, TotalAmount: 2, Status: model.OrderStatusPaid,
		CreatedAt: march,
	}
	testDB.Create(paid)
	testDB.Create(&model.OrderItem{
		OrderID: paid.ID, ProductID: product.ID,
		ProductName: product.Name, ProductPrice: 35, Quantity: 2,
		CreatedAt: march,
	})

	// Pending orders stay out of the sales figures
	pending := &model.Order{
		UserID: user.ID, CartID: 1, AddressID: 1,
		TotalPrice: 85, TotalAmount: 1, Status: model.OrderStatusPending,
		CreatedAt: march,
	}
	testDB.Create(pending)

	// A paid order from another year
	lastYear := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	old := &model.Order{
		UserID: user.ID, CartID: 1, AddressID: 1,
		TotalPrice: 70, TotalAmount: 1, Status: model.OrderStatusPaid,
		CreatedAt: lastYear,
	}
	testDB.Create(old)
	testDB.Create(&model.OrderItem{
		OrderID: old.ID, ProductID: product.ID,
		ProductName: product.Name, ProductPrice: 35, Quantity: 1,
		CreatedAt: lastYear,
	})
}

func TestDashboardRepository_Summary(t *testing.T) {
	dashboardRepo, testDB := setupDashboardRepositoryTest(t)
	seedDashboardData(t, testDB)

	summary, err := dashboardRepo.Summary()
	require.NoError(t, err)

	assert.Equal(t, 190.0, summary.TotalSales)
	assert.Equal(t, int64(2), summary.PaidOrders)
	assert.Equal(t, int64(1), summary.PendingOrders)
	assert.Equal(t, int64(1), summary.Users)
	assert.Equal(t, int64(1), summary.Products)
}

func TestDashboardRepository_SoldByCategory(t *testing.T) {
	dashboardRepo, testDB := setupDashboardRepositoryTest(t)
	seedDashboardData(t, testDB)

	sales, err := dashboardRepo.SoldByCategory(2026)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Snacks", sales[0].CategoryName)
	assert.Equal(t, 2, sales[0].Quantity)
	assert.Equal(t, 70.0, sales[0].Sales)

	sales, err = dashboardRepo.SoldByCategory(2024)
	require.NoError(t, err)
	assert.Len(t, sales, 0)
}

func TestDashboardRepository_SalesByMonth(t *testing.T) {
	dashboardRepo, testDB := setupDashboardRepositoryTest(t)
	seedDashboardData(t, testDB)

	months, err := dashboardRepo.SalesByMonth(2026)
	require.NoError(t, err)
	require.Len(t, months, 12)

	// March carries the year's only paid order
	assert.Equal(t, 3, months[2].Month)
	assert.Equal(t, int64(1), months[2].Orders)
	assert.Equal(t, 120.0, months[2].Sales)

	// Everything else is zero-filled
	assert.Equal(t, int64(0), months[0].Orders)
	assert.Equal(t, 0.0, months[0].Sales)
}

func TestDashboardRepository_RecentOrders(t *testing.T) {
	dashboardRepo, testDB := setupDashboardRepositoryTest(t)
	seedDashboardData(t, testDB)

	orders, err := dashboardRepo.RecentOrders(2026, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = dashboardRepo.RecentOrders(2026, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestDashboardRepository_Years(t *testing.T) {
	dashboardRepo, testDB := setupDashboardRepositoryTest(t)
	seedDashboardData(t, testDB)

	years, err := dashboardRepo.Years()
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 2025}, years)
}
