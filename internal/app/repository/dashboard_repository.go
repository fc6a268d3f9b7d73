package repository

import (
	"sort"
	"time"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type DashboardSummary struct {
	TotalSales    float64 `json:"total_sales"`
	PaidOrders    int64   `json:"paid_orders"`
	PendingOrders int64   `json:"pending_orders"`
	Users         int64   `json:"users"`
	Products      int64   `json:"products"`
}

type CategorySales struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Quantity     int     `json:"quantity"`
	Sales        float64 `json:"sales"`
}

type MonthlySales struct {
	Month  int     `json:"month"` // 1..12
	Orders int64   `json:"orders"`
	Sales  float64 `json:"sales"`
}

type DashboardRepository interface {
	Summary() (*DashboardSummary, error)
	SoldByCategory(year int) ([]CategorySales, error)
	SalesByMonth(year int) ([]MonthlySales, error)
	RecentOrders(year, limit int) ([]model.Order, error)
	Years() ([]int, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// yearRange returns [start, end) bounds for a calendar year. Date
// filtering is done with ranges rather than EXTRACT so the queries run
// on both PostgreSQL and SQLite.
func yearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func (r *dashboardRepository) Summary() (*DashboardSummary, error) {
	logger.Debug("Computing dashboard summary", nil)

	var summary DashboardSummary

	err := r.db.Model(&model.Order{}).
		Where("status = ?", model.OrderStatusPaid).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&summary.TotalSales).Error
	if err != nil {
		logger.Error("Failed to sum paid sales", err, nil)
		return nil, err
	}

	if err := r.db.Model(&model.Order{}).Where("status = ?", model.OrderStatusPaid).Count(&summary.PaidOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Order{}).Where("status = ?", model.OrderStatusPending).Count(&summary.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.User{}).Count(&summary.Users).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Count(&summary.Products).Error; err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *dashboardRepository) SoldByCategory(year int) ([]CategorySales, error) {
	start, end := yearRange(year)

	var rows []CategorySales
	err := r.db.Model(&model.OrderItem{}).
		Select("categories.id AS category_id, categories.name AS category_name, COALESCE(SUM(order_items.quantity), 0) AS quantity, COALESCE(SUM(order_items.quantity * order_items.product_price), 0) AS sales").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("orders.status = ?", model.OrderStatusPaid).
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Group("categories.id, categories.name").
		Order("sales DESC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate sales by category", err, map[string]interface{}{
			"year": year,
		})
		return nil, err
	}
	return rows, nil
}

// SalesByMonth returns twelve buckets for the year, zero-filled for
// months without sales. Bucketing happens in Go to keep the query
// portable across drivers.
func (r *dashboardRepository) SalesByMonth(year int) ([]MonthlySales, error) {
	start, end := yearRange(year)

	var orders []model.Order
	err := r.db.
		Where("status = ?", model.OrderStatusPaid).
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to load paid orders for monthly sales", err, map[string]interface{}{
			"year": year,
		})
		return nil, err
	}

	months := make([]MonthlySales, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, order := range orders {
		m := int(order.CreatedAt.Month()) - 1
		months[m].Orders++
		months[m].Sales += order.TotalPrice
	}
	return months, nil
}

func (r *dashboardRepository) RecentOrders(year, limit int) ([]model.Order, error) {
	start, end := yearRange(year)

	var orders []model.Order
	err := r.db.
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to load recent orders", err, map[string]interface{}{
			"year": year,
		})
		return nil, err
	}
	return orders, nil
}

// Years lists the calendar years that have at least one order, newest
// first.
func (r *dashboardRepository) Years() ([]int, error) {
	var orders []model.Order
	if err := r.db.Select("created_at").Find(&orders).Error; err != nil {
		logger.Error("Failed to load order years", err, nil)
		return nil, err
	}

	seen := make(map[int]bool)
	var years []int
	for _, order := range orders {
		y := order.CreatedAt.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}
