package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// Summary returns topline sales figures
// GET /api/v1/admin/dashboard/summary
func (ctrl *DashboardController) Summary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	summary, err := ctrl.dashboardService.Summary(c.Request.Context())
	if err != nil {
		log.Error("Failed to compute dashboard summary", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SoldByCategory returns quantity and revenue per category
// GET /api/v1/admin/dashboard/sold-by-category/:year
func (ctrl *DashboardController) SoldByCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	year := parseYear(c.Param("year"))
	rows, err := ctrl.dashboardService.SoldByCategory(year)
	if err != nil {
		log.Error("Failed to load category sales", err, map[string]interface{}{
			"year": year,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "categories": rows})
}

// SalesByMonth returns monthly revenue buckets
// GET /api/v1/admin/dashboard/sales-by-month/:year
func (ctrl *DashboardController) SalesByMonth(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	year := parseYear(c.Param("year"))
	rows, err := ctrl.dashboardService.SalesByMonth(year)
	if err != nil {
		log.Error("Failed to load monthly sales", err, map[string]interface{}{
			"year": year,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "months": rows})
}

// RecentOrders returns the latest orders of a year
// GET /api/v1/admin/dashboard/recent-orders/:year
func (ctrl *DashboardController) RecentOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	year := parseYear(c.Param("year"))
	orders, err := ctrl.dashboardService.RecentOrders(year)
	if err != nil {
		log.Error("Failed to load recent orders", err, map[string]interface{}{
			"year": year,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "orders": orders})
}

// Years returns the years that have orders
// GET /api/v1/admin/dashboard/years
func (ctrl *DashboardController) Years(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	years, err := ctrl.dashboardService.Years()
	if err != nil {
		log.Error("Failed to load order years", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"years": years})
}

func parseYear(s string) int {
	year, err := strconv.Atoi(s)
	if err != nil || year < 2000 {
		return time.Now().Year()
	}
	return year
}
