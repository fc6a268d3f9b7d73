package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
	auditService service.AuditService
}

func NewOrderController(orderService service.OrderService, auditService service.AuditService) *OrderController {
	return &OrderController{
		orderService: orderService,
		auditService: auditService,
	}
}

type CheckoutRequest struct {
	AddressID   uint   `json:"address_id" binding:"required"`
	LineItemIDs []uint `json:"line_item_ids" binding:"required,min=1"`
}

type AdminOrderUpdateRequest struct {
	Status     *string `json:"status"`
	TrackingNo *string `json:"tracking_no"`
}

// Checkout converts selected cart items into a pending order
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Address and at least one line item are required")
		return
	}

	order, err := ctrl.orderService.Checkout(userID, service.CheckoutInput{
		AddressID:   req.AddressID,
		LineItemIDs: req.LineItemIDs,
	})
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        apperrors.OrderInsufficientStock,
				"message":      stockErr.Error(),
				"product_id":   stockErr.ProductID,
				"product_name": stockErr.ProductName,
				"requested":    stockErr.Requested,
				"remaining":    stockErr.Remaining,
			})
		case errors.Is(err, service.ErrNoActiveCart):
			apperrors.NotFound(c, apperrors.OrderNoActiveCart, "No active cart to check out")
		case errors.Is(err, service.ErrInvalidLineItems):
			apperrors.BadRequest(c, apperrors.OrderInvalidLineItems, "One or more line items are missing or not yours")
		case errors.Is(err, service.ErrAddressNotFound):
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	ctrl.auditService.Record(model.ActorUser, userID, "order.checkout",
		"order "+strconv.FormatUint(uint64(order.ID), 10)+" created")

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// List returns the user's orders
// GET /api/v1/orders
func (ctrl *OrderController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 20)

	orders, total, err := ctrl.orderService.GetUserOrders(userID, page, limit)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// Get returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Cancel cancels a pending order
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) Cancel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderNotCancellable):
			apperrors.Conflict(c, apperrors.OrderNotCancellable, "Only pending orders can be cancelled")
		default:
			log.Error("Failed to cancel order", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	ctrl.auditService.Record(model.ActorUser, userID, "order.cancel",
		"order "+strconv.FormatUint(orderID, 10)+" cancelled")

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminList searches all orders (admin)
// GET /api/v1/admin/orders?q=&status=&page=&limit=
func (ctrl *OrderController) AdminList(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{
		Search: c.Query("q"),
		Status: model.OrderStatus(c.Query("status")),
		Page:   parsePositiveInt(c.Query("page"), 1),
		Limit:  parsePositiveInt(c.Query("limit"), 20),
	}

	orders, total, err := ctrl.orderService.AdminListOrders(filter)
	if err != nil {
		log.Error("Failed to search orders", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// AdminGet returns any order (admin)
// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) AdminGet(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.AdminGetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminUpdate edits status and tracking (admin)
// PUT /api/v1/admin/orders/:id
func (ctrl *OrderController) AdminUpdate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req AdminOrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Status == nil && req.TrackingNo == nil) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status or tracking number is required")
		return
	}

	input := service.AdminOrderUpdateInput{TrackingNo: req.TrackingNo}
	if req.Status != nil {
		status := model.OrderStatus(*req.Status)
		switch status {
		case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusCancel:
			input.Status = &status
		default:
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown order status")
			return
		}
	}

	order, err := ctrl.orderService.AdminUpdateOrder(uint(orderID), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidTransition):
			apperrors.Conflict(c, apperrors.OrderInvalidTransition, "Order status transition not allowed")
		default:
			log.Error("Failed to update order", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	ctrl.auditService.Record(model.ActorAdmin, adminID, "order.admin_update",
		"order "+strconv.FormatUint(orderID, 10)+" updated")

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminDelete removes an order (admin)
// DELETE /api/v1/admin/orders/:id
func (ctrl *OrderController) AdminDelete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	if err := ctrl.orderService.AdminDeleteOrder(uint(orderID)); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		default:
			log.Error("Failed to delete order", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	ctrl.auditService.Record(model.ActorAdmin, adminID, "order.delete",
		"order "+strconv.FormatUint(orderID, 10)+" deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
