package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity *int  `json:"quantity"`
	Selected *bool `json:"selected"`
}

// GetCart returns the user's active cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddItem puts a product into the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product and a positive quantity are required")
		return
	}

	cart, err := ctrl.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrProductInactive):
			apperrors.Conflict(c, apperrors.ProductInactive, "Product is not available")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be positive")
		default:
			log.Error("Failed to add product to cart", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// UpdateItem changes quantity or selection of a line item
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Quantity == nil && req.Selected == nil) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Quantity or selected flag is required")
		return
	}

	cart, err := ctrl.cartService.UpdateItem(userID, uint(itemID), service.UpdateCartItemInput{
		Quantity: req.Quantity,
		Selected: req.Selected,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "No active cart")
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem deletes a line item
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, uint(itemID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "No active cart")
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		default:
			log.Error("Failed to remove cart item", err, map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}
