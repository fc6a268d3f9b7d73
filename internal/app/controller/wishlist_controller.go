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

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

type WishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// List returns the user's wishlist
// GET /api/v1/wishlist
func (ctrl *WishlistController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	items, err := ctrl.wishlistService.List(userID)
	if err != nil {
		log.Error("Failed to list wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Add puts a product on the wishlist
// POST /api/v1/wishlist
func (ctrl *WishlistController) Add(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product ID is required")
		return
	}

	item, err := ctrl.wishlistService.Add(userID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrWishlistItemExists):
			apperrors.Conflict(c, apperrors.WishlistItemExists, "This product is already in your wishlist")
		default:
			log.Error("Failed to add wishlist item", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// Remove takes a product off the wishlist
// DELETE /api/v1/wishlist/:productId
func (ctrl *WishlistController) Remove(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.wishlistService.Remove(userID, uint(productID)); err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			apperrors.NotFound(c, apperrors.WishlistItemNotFound, "Product is not in your wishlist")
			return
		}
		log.Error("Failed to remove wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}
