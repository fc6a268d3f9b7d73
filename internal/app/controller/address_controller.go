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

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddressRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	Province  string `json:"province" binding:"required"`
	Postcode  string `json:"postcode" binding:"required"`
}

type AddressUpdateRequest struct {
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Detail    string `json:"detail"`
	Province  string `json:"province"`
	Postcode  string `json:"postcode"`
}

// List returns the user's addresses
// GET /api/v1/addresses
func (ctrl *AddressController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addresses, err := ctrl.addressService.List(userID)
	if err != nil {
		log.Error("Failed to list addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// Create adds an address
// POST /api/v1/addresses
func (ctrl *AddressController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "All address fields are required")
		return
	}

	address, err := ctrl.addressService.Create(userID, service.AddressInput{
		Recipient: req.Recipient,
		Phone:     req.Phone,
		Detail:    req.Detail,
		Province:  req.Province,
		Postcode:  req.Postcode,
	})
	if err != nil {
		log.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// Update edits an address
// PUT /api/v1/addresses/:id
func (ctrl *AddressController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid address ID")
		return
	}

	var req AddressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid address data")
		return
	}

	address, err := ctrl.addressService.Update(userID, uint(id), service.AddressInput{
		Recipient: req.Recipient,
		Phone:     req.Phone,
		Detail:    req.Detail,
		Province:  req.Province,
		Postcode:  req.Postcode,
	})
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
			return
		}
		log.Error("Failed to update address", err, map[string]interface{}{
			"address_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}

// Delete removes an address unless an order references it
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid address ID")
		return
	}

	if err := ctrl.addressService.Delete(userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrAddressNotFound):
			apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
		case errors.Is(err, service.ErrAddressInUse):
			apperrors.Conflict(c, apperrors.AddressInUse, "This address is used by an order and cannot be deleted")
		default:
			log.Error("Failed to delete address", err, map[string]interface{}{
				"address_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
