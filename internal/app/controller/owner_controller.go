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

type OwnerController struct {
	ownerService service.OwnerService
}

func NewOwnerController(ownerService service.OwnerService) *OwnerController {
	return &OwnerController{
		ownerService: ownerService,
	}
}

type OwnerRequest struct {
	Name     string `json:"name" binding:"required"`
	Contact  string `json:"contact"`
	IsActive *bool  `json:"is_active"`
}

// List returns brands
// GET /api/v1/owners
func (ctrl *OwnerController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	role, _ := middleware.GetUserRole(c)
	activeOnly := role != "admin"

	owners, err := ctrl.ownerService.List(activeOnly)
	if err != nil {
		log.Error("Failed to list owners", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"owners": owners})
}

// Get returns one brand
// GET /api/v1/owners/:id
func (ctrl *OwnerController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid owner ID")
		return
	}

	owner, err := ctrl.ownerService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOwnerNotFound) {
			apperrors.NotFound(c, apperrors.OwnerNotFound, "Brand not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

// Create adds a brand (admin)
// POST /api/v1/admin/owners
func (ctrl *OwnerController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Owner name is required")
		return
	}

	owner, err := ctrl.ownerService.Create(service.OwnerInput{
		Name:     req.Name,
		Contact:  req.Contact,
		IsActive: req.IsActive,
	})
	if err != nil {
		log.Error("Failed to create owner", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"owner": owner})
}

// Update edits a brand (admin)
// PUT /api/v1/admin/owners/:id
func (ctrl *OwnerController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid owner ID")
		return
	}

	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid owner data")
		return
	}

	owner, err := ctrl.ownerService.Update(uint(id), service.OwnerInput{
		Name:     req.Name,
		Contact:  req.Contact,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrOwnerNotFound) {
			apperrors.NotFound(c, apperrors.OwnerNotFound, "Brand not found")
			return
		}
		log.Error("Failed to update owner", err, map[string]interface{}{
			"owner_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

// Delete removes a brand (admin)
// DELETE /api/v1/admin/owners/:id
func (ctrl *OwnerController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid owner ID")
		return
	}

	if err := ctrl.ownerService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrOwnerNotFound) {
			apperrors.NotFound(c, apperrors.OwnerNotFound, "Brand not found")
			return
		}
		log.Error("Failed to delete owner", err, map[string]interface{}{
			"owner_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Brand deleted"})
}
