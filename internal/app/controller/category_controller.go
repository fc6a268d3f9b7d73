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

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// List returns categories
// GET /api/v1/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// Admins see inactive categories too.
	role, _ := middleware.GetUserRole(c)
	activeOnly := role != "admin"

	categories, err := ctrl.categoryService.List(activeOnly)
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Get returns one category
// GET /api/v1/categories/:id
func (ctrl *CategoryController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	category, err := ctrl.categoryService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// Create adds a category (admin)
// POST /api/v1/admin/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.categoryService.Create(service.CategoryInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		info := apperrors.ParseError(err, "category")
		if info.Code == apperrors.CategoryNameExists {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// Update edits a category (admin)
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category, err := ctrl.categoryService.Update(uint(id), service.CategoryInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// Delete removes a category (admin)
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.categoryService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
