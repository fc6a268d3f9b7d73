package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/app/service"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Cost        *float64 `json:"cost"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
	ImageURL    *string  `json:"image_url"`
	CategoryID  uint     `json:"category_id"`
	OwnerID     *uint    `json:"owner_id"`
}

// List returns the catalog with optional filters
// GET /api/v1/products?category_id=&owner_id=&q=&page=&limit=
func (ctrl *ProductController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewerID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	filter := repository.ProductFilter{
		Search:     c.Query("q"),
		ActiveOnly: role != "admin",
		Page:       parsePositiveInt(c.Query("page"), 1),
		Limit:      parsePositiveInt(c.Query("limit"), 20),
	}
	if v, err := strconv.ParseUint(c.Query("category_id"), 10, 32); err == nil {
		filter.CategoryID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("owner_id"), 10, 32); err == nil {
		filter.OwnerID = uint(v)
	}

	products, total, err := ctrl.productService.List(filter, viewerID)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// Get returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	viewerID, _ := middleware.GetUserID(c)

	product, err := ctrl.productService.Get(uint(id), viewerID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Create adds a product (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.CategoryID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product name and category are required")
		return
	}

	product, err := ctrl.productService.Create(productInputFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		case errors.Is(err, service.ErrOwnerNotFound):
			apperrors.NotFound(c, apperrors.OwnerNotFound, "Brand not found")
		default:
			log.Error("Failed to create product", err, map[string]interface{}{
				"name": req.Name,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Update edits a product (admin)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.productService.Update(uint(id), productInputFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		case errors.Is(err, service.ErrOwnerNotFound):
			apperrors.NotFound(c, apperrors.OwnerNotFound, "Brand not found")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Delete removes a product (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func productInputFromRequest(req ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		OwnerID:     req.OwnerID,
	}
}

func parsePositiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
