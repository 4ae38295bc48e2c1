// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// CatalogHandler handles menu and category endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
	config         *config.Config
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalog.NewService(db, redisClient, cfg, logger),
		config:         cfg,
	}
}

// GetMenu handles GET /menu
func (h *CatalogHandler) GetMenu(c *gin.Context) {
	var req catalog.FoodListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	foods, err := h.catalogService.GetMenu(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve menu",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu retrieved successfully",
		"data":    foods,
	})
}

// GetFood handles GET /menu/:id
func (h *CatalogHandler) GetFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid food ID",
		})
		return
	}

	food, err := h.catalogService.GetFood(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Food item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve food item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food item retrieved successfully",
		"data":    food,
	})
}

// GetCategories handles GET /menu/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// AdminListFoods handles GET /admin/menu
func (h *CatalogHandler) AdminListFoods(c *gin.Context) {
	var req catalog.FoodListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}
	req.IncludeHidden = true

	foods, err := h.catalogService.GetMenu(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve menu",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu retrieved successfully",
		"data":    foods,
	})
}

// AdminCreateFood handles POST /admin/menu
func (h *CatalogHandler) AdminCreateFood(c *gin.Context) {
	var req catalog.FoodCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	food, err := h.catalogService.CreateFood(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Category not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create food item",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Food item created successfully",
		"data":    food,
	})
}

// AdminUpdateFood handles PUT /admin/menu/:id
func (h *CatalogHandler) AdminUpdateFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid food ID",
		})
		return
	}

	var req catalog.FoodUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	food, err := h.catalogService.UpdateFood(c.Request.Context(), uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Food item not found",
			})
		case errors.Is(err, catalog.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Category not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update food item",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food item updated successfully",
		"data":    food,
	})
}

// AdminDeleteFood handles DELETE /admin/menu/:id
func (h *CatalogHandler) AdminDeleteFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid food ID",
		})
		return
	}

	if err := h.catalogService.DeleteFood(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Food item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete food item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food item deleted successfully",
	})
}

// AdminCreateCategory handles POST /admin/menu/categories
func (h *CatalogHandler) AdminCreateCategory(c *gin.Context) {
	var req catalog.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create category",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully",
		"data":    category,
	})
}
