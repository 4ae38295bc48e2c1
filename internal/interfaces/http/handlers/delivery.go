// internal/interfaces/http/handlers/delivery.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/domain/delivery"
	"gorm.io/gorm"
)

// DeliveryHandler handles delivery partner endpoints
type DeliveryHandler struct {
	deliveryService *delivery.Service
	config          *config.Config
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(db *gorm.DB, cfg *config.Config) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: delivery.NewService(db),
		config:          cfg,
	}
}

// ListPartners handles GET /admin/delivery-partners
func (h *DeliveryHandler) ListPartners(c *gin.Context) {
	partners, err := h.deliveryService.ListPartners(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve delivery partners",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery partners retrieved successfully",
		"data":    partners,
	})
}

// CreatePartner handles POST /admin/delivery-partners
func (h *DeliveryHandler) CreatePartner(c *gin.Context) {
	var req delivery.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	partner, err := h.deliveryService.CreatePartner(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create delivery partner",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Delivery partner created successfully",
		"data":    partner,
	})
}

// UpdateLocation handles PUT /admin/delivery-partners/:id/location
func (h *DeliveryHandler) UpdateLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid partner ID",
		})
		return
	}

	var req delivery.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	partner, err := h.deliveryService.UpdateLocation(c.Request.Context(), uint(id), &req)
	if err != nil {
		if errors.Is(err, delivery.ErrPartnerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Delivery partner not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update partner location",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Partner location updated successfully",
		"data":    partner,
	})
}

// SetAvailability handles PUT /admin/delivery-partners/:id/availability
func (h *DeliveryHandler) SetAvailability(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid partner ID",
		})
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	partner, err := h.deliveryService.SetAvailability(c.Request.Context(), uint(id), *req.Available)
	if err != nil {
		if errors.Is(err, delivery.ErrPartnerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Delivery partner not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update partner availability",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Partner availability updated successfully",
		"data":    partner,
	})
}
