// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/domain/cart"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/payment"
	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
	"github.com/your-org/food-delivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// PaymentHandler handles payment gateway endpoints
type PaymentHandler struct {
	paymentService *payment.RazorpayService
	cartService    *cart.Service
	config         *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *PaymentHandler {
	resolver := catalog.NewResolver(db)
	return &PaymentHandler{
		paymentService: payment.NewRazorpayService(cfg, logger),
		cartService:    cart.NewService(db, resolver, logger),
		config:         cfg,
	}
}

// InitiatePayment handles POST /payment/orders. It creates a gateway
// order for the current cart total plus tax, which the client pays
// before calling checkout.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	userCart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	if len(userCart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
		return
	}

	tax := pricing.ApplyTax(userCart.Total, decimal.NewFromFloat(h.config.Checkout.TaxRate))
	total := pricing.OrderTotal(userCart.Total, tax)

	receipt := fmt.Sprintf("cart-%d", userID)
	initiation, err := h.paymentService.CreateOrder(c.Request.Context(), total, receipt)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Online payments are not available",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to create payment order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment order created successfully",
		"data":    initiation,
	})
}

// VerifyPayment handles POST /payment/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req payment.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.paymentService.Verify(&req); err != nil {
		if errors.Is(err, payment.ErrSignatureMismatch) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error": "Payment verification failed",
			})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Payment verification unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment verified successfully",
	})
}
