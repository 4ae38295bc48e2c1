// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/domain/cart"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/checkout"
	"github.com/your-org/food-delivery-backend/internal/domain/order"
	"github.com/your-org/food-delivery-backend/internal/domain/payment"
	"github.com/your-org/food-delivery-backend/internal/domain/user"
	"github.com/your-org/food-delivery-backend/internal/interfaces/http/middleware"
	"github.com/your-org/food-delivery-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	paymentService  *payment.RazorpayService
	userService     *user.Service
	emailService    *email.EmailService
	config          *config.Config
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *CheckoutHandler {
	resolver := catalog.NewResolver(db)
	cartService := cart.NewService(db, resolver, logger)

	return &CheckoutHandler{
		checkoutService: checkout.NewService(db, cfg, cartService, resolver, logger),
		paymentService:  payment.NewRazorpayService(cfg, logger),
		userService:     user.NewService(db, cfg, logger),
		emailService:    email.NewEmailService(cfg),
		config:          cfg,
		logger:          logger,
	}
}

// CheckoutRequest wraps the order request with the gateway callback
// fields needed for online payment verification.
type CheckoutRequest struct {
	checkout.CreateOrderRequest
	RazorpaySignature string `json:"razorpay_signature"`
}

// CreateOrder handles POST /checkout
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// Online payments must carry a verified gateway signature before the
	// order is materialized.
	if req.PaymentMethod == order.PaymentMethodRazorpay {
		verification := &payment.VerificationRequest{
			RazorpayOrderID:   req.RazorpayOrderID,
			RazorpayPaymentID: req.RazorpayPaymentID,
			RazorpaySignature: req.RazorpaySignature,
		}
		if err := h.paymentService.Verify(verification); err != nil {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error": "Payment verification failed",
			})
			return
		}
	}

	newOrder, err := h.checkoutService.CreateOrder(c.Request.Context(), userID, &req.CreateOrderRequest)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	h.sendConfirmationEmail(c, userID, newOrder)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    newOrder,
	})
}

// sendConfirmationEmail sends the confirmation best-effort; a mail
// failure never fails the checkout.
func (h *CheckoutHandler) sendConfirmationEmail(c *gin.Context, userID uint, o *order.Order) {
	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		return
	}

	if err := h.emailService.SendOrderConfirmation(c.Request.Context(), o, profile.Email, profile.Name); err != nil {
		h.logger.WithError(err).WithField("order_number", o.OrderNumber).Warn("failed to send order confirmation email")
	}
}

// writeCheckoutError maps checkout errors to HTTP responses
func (h *CheckoutHandler) writeCheckoutError(c *gin.Context, err error) {
	var unresolved *checkout.UnresolvedItemsError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.As(err, &unresolved):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Some items could not be resolved",
			"dropped": unresolved.Dropped,
		})
	case errors.Is(err, order.ErrOrderNumberConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Could not allocate order number, please retry",
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	}
}
