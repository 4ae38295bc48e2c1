// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/domain/cart"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/order"
	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
	"gorm.io/gorm"
)

// ErrEmptyCart is returned when neither the authoritative cart nor the
// fallback payload yields at least one valid order line. Checkout never
// creates a zero-item order.
var ErrEmptyCart = errors.New("cart is empty")

// UnresolvedItemsError is returned in strict fallback mode when any
// client-supplied item had to be dropped during reconciliation.
type UnresolvedItemsError struct {
	Dropped []string
}

func (e *UnresolvedItemsError) Error() string {
	return fmt.Sprintf("unresolvable fallback items: %s", strings.Join(e.Dropped, ", "))
}

// Service materializes a mutable cart into an immutable order at
// checkout time. When the authoritative server-side cart is empty, it
// reconciles a client-supplied view of the cart against the catalog
// instead of blocking the checkout.
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
	resolver    *catalog.Resolver
	logger      *logrus.Logger
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, resolver *catalog.Resolver, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
		resolver:    resolver,
		logger:      logger,
	}
}

// FallbackItem is one entry of the client-supplied cart view. It is
// only consulted when the authoritative cart is empty.
type FallbackItem struct {
	FoodRef       string              `json:"food_ref"`
	Name          string              `json:"name"`
	Price         int64               `json:"price"` // unit price in paise, add-ons included
	Quantity      int                 `json:"quantity"`
	Customization *cart.Customization `json:"customization"`
}

// CreateOrderRequest represents checkout request data
type CreateOrderRequest struct {
	Address           order.Address       `json:"address" binding:"required"`
	PaymentMethod     order.PaymentMethod `json:"payment_method" binding:"required"`
	RazorpayOrderID   string              `json:"razorpay_order_id"`
	RazorpayPaymentID string              `json:"razorpay_payment_id"`
	FallbackItems     []FallbackItem      `json:"fallback_items"`
}

// CreateOrder converts the user's cart (or the fallback payload) into a
// persisted order:
//
//  1. the authoritative cart wins when it has at least one line
//  2. otherwise each fallback item is re-resolved against the catalog
//     (by id, exact name, fuzzy name); items that cannot be resolved but
//     carry an explicit name and price are accepted as-is, the rest are
//     dropped with a warning
//  3. totals come from the pricing engine, order number generation
//     retries once on a uniqueness conflict, and the cart is cleared
//     only after the order is committed
//
// Any failure before persistence leaves the cart untouched.
func (s *Service) CreateOrder(ctx context.Context, userID uint, req *CreateOrderRequest) (*order.Order, error) {
	if req.PaymentMethod != order.PaymentMethodRazorpay && req.PaymentMethod != order.PaymentMethodCOD {
		return nil, fmt.Errorf("unsupported payment method: %s", req.PaymentMethod)
	}

	userCart, err := s.cartService.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var items []order.Item
	if len(userCart.Items) > 0 {
		items = s.linesFromCart(userCart)
	} else if len(req.FallbackItems) > 0 {
		items, err = s.linesFromFallback(ctx, userID, req.FallbackItems)
		if err != nil {
			return nil, err
		}
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		lines[i] = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
	}
	subtotal := pricing.CartTotal(lines)
	tax := pricing.ApplyTax(subtotal, decimal.NewFromFloat(s.config.Checkout.TaxRate))
	total := pricing.OrderTotal(subtotal, tax)

	paymentStatus := order.PaymentStatusPending
	if req.PaymentMethod == order.PaymentMethodRazorpay {
		// Gateway payment is verified upstream before checkout is called.
		paymentStatus = order.PaymentStatusPaid
	}

	eta := time.Now().UTC().Add(time.Duration(s.config.Checkout.DeliveryETAMinutes) * time.Minute)

	newOrder := &order.Order{
		UserID:                userID,
		Status:                order.StatusPlaced,
		PaymentMethod:         req.PaymentMethod,
		PaymentStatus:         paymentStatus,
		Subtotal:              subtotal,
		Tax:                   tax,
		Total:                 total,
		Address:               req.Address,
		EstimatedDeliveryTime: &eta,
		Items:                 items,
	}
	if req.PaymentMethod == order.PaymentMethodRazorpay {
		newOrder.RazorpayOrderID = req.RazorpayOrderID
		newOrder.RazorpayPaymentID = req.RazorpayPaymentID
	}

	if err := s.persistOrder(ctx, newOrder); err != nil {
		return nil, err
	}

	// The order is committed; a failed cart clear leaves a stale cart
	// behind, which is tolerated and logged rather than unwinding the
	// order.
	if _, err := s.cartService.Clear(ctx, userID); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":      userID,
			"order_number": newOrder.OrderNumber,
		}).Warn("failed to clear cart after order creation")
	}

	return newOrder, nil
}

// linesFromCart freezes the authoritative cart lines into order items.
// The name and unit price come from the line's own snapshots, never the
// live catalog row, so a food deleted or renamed after it was added
// still produces a correctly labelled order line.
func (s *Service) linesFromCart(c *cart.Cart) []order.Item {
	items := make([]order.Item, 0, len(c.Items))
	for _, line := range c.Items {
		foodID := line.FoodID
		items = append(items, order.Item{
			FoodID:        &foodID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			Customization: line.Customization,
		})
	}
	return items
}

// linesFromFallback rebuilds validated order lines from the client's
// view of the cart. Items resolve through the full strategy chain; an
// unresolvable item with an explicit name and positive price is
// accepted as-is so a transient catalog miss does not block checkout.
func (s *Service) linesFromFallback(ctx context.Context, userID uint, fallback []FallbackItem) ([]order.Item, error) {
	var items []order.Item
	var dropped []string

	for _, fi := range fallback {
		quantity := fi.Quantity
		if quantity < 1 {
			quantity = 1
		}
		customization := cart.NormalizeCustomization(fi.Customization)

		res := s.resolveFallbackRef(ctx, fi)
		if res.Found {
			unitPrice, err := pricing.LineUnitPrice(res.Food.Price, customization.AddOns)
			if err != nil {
				return nil, err
			}
			foodID := res.Food.ID
			items = append(items, order.Item{
				FoodID:        &foodID,
				Name:          res.Food.Name,
				Quantity:      quantity,
				UnitPrice:     unitPrice,
				Customization: customization,
			})
			continue
		}

		if fi.Name != "" && fi.Price > 0 {
			items = append(items, order.Item{
				Name:          fi.Name,
				Quantity:      quantity,
				UnitPrice:     fi.Price,
				Customization: customization,
			})
			s.logger.WithFields(logrus.Fields{
				"user_id":  userID,
				"strategy": catalog.ResolveByClientPayload,
				"name":     fi.Name,
			}).Info("accepted unresolved fallback item with client-supplied price")
			continue
		}

		label := fi.Name
		if label == "" {
			label = fi.FoodRef
		}
		dropped = append(dropped, label)
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"ref":     fi.FoodRef,
			"name":    fi.Name,
		}).Warn("dropped unresolvable fallback item")
	}

	if len(dropped) > 0 && s.config.Checkout.StrictFallback {
		return nil, &UnresolvedItemsError{Dropped: dropped}
	}

	return items, nil
}

func (s *Service) resolveFallbackRef(ctx context.Context, fi FallbackItem) catalog.Resolution {
	if fi.FoodRef != "" {
		if res := s.resolver.ResolveCheckoutRef(ctx, fi.FoodRef); res.Found {
			return res
		}
	}
	if fi.Name != "" && fi.Name != fi.FoodRef {
		if res := s.resolver.ResolveCheckoutRef(ctx, fi.Name); res.Found {
			return res
		}
	}
	return catalog.Resolution{}
}

// persistOrder writes the order and its items in one transaction. The
// order number carries a uniqueness constraint; a collision is retried
// once with a freshly generated number before surfacing.
func (s *Service) persistOrder(ctx context.Context, o *order.Order) error {
	for attempt := 0; attempt < 2; attempt++ {
		o.OrderNumber = order.GenerateOrderNumber()

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(o).Error
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create order: %w", err)
		}

		s.logger.WithField("order_number", o.OrderNumber).Warn("order number collision, regenerating")
		o.ID = 0
		for i := range o.Items {
			o.Items[i].ID = 0
			o.Items[i].OrderID = 0
		}
	}

	return order.ErrOrderNumberConflict
}
