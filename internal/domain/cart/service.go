// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/pricing"
	"gorm.io/gorm"
)

var (
	// ErrLineItemNotFound is returned when an update targets a line
	// that is not in the cart.
	ErrLineItemNotFound = errors.New("cart line item not found")

	// ErrVersionConflict is returned when the compare-and-swap on the
	// cart version fails; the mutation is retried once by re-reading.
	ErrVersionConflict = errors.New("cart was modified concurrently")
)

// Service owns the per-user cart aggregate. Mutations on one user's
// cart are serialized behind a per-user mutex, and saves use a
// compare-and-swap on the cart version so concurrent writers from
// another process cannot silently lose updates.
type Service struct {
	db       *gorm.DB
	resolver *catalog.Resolver
	logger   *logrus.Logger

	userLocks sync.Map // userID -> *sync.Mutex
}

// NewService creates a new cart service
func NewService(db *gorm.DB, resolver *catalog.Resolver, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		resolver: resolver,
		logger:   logger,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	FoodRef       string         `json:"food_ref" binding:"required"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization"`
}

// UpdateQuantityRequest represents update cart item request
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart retrieves the user's cart, creating it lazily on first access.
func (s *Service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	return s.loadOrCreate(ctx, userID)
}

// AddItem resolves the food reference (by id, then case-insensitive
// exact name), computes the unit price snapshot, and either merges into
// an existing line with the same derived id or appends a new line.
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*Cart, error) {
	res := s.resolver.ResolveCartRef(ctx, req.FoodRef)
	if !res.Found {
		return nil, catalog.ErrItemNotFound
	}
	food := res.Food

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	customization := NormalizeCustomization(req.Customization)

	unitPrice, err := pricing.LineUnitPrice(food.Price, customization.AddOns)
	if err != nil {
		return nil, err
	}

	lineID := LineID(food.ID, customization.AddOns)

	return s.mutate(ctx, userID, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].LineID == lineID {
				c.Items[i].Quantity += quantity
				return nil
			}
		}

		c.Items = append(c.Items, LineItem{
			LineID:        lineID,
			FoodID:        food.ID,
			Name:          food.Name,
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			Customization: customization,
		})
		return nil
	})
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or
// below removes the line; lines are never persisted at zero.
func (s *Service) UpdateQuantity(ctx context.Context, userID uint, lineID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, userID, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].LineID != lineID {
				continue
			}
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return nil
		}
		return ErrLineItemNotFound
	})
}

// RemoveItem removes a line from the cart. Removing an absent line is a
// no-op, so client retries stay idempotent.
func (s *Service) RemoveItem(ctx context.Context, userID uint, lineID string) (*Cart, error) {
	return s.mutate(ctx, userID, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].LineID == lineID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// Clear empties all lines and resets the total to zero. The cart row
// itself survives; it is cleared, not deleted.
func (s *Service) Clear(ctx context.Context, userID uint) (*Cart, error) {
	return s.mutate(ctx, userID, func(c *Cart) error {
		c.Items = nil
		return nil
	})
}

// ItemCount returns the summed quantity across all lines.
func (s *Service) ItemCount(ctx context.Context, userID uint) (int, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return count, nil
}

// Private helper methods

// mutate serializes the read-modify-write cycle for one user and
// retries once when the version compare-and-swap loses a race.
func (s *Service) mutate(ctx context.Context, userID uint, fn func(c *Cart) error) (*Cart, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	for attempt := 0; attempt < 2; attempt++ {
		cart, err := s.loadOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		s.recomputeTotal(cart)

		err = s.saveCart(ctx, cart)
		if err == nil {
			return s.loadOrCreate(ctx, userID)
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}

		if s.logger != nil {
			s.logger.WithField("user_id", userID).Warn("cart version conflict, retrying mutation")
		}
	}

	return nil, ErrVersionConflict
}

// recomputeTotal rebuilds the total from scratch via the pricing
// engine. Never adjusted incrementally; this is the defense against
// drift between client and server views of the same cart.
func (s *Service) recomputeTotal(c *Cart) {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
	}
	c.Total = pricing.CartTotal(lines)
}

func (s *Service) loadOrCreate(ctx context.Context, userID uint) (*Cart, error) {
	var cart Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.Food").
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = Cart{UserID: userID, Items: []LineItem{}}
		if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	return &cart, nil
}

// saveCart writes the cart total guarded by a version compare-and-swap,
// then replaces the line rows wholesale inside the same transaction.
func (s *Service) saveCart(ctx context.Context, c *Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Cart{}).
			Where("id = ? AND version = ?", c.ID, c.Version).
			Updates(map[string]interface{}{
				"total":   c.Total,
				"version": c.Version + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to save cart: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}
		c.Version++

		if err := tx.Where("cart_id = ?", c.ID).Delete(&LineItem{}).Error; err != nil {
			return fmt.Errorf("failed to replace cart lines: %w", err)
		}

		if len(c.Items) == 0 {
			return nil
		}

		for i := range c.Items {
			c.Items[i].ID = 0
			c.Items[i].CartID = c.ID
		}
		if err := tx.Omit("Food").Create(&c.Items).Error; err != nil {
			return fmt.Errorf("failed to write cart lines: %w", err)
		}
		return nil
	})
}

func (s *Service) lockUser(userID uint) func() {
	value, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
