// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/domain/delivery"
	"gorm.io/gorm"
)

// Service handles order queries and the admin-driven status machine.
// Order creation itself lives in the checkout package; this service
// never recomputes pricing on a placed order.
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    Status `form:"status"`
	UserID    uint   `form:"user_id"`
	SortOrder string `form:"sort_order,default=desc"`
}

// ListResponse represents order list response with pagination
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// UpdateStatusRequest represents an admin status update
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	var orders []Order
	var total int64

	query := s.db.WithContext(ctx).Model(&Order{}).
		Preload("Items").
		Preload("DeliveryPartner")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	sortOrder := "DESC"
	if req.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at " + sortOrder).Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetUserOrders retrieves orders for a specific user
func (s *Service) GetUserOrders(ctx context.Context, userID uint, page, limit int) (*ListResponse, error) {
	return s.GetOrders(ctx, &ListRequest{Page: page, Limit: limit, UserID: userID})
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("DeliveryPartner").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// GetOrderByNumber retrieves a single order by its order number
func (s *Service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("DeliveryPartner").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// GetPartnerActiveOrders retrieves the undelivered orders currently
// assigned to a delivery partner.
func (s *Service) GetPartnerActiveOrders(ctx context.Context, partnerID uint) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("delivery_partner_id = ? AND status IN ?", partnerID,
			[]Status{StatusPreparing, StatusOutForDelivery}).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve partner orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order through the status state machine. A
// transition into delivered on a cash-on-delivery order also settles
// the payment (collection on delivery).
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, target Status) (*Order, error) {
	if !ValidStatus(target) {
		return nil, &InvalidTransitionError{To: target}
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: order.Status, To: target}
	}

	updates := map[string]interface{}{"status": target}

	if target == StatusDelivered {
		now := time.Now().UTC()
		updates["delivered_at"] = now
		if order.PaymentMethod == PaymentMethodCOD {
			updates["payment_status"] = PaymentStatusPaid
		}
	}

	if err := s.db.WithContext(ctx).Model(&Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

// AssignDeliveryPartner attaches a delivery partner to an order. An
// order still in preparing moves to out_for_delivery on assignment.
func (s *Service) AssignDeliveryPartner(ctx context.Context, orderID, partnerID uint) (*Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var partner delivery.Partner
	if err := s.db.WithContext(ctx).First(&partner, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, delivery.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to retrieve delivery partner: %w", err)
	}

	updates := map[string]interface{}{"delivery_partner_id": partner.ID}
	if order.Status == StatusPreparing {
		updates["status"] = StatusOutForDelivery
	}

	if err := s.db.WithContext(ctx).Model(&Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to assign delivery partner: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}
