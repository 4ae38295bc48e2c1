// internal/domain/delivery/service.go
package delivery

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrPartnerNotFound is returned when a delivery partner lookup misses.
var ErrPartnerNotFound = errors.New("delivery partner not found")

// Service handles delivery partner management
type Service struct {
	db *gorm.DB
}

// NewService creates a new delivery service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreatePartnerRequest represents delivery partner creation data
type CreatePartnerRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	VehicleNumber string `json:"vehicle_number"`
}

// UpdateLocationRequest represents a partner location update
type UpdateLocationRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// CreatePartner registers a new delivery partner (admin only)
func (s *Service) CreatePartner(ctx context.Context, req *CreatePartnerRequest) (*Partner, error) {
	partner := Partner{
		Name:          req.Name,
		Phone:         req.Phone,
		VehicleNumber: req.VehicleNumber,
		Available:     true,
	}

	if err := s.db.WithContext(ctx).Create(&partner).Error; err != nil {
		return nil, fmt.Errorf("failed to create delivery partner: %w", err)
	}

	return &partner, nil
}

// GetPartner retrieves a delivery partner by ID
func (s *Service) GetPartner(ctx context.Context, id uint) (*Partner, error) {
	var partner Partner
	if err := s.db.WithContext(ctx).First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to retrieve delivery partner: %w", err)
	}
	return &partner, nil
}

// ListPartners retrieves all delivery partners
func (s *Service) ListPartners(ctx context.Context) ([]Partner, error) {
	var partners []Partner
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve delivery partners: %w", err)
	}
	return partners, nil
}

// UpdateLocation updates a partner's last reported location
func (s *Service) UpdateLocation(ctx context.Context, id uint, req *UpdateLocationRequest) (*Partner, error) {
	partner, err := s.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}

	partner.Lat = &req.Lat
	partner.Lng = &req.Lng
	if err := s.db.WithContext(ctx).Save(partner).Error; err != nil {
		return nil, fmt.Errorf("failed to update partner location: %w", err)
	}

	return partner, nil
}

// SetAvailability toggles whether a partner can take new orders
func (s *Service) SetAvailability(ctx context.Context, id uint, available bool) (*Partner, error) {
	partner, err := s.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}

	partner.Available = available
	if err := s.db.WithContext(ctx).Save(partner).Error; err != nil {
		return nil, fmt.Errorf("failed to update partner availability: %w", err)
	}

	return partner, nil
}
