// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/config"
	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a category lookup misses.
var ErrCategoryNotFound = errors.New("category not found")

const (
	menuCacheKey = "catalog:menu"
	menuCacheTTL = 5 * time.Minute
)

// Service handles catalog business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	logger      *logrus.Logger
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		logger:      logger,
	}
}

// FoodListRequest represents menu list query parameters
type FoodListRequest struct {
	Category      string `form:"category"`
	PopularOnly   bool   `form:"popular"`
	IncludeHidden bool   `form:"-"` // admin listing includes unavailable items
}

// FoodCreateRequest represents food creation data
type FoodCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=0"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	Image       string `json:"image"`
	Available   bool   `json:"available"`
	Popular     bool   `json:"popular"`
}

// FoodUpdateRequest represents food update data
type FoodUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	CategoryID  *uint   `json:"category_id"`
	Image       *string `json:"image"`
	Available   *bool   `json:"available"`
	Popular     *bool   `json:"popular"`
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// GetMenu retrieves available foods, optionally filtered by category name.
// The unfiltered menu is cached in Redis and invalidated on admin writes.
func (s *Service) GetMenu(ctx context.Context, req *FoodListRequest) ([]Food, error) {
	cacheable := req.Category == "" && !req.PopularOnly && !req.IncludeHidden

	if cacheable && s.redisClient != nil {
		if data, err := s.redisClient.Get(ctx, menuCacheKey).Result(); err == nil {
			var foods []Food
			if err := json.Unmarshal([]byte(data), &foods); err == nil {
				return foods, nil
			}
		}
	}

	query := s.db.WithContext(ctx).Model(&Food{}).Preload("Category")

	if !req.IncludeHidden {
		query = query.Where("available = ?", true)
	}

	if req.Category != "" {
		var category Category
		err := s.db.WithContext(ctx).
			Where("LOWER(name) LIKE LOWER(?)", "%"+req.Category+"%").
			First(&category).Error
		if err == nil {
			query = query.Where("category_id = ?", category.ID)
		}
	}

	if req.PopularOnly {
		query = query.Where("popular = ?", true)
	}

	var foods []Food
	if err := query.Order("created_at DESC").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve menu: %w", err)
	}

	if cacheable && s.redisClient != nil {
		if data, err := json.Marshal(foods); err == nil {
			s.redisClient.Set(ctx, menuCacheKey, data, menuCacheTTL)
		}
	}

	return foods, nil
}

// GetFood retrieves a single food item by ID
func (s *Service) GetFood(ctx context.Context, id uint) (*Food, error) {
	var food Food
	err := s.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&food).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve food: %w", err)
	}
	return &food, nil
}

// CreateFood creates a new food item (admin only)
func (s *Service) CreateFood(ctx context.Context, req *FoodCreateRequest) (*Food, error) {
	var category Category
	if err := s.db.WithContext(ctx).First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	food := Food{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Image:        req.Image,
		Available:    req.Available,
		Popular:      req.Popular,
	}

	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, fmt.Errorf("failed to create food: %w", err)
	}

	s.invalidateMenuCache(ctx)

	food.Category = category
	return &food, nil
}

// UpdateFood updates an existing food item (admin only)
func (s *Service) UpdateFood(ctx context.Context, id uint, req *FoodUpdateRequest) (*Food, error) {
	var food Food
	if err := s.db.WithContext(ctx).First(&food, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve food: %w", err)
	}

	if req.Name != nil {
		food.Name = *req.Name
	}
	if req.Description != nil {
		food.Description = *req.Description
	}
	if req.Price != nil {
		food.Price = *req.Price
	}
	if req.Image != nil {
		food.Image = *req.Image
	}
	if req.Available != nil {
		food.Available = *req.Available
	}
	if req.Popular != nil {
		food.Popular = *req.Popular
	}

	if req.CategoryID != nil {
		var category Category
		if err := s.db.WithContext(ctx).First(&category, *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to look up category: %w", err)
		}
		food.CategoryID = category.ID
		food.CategoryName = category.Name
	}

	if err := s.db.WithContext(ctx).Save(&food).Error; err != nil {
		return nil, fmt.Errorf("failed to update food: %w", err)
	}

	s.invalidateMenuCache(ctx)

	return &food, nil
}

// DeleteFood removes a food item (admin only)
func (s *Service) DeleteFood(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Food{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete food: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	s.invalidateMenuCache(ctx)
	return nil
}

// GetCategories retrieves all categories sorted by sort order then name
func (s *Service) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a new category (admin only)
func (s *Service) CreateCategory(ctx context.Context, req *CategoryCreateRequest) (*Category, error) {
	category := Category{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}

	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateMenuCache(ctx)
	return &category, nil
}

func (s *Service) invalidateMenuCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, menuCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("failed to invalidate menu cache")
	}
}
