// internal/domain/catalog/resolver.go
package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// ErrItemNotFound is returned when no resolution strategy matches.
var ErrItemNotFound = errors.New("catalog item not found")

// ResolveStrategy identifies which lookup strategy produced a match.
type ResolveStrategy string

const (
	ResolveByID            ResolveStrategy = "by_id"
	ResolveByExactName     ResolveStrategy = "by_exact_name"
	ResolveByFuzzyName     ResolveStrategy = "by_fuzzy_name"
	ResolveByClientPayload ResolveStrategy = "by_client_payload"
)

// Resolution is the tagged result of a resolver strategy.
type Resolution struct {
	Found    bool
	Food     *Food
	Strategy ResolveStrategy
}

// Resolver resolves loosely-typed catalog references (numeric id or food
// name) to Food rows. Client-held references do not always survive a
// server round trip, so lookups run an explicit, ordered strategy chain
// instead of a single keyed get.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a new catalog resolver
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ByID resolves a reference that parses as a numeric food id.
func (r *Resolver) ByID(ctx context.Context, ref string) Resolution {
	id, err := strconv.ParseUint(strings.TrimSpace(ref), 10, 32)
	if err != nil {
		return Resolution{Strategy: ResolveByID}
	}

	var food Food
	if err := r.db.WithContext(ctx).Where("id = ?", uint(id)).First(&food).Error; err != nil {
		return Resolution{Strategy: ResolveByID}
	}

	return Resolution{Found: true, Food: &food, Strategy: ResolveByID}
}

// ByExactName resolves a reference by case-insensitive exact name match.
func (r *Resolver) ByExactName(ctx context.Context, ref string) Resolution {
	name := strings.TrimSpace(ref)
	if name == "" {
		return Resolution{Strategy: ResolveByExactName}
	}

	var food Food
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&food).Error
	if err != nil {
		return Resolution{Strategy: ResolveByExactName}
	}

	return Resolution{Found: true, Food: &food, Strategy: ResolveByExactName}
}

// ByFuzzyName resolves a reference by case-insensitive substring match.
// Last-resort strategy for checkout fallback payloads only.
func (r *Resolver) ByFuzzyName(ctx context.Context, ref string) Resolution {
	name := strings.TrimSpace(ref)
	if name == "" {
		return Resolution{Strategy: ResolveByFuzzyName}
	}

	var food Food
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Order("popular DESC, name ASC").
		First(&food).Error
	if err != nil {
		return Resolution{Strategy: ResolveByFuzzyName}
	}

	return Resolution{Found: true, Food: &food, Strategy: ResolveByFuzzyName}
}

// ResolveCartRef resolves an add-to-cart reference: by id, then by
// case-insensitive exact name. Fuzzy matching is deliberately excluded
// here; it is only acceptable when rebuilding a fallback payload.
func (r *Resolver) ResolveCartRef(ctx context.Context, ref string) Resolution {
	if res := r.ByID(ctx, ref); res.Found {
		return res
	}
	return r.ByExactName(ctx, ref)
}

// ResolveCheckoutRef resolves a fallback-payload reference with the full
// chain: by id, exact name, then fuzzy name.
func (r *Resolver) ResolveCheckoutRef(ctx context.Context, ref string) Resolution {
	if res := r.ByID(ctx, ref); res.Found {
		return res
	}
	if res := r.ByExactName(ctx, ref); res.Found {
		return res
	}
	return r.ByFuzzyName(ctx, ref)
}
