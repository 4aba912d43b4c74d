package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart by its ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).Preload("Items").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByUserID finds the cart owned by a registered user
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByGuestID finds the cart owned by an anonymous guest
func (r *GormCartRepository) FindByGuestID(ctx context.Context, guestID string) (*cart.Cart, error) {
	if guestID == "" {
		return nil, shared.NewDomainError("INVALID_GUEST_ID", "Guest ID cannot be empty")
	}

	var c cart.Cart
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("guest_id = ?", guestID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save creates or updates a cart together with its items. Lines removed
// from the aggregate are deleted, so the stored rows always mirror it.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(c).Error; err != nil {
			return err
		}

		if err := tx.Delete(&cart.CartItem{}, "cart_id = ?", c.ID).Error; err != nil {
			return err
		}

		if len(c.Items) == 0 {
			return nil
		}

		for i := range c.Items {
			c.Items[i].CartID = c.ID
		}
		return tx.Create(&c.Items).Error
	})
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete deletes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&cart.CartItem{}, "cart_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&cart.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormCartRepository implements CartRepository
var _ cart.CartRepository = (*GormCartRepository)(nil)
