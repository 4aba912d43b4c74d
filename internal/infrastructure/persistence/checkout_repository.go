package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCheckoutRepository implements CheckoutRepository using GORM
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewGormCheckoutRepository creates a new GormCheckoutRepository
func NewGormCheckoutRepository(db *gorm.DB) *GormCheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// FindByID finds a checkout by its ID
func (r *GormCheckoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Checkout, error) {
	var session checkout.Checkout
	if err := r.db.WithContext(ctx).Preload("Items").First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindPendingByUserID finds the user's most recent pending checkout
func (r *GormCheckoutRepository) FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*checkout.Checkout, error) {
	var session checkout.Checkout
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND status = ?", userID, checkout.CheckoutStatusPending).
		Order("created_at DESC").
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Save creates or updates a checkout together with its items. Items are
// a snapshot taken at creation and never change afterwards.
func (r *GormCheckoutRepository) Save(ctx context.Context, session *checkout.Checkout) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(session).Error; err != nil {
			return err
		}

		if len(session.Items) == 0 {
			return nil
		}

		for i := range session.Items {
			session.Items[i].CheckoutID = session.ID
		}

		// Items are immutable after creation; only insert them once
		var count int64
		if err := tx.Model(&checkout.CheckoutItem{}).
			Where("checkout_id = ?", session.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&session.Items).Error
	})
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Ensure GormCheckoutRepository implements CheckoutRepository
var _ checkout.CheckoutRepository = (*GormCheckoutRepository)(nil)
