package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront/backend/internal/domain/newsletter"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSubscriberRepository implements SubscriberRepository using GORM
type GormSubscriberRepository struct {
	db *gorm.DB
}

// NewGormSubscriberRepository creates a new GormSubscriberRepository
func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

// FindByEmail finds a subscriber by email (case-insensitive)
func (r *GormSubscriberRepository) FindByEmail(ctx context.Context, email string) (*newsletter.Subscriber, error) {
	var subscriber newsletter.Subscriber
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subscriber, nil
}

// FindAll finds all subscribers matching the filter
func (r *GormSubscriberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]newsletter.Subscriber, error) {
	query := r.db.WithContext(ctx).Model(&newsletter.Subscriber{})

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "subscribed_at"
	}
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}

	var subscribers []newsletter.Subscriber
	if err := query.Order(orderBy + " " + orderDir).Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}

// Save creates or updates a subscriber
func (r *GormSubscriberRepository) Save(ctx context.Context, subscriber *newsletter.Subscriber) error {
	err := r.db.WithContext(ctx).Save(subscriber).Error
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// ExistsByEmail checks if a subscriber with the given email exists
func (r *GormSubscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&newsletter.Subscriber{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormSubscriberRepository implements SubscriberRepository
var _ newsletter.SubscriberRepository = (*GormSubscriberRepository)(nil)
