package newsletter

import (
	"regexp"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Subscriber represents a newsletter subscription
type Subscriber struct {
	shared.BaseEntity
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	SubscribedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Subscriber) TableName() string {
	return "subscribers"
}

// NewSubscriber creates a new newsletter subscription
func NewSubscriber(email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 255 {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}

	return &Subscriber{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		SubscribedAt: time.Now(),
	}, nil
}
