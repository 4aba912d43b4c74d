package newsletter

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/newsletter"
	"github.com/storefront/backend/internal/domain/shared"
)

// SubscriberService handles newsletter subscriptions
type SubscriberService struct {
	subscriberRepo newsletter.SubscriberRepository
}

// NewSubscriberService creates a new SubscriberService
func NewSubscriberService(subscriberRepo newsletter.SubscriberRepository) *SubscriberService {
	return &SubscriberService{subscriberRepo: subscriberRepo}
}

// Subscribe adds an email to the newsletter list. Subscribing an address
// that is already on the list is rejected.
func (s *SubscriberService) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscriberResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.subscriberRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This email is already subscribed")
	}

	subscriber, err := newsletter.NewSubscriber(email)
	if err != nil {
		return nil, err
	}

	if err := s.subscriberRepo.Save(ctx, subscriber); err != nil {
		return nil, err
	}

	response := ToSubscriberResponse(subscriber)
	return &response, nil
}

// List returns subscribers for the admin panel
func (s *SubscriberService) List(ctx context.Context, page, pageSize int) ([]SubscriberResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	filter.OrderBy = "subscribed_at"

	subscribers, err := s.subscriberRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	return ToSubscriberResponses(subscribers), nil
}
