package newsletter

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/newsletter"
)

// SubscribeRequest represents a newsletter signup
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// SubscriberResponse represents a subscriber in API responses
type SubscriberResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// ToSubscriberResponse converts a domain Subscriber to SubscriberResponse
func ToSubscriberResponse(s *newsletter.Subscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:           s.ID,
		Email:        s.Email,
		SubscribedAt: s.SubscribedAt,
	}
}

// ToSubscriberResponses converts a slice of domain Subscribers to responses
func ToSubscriberResponses(subscribers []newsletter.Subscriber) []SubscriberResponse {
	responses := make([]SubscriberResponse, len(subscribers))
	for i := range subscribers {
		responses[i] = ToSubscriberResponse(&subscribers[i])
	}
	return responses
}
