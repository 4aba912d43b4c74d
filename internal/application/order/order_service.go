package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Requester identifies who is asking for an order
type Requester struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// OrderService handles order business operations
type OrderService struct {
	orderRepo order.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ListForUser returns the user's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	orders, err := s.orderRepo.FindByUserID(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// GetByID returns an order. Only the order's owner or an admin may see
// it; anyone else gets a forbidden error.
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID, requester Requester) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.IsOwnedBy(requester.UserID) && !requester.IsAdmin {
		return nil, shared.ErrForbidden
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListAll returns all orders for the admin panel
func (s *OrderService) ListAll(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// UpdateStatus applies an admin status change through the order state
// machine. Invalid transitions are rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target, err := order.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

func toDomainFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}
