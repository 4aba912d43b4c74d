package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CheckoutService drives the checkout flow: freezing the cart into a
// checkout session, recording payment, and converting the session into
// an order exactly once.
type CheckoutService struct {
	checkoutRepo     checkout.CheckoutRepository
	cartRepo         cart.CartRepository
	productRepo      catalog.ProductRepository
	orderRepo        order.OrderRepository
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	checkoutRepo checkout.CheckoutRepository,
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	orderRepo order.OrderRepository,
	idempotencyStore shared.IdempotencyStore,
	idempotencyCfg shared.IdempotencyConfig,
) *CheckoutService {
	return &CheckoutService{
		checkoutRepo:     checkoutRepo,
		cartRepo:         cartRepo,
		productRepo:      productRepo,
		orderRepo:        orderRepo,
		idempotencyStore: idempotencyStore,
		idempotencyCfg:   idempotencyCfg,
	}
}

// Create starts a checkout session from the user's cart. The cart must be
// non-empty and every product in it must still exist; the cart lines are
// snapshotted so later catalog changes do not affect the session.
func (s *CheckoutService) Create(ctx context.Context, userID uuid.UUID, req CreateCheckoutRequest) (*CheckoutResponse, error) {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
		}
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	productIDs := make([]uuid.UUID, 0, len(userCart.Items))
	for i := range userCart.Items {
		productIDs = append(productIDs, userCart.Items[i].ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(products))
	for i := range products {
		known[products[i].ID] = true
	}
	for _, id := range productIDs {
		if !known[id] {
			return nil, shared.NewDomainError("NOT_FOUND", "A product in the cart no longer exists")
		}
	}

	address, err := valueobject.NewAddress(req.ShippingAddress.Address, req.ShippingAddress.City,
		req.ShippingAddress.PostalCode, req.ShippingAddress.Country)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	items := make([]checkout.CheckoutItem, len(userCart.Items))
	for i := range userCart.Items {
		line := &userCart.Items[i]
		items[i] = checkout.CheckoutItem{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  line.ProductID,
			Name:       line.Name,
			ImageURL:   line.ImageURL,
			Size:       line.Size,
			Color:      line.Color,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		}
	}

	session, err := checkout.NewCheckout(userID, items, address, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if err := s.checkoutRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	response := ToCheckoutResponse(session)
	return &response, nil
}

// Pay records the payment result on a pending checkout
func (s *CheckoutService) Pay(ctx context.Context, userID, checkoutID uuid.UUID, req PayCheckoutRequest) (*CheckoutResponse, error) {
	session, err := s.checkoutRepo.FindByID(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, shared.ErrForbidden
	}

	if err := session.Pay(req.PaymentStatus, string(req.PaymentDetails)); err != nil {
		return nil, err
	}

	if err := s.checkoutRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	response := ToCheckoutResponse(session)
	return &response, nil
}

// Finalize converts a paid checkout into an order and clears the user's
// cart. The operation is idempotent per checkout: a retry returns the
// already-created order instead of duplicating it, repairing the
// checkout row and cart if the first attempt died partway. Two guards
// enforce the one-order rule: the idempotency store keyed by checkout
// ID, and the unique checkout_id column on orders.
func (s *CheckoutService) Finalize(ctx context.Context, userID, checkoutID uuid.UUID) (*orderapp.OrderResponse, error) {
	session, err := s.checkoutRepo.FindByID(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, shared.ErrForbidden
	}

	if session.IsFinalized() {
		return s.recoverFinalize(ctx, session, userID)
	}

	if s.idempotencyStore != nil && s.idempotencyCfg.Enabled {
		newlyMarked, err := s.idempotencyStore.MarkProcessed(ctx, finalizeKey(checkoutID), s.idempotencyCfg.TTL)
		if err != nil {
			return nil, err
		}
		if !newlyMarked {
			// A concurrent or earlier finalize won the race. Return its
			// order; fall through only if that attempt never produced one.
			existing, err := s.recoverFinalize(ctx, session, userID)
			if err == nil {
				return existing, nil
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
		}
	}

	if err := session.Finalize(); err != nil {
		return nil, err
	}

	items := make([]order.OrderItem, len(session.Items))
	for i := range session.Items {
		line := &session.Items[i]
		items[i] = order.OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  line.ProductID,
			Name:       line.Name,
			ImageURL:   line.ImageURL,
			Size:       line.Size,
			Color:      line.Color,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		}
	}

	o, err := order.NewOrder(userID, session.ID, items, session.ShippingAddress, session.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if session.PaidAt != nil {
		if err := o.MarkPaid(*session.PaidAt); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		// The unique checkout_id index is the last line of defense; a
		// conflict means another finalize already created the order.
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.recoverFinalize(ctx, session, userID)
		}
		return nil, err
	}

	if err := s.checkoutRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	if err := s.clearCart(ctx, userID); err != nil {
		return nil, err
	}

	response := orderapp.ToOrderResponse(o)
	return &response, nil
}

// recoverFinalize returns the order an earlier finalize created and
// finishes any bookkeeping that attempt left behind: the checkout row may
// still read paid and the cart may be uncleared if the attempt died after
// saving the order. Both repairs are safe to re-run.
func (s *CheckoutService) recoverFinalize(ctx context.Context, session *checkout.Checkout, userID uuid.UUID) (*orderapp.OrderResponse, error) {
	o, err := s.orderRepo.FindByCheckoutID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if !session.IsFinalized() {
		if err := session.Finalize(); err != nil {
			return nil, err
		}
	}
	if err := s.checkoutRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	if err := s.clearCart(ctx, userID); err != nil {
		return nil, err
	}

	response := orderapp.ToOrderResponse(o)
	return &response, nil
}

func (s *CheckoutService) clearCart(ctx context.Context, userID uuid.UUID) error {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	userCart.Clear()
	return s.cartRepo.Save(ctx, userCart)
}

func finalizeKey(checkoutID uuid.UUID) string {
	return "checkout:finalize:" + checkoutID.String()
}
