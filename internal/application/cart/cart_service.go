package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartService handles shopping cart business operations
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the owner's cart
func (s *CartService) Get(ctx context.Context, owner Owner) (*CartResponse, error) {
	c, err := s.findCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product variant to the owner's cart, creating the cart
// when it does not exist yet. The unit price is snapshotted from the
// catalog at add time, and the resulting line quantity must fit within
// the stock count the catalog reports at that moment.
func (s *CartService) AddItem(ctx context.Context, owner Owner, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsPublished() {
		return nil, shared.ErrNotFound
	}
	if req.Size != "" && len(product.Sizes) > 0 && !product.Sizes.Contains(req.Size) {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Size is not available for this product")
	}
	if req.Color != "" && len(product.Colors) > 0 && !product.Colors.Contains(req.Color) {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Color is not available for this product")
	}

	c, err := s.findOrCreateCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	// The add merges into any existing line for the same variant, so the
	// stock check covers the merged quantity, not just the increment.
	if c.ItemQuantity(product.ID, req.Size, req.Color)+req.Quantity > product.CountInStock {
		return nil, shared.ErrInsufficientStock
	}

	imageURL := ""
	if len(product.Images) > 0 {
		imageURL = product.Images[0].URL
	}

	if err := c.AddItem(product.ID, product.Name, imageURL, req.Size, req.Color, product.EffectivePrice(), req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// UpdateQuantity replaces the quantity of an existing cart line. The new
// quantity must fit within the product's current stock count.
func (s *CartService) UpdateQuantity(ctx context.Context, owner Owner, req UpdateItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > product.CountInStock {
		return nil, shared.ErrInsufficientStock
	}

	c, err := s.findCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateItemQuantity(req.ProductID, req.Size, req.Color, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem removes a line from the owner's cart
func (s *CartService) RemoveItem(ctx context.Context, owner Owner, req RemoveItemRequest) (*CartResponse, error) {
	c, err := s.findCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(req.ProductID, req.Size, req.Color); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Clear removes all lines from the owner's cart
func (s *CartService) Clear(ctx context.Context, owner Owner) error {
	c, err := s.findCart(ctx, owner)
	if err != nil {
		return err
	}

	c.Clear()
	return s.cartRepo.Save(ctx, c)
}

// Merge folds the guest cart into the user's cart after login. Matching
// variants merge quantities. The guest cart is deleted afterwards.
func (s *CartService) Merge(ctx context.Context, userID uuid.UUID, guestID string) (*CartResponse, error) {
	if guestID == "" {
		return nil, shared.NewDomainError("INVALID_GUEST_ID", "Guest ID is required")
	}

	guestCart, err := s.cartRepo.FindByGuestID(ctx, guestID)
	if err != nil {
		return nil, err
	}

	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		userCart = cart.NewUserCart(userID)
	} else if err != nil {
		return nil, err
	}

	if err := userCart.MergeFrom(guestCart); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Delete(ctx, guestCart.ID); err != nil {
		return nil, err
	}

	response := ToCartResponse(userCart)
	return &response, nil
}

func (s *CartService) findCart(ctx context.Context, owner Owner) (*cart.Cart, error) {
	if owner.UserID != nil {
		return s.cartRepo.FindByUserID(ctx, *owner.UserID)
	}
	if owner.GuestID == "" {
		return nil, shared.NewDomainError("INVALID_GUEST_ID", "Guest ID is required")
	}
	return s.cartRepo.FindByGuestID(ctx, owner.GuestID)
}

func (s *CartService) findOrCreateCart(ctx context.Context, owner Owner) (*cart.Cart, error) {
	c, err := s.findCart(ctx, owner)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if owner.UserID != nil {
		return cart.NewUserCart(*owner.UserID), nil
	}
	return cart.NewGuestCart(owner.GuestID)
}
