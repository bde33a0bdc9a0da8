package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/haisenberg98/brewgear-api/internal/discount"
	"github.com/haisenberg98/brewgear-api/internal/pricing"
	"github.com/haisenberg98/brewgear-api/internal/store"
)

// ErrNotFound indicates the requested cart or line could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrDiscountActive is returned when applying a code while another is active.
var ErrDiscountActive = errors.New("a discount code is already applied")

// Carts captures the repository methods required by the cart service.
type Carts interface {
	Create(ctx context.Context, anonID string, country string, expiresAt pgtype.Timestamptz) (store.Cart, error)
	Get(ctx context.Context, id pgtype.UUID) (store.Cart, error)
	GetByAnon(ctx context.Context, anonID string) (store.Cart, error)
	Touch(ctx context.Context, id pgtype.UUID, expiresAt pgtype.Timestamptz) error
	SetDiscountCode(ctx context.Context, id pgtype.UUID, code pgtype.Text) error
	ListItems(ctx context.Context, cartID pgtype.UUID) ([]store.CartItem, error)
	FindItem(ctx context.Context, cartID, itemID pgtype.UUID) (store.CartItem, error)
	GetItem(ctx context.Context, id pgtype.UUID) (store.CartItem, error)
	CreateItem(ctx context.Context, p store.CreateCartItemParams) (store.CartItem, error)
	UpdateItemQty(ctx context.Context, id pgtype.UUID, qty int32) error
	DeleteItem(ctx context.Context, cartID, id pgtype.UUID) error
}

// Catalog captures the catalog lookup needed when adding items.
type Catalog interface {
	GetItem(ctx context.Context, id pgtype.UUID) (store.Item, error)
}

// Resolver validates a discount code and returns its rule.
type Resolver interface {
	ResolveRule(ctx context.Context, code string) (discount.Rule, error)
}

// Service encapsulates cart domain operations. Totals are never persisted;
// Summary recomputes them from the lines and the freshly resolved rule on
// every call.
type Service struct {
	Carts    Carts
	Catalog  Catalog
	Discount Resolver
	TTL      time.Duration
	Now      func() time.Time
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) expiry() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
}

// EnsureCart loads or creates the cart for an anonymous session.
func (s *Service) EnsureCart(ctx context.Context, anonID, country string) (store.Cart, error) {
	if s == nil || s.Carts == nil {
		return store.Cart{}, errors.New("cart service not configured")
	}
	if anonID == "" {
		return store.Cart{}, fmt.Errorf("anon id required: %w", ErrInvalidInput)
	}
	cart, err := s.Carts.GetByAnon(ctx, anonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.Carts.Create(ctx, anonID, country, s.expiry())
		}
		return store.Cart{}, err
	}
	_ = s.Carts.Touch(ctx, cart.ID, s.expiry())
	return cart, nil
}

// AddItem inserts or increments a cart line, capturing the unit price from
// the catalog at add time.
func (s *Service) AddItem(ctx context.Context, cartID string, itemID string, qty int) error {
	if s == nil || s.Carts == nil || s.Catalog == nil {
		return errors.New("cart service not configured")
	}
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	cID, err := store.ToUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", ErrInvalidInput)
	}
	iID, err := store.ToUUID(itemID)
	if err != nil {
		return fmt.Errorf("parse item id: %w", ErrInvalidInput)
	}

	line, err := s.Carts.FindItem(ctx, cID, iID)
	if err == nil {
		if err := s.Carts.UpdateItemQty(ctx, line.ID, line.Qty+int32(qty)); err != nil {
			return err
		}
		_ = s.Carts.Touch(ctx, cID, s.expiry())
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	item, err := s.Catalog.GetItem(ctx, iID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("item not found: %w", ErrInvalidInput)
		}
		return err
	}
	if item.Stock <= 0 {
		return fmt.Errorf("item out of stock: %w", ErrInvalidInput)
	}
	if _, err := s.Carts.CreateItem(ctx, store.CreateCartItemParams{
		CartID:     cID,
		ItemID:     item.ID,
		ProviderID: item.ProviderID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Qty:        int32(qty),
	}); err != nil {
		return err
	}
	_ = s.Carts.Touch(ctx, cID, s.expiry())
	return nil
}

// UpdateQty sets the quantity for a cart line. Quantity zero removes the line.
func (s *Service) UpdateQty(ctx context.Context, cartID, lineID string, qty int) error {
	if s == nil || s.Carts == nil {
		return errors.New("cart service not configured")
	}
	if qty < 0 {
		return fmt.Errorf("qty must not be negative: %w", ErrInvalidInput)
	}
	cID, err := store.ToUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", ErrInvalidInput)
	}
	lID, err := store.ToUUID(lineID)
	if err != nil {
		return fmt.Errorf("parse line id: %w", ErrInvalidInput)
	}
	line, err := s.Carts.GetItem(ctx, lID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !store.UUIDEqual(line.CartID, cID) {
		return ErrNotFound
	}
	if qty == 0 {
		if err := s.Carts.DeleteItem(ctx, cID, lID); err != nil {
			return err
		}
	} else if err := s.Carts.UpdateItemQty(ctx, lID, int32(qty)); err != nil {
		return err
	}
	_ = s.Carts.Touch(ctx, cID, s.expiry())
	return nil
}

// RemoveItem deletes a cart line.
func (s *Service) RemoveItem(ctx context.Context, cartID, lineID string) error {
	if s == nil || s.Carts == nil {
		return errors.New("cart service not configured")
	}
	cID, err := store.ToUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", ErrInvalidInput)
	}
	lID, err := store.ToUUID(lineID)
	if err != nil {
		return fmt.Errorf("parse line id: %w", ErrInvalidInput)
	}
	if err := s.Carts.DeleteItem(ctx, cID, lID); err != nil {
		return err
	}
	_ = s.Carts.Touch(ctx, cID, s.expiry())
	return nil
}

// ApplyDiscount validates and attaches a code, returning the descriptor with
// the informational applied amount. Only the code is persisted.
func (s *Service) ApplyDiscount(ctx context.Context, cartID, code string) (discount.Info, error) {
	if s == nil || s.Carts == nil || s.Discount == nil {
		return discount.Info{}, errors.New("cart service not configured")
	}
	cID, err := store.ToUUID(cartID)
	if err != nil {
		return discount.Info{}, fmt.Errorf("parse cart id: %w", ErrInvalidInput)
	}
	cart, err := s.Carts.Get(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return discount.Info{}, ErrNotFound
		}
		return discount.Info{}, err
	}
	if cart.AppliedDiscountCode.Valid && cart.AppliedDiscountCode.String != "" {
		return discount.Info{}, ErrDiscountActive
	}
	rule, err := s.Discount.ResolveRule(ctx, code)
	if err != nil {
		return discount.Info{}, err
	}
	lines, err := s.lines(ctx, cID)
	if err != nil {
		return discount.Info{}, err
	}
	summary := pricing.Compute(lines, nil)
	if err := s.Carts.SetDiscountCode(ctx, cID, pgtype.Text{String: rule.Code, Valid: true}); err != nil {
		return discount.Info{}, err
	}
	_ = s.Carts.Touch(ctx, cID, s.expiry())
	return discount.InfoFromRule(rule, summary.PreTotal), nil
}

// RemoveDiscount clears the applied code.
func (s *Service) RemoveDiscount(ctx context.Context, cartID string) error {
	if s == nil || s.Carts == nil {
		return errors.New("cart service not configured")
	}
	cID, err := store.ToUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", ErrInvalidInput)
	}
	if err := s.Carts.SetDiscountCode(ctx, cID, pgtype.Text{}); err != nil {
		return err
	}
	_ = s.Carts.Touch(ctx, cID, s.expiry())
	return nil
}

// View is the recomputed state of a cart.
type View struct {
	Cart    store.Cart
	Lines   []pricing.Line
	LineIDs []string
	Summary pricing.Summary
	Info    *discount.Info
}

// Summary recomputes the cart's derived state: total item count, pre- and
// post-discount totals, and the re-derived discount line. A code that has
// become invalid since it was applied degrades to no discount rather than
// failing the read.
func (s *Service) Summary(ctx context.Context, cartID string) (View, error) {
	if s == nil || s.Carts == nil {
		return View{}, errors.New("cart service not configured")
	}
	cID, err := store.ToUUID(cartID)
	if err != nil {
		return View{}, fmt.Errorf("parse cart id: %w", ErrInvalidInput)
	}
	cart, err := s.Carts.Get(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	if cart.ExpiresAt.Valid && cart.ExpiresAt.Time.Before(s.now()) {
		return View{}, ErrNotFound
	}
	items, err := s.Carts.ListItems(ctx, cID)
	if err != nil {
		return View{}, err
	}
	view := View{Cart: cart, Lines: make([]pricing.Line, 0, len(items)), LineIDs: make([]string, 0, len(items))}
	for _, it := range items {
		view.Lines = append(view.Lines, pricing.Line{
			ItemID:     store.UUIDValue(it.ItemID),
			ProviderID: store.UUIDValue(it.ProviderID),
			Name:       it.Name,
			UnitPrice:  it.UnitPrice,
			Qty:        int(it.Qty),
		})
		view.LineIDs = append(view.LineIDs, store.UUIDString(it.ID))
	}

	var applied *pricing.Discount
	if cart.AppliedDiscountCode.Valid && cart.AppliedDiscountCode.String != "" && s.Discount != nil {
		rule, err := s.Discount.ResolveRule(ctx, cart.AppliedDiscountCode.String)
		if err == nil {
			d := rule.Discount()
			applied = &d
			pre := pricing.Compute(view.Lines, nil).PreTotal
			info := discount.InfoFromRule(rule, pre)
			view.Info = &info
		}
	}
	view.Summary = pricing.Compute(view.Lines, applied)
	return view, nil
}

func (s *Service) lines(ctx context.Context, cartID pgtype.UUID) ([]pricing.Line, error) {
	items, err := s.Carts.ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{
			ItemID:     store.UUIDValue(it.ItemID),
			ProviderID: store.UUIDValue(it.ProviderID),
			Name:       it.Name,
			UnitPrice:  it.UnitPrice,
			Qty:        int(it.Qty),
		})
	}
	return lines, nil
}
