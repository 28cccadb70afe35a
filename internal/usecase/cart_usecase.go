package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bethys-backend/internal/domain"
	"bethys-backend/internal/pricing"
	"bethys-backend/pkg/logger"
)

// CartUsecase owns all cart state transitions. Every mutator runs its full
// read-modify-persist sequence under one mutex (single-writer), persists
// unconditionally (last-writer-wins) and then notifies subscribed listeners
// with a fresh view.
type CartUsecase struct {
	mu       sync.Mutex
	repo     domain.CartRepository
	catalog  domain.CouponCatalog
	engine   *pricing.Engine
	campaign domain.CampaignConfig
	now      func() time.Time

	listenerMu sync.RWMutex
	listeners  []domain.CartListener
}

func NewCartUsecase(repo domain.CartRepository, catalog domain.CouponCatalog, engine *pricing.Engine, campaign domain.CampaignConfig) *CartUsecase {
	return &CartUsecase{
		repo:     repo,
		catalog:  catalog,
		engine:   engine,
		campaign: campaign,
		now:      time.Now,
	}
}

// Subscribe registers a listener for cart-change notifications.
func (u *CartUsecase) Subscribe(l domain.CartListener) {
	u.listenerMu.Lock()
	defer u.listenerMu.Unlock()
	u.listeners = append(u.listeners, l)
}

// Load restores the persisted cart for a session. Missing, corrupt, or
// schema-mismatched blobs come back as an empty cart; only backend failures
// (store unreachable) propagate.
func (u *CartUsecase) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loadLocked(ctx, sessionID)
}

func (u *CartUsecase) loadLocked(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := u.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) || errors.Is(err, domain.ErrCartCorrupt) {
			logger.Debug().Str("session_id", sessionID).Err(err).Msg("No usable saved cart, starting empty")
			return &domain.Cart{Campaign: u.campaign}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	// Campaign settings are process config, not per-cart state
	cart.Campaign = u.campaign
	return cart, nil
}

func (u *CartUsecase) persistLocked(ctx context.Context, sessionID string, cart *domain.Cart) error {
	if err := u.repo.Put(ctx, sessionID, cart); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// AddItem puts a product in the cart. Adding an ID that is already present
// increments its quantity instead of creating a second line.
func (u *CartUsecase) AddItem(ctx context.Context, sessionID, id, name string, unitPrice int64, imageRef string, quantity int) (*domain.CartView, error) {
	if quantity <= 0 {
		quantity = 1
	}

	u.mu.Lock()
	cart, err := u.loadLocked(ctx, sessionID)
	if err != nil {
		u.mu.Unlock()
		return nil, err
	}

	if existing := cart.Find(id); existing != nil {
		existing.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.LineItem{
			ID:        id,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  quantity,
			ImageRef:  imageRef,
			AddedAt:   u.now(),
		})
	}

	if err := u.persistLocked(ctx, sessionID, cart); err != nil {
		u.mu.Unlock()
		return nil, err
	}
	view := u.buildView(cart)
	u.mu.Unlock()

	logger.Info().Str("session_id", sessionID).Str("item_id", id).Int("quantity", quantity).Msg("Added to cart")
	u.notify(sessionID, view)
	return view, nil
}

// RemoveItem deletes a line item. Removing an absent ID is a no-op, not an
// error.
func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID, id string) (*domain.CartView, error) {
	u.mu.Lock()
	cart, err := u.loadLocked(ctx, sessionID)
	if err != nil {
		u.mu.Unlock()
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := u.persistLocked(ctx, sessionID, cart); err != nil {
		u.mu.Unlock()
		return nil, err
	}
	view := u.buildView(cart)
	u.mu.Unlock()

	u.notify(sessionID, view)
	return view, nil
}

// SetQuantity sets an item's quantity directly. A quantity of zero or below
// behaves as RemoveItem, so no item ever sits in the cart at quantity 0.
func (u *CartUsecase) SetQuantity(ctx context.Context, sessionID, id string, quantity int) (*domain.CartView, error) {
	if quantity <= 0 {
		return u.RemoveItem(ctx, sessionID, id)
	}

	u.mu.Lock()
	cart, err := u.loadLocked(ctx, sessionID)
	if err != nil {
		u.mu.Unlock()
		return nil, err
	}

	if item := cart.Find(id); item != nil {
		item.Quantity = quantity
	}

	if err := u.persistLocked(ctx, sessionID, cart); err != nil {
		u.mu.Unlock()
		return nil, err
	}
	view := u.buildView(cart)
	u.mu.Unlock()

	u.notify(sessionID, view)
	return view, nil
}

// Clear empties the item collection. The active coupon deliberately
// survives: it stays applicable to whatever the shopper adds next, matching
// the storefront's long-standing behavior. The yes/no confirmation gate
// belongs to the UI collaborator; Clear itself never asks.
func (u *CartUsecase) Clear(ctx context.Context, sessionID string) (*domain.CartView, error) {
	u.mu.Lock()
	cart, err := u.loadLocked(ctx, sessionID)
	if err != nil {
		u.mu.Unlock()
		return nil, err
	}

	cart.Items = nil

	if err := u.persistLocked(ctx, sessionID, cart); err != nil {
		u.mu.Unlock()
		return nil, err
	}
	view := u.buildView(cart)
	u.mu.Unlock()

	logger.Info().Str("session_id", sessionID).Msg("Cart cleared")
	u.notify(sessionID, view)
	return view, nil
}

// ApplyCoupon normalizes and looks up a code. A hit replaces any previous
// coupon and returns its display message; a miss or empty code clears the
// active coupon and leaves the cart undiscounted.
func (u *CartUsecase) ApplyCoupon(ctx context.Context, sessionID, code string) (string, *domain.CartView, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	u.mu.Lock()
	cart, err := u.loadLocked(ctx, sessionID)
	if err != nil {
		u.mu.Unlock()
		return "", nil, err
	}

	if normalized == "" {
		cart.Coupon = nil
		if err := u.persistLocked(ctx, sessionID, cart); err != nil {
			u.mu.Unlock()
			return "", nil, err
		}
		view := u.buildView(cart)
		u.mu.Unlock()
		u.notify(sessionID, view)
		return "", view, domain.ErrCouponRequired
	}

	coupon, found := u.catalog.Lookup(normalized)
	if !found {
		cart.Coupon = nil
		if err := u.persistLocked(ctx, sessionID, cart); err != nil {
			u.mu.Unlock()
			return "", nil, err
		}
		view := u.buildView(cart)
		u.mu.Unlock()
		logger.Info().Str("session_id", sessionID).Str("code", normalized).Msg("Coupon rejected")
		u.notify(sessionID, view)
		return "", view, domain.ErrCouponNotFound
	}

	cart.Coupon = &coupon
	if err := u.persistLocked(ctx, sessionID, cart); err != nil {
		u.mu.Unlock()
		return "", nil, err
	}
	view := u.buildView(cart)
	u.mu.Unlock()

	logger.Info().Str("session_id", sessionID).Str("code", normalized).Msg("Coupon applied")
	u.notify(sessionID, view)
	return coupon.Message, view, nil
}

// View returns the render feed for the current cart without mutating it.
func (u *CartUsecase) View(ctx context.Context, sessionID string) (*domain.CartView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	cart, err := u.loadLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return u.buildView(cart), nil
}

// Snapshot returns a detached deep copy of the cart for order creation.
func (u *CartUsecase) Snapshot(ctx context.Context, sessionID string) (*domain.Cart, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	cart, err := u.loadLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

func (u *CartUsecase) buildView(cart *domain.Cart) *domain.CartView {
	totals := u.engine.ComputeTotals(cart.Items, cart.Coupon, cart.Campaign)
	view := &domain.CartView{
		Items:     append([]domain.LineItem(nil), cart.Items...),
		ItemCount: cart.ItemCount(),
		Totals:    totals,
		Progress:  u.engine.Progress(totals.Subtotal, cart.Campaign),
	}
	if cart.Coupon != nil {
		view.CouponMessage = cart.Coupon.Message
	}
	return view
}

func (u *CartUsecase) notify(sessionID string, view *domain.CartView) {
	u.listenerMu.RLock()
	defer u.listenerMu.RUnlock()
	for _, l := range u.listeners {
		l.CartChanged(sessionID, view)
	}
}
