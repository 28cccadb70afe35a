package domain

import (
	"context"
	"time"
)

// --- Cart Entities ---

// LineItem is one product placed in the cart. Items are keyed by ID:
// adding the same product twice increments Quantity instead of appending
// a second entry.
type LineItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unitPrice"` // smallest currency unit
	Quantity  int       `json:"quantity"`
	ImageRef  string    `json:"imageRef"` // opaque, never interpreted here
	AddedAt   time.Time `json:"addedAt"`
}

// Cart is the aggregate root: insertion-ordered items, an optional coupon
// and the store-wide campaign configuration it was saved with.
type Cart struct {
	Items    []LineItem     `json:"items"`
	Coupon   *Coupon        `json:"coupon"`
	Campaign CampaignConfig `json:"campaign"`
}

// CampaignConfig holds store-wide promotional thresholds. It is loaded from
// config at startup and never mutated by user actions.
type CampaignConfig struct {
	FreeDeliveryThreshold int64  `json:"freeDeliveryThreshold"`
	Active                bool   `json:"active"`
	Code                  string `json:"code"`
}

// ItemCount sums quantities across all line items (cart badge number).
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Find returns a pointer into Items for the given ID, or nil.
func (c *Cart) Find(id string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy. Order snapshots use this so later cart
// mutation cannot reach into a placed order.
func (c *Cart) Clone() *Cart {
	clone := &Cart{
		Items:    make([]LineItem, len(c.Items)),
		Campaign: c.Campaign,
	}
	copy(clone.Items, c.Items)
	if c.Coupon != nil {
		coupon := *c.Coupon
		clone.Coupon = &coupon
	}
	return clone
}

// --- Derived View Data ---

// TotalsBreakdown is the computed pricing summary for a cart snapshot.
// GrandTotal = Subtotal - Discount + DeliveryFee.
type TotalsBreakdown struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	DeliveryFee int64 `json:"deliveryFee"`
	GrandTotal  int64 `json:"grandTotal"`
}

// CampaignProgress reports how close a cart is to the free-delivery
// threshold, for the progress bar on the cart page.
type CampaignProgress struct {
	Percent   float64 `json:"percent"`
	Remaining int64   `json:"remaining"`
	Qualified bool    `json:"qualified"`
}

// CartView is the structured payload handed to the display collaborator.
// It carries everything the renderer needs so it never reaches into the
// cart's internal collections.
type CartView struct {
	Items         []LineItem       `json:"items"`
	ItemCount     int              `json:"itemCount"`
	Totals        TotalsBreakdown  `json:"totals"`
	Progress      CampaignProgress `json:"campaignProgress"`
	CouponMessage string           `json:"couponMessage,omitempty"`
}

// --- Interfaces ---

// CartRepository stores one serialized cart blob per session key.
// Writes are last-writer-wins with no conflict detection.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Put(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// CartListener is notified with a fresh view after every cart mutation.
// Renderers subscribe instead of the core re-rendering inline.
type CartListener interface {
	CartChanged(sessionID string, view *CartView)
}
