// Package pricing computes totals and campaign progress from a cart
// snapshot. Everything here is pure: no state, no errors, identical inputs
// give identical outputs.
package pricing

import (
	"bethys-backend/internal/domain"
)

// Engine holds the flat delivery fee charged below the campaign threshold.
type Engine struct {
	deliveryFee int64
}

func NewEngine(deliveryFee int64) *Engine {
	return &Engine{deliveryFee: deliveryFee}
}

// ComputeTotals derives the full pricing breakdown.
//
// Discount is capped at the subtotal so the pre-delivery total never goes
// negative for large fixed-amount coupons.
func (e *Engine) ComputeTotals(items []domain.LineItem, coupon *domain.Coupon, campaign domain.CampaignConfig) domain.TotalsBreakdown {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	var deliveryFee int64
	if subtotal < campaign.FreeDeliveryThreshold {
		deliveryFee = e.deliveryFee
	}

	var discount int64
	if coupon != nil {
		switch coupon.Kind {
		case domain.CouponKindPercentage:
			// Integer half-up rounding in smallest currency units
			discount = (subtotal*coupon.Value + 50) / 100
		case domain.CouponKindFixed:
			discount = coupon.Value
		}
		if discount > subtotal {
			discount = subtotal
		}
	}

	return domain.TotalsBreakdown{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		GrandTotal:  subtotal - discount + deliveryFee,
	}
}

// Progress reports free-delivery campaign progress for a subtotal.
func (e *Engine) Progress(subtotal int64, campaign domain.CampaignConfig) domain.CampaignProgress {
	threshold := campaign.FreeDeliveryThreshold
	if threshold <= 0 {
		return domain.CampaignProgress{Percent: 100, Remaining: 0, Qualified: true}
	}

	if subtotal >= threshold {
		return domain.CampaignProgress{Percent: 100, Remaining: 0, Qualified: true}
	}

	return domain.CampaignProgress{
		Percent:   float64(subtotal) / float64(threshold) * 100,
		Remaining: threshold - subtotal,
		Qualified: false,
	}
}
