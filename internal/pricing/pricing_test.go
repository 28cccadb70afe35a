package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bethys-backend/internal/domain"
)

var testCampaign = domain.CampaignConfig{
	FreeDeliveryThreshold: 500,
	Active:                true,
	Code:                  "FRESHBAKE24",
}

func testItems() []domain.LineItem {
	return []domain.LineItem{
		{ID: "cake-1", Name: "Chocolate Fudge Cake", UnitPrice: 150, Quantity: 2},
		{ID: "macaron-1", Name: "French Macarons", UnitPrice: 200, Quantity: 1},
		{ID: "donut-1", Name: "Assorted Donuts", UnitPrice: 130, Quantity: 1},
	}
}

func TestComputeTotals_FreeDeliveryWithPercentageCoupon(t *testing.T) {
	engine := NewEngine(50)
	coupon := &domain.Coupon{Kind: domain.CouponKindPercentage, Value: 10}

	totals := engine.ComputeTotals(testItems(), coupon, testCampaign)

	assert.Equal(t, int64(630), totals.Subtotal)
	assert.Equal(t, int64(0), totals.DeliveryFee, "630 >= 500 earns free delivery")
	assert.Equal(t, int64(63), totals.Discount)
	assert.Equal(t, int64(567), totals.GrandTotal)
}

func TestComputeTotals_BelowThresholdNoCoupon(t *testing.T) {
	engine := NewEngine(50)
	items := []domain.LineItem{
		{ID: "bread-1", UnitPrice: 300, Quantity: 1},
	}

	totals := engine.ComputeTotals(items, nil, testCampaign)

	assert.Equal(t, int64(300), totals.Subtotal)
	assert.Equal(t, int64(50), totals.DeliveryFee)
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(350), totals.GrandTotal)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	engine := NewEngine(50)

	totals := engine.ComputeTotals(nil, nil, testCampaign)

	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(50), totals.DeliveryFee)
	assert.Equal(t, int64(50), totals.GrandTotal)
}

func TestComputeTotals_FixedCoupon(t *testing.T) {
	engine := NewEngine(50)
	coupon := &domain.Coupon{Kind: domain.CouponKindFixed, Value: 50}
	items := []domain.LineItem{
		{ID: "cookie-1", UnitPrice: 120, Quantity: 1},
	}

	totals := engine.ComputeTotals(items, coupon, testCampaign)

	assert.Equal(t, int64(120), totals.Subtotal)
	assert.Equal(t, int64(50), totals.Discount)
	assert.Equal(t, int64(50), totals.DeliveryFee)
	assert.Equal(t, int64(120), totals.GrandTotal)
}

func TestComputeTotals_FixedCouponClampedToSubtotal(t *testing.T) {
	engine := NewEngine(50)
	coupon := &domain.Coupon{Kind: domain.CouponKindFixed, Value: 50}
	items := []domain.LineItem{
		{ID: "roll-1", UnitPrice: 30, Quantity: 1},
	}

	totals := engine.ComputeTotals(items, coupon, testCampaign)

	assert.Equal(t, int64(30), totals.Subtotal)
	assert.Equal(t, int64(30), totals.Discount, "discount never exceeds subtotal")
	assert.Equal(t, int64(50), totals.GrandTotal, "delivery fee still applies")
}

func TestComputeTotals_PercentageRoundsHalfUp(t *testing.T) {
	engine := NewEngine(50)
	coupon := &domain.Coupon{Kind: domain.CouponKindPercentage, Value: 15}
	items := []domain.LineItem{
		{ID: "pie-1", UnitPrice: 130, Quantity: 1}, // 15% of 130 = 19.5
	}

	totals := engine.ComputeTotals(items, coupon, testCampaign)

	assert.Equal(t, int64(20), totals.Discount)
}

func TestComputeTotals_IsPure(t *testing.T) {
	engine := NewEngine(50)
	items := testItems()
	coupon := &domain.Coupon{Kind: domain.CouponKindPercentage, Value: 20}

	first := engine.ComputeTotals(items, coupon, testCampaign)
	second := engine.ComputeTotals(items, coupon, testCampaign)

	assert.Equal(t, first, second)
}

func TestComputeTotals_Identity(t *testing.T) {
	engine := NewEngine(50)
	coupons := []*domain.Coupon{
		nil,
		{Kind: domain.CouponKindPercentage, Value: 10},
		{Kind: domain.CouponKindPercentage, Value: 100},
		{Kind: domain.CouponKindFixed, Value: 50},
		{Kind: domain.CouponKindFixed, Value: 10000},
	}

	for _, coupon := range coupons {
		totals := engine.ComputeTotals(testItems(), coupon, testCampaign)
		assert.Equal(t, totals.GrandTotal, totals.Subtotal-totals.Discount+totals.DeliveryFee)
		assert.GreaterOrEqual(t, totals.GrandTotal, int64(0))
	}
}

func TestProgress_BelowThreshold(t *testing.T) {
	engine := NewEngine(50)

	progress := engine.Progress(300, testCampaign)

	assert.InDelta(t, 60.0, progress.Percent, 0.0001)
	assert.Equal(t, int64(200), progress.Remaining)
	assert.False(t, progress.Qualified)
}

func TestProgress_AtThreshold(t *testing.T) {
	engine := NewEngine(50)

	progress := engine.Progress(500, testCampaign)

	assert.Equal(t, 100.0, progress.Percent)
	assert.Equal(t, int64(0), progress.Remaining)
	assert.True(t, progress.Qualified)
}

func TestProgress_AboveThresholdCapsAtHundred(t *testing.T) {
	engine := NewEngine(50)

	progress := engine.Progress(1200, testCampaign)

	assert.Equal(t, 100.0, progress.Percent)
	assert.Equal(t, int64(0), progress.Remaining)
	assert.True(t, progress.Qualified)
}

func TestProgress_ZeroThreshold(t *testing.T) {
	engine := NewEngine(50)
	campaign := domain.CampaignConfig{FreeDeliveryThreshold: 0}

	progress := engine.Progress(0, campaign)

	require.True(t, progress.Qualified)
	assert.Equal(t, 100.0, progress.Percent)
}
