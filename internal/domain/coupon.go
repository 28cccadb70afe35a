package domain

// Coupon is an active discount rule. A cart holds at most one; applying a
// new code replaces the previous one.
type Coupon struct {
	Kind    string `json:"kind"` // percentage, fixed
	Value   int64  `json:"value"`
	Message string `json:"message"`
}

// CouponCatalog is the fixed registry of valid codes. Keys are uppercase;
// callers normalize (trim + uppercase) before lookup, the catalog itself
// does not.
type CouponCatalog map[string]Coupon

// Lookup returns the coupon for an already-normalized code.
func (c CouponCatalog) Lookup(code string) (Coupon, bool) {
	coupon, ok := c[code]
	return coupon, ok
}

// DefaultCatalog returns the store's promotional codes. The catalog is
// immutable configuration data, loaded once at process start.
func DefaultCatalog() CouponCatalog {
	return CouponCatalog{
		"FRESHBAKE24":  {Kind: CouponKindPercentage, Value: 10, Message: "10% off your entire order!"},
		"WELCOME10":    {Kind: CouponKindPercentage, Value: 10, Message: "Welcome discount applied!"},
		"FREEDELIVERY": {Kind: CouponKindFixed, Value: 50, Message: "Free delivery applied!"},
		"BAKERYLOVE":   {Kind: CouponKindPercentage, Value: 15, Message: "15% discount for loyal customers!"},
		"SEASONAL20":   {Kind: CouponKindPercentage, Value: 20, Message: "Seasonal special - 20% off!"},
	}
}
