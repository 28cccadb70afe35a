package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the cart/checkout core. None of these is fatal:
// every failure path leaves cart and order in a well-defined prior state.
var (
	// ErrCartNotFound means no blob exists for the session. Recovered
	// locally as an empty cart, never surfaced to callers.
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartCorrupt means the persisted blob could not be decoded or its
	// item collection was not a sequence. Treated exactly like a missing
	// cart.
	ErrCartCorrupt = errors.New("cart data corrupt")

	// ErrCouponRequired is returned when an empty code is applied.
	ErrCouponRequired = errors.New("coupon code required")

	// ErrCouponNotFound is returned for codes outside the catalog. The
	// active coupon is cleared as a side effect.
	ErrCouponNotFound = errors.New("invalid coupon code")

	// ErrCartEmpty blocks checkout on a cart with no items.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrSubmitInFlight rejects a re-entrant submit while an order is
	// already processing. No duplicate side effects occur.
	ErrSubmitInFlight = errors.New("order submission already in progress")

	// ErrCheckoutState rejects operations out of state-machine order,
	// e.g. submitting before the form validated.
	ErrCheckoutState = errors.New("invalid checkout state")

	// ErrSubmissionFailed wraps failures of the submission task itself.
	// The simulated processor never fails on its own; today this only
	// surfaces context cancellation.
	ErrSubmissionFailed = errors.New("order submission failed")
)

// ValidationError identifies the first checkout-form field that failed and
// the rule it broke. Validation is fail-fast, not accumulate-all.
type ValidationError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s (%s)", e.Field, e.Rule)
}

// Validation rule identifiers.
const (
	RuleRequired = "required"
	RuleEmail    = "email"
	RuleTerms    = "terms"
	RuleDate     = "date"
)
