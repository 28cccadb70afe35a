package domain

// Coupon Kinds
const (
	CouponKindPercentage = "percentage"
	CouponKindFixed      = "fixed"
)

// Checkout States
const (
	CheckoutStateIdle       = "idle"
	CheckoutStateFormValid  = "form_valid"
	CheckoutStateSubmitting = "submitting"
	CheckoutStateConfirmed  = "confirmed"
	CheckoutStateRejected   = "rejected"
)

// Payment Methods
const (
	PaymentMethodCOD      = "cod"
	PaymentMethodBank     = "bank"
	PaymentMethodTelebirr = "telebirr"
)

// Delivery time slot codes as sent by the checkout form.
const (
	TimeSlotMorning   = "9-12"
	TimeSlotMidday    = "12-3"
	TimeSlotAfternoon = "3-6"
	TimeSlotEvening   = "6-8"
)

// List Exports for API
var CheckoutStates = []string{
	CheckoutStateIdle,
	CheckoutStateFormValid,
	CheckoutStateSubmitting,
	CheckoutStateConfirmed,
	CheckoutStateRejected,
}

var PaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodBank,
	PaymentMethodTelebirr,
}

// SessionContextKey is the request-context key the session middleware
// stores the session ID under.
type contextKey string

const SessionContextKey contextKey = "session"
