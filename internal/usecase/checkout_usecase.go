package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"bethys-backend/internal/domain"
	"bethys-backend/internal/pricing"
	"bethys-backend/pkg/logger"
	"bethys-backend/pkg/utils"
)

// Matches the storefront's local@domain.tld shape, nothing stricter.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Human-readable display ranges for the four delivery slot codes.
var timeSlotRanges = map[string]string{
	domain.TimeSlotMorning:   "9:00 AM - 12:00 PM",
	domain.TimeSlotMidday:    "12:00 PM - 3:00 PM",
	domain.TimeSlotAfternoon: "3:00 PM - 6:00 PM",
	domain.TimeSlotEvening:   "6:00 PM - 8:00 PM",
}

const fallbackTimeSlot = "your selected time"

// Required checkout fields, checked in form order; the first failure wins.
type requiredField struct {
	name  string
	value func(*domain.CheckoutForm) string
}

var requiredFields = []requiredField{
	{"firstName", func(f *domain.CheckoutForm) string { return f.FirstName }},
	{"lastName", func(f *domain.CheckoutForm) string { return f.LastName }},
	{"email", func(f *domain.CheckoutForm) string { return f.Email }},
	{"phone", func(f *domain.CheckoutForm) string { return f.Phone }},
	{"address", func(f *domain.CheckoutForm) string { return f.Address }},
	{"subcity", func(f *domain.CheckoutForm) string { return f.Subcity }},
}

type checkoutSession struct {
	state   string
	order   *domain.Order
	touched time.Time
}

// CheckoutUsecase drives a cart through idle -> form_valid -> submitting ->
// confirmed. One checkout at a time per session; submission is guarded
// against re-entrancy so a double click can never mint two order numbers or
// clear the cart twice.
type CheckoutUsecase struct {
	mu       sync.Mutex
	carts    *CartUsecase
	engine   *pricing.Engine
	prefix   string
	delay    time.Duration
	now      func() time.Time
	randInt  func(n int) int
	sessions map[string]*checkoutSession
}

func NewCheckoutUsecase(carts *CartUsecase, engine *pricing.Engine, orderPrefix string, processingDelay time.Duration) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:    carts,
		engine:   engine,
		prefix:   orderPrefix,
		delay:    processingDelay,
		now:      time.Now,
		randInt:  rand.Intn,
		sessions: make(map[string]*checkoutSession),
	}
}

// Begin snapshots the cart into a new order. The snapshot is a deep copy:
// cart edits made while the shopper fills the form do not leak into it.
func (u *CheckoutUsecase) Begin(ctx context.Context, sessionID string) (*domain.Order, error) {
	u.mu.Lock()
	if sess, ok := u.sessions[sessionID]; ok && sess.state == domain.CheckoutStateSubmitting {
		u.mu.Unlock()
		return nil, domain.ErrSubmitInFlight
	}
	u.mu.Unlock()

	cart, err := u.carts.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	order := &domain.Order{
		ID:     uuid.New().String(),
		Items:  cart.Items,
		Totals: u.engine.ComputeTotals(cart.Items, cart.Coupon, cart.Campaign),
	}

	u.mu.Lock()
	u.sessions[sessionID] = &checkoutSession{state: domain.CheckoutStateIdle, order: order, touched: u.now()}
	u.mu.Unlock()

	logger.Info().Str("session_id", sessionID).Str("order_id", order.ID).Int("items", len(order.Items)).Msg("Checkout started")
	return order, nil
}

// Validate runs the checkout form through the field rules, fail-fast. On
// success the contact block is captured onto the order (phone normalized)
// and the session moves to form_valid; on failure it moves to rejected and
// the shopper may correct input and try again.
func (u *CheckoutUsecase) Validate(sessionID string, form *domain.CheckoutForm) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	sess, ok := u.sessions[sessionID]
	if !ok {
		return domain.ErrCheckoutState
	}
	switch sess.state {
	case domain.CheckoutStateIdle, domain.CheckoutStateFormValid, domain.CheckoutStateRejected:
	default:
		return domain.ErrCheckoutState
	}
	sess.touched = u.now()

	if err := u.validateForm(form); err != nil {
		sess.state = domain.CheckoutStateRejected
		return err
	}

	deliveryDate, _ := time.Parse("2006-01-02", form.DeliveryDate)

	sess.order.Contact = domain.ContactInfo{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     utils.NormalizePhone(form.Phone),
		Address:   form.Address,
		Subcity:   form.Subcity,
	}
	sess.order.DeliveryDate = deliveryDate
	sess.order.DeliveryTimeSlot = form.DeliveryTimeSlot
	sess.order.PaymentMethod = form.PaymentMethod
	sess.state = domain.CheckoutStateFormValid
	return nil
}

func (u *CheckoutUsecase) validateForm(form *domain.CheckoutForm) error {
	for _, field := range requiredFields {
		if field.value(form) == "" {
			return &domain.ValidationError{Field: field.name, Rule: domain.RuleRequired}
		}
	}
	if !emailPattern.MatchString(form.Email) {
		return &domain.ValidationError{Field: "email", Rule: domain.RuleEmail}
	}
	if !form.TermsAccepted {
		return &domain.ValidationError{Field: "terms", Rule: domain.RuleTerms}
	}
	if form.DeliveryDate != "" {
		deliveryDate, err := time.Parse("2006-01-02", form.DeliveryDate)
		if err != nil {
			return &domain.ValidationError{Field: "deliveryDate", Rule: domain.RuleDate}
		}
		// Earliest delivery is tomorrow on the local calendar. Parsed dates
		// are midnight UTC, so compare date components, not instants.
		y, m, d := u.now().Date()
		earliest := time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
		if deliveryDate.Before(earliest) {
			return &domain.ValidationError{Field: "deliveryDate", Rule: domain.RuleDate}
		}
	}
	return nil
}

// Submit runs the simulated order processing. The wait is context-aware:
// cancellation aborts the submission and returns the session to form_valid
// with the cart untouched. On success the cart is cleared exactly once.
func (u *CheckoutUsecase) Submit(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	u.mu.Lock()
	sess, ok := u.sessions[sessionID]
	if !ok {
		u.mu.Unlock()
		return nil, domain.ErrCheckoutState
	}
	switch sess.state {
	case domain.CheckoutStateSubmitting:
		u.mu.Unlock()
		return nil, domain.ErrSubmitInFlight
	case domain.CheckoutStateFormValid:
	default:
		u.mu.Unlock()
		return nil, domain.ErrCheckoutState
	}
	sess.state = domain.CheckoutStateSubmitting
	sess.touched = u.now()
	order := sess.order
	u.mu.Unlock()

	// The order is immutable from here; cart edits stay responsive because
	// nothing below holds the cart lock until the final clear.
	timer := time.NewTimer(u.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		u.mu.Lock()
		sess.state = domain.CheckoutStateFormValid
		sess.touched = u.now()
		u.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, ctx.Err())
	case <-timer.C:
	}

	confirmation := &domain.Confirmation{
		OrderNumber:      fmt.Sprintf("%s%d-%03d", u.prefix, u.now().Year(), u.randInt(1000)),
		DeliveryEstimate: deliveryEstimate(order.DeliveryDate, order.DeliveryTimeSlot),
		Totals:           order.Totals,
	}

	u.mu.Lock()
	order.Number = confirmation.OrderNumber
	order.PlacedAt = u.now()
	sess.state = domain.CheckoutStateConfirmed
	sess.touched = u.now()
	u.mu.Unlock()

	if _, err := u.carts.Clear(ctx, sessionID); err != nil {
		// The order is already confirmed; a failed clear only leaves a
		// stale cart behind.
		logger.Error().Str("session_id", sessionID).Err(err).Msg("Failed to clear cart after confirmation")
	}

	logger.Info().
		Str("session_id", sessionID).
		Str("order_number", confirmation.OrderNumber).
		Str("delivery", confirmation.DeliveryEstimate).
		Msg("Order confirmed")
	return confirmation, nil
}

// State reports the checkout state for a session, idle when none exists.
func (u *CheckoutUsecase) State(sessionID string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if sess, ok := u.sessions[sessionID]; ok {
		return sess.state
	}
	return domain.CheckoutStateIdle
}

// StartCleanup launches a background sweep that drops checkout sessions
// untouched for longer than ttl, so the session map does not grow for the
// life of the process. Cancel ctx to stop the sweep.
func (u *CheckoutUsecase) StartCleanup(ctx context.Context, period, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				u.removeStale(ttl)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (u *CheckoutUsecase) removeStale(ttl time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id, sess := range u.sessions {
		// Never drop a session mid-submission
		if sess.state == domain.CheckoutStateSubmitting {
			continue
		}
		if u.now().Sub(sess.touched) > ttl {
			delete(u.sessions, id)
		}
	}
}

// Order returns the in-progress order snapshot, or nil.
func (u *CheckoutUsecase) Order(sessionID string) *domain.Order {
	u.mu.Lock()
	defer u.mu.Unlock()
	if sess, ok := u.sessions[sessionID]; ok {
		return sess.order
	}
	return nil
}

func deliveryEstimate(date time.Time, slot string) string {
	window, ok := timeSlotRanges[slot]
	if !ok {
		window = fallbackTimeSlot
	}
	// The delivery date is optional; without one the estimate stays generic
	if date.IsZero() {
		return fmt.Sprintf("your selected date, %s", window)
	}
	return fmt.Sprintf("%s, %s", date.Format("Monday, January 2, 2006"), window)
}
