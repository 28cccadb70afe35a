package domain

import (
	"time"
)

// --- Order Entities ---

// ContactInfo is the delivery/contact block captured at checkout.
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Subcity   string `json:"subcity"`
}

// CheckoutForm carries the raw field strings supplied by the form-input
// collaborator. The core owns validation, not field binding.
type CheckoutForm struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Subcity          string `json:"subcity"`
	DeliveryDate     string `json:"deliveryDate"` // YYYY-MM-DD
	DeliveryTimeSlot string `json:"deliveryTime"` // 9-12, 12-3, 3-6, 6-8
	PaymentMethod    string `json:"paymentMethod"`
	TermsAccepted    bool   `json:"termsAccepted"`
}

// Order is a snapshot of the cart plus checkout details. Items are a
// detached copy: mutating the source cart after checkout begins does not
// touch a placed order. Once submission starts the order is immutable.
type Order struct {
	ID               string          `json:"id"`
	Number           string          `json:"number,omitempty"`
	Items            []LineItem      `json:"items"`
	Contact          ContactInfo     `json:"contact"`
	DeliveryDate     time.Time       `json:"deliveryDate"`
	DeliveryTimeSlot string          `json:"deliveryTimeSlot"`
	PaymentMethod    string          `json:"paymentMethod"`
	Totals           TotalsBreakdown `json:"totals"`
	PlacedAt         time.Time       `json:"placedAt"`
}

// Confirmation is the result of a successful submission.
type Confirmation struct {
	OrderNumber      string          `json:"orderNumber"`
	DeliveryEstimate string          `json:"deliveryEstimate"`
	Totals           TotalsBreakdown `json:"totals"`
}
