// Package blob is the serialization contract shared by every cart store
// backend: one JSON blob per session, decoded defensively so a corrupt or
// schema-mismatched payload surfaces as domain.ErrCartCorrupt instead of a
// crash.
package blob

import (
	"bytes"

	"github.com/goccy/go-json"

	"bethys-backend/internal/domain"
)

type cartBlob struct {
	Items    json.RawMessage       `json:"items"`
	Coupon   *domain.Coupon        `json:"coupon"`
	Campaign domain.CampaignConfig `json:"campaign"`
}

// Encode serializes the full cart (items + coupon + campaign).
func Encode(cart *domain.Cart) ([]byte, error) {
	return json.Marshal(cart)
}

// Decode deserializes a persisted blob. The item collection must actually
// be a JSON array; anything else means the blob cannot be trusted and the
// whole payload is rejected as corrupt.
func Decode(payload []byte) (*domain.Cart, error) {
	var raw cartBlob
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, domain.ErrCartCorrupt
	}

	cart := &domain.Cart{
		Coupon:   raw.Coupon,
		Campaign: raw.Campaign,
	}

	if len(raw.Items) > 0 {
		if trimmed := bytes.TrimSpace(raw.Items); len(trimmed) > 0 && trimmed[0] != '[' && !bytes.Equal(trimmed, []byte("null")) {
			return nil, domain.ErrCartCorrupt
		}
		if err := json.Unmarshal(raw.Items, &cart.Items); err != nil {
			return nil, domain.ErrCartCorrupt
		}
	}

	return cart, nil
}
