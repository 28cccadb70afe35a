package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bethys-backend/internal/domain"
)

func testCart() *domain.Cart {
	return &domain.Cart{
		Items: []domain.LineItem{
			{ID: "croissant-1", Name: "Butter Croissant", UnitPrice: 80, Quantity: 4, AddedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)},
		},
		Campaign: domain.CampaignConfig{FreeDeliveryThreshold: 500, Active: true, Code: "FRESHBAKE24"},
	}
}

func TestPutGet(t *testing.T) {
	store := New(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", testCart()))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, testCart().Items, got.Items)
	assert.Equal(t, testCart().Campaign, got.Campaign)
}

func TestGet_Missing(t *testing.T) {
	store := New(time.Minute, time.Minute)

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestPut_Overwrites(t *testing.T) {
	store := New(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", testCart()))

	updated := testCart()
	updated.Items[0].Quantity = 9
	require.NoError(t, store.Put(ctx, "s1", updated))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Items[0].Quantity)
}

func TestDelete(t *testing.T) {
	store := New(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", testCart()))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	// Deleting a missing cart is a no-op
	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestTTL_Expires(t *testing.T) {
	store := New(20*time.Millisecond, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", testCart()))
	time.Sleep(40 * time.Millisecond)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}
