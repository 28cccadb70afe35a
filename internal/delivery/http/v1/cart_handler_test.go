package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bethys-backend/internal/delivery/http/middleware"
	"bethys-backend/internal/domain"
	"bethys-backend/internal/pricing"
	"bethys-backend/internal/repository/memstore"
	"bethys-backend/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := memstore.New(time.Minute, time.Minute)
	engine := pricing.NewEngine(50)
	campaign := domain.CampaignConfig{FreeDeliveryThreshold: 500, Active: true, Code: "FRESHBAKE24"}
	cartUC := usecase.NewCartUsecase(repo, domain.DefaultCatalog(), engine, campaign)
	cartHandler := NewCartHandler(cartUC, 1000)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart)
	mux.HandleFunc("POST /api/v1/cart", cartHandler.AddItem)
	mux.HandleFunc("PUT /api/v1/cart/{itemId}", cartHandler.SetQuantity)
	mux.HandleFunc("DELETE /api/v1/cart/{itemId}", cartHandler.RemoveItem)
	mux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart)
	mux.HandleFunc("POST /api/v1/cart/coupon", cartHandler.ApplyCoupon)
	return middleware.SessionMiddleware(mux)
}

func doJSON(t *testing.T, router http.Handler, method, path, body, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sessionID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) *domain.CartView {
	t.Helper()
	var view domain.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return &view
}

func TestGetCart_EmptyByDefault(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, rec)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.Totals.Subtotal)
}

func TestAddItem(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"cake-1","name":"Chocolate Fudge Cake","unitPrice":450,"quantity":2}`, "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, int64(900), view.Totals.Subtotal)
	assert.Equal(t, int64(0), view.Totals.DeliveryFee, "above the free delivery threshold")
}

func TestAddItem_Invalid(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing id", `{"name":"Cake","unitPrice":450}`},
		{"missing name", `{"id":"cake-1","unitPrice":450}`},
		{"negative price", `{"id":"cake-1","name":"Cake","unitPrice":-5}`},
		{"negative quantity", `{"id":"cake-1","name":"Cake","unitPrice":450,"quantity":-1}`},
		{"quantity over limit", `{"id":"cake-1","name":"Cake","unitPrice":450,"quantity":5000}`},
		{"malformed json", `{"id":`},
	}
	for _, tc := range cases {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/cart", tc.body, "s1")
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
	}
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"cake-1","name":"Chocolate Fudge Cake","unitPrice":450}`, "s1")

	rec := doJSON(t, router, http.MethodPut, "/api/v1/cart/cake-1", `{"quantity":0}`, "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Items)
}

func TestRemoveItem(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"cake-1","name":"Chocolate Fudge Cake","unitPrice":450}`, "s1")
	doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"donut-1","name":"Assorted Donuts","unitPrice":120}`, "s1")

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/cart/cake-1", "", "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "donut-1", view.Items[0].ID)
}

func TestClearCart(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"cake-1","name":"Chocolate Fudge Cake","unitPrice":450}`, "s1")

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/cart", "", "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Items)
}

func TestApplyCoupon(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"cake-1","name":"Chocolate Fudge Cake","unitPrice":450,"quantity":2}`, "s1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/coupon", `{"code":"freshbake24"}`, "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string           `json:"message"`
		Cart    *domain.CartView `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "10% off your entire order!", resp.Message)
	assert.Equal(t, int64(90), resp.Cart.Totals.Discount)
}

func TestApplyCoupon_Errors(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"cake-1","name":"Chocolate Fudge Cake","unitPrice":450}`, "s1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/coupon", `{"code":""}`, "s1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a coupon code")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/coupon", `{"code":"NOSUCHCODE"}`, "s1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid coupon code")
}

func TestSessionIsolation(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/cart",
		`{"id":"cake-1","name":"Chocolate Fudge Cake","unitPrice":450}`, "alice")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", "bob")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Items)
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "bethys_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}
