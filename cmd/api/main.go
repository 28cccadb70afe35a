package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"

	"bethys-backend/config"
	"bethys-backend/internal/delivery/http/middleware"
	v1 "bethys-backend/internal/delivery/http/v1"
	"bethys-backend/internal/domain"
	"bethys-backend/internal/pricing"
	"bethys-backend/internal/repository/memstore"
	"bethys-backend/internal/repository/pgstore"
	"bethys-backend/internal/repository/redisstore"
	"bethys-backend/internal/usecase"
	"bethys-backend/pkg/logger"
)

// cartEventLogger is the default CartListener: renderers on the storefront
// subscribe over the API, the server side just records the change.
type cartEventLogger struct{}

func (cartEventLogger) CartChanged(sessionID string, view *domain.CartView) {
	logger.Debug().
		Str("session_id", sessionID).
		Int("item_count", view.ItemCount).
		Int64("grand_total", view.Totals.GrandTotal).
		Msg("Cart changed")
}

func newCartRepository(ctx context.Context, cfg *config.Config) (domain.CartRepository, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		return redisstore.New(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.CartTTL)
	case config.StorePostgres:
		pool, err := pgstore.NewPgxPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return pgstore.New(ctx, pool)
	default:
		// Expired-cart sweep twice per TTL
		return memstore.New(cfg.CartTTL, cfg.CartTTL/2), nil
	}
}

func main() {
	cfg := config.LoadConfig()

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Cart Store
	repo, err := newCartRepository(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to initialize cart store")
	}
	log.Info().Str("backend", cfg.StoreBackend).Msg("Cart store ready")

	campaign := domain.CampaignConfig{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		Active:                cfg.CampaignActive,
		Code:                  cfg.CampaignCode,
	}
	engine := pricing.NewEngine(cfg.DeliveryFee)

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Cart Module
	cartUC := usecase.NewCartUsecase(repo, domain.DefaultCatalog(), engine, campaign)
	cartUC.Subscribe(cartEventLogger{})
	cartHandler := v1.NewCartHandler(cartUC, cfg.MaxCartQuantity)

	// Checkout Module
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, engine, cfg.OrderPrefix, cfg.ProcessingDelay)
	checkoutHandler := v1.NewCheckoutHandler(checkoutUC)

	// Sweep abandoned checkout sessions
	checkoutCtx, checkoutCancel := context.WithCancel(context.Background())
	defer checkoutCancel()
	checkoutUC.StartCleanup(checkoutCtx, time.Minute, 30*time.Minute)

	// Cart
	mux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart)
	mux.HandleFunc("POST /api/v1/cart", cartHandler.AddItem)
	mux.HandleFunc("PUT /api/v1/cart/{itemId}", cartHandler.SetQuantity)
	mux.HandleFunc("DELETE /api/v1/cart/{itemId}", cartHandler.RemoveItem)
	mux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart)
	mux.HandleFunc("POST /api/v1/cart/coupon", cartHandler.ApplyCoupon)

	// Checkout
	mux.HandleFunc("POST /api/v1/checkout", checkoutHandler.PlaceOrder)

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitPerSecond),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS, Request Logger, Session, Rate Limit, and Gzip.
	// Session runs before the request logger so log lines carry the
	// session ID.
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = middleware.SessionMiddleware(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart("bethys-backend", "1.0.0", cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Stop the rate limiter cleanup goroutine before the listener
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop("bethys-backend")
}
