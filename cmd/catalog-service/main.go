package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storehub/catalog-service/internal/api/handlers"
	"github.com/storehub/catalog-service/internal/api/middleware"
	"github.com/storehub/catalog-service/internal/cache"
	"github.com/storehub/catalog-service/internal/config"
	"github.com/storehub/catalog-service/internal/health"
	"github.com/storehub/catalog-service/internal/metrics"
	repository "github.com/storehub/catalog-service/internal/repositories"
	service "github.com/storehub/catalog-service/internal/services"
	"github.com/storehub/catalog-service/internal/telemetry"
	"github.com/storehub/catalog-service/pkg/cloudinary"
	"github.com/storehub/catalog-service/pkg/sendgrid"
	"github.com/storehub/catalog-service/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry, cfg.Env)
	if err != nil {
		slog.Error("❌ Error setting up tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup (mutation rate limiting only; the catalog cache is in-process)
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	// Asset store setup
	assetClient, err := cloudinary.New(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
	if err != nil {
		slog.Error("❌ Error initializing the asset store client", "error", err.Error())
		os.Exit(1)
	}

	store := cache.NewMemoryStore(nil)
	invalidator := cache.NewInvalidator(store)

	productRepo := repository.NewProductRepo(repos.DB)
	orderRepo := repository.NewOrderRepo(repos.DB)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)

	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailClient := sendgrid.NewEmailClient(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	catalogService := service.NewCatalogService(productRepo, store, invalidator, assetClient, cfg.Catalog)
	productHandler := handlers.NewProductHandler(catalogService)
	orderService := service.NewOrderService(orderRepo, productRepo, invalidator, emailClient)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentService := service.NewPaymentService(stripeClient)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitRepo)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:          repos.DB,
		RedisClient: redisClient,
		AssetClient: assetClient,
	})
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimitMiddleware.Limit(authMiddleware.AdminOnly(h))
	}

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products/latest", productHandler.Latest())
	routerMux.HandleFunc("GET /api/v1/products/categories", productHandler.Categories())
	routerMux.HandleFunc("GET /api/v1/products/admin", authMiddleware.AdminOnly(productHandler.AdminListing()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products", productHandler.SearchProducts())
	routerMux.HandleFunc("POST /api/v1/products", admin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", admin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", admin(productHandler.DeleteProduct()))
	routerMux.HandleFunc("POST /api/v1/orders", rateLimitMiddleware.Limit(orderHandler.CreateOrder()))
	routerMux.HandleFunc("POST /api/v1/payments", rateLimitMiddleware.Limit(paymentHandler.CreatePaymentIntent()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "catalog-service")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Trace exporter shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}
}
