package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-checkout/internal/core/cache"
	"booking-checkout/internal/core/config"
	"booking-checkout/internal/core/database"
	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/core/messaging"
	"booking-checkout/internal/core/server"
	addressadapter "booking-checkout/internal/features/addresses/adapters"
	addresshandler "booking-checkout/internal/features/addresses/handler"
	addressservice "booking-checkout/internal/features/addresses/service"
	bookingadapter "booking-checkout/internal/features/bookings/adapters"
	bookingdomain "booking-checkout/internal/features/bookings/domain"
	bookinghandler "booking-checkout/internal/features/bookings/handler"
	bookingports "booking-checkout/internal/features/bookings/ports"
	bookingservice "booking-checkout/internal/features/bookings/service"
	cartadapter "booking-checkout/internal/features/cart/adapters"
	carthandler "booking-checkout/internal/features/cart/handler"
	cartservice "booking-checkout/internal/features/cart/service"
	checkoutadapter "booking-checkout/internal/features/checkout/adapters"
	checkouthandler "booking-checkout/internal/features/checkout/handler"
	checkoutservice "booking-checkout/internal/features/checkout/service"
	paymentadapter "booking-checkout/internal/features/payments/adapters"
	paymenthandler "booking-checkout/internal/features/payments/handler"
	paymentports "booking-checkout/internal/features/payments/ports"
	paymentservice "booking-checkout/internal/features/payments/service"
	trimadapter "booking-checkout/internal/features/trim/adapters"
	trimhandler "booking-checkout/internal/features/trim/handler"
	trimservice "booking-checkout/internal/features/trim/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// @title Booking Checkout API
// @version 1.0
// @description Cart, checkout wizard, payment capture, booking lifecycle and video trim selection.
// @contact.name API Support
// @contact.email support@example.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx := context.Background()

	// Session store
	store, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to configure Redis", zap.Error(err))
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Database
	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(cfg.Database.DSN); err != nil {
			l.Fatal("Failed to run migrations", zap.Error(err))
		}
		l.Info("Database migrations applied")
	}
	pool, err := database.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		l.Fatal("Database Health Check Failed", zap.Error(err))
	}
	defer pool.Close()
	l.Info("Database connection verified")

	// Event broker
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := messaging.NewRabbitPublisher(cfg.RabbitMQ.URL, bookingadapter.Queues...)
		if err != nil {
			l.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		publisher = rabbit
		l.Info("RabbitMQ connection verified")
	} else {
		l.Warn("RABBITMQ_URL not set, booking events will only be logged")
	}
	defer publisher.Close()

	// Mail
	var mailer bookingports.Mailer = bookingadapter.LogMailer{}
	if cfg.Mail.APIKey != "" {
		mailer = bookingadapter.NewSendGridMailer(cfg.Mail.APIKey, cfg.Mail.From)
	} else {
		l.Warn("SENDGRID_API_KEY not set, confirmation emails will only be logged")
	}

	// Payments
	paymentTimeout := config.Duration(cfg.Payment.Timeout, 10*time.Second)
	var gateway paymentports.PaymentGateway
	if cfg.Payment.GatewayURL != "" {
		gateway = paymentadapter.NewHTTPGateway(cfg.Payment.GatewayURL, paymentTimeout)
		l.Info("Using remote payment gateway", zap.String("url", cfg.Payment.GatewayURL))
	} else {
		gateway = paymentadapter.NewSimulatedGateway(config.Duration(cfg.Payment.Latency, 2*time.Second))
		l.Info("Using simulated payment gateway")
	}
	// The guard spans authorization and the booking write.
	guard := paymentadapter.NewRedisGuard(store, paymentTimeout+30*time.Second)
	paymentSvc := paymentservice.NewPaymentService(gateway, guard, paymentTimeout)

	// Bookings
	fee, err := decimal.NewFromString(cfg.Booking.CancellationFee)
	if err != nil {
		l.Fatal("Invalid CANCELLATION_FEE", zap.String("value", cfg.Booking.CancellationFee), zap.Error(err))
	}
	policy := bookingdomain.Policy{Fee: fee, Text: cfg.Booking.CancellationPolicy}

	bookingRepo := bookingadapter.NewPostgresBookingRepository(pool)
	events := bookingadapter.NewEventPublisher(publisher)
	renderer := bookingadapter.NewRodRenderer(cfg.Renderer.BrowserBin, config.Duration(cfg.Renderer.Timeout, 30*time.Second))
	bookingSvc := bookingservice.NewBookingService(bookingRepo, events, mailer, renderer, bookingadapter.QREncoder{}, bookingservice.Options{
		PublicBaseURL:       cfg.PublicBaseURL,
		CancellationLatency: config.Duration(cfg.Booking.CancellationLatency, 1500*time.Millisecond),
	})

	// Address book
	addressSvc := addressservice.NewAddressService(addressadapter.NewPostgresAddressRepository(pool))

	// Cart
	cartSvc := cartservice.NewCartService(cartadapter.NewRedisCartRepository(store, config.Duration(cfg.Redis.CartTTL, 24*time.Hour)))

	// Checkout
	sessionStore := checkoutadapter.NewRedisSessionStore(store, config.Duration(cfg.Redis.DraftTTL, 30*time.Minute))
	checkoutSvc := checkoutservice.NewCheckoutService(sessionStore, addressSvc, paymentSvc, bookingRepo, events, mailer, policy).
		WithCurrency(cfg.Payment.Currency)

	// Trim
	trimSvc := trimservice.NewTrimService(trimadapter.NewRedisEditorRepository(store, config.Duration(cfg.Redis.TrimTTL, 2*time.Hour)))

	srv := server.New(cfg)

	// Session-scoped and user-scoped prefixes
	srv.App.Use("/cart", server.RequireSession())
	srv.App.Use("/checkout", server.RequireSession())
	srv.App.Use("/trim", server.RequireSession())
	srv.App.Use("/addresses", server.RequireUser())
	srv.App.Use("/bookings", server.RequireUser())

	// Register Routes
	carthandler.NewCartHandler(cartSvc).Register(srv.App)
	addresshandler.NewAddressHandler(addressSvc).Register(srv.App)
	paymenthandler.NewPaymentHandler().Register(srv.App)
	checkouthandler.NewCheckoutHandler(checkoutSvc).Register(srv.App)
	bookinghandler.NewBookingHandler(bookingSvc).Register(srv.App)
	trimhandler.NewTrimHandler(trimSvc).Register(srv.App)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down server")
	if err := srv.Shutdown(); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
}
