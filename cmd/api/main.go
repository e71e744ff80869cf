package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/jkimanzi/dukahub-backend/api/routes"
	"github.com/jkimanzi/dukahub-backend/internal/affiliates"
	"github.com/jkimanzi/dukahub-backend/internal/auth"
	"github.com/jkimanzi/dukahub-backend/internal/blog"
	"github.com/jkimanzi/dukahub-backend/internal/cart"
	"github.com/jkimanzi/dukahub-backend/internal/catalog"
	"github.com/jkimanzi/dukahub-backend/internal/checkout"
	"github.com/jkimanzi/dukahub-backend/internal/consultations"
	"github.com/jkimanzi/dukahub-backend/internal/content"
	"github.com/jkimanzi/dukahub-backend/internal/media"
	"github.com/jkimanzi/dukahub-backend/internal/orders"
	"github.com/jkimanzi/dukahub-backend/internal/promotions"
	"github.com/jkimanzi/dukahub-backend/internal/registrations"
	"github.com/jkimanzi/dukahub-backend/internal/team"
	"github.com/jkimanzi/dukahub-backend/internal/users"
	"github.com/jkimanzi/dukahub-backend/pkg/auth/session"
	"github.com/jkimanzi/dukahub-backend/pkg/config"
	"github.com/jkimanzi/dukahub-backend/pkg/db"
	"github.com/jkimanzi/dukahub-backend/pkg/logger"
	"github.com/jkimanzi/dukahub-backend/pkg/metrics"
	"github.com/jkimanzi/dukahub-backend/pkg/migrate"
	"github.com/jkimanzi/dukahub-backend/pkg/redis"
	"github.com/jkimanzi/dukahub-backend/pkg/storage/gcs"
	"github.com/jkimanzi/dukahub-backend/pkg/whatsapp"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	linkBuilder, err := whatsapp.NewLinkBuilder(cfg.WhatsApp.BusinessNumber)
	if err != nil {
		logg.Error(context.Background(), "failed to build whatsapp links", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gdb := dbClient.DB()
	usersRepo := users.NewRepository(gdb)
	catalogRepo := catalog.NewRepository(gdb)
	promoRepo := promotions.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	affiliatesRepo := affiliates.NewRepository(gdb)
	checkoutRepo := checkout.NewRepository(gdb)

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Agents:         affiliatesRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartStore, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	promotionsService, err := promotions.NewService(promoRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	affiliatesService, err := affiliates.NewService(affiliatesRepo, redisClient, cfg.Site, cfg.Affiliates, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create affiliates service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		checkoutRepo,
		dbClient,
		cartStore,
		promotionsService,
		promoRepo,
		catalogRepo,
		affiliatesService,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	blogService, err := blog.NewService(blog.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}

	teamService, err := team.NewService(team.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create team service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(content.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	consultationsService, err := consultations.NewService(consultations.NewRepository(gdb), linkBuilder)
	if err != nil {
		logg.Error(context.Background(), "failed to create consultations service", err)
		os.Exit(1)
	}

	registrationsService, err := registrations.NewService(registrations.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create registrations service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(gcsClient, cfg.GCS, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, httpMetrics, routes.Services{
			Auth:          authService,
			Catalog:       catalogService,
			Cart:          cartService,
			Checkout:      checkoutService,
			Promotions:    promotionsService,
			Orders:        ordersService,
			Affiliates:    affiliatesService,
			Blog:          blogService,
			Team:          teamService,
			Content:       contentService,
			Consultations: consultationsService,
			Registrations: registrationsService,
			Media:         mediaService,
			WhatsApp:      linkBuilder,
		}),
	}

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down server", err)
		}
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing dependencies", closeErr)
		os.Exit(1)
	}
}
