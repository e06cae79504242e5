package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rmendiola/belleza/internal/auth"
	"github.com/rmendiola/belleza/internal/background"
	"github.com/rmendiola/belleza/internal/config"
	"github.com/rmendiola/belleza/internal/database"
	"github.com/rmendiola/belleza/internal/handlers"
	middlewareCustom "github.com/rmendiola/belleza/internal/middleware"
	"github.com/rmendiola/belleza/internal/repositories"
	"github.com/rmendiola/belleza/internal/routes"
	"github.com/rmendiola/belleza/internal/services"
	pkglogger "github.com/rmendiola/belleza/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := database.Migrate(migrateCtx, db); err != nil {
			cancel()
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
		cancel()
		logger.Info("database migrations applied")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	// Expired verification tickets get swept in the background
	cleanupManager := background.NewCleanupManager(userRepo, logger, cfg.Auth.CleanupInterval)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTL)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// AWS SES mailer
	mailer, err := services.NewSESMailer(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.VerificationURLBase,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize mailer", slog.Any("error", err))
		os.Exit(1)
	}

	// Google ID-token verifier
	googleKeys := auth.NewGoogleKeySource(10 * time.Second)
	googleVerifier := auth.NewIDTokenVerifier(googleKeys, cfg.Auth.GoogleClientID)

	// Initialize services
	verificationService := services.NewVerificationService(userRepo, cfg.Email.VerificationTTL, logger)
	identityService := services.NewIdentityService(
		userRepo, verificationService, mailer, tokenManager,
		googleVerifier, cfg.Auth.AdminEmail, logger, auditLogger,
	)
	userService := services.NewUserService(userRepo, logger)
	catalogService := services.NewCatalogService(catalogRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, catalogRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityService)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	bookingHandler := handlers.NewBookingHandler(bookingService)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, userHandler, catalogHandler, bookingHandler, tokenManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
