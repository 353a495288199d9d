package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terracepass/internal/config"
	"terracepass/internal/database"
	"terracepass/internal/handlers"
	"terracepass/internal/qr"
	"terracepass/internal/repository"
	"terracepass/internal/security"
	"terracepass/internal/service"
	"terracepass/internal/token"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	requestRepo := repository.NewRequestRepository(db)
	passRepo := repository.NewPassRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(context.Background(),
		cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Email delivery disabled (SES_FROM_EMAIL not set)")
	}

	qrRenderer := qr.NewRenderer(cfg.BaseURL)
	signer := security.NewSessionSigner(cfg.SessionSecret, cfg.SessionDuration)
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	limiter := security.NewRateLimiter(10, time.Minute)

	inviteService := service.NewInviteService(requestRepo, token.NewCryptoGenerator(), emailService, qrRenderer)
	gateService := service.NewGateService(passRepo)
	authService := service.NewAuthService(adminRepo, signer)

	// Seed the first admin account
	if err := authService.EnsureBootstrapAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, csrf, limiter)
	publicHandler := handlers.NewPublicHandler(inviteService, gateService, qrRenderer)
	adminHandler := handlers.NewAdminHandler(inviteService)
	authHandler := handlers.NewAuthHandler(authService, csrf, oauthProviders, cfg.BaseURL)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/requests", middleware.RateLimit(publicHandler.SubmitRequest))
	mux.HandleFunc("GET /api/passes/{token}", publicHandler.CheckPass)
	mux.HandleFunc("POST /api/passes/{token}/redeem", publicHandler.RedeemPass)
	mux.HandleFunc("GET /q/{token}", publicHandler.Gate)
	mux.HandleFunc("GET /healthz", publicHandler.Health)

	// Auth routes
	mux.HandleFunc("POST /api/admin/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/admin/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/admin/session", authHandler.Session)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Protected admin routes
	mux.HandleFunc("GET /api/requests", middleware.RequireAdmin(adminHandler.ListRequests))
	mux.HandleFunc("PATCH /api/requests/{id}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.EditRequest)))
	mux.HandleFunc("DELETE /api/requests/{id}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteRequest)))
	mux.HandleFunc("POST /api/requests/{id}/approve", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.ApproveRequest)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
