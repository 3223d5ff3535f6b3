package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rabindra900/mission-shakti-cafe/internal/config"
	"github.com/Rabindra900/mission-shakti-cafe/internal/handlers"
	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create uploads directory", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	authHandler := &handlers.AuthHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		AdminPhone:   cfg.AdminPhone,
	}
	menuHandler := &handlers.MenuHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	cartHandler := &handlers.CartHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	orderHandler := &handlers.OrderHandler{
		Store:         db,
		Templates:     templates,
		SessionStore:  sessionStore,
		WhatsAppPhone: cfg.WhatsAppPhone,
	}
	adminHandler := &handlers.AdminHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		UploadDir:    cfg.UploadDir,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate limiter for the write-heavy public endpoints
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	// Public Routes
	mux.HandleFunc("/", menuHandler.Index)
	mux.HandleFunc("/menu", menuHandler.Menu)
	mux.HandleFunc("/add_to_cart/{id}", cartHandler.Add)
	mux.HandleFunc("/cart", cartHandler.View)
	mux.HandleFunc("POST /update_cart", cartHandler.Update)
	mux.HandleFunc("/login", authHandler.LoginGet)
	mux.HandleFunc("POST /login", rateLimiter.Middleware(authHandler.LoginPost))
	mux.HandleFunc("/order_success", orderHandler.OrderSuccess)

	// Customer Routes
	mux.HandleFunc("/checkout", authHandler.RequireCustomer(orderHandler.CheckoutGet))
	mux.HandleFunc("POST /checkout", authHandler.RequireCustomer(rateLimiter.Middleware(orderHandler.CheckoutPost)))
	mux.HandleFunc("/my-orders", authHandler.RequireCustomer(orderHandler.MyOrders))

	// Admin Routes
	mux.HandleFunc("/admin/dashboard", authHandler.RequireAdmin(adminHandler.Dashboard))
	mux.HandleFunc("/admin/logout", authHandler.Logout)
	mux.HandleFunc("/admin/items", authHandler.RequireAdmin(adminHandler.ListDishes))
	mux.HandleFunc("POST /admin/items", authHandler.RequireAdmin(adminHandler.CreateDish))
	mux.HandleFunc("POST /admin/dishes/delete/{id}", authHandler.RequireAdmin(adminHandler.DeleteDish))
	mux.HandleFunc("/admin/orders", authHandler.RequireAdmin(adminHandler.ListOrders))
	mux.HandleFunc("POST /admin/orders/update_status/{id}", authHandler.RequireAdmin(adminHandler.UpdateOrderStatus))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
