package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/michael-berardi/harborform/internal/config"
	"github.com/michael-berardi/harborform/internal/content"
	"github.com/michael-berardi/harborform/internal/handlers"
	"github.com/michael-berardi/harborform/internal/ledger"
	"github.com/michael-berardi/harborform/internal/relay"
	"github.com/michael-berardi/harborform/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Init DB (runs embedded migrations)
	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ledgers := ledger.New(db, ledger.Options{HourlyRate: cfg.HourlyRate})

	// 3. Lead relay and its metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	relayOpts := relay.Options{
		NotifyTo: cfg.LeadNotifyEmail,
		Recorder: db,
		Logger:   logger.With("component", "relay"),
		Metrics:  relay.NewMetrics(registry),
	}
	if cfg.LeadWebhookURL != "" {
		relayOpts.Webhook = relay.NewWebhookSink(cfg.LeadWebhookURL, cfg.OutboundTimeout)
	} else {
		slog.Warn("LEAD_WEBHOOK_URL not set. Leads will only be recorded locally.")
	}
	if cfg.EmailEnabled() {
		relayOpts.Mailer = &relay.SendGridMailer{
			APIKey:    cfg.SendGridAPIKey,
			BaseURL:   cfg.SendGridBaseURL,
			FromEmail: cfg.MailFromEmail,
			FromName:  cfg.MailFromName,
			Timeout:   cfg.OutboundTimeout,
		}
	}
	leadRelay := relay.New(relayOpts)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	// 4. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 5. Templates and site content
	templates := handlers.NewTemplateCache()
	if err := templates.Load(cfg.TemplatesDir); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}
	site, err := content.Load(cfg.ContentPath)
	if err != nil {
		slog.Error("Failed to load site content", "path", cfg.ContentPath, "error", err)
		os.Exit(1)
	}

	// 6. Setup Handlers
	adminHandler := &handlers.AdminHandler{
		Store:        db,
		Ledgers:      ledgers,
		SessionStore: sessionStore,
		Templates:    templates,
		OAuth: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubCallbackURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user"},
		},
		Identity:   handlers.NewGitHubIdentity(cfg.GitHubAPIURL, cfg.OutboundTimeout),
		AdminLogin: cfg.AdminGitHubLogin,
		Metrics:    metricsHandler,
	}
	pageHandler := &handlers.PageHandler{
		Site:         site,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	leadHandler := &handlers.LeadHandler{Relay: leadRelay}

	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static", fileServer))

	// Five form posts per IP, then one more every 20 seconds
	rateLimiter := handlers.NewRateLimiter(ctx, 20*time.Second, 5)

	leadHandler.Register(mux, rateLimiter)
	adminHandler.Register(mux)
	pageHandler.Register(mux)

	// 7. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> Geo-block -> CSRF (API skipped) -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			handlers.GeoBlockMiddleware(cfg.GeoCountryHeader, cfg.BlockedCountries,
				handlers.SkipCSRFForAPI(CSRF(mux)),
			),
		),
	)

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Optional private listener for Prometheus scrapes
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("GET /metrics", metricsHandler)
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("Metrics listener starting", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics listener failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Metrics listener shutdown failed", "error", err)
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
