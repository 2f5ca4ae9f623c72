package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/directory"
	"github.com/stc-ops/fieldops/internal/hr"
	"github.com/stc-ops/fieldops/internal/intervention"
	"github.com/stc-ops/fieldops/internal/mapping"
	"github.com/stc-ops/fieldops/internal/notification"
	"github.com/stc-ops/fieldops/internal/report"
	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/config"
	"github.com/stc-ops/fieldops/internal/shared/database"
	"github.com/stc-ops/fieldops/internal/shared/logging"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
	secmiddleware "github.com/stc-ops/fieldops/internal/shared/middleware"
	"github.com/stc-ops/fieldops/internal/survey"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Server.Env, cfg.Server.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// The directory doubles as the principal resolver for auth.
	dirRepo := directory.NewRepository(db.Pool)
	scoper := scope.NewScoper(scope.Maharashtra(), scope.HomeStates)

	// Notification delivery: in-process workers, fronted by RabbitMQ when a
	// broker is configured so messages survive restarts.
	var emailProvider, whatsappProvider notification.Provider
	if cfg.Notification.EmailAPIKey != "" {
		emailProvider = notification.NewEmailProvider(cfg.Notification)
	}
	if cfg.Notification.WhatsAppToken != "" {
		whatsappProvider = notification.NewWhatsAppProvider(cfg.Notification)
	}

	svcConfig := notification.DefaultServiceConfig()
	svcConfig.Workers = cfg.Notification.Workers
	notifySvc := notification.NewService(emailProvider, whatsappProvider, svcConfig, log)
	if err := notifySvc.Start(ctx); err != nil {
		log.Fatal("notification service failed to start", zap.Error(err))
	}
	defer notifySvc.Stop()

	var notifier notification.Notifier = notifySvc
	if cfg.AMQP.Enabled() {
		queue, err := notification.NewQueue(cfg.AMQP, log)
		if err != nil {
			log.Warn("AMQP unavailable, falling back to in-process delivery", zap.Error(err))
		} else {
			defer queue.Close()
			if err := queue.Consume(ctx, notifySvc); err != nil {
				log.Fatal("notification consumer failed to start", zap.Error(err))
			}
			notifier = queue
			log.Info("durable notification queue enabled", zap.String("queue", cfg.AMQP.Queue))
		}
	}

	rateLimiter := secmiddleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(secmiddleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.InputSanitizer)
	r.Use(secmiddleware.CORS(secmiddleware.DefaultCORSConfig()))
	r.Use(rateLimiter.Middleware)
	r.Use(metrics.Middleware)

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(db))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth, dirRepo))

		reportHandler := report.NewHandler(report.NewRepository(db.Pool), scoper, log)
		r.Mount("/reports", reportHandler.Routes())

		mappingRepo := mapping.NewRepository(db.Pool)
		r.Mount("/mappings", mapping.NewHandler(mappingRepo).Routes())

		interventionHandler := intervention.NewHandler(
			intervention.NewRepository(db.Pool), mappingRepo, scoper, log)
		r.Mount("/interventions", interventionHandler.Routes())

		surveyHandler := survey.NewHandler(survey.NewRepository(db.Pool), scoper, log)
		r.Mount("/surveys", surveyHandler.Routes())

		hrHandler := hr.NewHandler(hr.NewRepository(db.Pool), dirRepo, notifier, scoper, log)
		r.Mount("/hr", hrHandler.Routes())

		r.Mount("/users", directory.NewHandler(dirRepo).Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
		close(done)
	}()

	log.Info("field operations backend listening",
		zap.String("env", cfg.Server.Env),
		zap.Int("port", cfg.Server.Port))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}

	<-done
	log.Info("server stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"server": "ready"}

		allReady := true
		if err := db.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
			allReady = false
		} else {
			checks["database"] = "ready"
		}

		status := http.StatusOK
		readiness := "ready"
		if !allReady {
			status = http.StatusServiceUnavailable
			readiness = "not ready"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": readiness,
			"checks": checks,
		})
	}
}
