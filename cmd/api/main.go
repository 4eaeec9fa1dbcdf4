package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/tekanya/plumbing-bookings/internal/handlers"
	"github.com/tekanya/plumbing-bookings/internal/mailer"
	"github.com/tekanya/plumbing-bookings/internal/otp"
	"github.com/tekanya/plumbing-bookings/internal/repository"
	"github.com/tekanya/plumbing-bookings/internal/service"
	"github.com/tekanya/plumbing-bookings/pkg/config"
	"github.com/tekanya/plumbing-bookings/pkg/database"
	"github.com/tekanya/plumbing-bookings/pkg/events"
	"github.com/tekanya/plumbing-bookings/pkg/logger"
	"github.com/tekanya/plumbing-bookings/pkg/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(ctx, cfg.Database)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	otpStore, redisClient := newOTPStore(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	plumberRepo := repository.NewPlumberRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)

	authService := service.NewAuthService(userRepo, otpStore, newMailer(cfg), eventBus, cfg)
	bookingService := service.NewBookingService(bookingRepo, eventBus)
	catalogService := service.NewCatalogService(plumberRepo, serviceRepo)

	if cfg.Auth.SeedAdmin {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authService.EnsureAdmin(seedCtx); err != nil {
			logger.Error("Failed to seed admin user", "error", err)
			cancel()
			os.Exit(1)
		}
		cancel()
	}

	h := handlers.New(authService, bookingService, catalogService, userRepo, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)
	r.Use(middleware.Health)
	r.Mount("/api", h.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

// newOTPStore picks the pending-registration store. Memory is the
// default; Redis lets pending signups survive restarts and be shared
// across replicas.
func newOTPStore(cfg *config.Config) (otp.Store, *redis.Client) {
	if cfg.Auth.OTPStore != "redis" {
		return otp.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL, falling back to memory OTP store", "error", err)
		return otp.NewMemoryStore(), nil
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB

	client := redis.NewClient(opts)
	return otp.NewRedisStore(client), client
}

func newMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		logger.Info("Using dev mailer, emails are logged only")
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(
			cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom,
			cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS,
		)
	}
}
