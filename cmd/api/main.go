package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/handlers"
	"github.com/gauravnehare1411/introducer-app-backend/internal/mailer"
	"github.com/gauravnehare1411/introducer-app-backend/internal/repository"
	"github.com/gauravnehare1411/introducer-app-backend/internal/service"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/auth"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/config"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/database"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/events"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/logger"
	mw "github.com/gauravnehare1411/introducer-app-backend/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	// Connect to MongoDB
	client, err := database.Connect(ctx, cfg.Mongo.URL)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Mongo.Database)

	// Connect to Redis (rate limiting); optional in development
	var redisClient *redis.Client
	if redisOpts, err := redis.ParseURL(cfg.Redis.URL); err == nil {
		if cfg.Redis.Password != "" {
			redisOpts.Password = cfg.Redis.Password
		}
		redisOpts.DB = cfg.Redis.DB
		redisClient = redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", "error", err)
			redisClient = nil
		}
	} else {
		logger.Warn("Invalid Redis URL, rate limiting disabled", "error", err)
	}

	// Connect to event bus; fall back to a no-op publisher when absent
	var eventBus events.Publisher
	if bus, err := events.NewNATSEventBus(cfg.NATS.URL); err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err)
		eventBus = events.NoopEventBus{}
	} else {
		eventBus = bus
		defer bus.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.Collection(database.UsersCollection))
	verifyRepo := repository.NewVerifyRepository(db.Collection(database.VerificationCollection))
	referralRepo := repository.NewReferralRepository(db.Collection(database.ReferralsCollection))

	// Select mailer
	var mailService mailer.Service
	switch {
	case cfg.Email.DevMode:
		mailService = mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		mailService = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		mailService = mailer.NewSMTPMailer(
			cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass,
			cfg.Email.SMTPUseTLS,
		)
	}

	// Initialize services
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, verifyRepo, mailService, eventBus, tokens, cfg)
	referralService := service.NewReferralService(referralRepo, eventBus)
	mortgageService := service.NewMortgageService(userRepo, eventBus)

	h := handlers.New(authService, referralService, mortgageService)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authLimiter := mw.NewRateLimiter(redisClient, "auth", 10, time.Minute)

	r.Route("/auth", func(r chi.Router) {
		r.With(authLimiter.Middleware).Post("/register", h.Register)
		r.With(authLimiter.Middleware).Post("/resend-code", h.ResendCode)
		r.With(authLimiter.Middleware).Post("/verify", h.VerifyCode)
		r.With(authLimiter.Middleware).Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/me", h.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Post("/mortgage", h.AddMortgageData)
		r.Get("/mortgage", h.GetMortgageData)

		r.Post("/referrals", h.SubmitReferral)
		r.Get("/referrals/my", h.MyReferrals)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(h.RequireAdmin)

		r.Get("/users", h.ListUsers)
		r.Get("/referrals/{referralID}", h.ReferralsByReferralID)
		r.Patch("/referrals/{id}/status", h.UpdateReferralStatus)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
