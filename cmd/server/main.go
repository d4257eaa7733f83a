package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"happeningvibe/config"
	_ "happeningvibe/docs"
	"happeningvibe/internal/adapters/auth"
	"happeningvibe/internal/adapters/email"
	"happeningvibe/internal/adapters/ical"
	deliveryhttp "happeningvibe/internal/delivery/http"
	"happeningvibe/internal/delivery/http/controllers"
	"happeningvibe/internal/delivery/http/middleware"
	"happeningvibe/internal/jobs"
	"happeningvibe/internal/repository/postgres"
	"happeningvibe/internal/services"

	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

// @title           HappeningVibe API
// @version         1.0
// @description     Shared event calendar with VIP prioritization and daily creation quotas.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.DBUrl, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}
	logger.Info("migrations applied")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	codeRepo := postgres.NewAuthCodeRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	tokens := auth.NewJWT(cfg.JWTSecret)
	encoder := ical.NewEncoder()

	// Services
	quota := services.QuotaPolicy{DailyLimit: cfg.DailyEventLimit, Location: cfg.Location}
	emailSvc := services.NewEmailService(mailer, renderer, logger)
	authSvc := services.NewAuthService(
		userRepo, profileRepo, codeRepo,
		auth.NewBcryptHasher(bcrypt.DefaultCost), tokens, cfg.JWTExpiry,
		emailSvc, logger, cfg.RequestTimeout,
	)
	profileSvc := services.NewProfileService(userRepo, profileRepo, eventRepo, quota, cfg.RequestTimeout)
	eventSvc := services.NewEventService(eventRepo, profileRepo, quota, cfg.RequestTimeout)
	calendarSvc := services.NewCalendarService(eventRepo, encoder, cfg.RequestTimeout)

	// Jobs
	scheduler := jobs.NewScheduler(logger, cfg.Location, cfg.RequestTimeout)
	if err := scheduler.Add("auth-code-cleanup", cfg.CleanupSchedule, jobs.NewCleanup(codeRepo, logger).Run); err != nil {
		return err
	}
	scheduler.Start()

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	go authLimiter.Run(ctx)

	router := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Health:   controllers.NewHealthController(logger, db),
		Auth:     controllers.NewAuthController(logger, authSvc),
		Profile:  controllers.NewProfileController(logger, profileSvc),
		Event:    controllers.NewEventController(logger, eventSvc),
		Calendar: controllers.NewCalendarController(logger, calendarSvc, encoder.ContentType(), cfg.Location),
	}, deliveryhttp.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		AuthLimiter:    authLimiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "timezone", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server exited gracefully")
	return nil
}
