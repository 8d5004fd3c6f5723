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

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/skairipa08/FundEd/internal/config"
	"github.com/skairipa08/FundEd/internal/database"
	apphttp "github.com/skairipa08/FundEd/internal/http"
	"github.com/skairipa08/FundEd/internal/http/handlers"
	"github.com/skairipa08/FundEd/internal/http/handlers/admin"
	"github.com/skairipa08/FundEd/internal/mailer"
	"github.com/skairipa08/FundEd/internal/metrics"
	"github.com/skairipa08/FundEd/internal/modules/auth"
	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/email"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/uploads"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDSN, database.DefaultOptions())
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	userRepo := users.NewRepo(db)
	userSvc := users.NewService(userRepo, logger, users.Options{
		SessionTTL:        cfg.SessionTTL,
		InitialAdminEmail: cfg.InitialAdminEmail,
	})

	var identity auth.IdentityProvider
	if cfg.Google.Enabled() {
		identity = auth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI)
	} else {
		logger.Warn("google oauth not configured")
	}
	authSvc := auth.NewService(identity, userSvc, logger)

	campaignSvc := campaigns.NewService(campaigns.NewRepo(db), userRepo, logger)

	paymentRepo := payments.NewRepo(db)
	provider := paymentProvider(cfg.Payments, logger)
	checkoutSvc := payments.NewCheckoutService(paymentRepo, provider, cfg.Payments.Currency, logger)
	donationSvc := payments.NewDonationService(paymentRepo)
	webhookSvc := payments.NewWebhookService(paymentRepo, logger)

	notifier := email.NewNotifier(newMailer(cfg.SMTP, logger), cfg.SMTP.From, cfg.SMTP.FromName)
	userSvc.SetNotifier(notifier)
	webhookSvc.SetNotifier(notifier)

	store, err := storage.FromEnv(ctx)
	if err != nil {
		return err
	}
	logger.Info("upload storage ready", "driver", store.Driver)
	uploadSvc := uploads.NewService(store.Storage, store.Direct, logger)

	m := metrics.New()

	var webhookProviders []payments.Provider
	if provider != nil {
		webhookProviders = append(webhookProviders, provider)
	}

	router := apphttp.NewRouter(apphttp.Deps{
		Logger:      logger,
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     m,
		Sessions:    userSvc,

		Auth: handlers.NewAuthHandler(authSvc, userSvc, handlers.CookieConfig{
			Secure: cfg.IsProduction(),
			MaxAge: int(cfg.SessionTTL / time.Second),
		}),
		Campaigns: handlers.NewCampaignHandler(campaignSvc, donationSvc),
		Donations: handlers.NewDonationHandler(checkoutSvc, donationSvc),
		Webhooks:  handlers.NewWebhookHandler(logger, webhookSvc, m, webhookProviders...),
		Uploads:   handlers.NewUploadHandler(uploadSvc),
		Admin:     admin.NewHandler(userSvc, campaignSvc, donationSvc),
		Meta:      handlers.NewMetaHandler(pinger(db), version),

		LocalUploadDir:       store.LocalDir,
		LocalUploadURLPrefix: store.LocalURLPrefix,
	})

	go userSvc.RunSessionSweeper(ctx, cfg.SessionSweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "environment", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// paymentProvider returns nil when the gateway is not configured; checkout
// then answers 503.
func paymentProvider(cfg config.PaymentsConfig, logger *slog.Logger) payments.Provider {
	switch cfg.Provider {
	case "mock":
		if cfg.MockWebhookSecret == "" {
			logger.Warn("mock webhooks are unsigned; set MOCK_WEBHOOK_SECRET")
		}
		return payments.NewMockProvider(cfg.MockWebhookSecret, logger)
	default:
		if cfg.StripeAPIKey == "" {
			logger.Warn("stripe not configured")
			return nil
		}
		return payments.NewStripeProvider(cfg.StripeAPIKey, cfg.StripeWebhookSecret, logger)
	}
}

func newMailer(cfg config.SMTPConfig, logger *slog.Logger) mailer.Service {
	if cfg.Enabled() {
		return mailer.NewSMTPMailer(cfg)
	}
	logger.Warn("smtp not configured, mail is kept in memory")
	return &mailer.Mock{}
}

func pinger(db *gorm.DB) handlers.PingFunc {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}
