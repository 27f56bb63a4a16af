package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/instaprompt/backend/api/routes"
	"github.com/instaprompt/backend/internal/billing"
	"github.com/instaprompt/backend/internal/captions"
	"github.com/instaprompt/backend/internal/classifier"
	"github.com/instaprompt/backend/internal/notify"
	"github.com/instaprompt/backend/internal/profiles"
	"github.com/instaprompt/backend/internal/quota"
	"github.com/instaprompt/backend/internal/ratings"
	stripewebhook "github.com/instaprompt/backend/internal/webhooks/stripe"
	"github.com/instaprompt/backend/pkg/config"
	"github.com/instaprompt/backend/pkg/db"
	"github.com/instaprompt/backend/pkg/logger"
	"github.com/instaprompt/backend/pkg/metrics"
	"github.com/instaprompt/backend/pkg/migrate"
	"github.com/instaprompt/backend/pkg/openai"
	"github.com/instaprompt/backend/pkg/redis"
	"github.com/instaprompt/backend/pkg/stripe"
)

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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	openaiClient, err := openai.NewClient(context.Background(), cfg.OpenAI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create openai client", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	serviceMetrics := metrics.NewServiceMetrics(prometheus.DefaultRegisterer)

	profilesRepo := profiles.NewRepository(dbClient.DB())

	quotaService, err := quota.NewService(quota.ServiceParams{
		Repo:    profilesRepo,
		Config:  cfg.Quota,
		Metrics: serviceMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create quota service", err)
		os.Exit(1)
	}

	classifierService, err := classifier.NewService(openaiClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create classifier", err)
		os.Exit(1)
	}

	generator, err := captions.NewGenerator(openaiClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create caption generator", err)
		os.Exit(1)
	}

	var emailSender *notify.EmailSender
	if cfg.Sendgrid.APIKey != "" {
		emailSender, err = notify.NewEmailSender(cfg.Sendgrid, cfg.App.BaseURL())
		if err != nil {
			logg.Error(context.Background(), "failed to create email sender", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "sendgrid not configured, caption emails disabled")
	}

	dispatcher := notify.NewDispatcher(notify.DispatcherParams{
		Email:   emailSender,
		Slack:   notify.NewSlackNotifier(cfg.Slack),
		Metrics: serviceMetrics,
		Logger:  logg,
	})

	captionService, err := captions.NewService(captions.ServiceParams{
		Classifier: classifierService,
		Quota:      quotaService,
		Generator:  generator,
		Store:      captions.NewRepository(dbClient.DB()),
		Notifier:   dispatcher,
		Metrics:    serviceMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create caption service", err)
		os.Exit(1)
	}

	ratingService, err := ratings.NewService(ratings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create rating service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		Stripe:   billing.NewStripeClient(stripeClient),
		Profiles: profilesRepo,
		Config:   cfg.Stripe,
		BaseURL:  cfg.App.BaseURL(),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	eventGuard, err := stripewebhook.NewEventGuard(redisClient, cfg.Eventing.StripeIdempotencyTTL, stripewebhook.GuardScope)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe event guard", err)
		os.Exit(1)
	}

	stripeWebhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Profiles: profilesRepo,
		Guard:    eventGuard,
		Metrics:  serviceMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			captionService,
			ratingService,
			billingService,
			emailSender,
			redisClient,
			stripeClient,
			stripeWebhookService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
