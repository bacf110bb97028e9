package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/wakelyai/webchat/internal/chat"
	"github.com/wakelyai/webchat/internal/events"
	"github.com/wakelyai/webchat/internal/mongo"
	"github.com/wakelyai/webchat/internal/org"
	"github.com/wakelyai/webchat/internal/webchat"
	"github.com/wakelyai/webchat/pkg"
)

const (
	appNamespace = "WEBCHAT"
	appName      = "webchat"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// Durable store for confirmed-order receipts
	receiptRepo := mongo.NewReceiptRepo(config, logger)

	// Public backend: organization metadata and menu data
	apiURL := config.GetStringOrDef("services.api.url", "https://api.wakely.ai/api")
	orgClient := org.NewHTTPClient(apiURL, logger)

	// Conversational backend webhook
	webhookURL := config.GetStringOrDef("services.webhook.url", "https://api.wakely.ai/webhook/web-chat")
	webhook := chat.NewHTTPWebhook(webhookURL)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	registry := webchat.NewRegistry()
	stateSub := events.NewOrderStateSubscriber(sub, registry, logger)

	deps := webchat.SessionDeps{
		Orgs:      orgClient,
		Webhook:   webhook,
		Receipts:  receiptRepo,
		Publisher: pub,
	}

	handler := webchat.NewHandler(registry, deps, config, logger)

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	// Public, browser-facing surface; CORS stays enabled.
	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(receiptRepo, stateSub, publisherLifecycle, subLifecycle),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
