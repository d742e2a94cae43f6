package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/valentinpelus/feedbox/internal/config"
	"github.com/valentinpelus/feedbox/internal/handler"
	"github.com/valentinpelus/feedbox/internal/logging"
	"github.com/valentinpelus/feedbox/pkg/feedback"
	"github.com/valentinpelus/feedbox/pkg/kv"
	"github.com/valentinpelus/feedbox/pkg/slack"
)

// App holds all application dependencies
type App struct {
	Config          *config.Config
	Log             *zap.SugaredLogger
	Storage         kv.Storage
	Store           *feedback.Store
	SlackClient     *slack.Client
	Notifier        handler.Notifier // nil when Slack is not configured
	FeedbackHandler *handler.FeedbackHandler
}

// New initializes a new application with all dependencies
func New(ctx context.Context) (*App, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init(cfg.LogLevel, cfg.Environment)
	log := logging.GetLogger()

	return NewWithConfig(ctx, cfg, log)
}

// NewWithConfig wires the application from an already loaded configuration
func NewWithConfig(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	storage, err := kv.Open(ctx, cfg.Storage())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
	}
	log.Infow("Using storage backend", "backend", storage.Name(), "slot", cfg.SlotKey)

	store := feedback.NewStore(storage, feedback.WithSlotKey(cfg.SlotKey), feedback.WithLogger(log))

	slackClient := slack.NewClient(cfg.SlackWebhookURL, cfg.SlackBotToken, cfg.SlackChannelID)

	var notifier handler.Notifier
	if slackClient.IsConfigured() {
		notifier = slackClient
	}

	return &App{
		Config:          cfg,
		Log:             log,
		Storage:         storage,
		Store:           store,
		SlackClient:     slackClient,
		Notifier:        notifier,
		FeedbackHandler: handler.NewFeedbackHandler(store, notifier, log),
	}, nil
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo(ctx context.Context) {
	a.Log.Infow("Starting feedbox", "port", a.Config.Port, "environment", a.Config.Environment)

	if a.SlackClient.HasBotToken() {
		a.Log.Infow("Slack notifications: enabled (bot token)")
	} else if a.SlackClient.IsConfigured() {
		a.Log.Infow("Slack notifications: enabled (webhook)")
	} else {
		a.Log.Infow("Slack notifications: disabled")
	}

	records := a.Store.LoadAll(ctx)
	if len(records) > 0 {
		summary := feedback.Summarize(records, time.Now())
		a.Log.Infow("Loaded feedback entries",
			"total", summary.Total,
			"average_rating", summary.AverageRating,
			"this_month", summary.CurrentMonthCount,
		)
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return kv.Close(a.Storage)
}
