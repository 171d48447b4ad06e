package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/faqbot/core/config"
	"github.com/m3rciful/faqbot/core/logger"
	"github.com/m3rciful/faqbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// NewBot builds the bot client. Webhook mode creates it offline: updates
// arrive over HTTP, so the startup getMe call is skipped.
func NewBot(cfg *coreconfig.Config) (*tele.Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("telegram: nil config provided")
	}
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Client: BuildHTTPClient(time.Duration(cfg.Telegram.RequestTimeoutSeconds) * time.Second),
		OnError: func(err error, c tele.Context) {
			ctx := context.Background()
			if c != nil {
				ctx = logger.WithRID(ctx, logger.BuildRID(c.Update().ID, 0, 0))
			}
			logger.LogEvent(ctx, logger.TG, slog.LevelError, "bot.error",
				slog.String("status", "fail"),
				slog.String("err", sender.Redact(err)),
				slog.String("error_kind", sender.ErrorKind(err)),
			)
		},
	}
	switch cfg.Telegram.RunMode {
	case coreconfig.RunModeLongpoll:
		settings.Poller = BuildPoller(cfg.Telegram.LongPollTimeoutSeconds)
	default:
		settings.Offline = true
	}

	start := time.Now()
	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", sender.RedactError(err))
	}
	logger.TG.LogAttrs(context.Background(), slog.LevelInfo, "bot.ready",
		slog.String("mode", cfg.Telegram.RunMode),
		slog.Bool("offline", settings.Offline),
		slog.Duration("duration", logger.Took(start)),
	)
	return bot, nil
}

// RegisterWebhook points Telegram at the public webhook URL.
func RegisterWebhook(bot *tele.Bot, cfg coreconfig.WebhookConfig) error {
	public, err := PublicWebhookURL(cfg.URL, cfg.Path)
	if err != nil {
		return fmt.Errorf("telegram: invalid webhook url: %w", err)
	}
	hook := &tele.Webhook{
		Endpoint:       &tele.WebhookEndpoint{PublicURL: public},
		SecretToken:    cfg.Secret,
		AllowedUpdates: AllowedUpdates,
	}
	if err := bot.SetWebhook(hook); err != nil {
		return fmt.Errorf("telegram: set webhook: %w", sender.RedactError(err))
	}
	logger.TG.LogAttrs(context.Background(), slog.LevelInfo, "webhook.registered",
		slog.String("mode", coreconfig.RunModeWebhook),
		slog.String("public_url", public),
		slog.Bool("secret", cfg.Secret != ""),
	)
	return nil
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Bot    *tele.Bot
	Routes []Route

	DisableWebhookCleanup bool

	OnStart func(ctx context.Context) error
	OnStop  func(ctx context.Context) error
}

// RunTelegram long-polls updates until ctx is done. A webhook left by a
// previous deployment is deleted first, otherwise getUpdates is refused.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	bot := opts.Bot
	if bot == nil {
		return fmt.Errorf("telegram: nil bot provided")
	}

	if lp, ok := bot.Poller.(*tele.LongPoller); ok {
		logger.TG.Info("polling mode",
			slog.String("event", "mode"),
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Int("timeout_seconds", int(lp.Timeout/time.Second)),
		)
	}

	if !opts.DisableWebhookCleanup {
		if err := bot.RemoveWebhook(false); err != nil {
			logger.TG.Warn("failed to delete webhook",
				slog.String("event", "delete_webhook"),
				slog.String("mode", coreconfig.RunModeLongpoll),
				slog.String("err", sender.Redact(err)),
			)
		} else {
			logger.TG.Info("webhook deleted",
				slog.String("event", "delete_webhook"),
				slog.String("mode", coreconfig.RunModeLongpoll),
			)
		}
	}

	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx); err != nil {
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	if opts.OnStop != nil {
		if err := opts.OnStop(context.Background()); err != nil {
			return err
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
