package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/faqbot/core/bootstrap"
	coreconfig "github.com/m3rciful/faqbot/core/config"
	"github.com/m3rciful/faqbot/core/faq"
	"github.com/m3rciful/faqbot/core/logger"
	coretelegram "github.com/m3rciful/faqbot/core/telegram"
	"github.com/m3rciful/faqbot/core/telegram/menu"
	"github.com/m3rciful/faqbot/core/telegram/router"
	"github.com/m3rciful/faqbot/core/webhook"
)

// Options describe how to load configuration, bootstrap infrastructure and run the bot.
// Nil hooks fall back to the production implementations.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig     func(path string) (*coreconfig.Config, error)
	Bootstrap      func(ctx context.Context, opts bootstrap.Options) (*bootstrap.Result, error)
	NewBot         func(cfg *coreconfig.Config) (*tele.Bot, error)
	ShutdownLogger func() error
}

// App is the assembled bot: one dispatcher shared by both transports.
type App struct {
	Config     *coreconfig.Config
	Bot        *tele.Bot
	Registry   *coretelegram.Registry
	Dispatcher *router.Dispatcher
	Infra      *bootstrap.Result
}

// Build wires the FAQ router, the menu handlers and the dispatcher around bot.
func Build(cfg *coreconfig.Config, bot *tele.Bot, infra *bootstrap.Result) (*App, error) {
	if infra == nil {
		infra = &bootstrap.Result{}
	}
	m := infra.Metrics

	reg := coretelegram.NewRegistry()
	handlers := menu.New(faq.NewRouter(cfg.Links.FAQLinks()), m)
	if err := handlers.Register(reg); err != nil {
		return nil, fmt.Errorf("cmd: register handlers: %w", err)
	}

	opts := router.Options{Metrics: m}
	if bot != nil {
		opts.NewContext = bot.NewContext
	}
	return &App{
		Config:     cfg,
		Bot:        bot,
		Registry:   reg,
		Dispatcher: router.NewDispatcher(reg, opts),
		Infra:      infra,
	}, nil
}

// WebhookOptions describes the HTTP surface serving the dispatcher.
func (a *App) WebhookOptions() webhook.Options {
	opts := webhook.Options{
		Path:      a.Config.Webhook.Path,
		Secret:    a.Config.Webhook.Secret,
		Processor: a.Dispatcher,
		Metrics:   a.Infra.Metrics,
	}
	// a nil *journal.Store must not become a non-nil interface
	if a.Infra.Journal != nil {
		opts.Journal = a.Infra.Journal
	}
	if a.Config.MetricsEnabled() {
		opts.MetricsPath = a.Config.Metrics.Path
	}
	return opts
}

// Run loads configuration, bootstraps infrastructure and serves updates until
// SIGINT or SIGTERM.
func Run(opts Options) error {
	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}

	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = coreconfig.Load
	}
	log.Printf("loading config: %q", cfgPath)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startedAt := time.Now()
	boot := opts.Bootstrap
	if boot == nil {
		boot = bootstrap.Run
	}
	infra, err := boot(ctx, bootstrap.Options{Config: cfg})
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}

	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	defer func() {
		if err := infra.Close(); err != nil {
			logger.App.Warn("journal close failed",
				slog.String("event", "shutdown"),
				slog.String("err", err.Error()),
			)
		}
	}()

	newBot := opts.NewBot
	if newBot == nil {
		newBot = coretelegram.NewBot
	}
	bot, err := newBot(cfg)
	if err != nil {
		return fmt.Errorf("cmd: %w", err)
	}

	app, err := Build(cfg, bot, infra)
	if err != nil {
		return err
	}

	if cfg.Telegram.RegisterCommands {
		if err := coretelegram.InitBotCommands(bot, app.Registry); err != nil {
			logger.TWire.Warn("command menu registration failed",
				slog.String("event", "commands.register"),
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}

	ready := func(context.Context) error {
		logger.App.Info("app ready",
			slog.String("event", "ready"),
			slog.String("mode", cfg.Telegram.RunMode),
			slog.Duration("startup_duration", logger.Took(startedAt)),
		)
		return nil
	}
	stopped := func(context.Context) error {
		logger.App.Info("shutting down...", slog.String("event", "shutdown"))
		return nil
	}

	switch cfg.Telegram.RunMode {
	case coreconfig.RunModeLongpoll:
		return coretelegram.RunTelegram(ctx, coretelegram.RunOptions{
			Bot:     bot,
			Routes:  app.Dispatcher.Routes(),
			OnStart: ready,
			OnStop:  stopped,
		})
	default:
		return app.serveWebhook(ctx, ready, stopped)
	}
}

func (a *App) serveWebhook(ctx context.Context, ready, stopped func(context.Context) error) error {
	if a.Config.Webhook.URL != "" {
		if err := coretelegram.RegisterWebhook(a.Bot, a.Config.Webhook); err != nil {
			return fmt.Errorf("cmd: %w", err)
		}
	}
	srv := webhook.NewServer(a.Config.Webhook.Addr(), webhook.NewHandler(a.WebhookOptions()))
	_ = ready(ctx)
	err := srv.Run(ctx)
	_ = stopped(context.Background())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("cmd: webhook server: %w", err)
	}
	return nil
}
