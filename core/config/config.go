package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/faqbot/core/faq"
)

// TelegramConfig holds bot client settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
	// RequestTimeoutSeconds bounds a single Bot API call.
	RequestTimeoutSeconds int  `yaml:"request_timeout_seconds" envconfig:"TELEGRAM_REQUEST_TIMEOUT_SECONDS"`
	RegisterCommands      bool `yaml:"register_commands" envconfig:"TELEGRAM_REGISTER_COMMANDS"`
}

// WebhookConfig specifies the HTTP endpoint that receives updates.
type WebhookConfig struct {
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"PORT"`
	Path   string `yaml:"path" envconfig:"WEBHOOK_PATH"`
	// URL is the public address registered with Telegram on start; empty skips registration.
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Secret string `yaml:"secret" envconfig:"WEBHOOK_SECRET"`
}

// LinksConfig carries the URLs and contact strings substituted into screens.
type LinksConfig struct {
	ChannelURL         string `yaml:"channel_url" envconfig:"CHANNEL_URL"`
	GroupURL           string `yaml:"group_url" envconfig:"GROUP_URL"`
	RaffleRulesURL     string `yaml:"raffle_rules_url" envconfig:"SORTEO_URL"`
	WarrantyFormURL    string `yaml:"warranty_form_url" envconfig:"FORM_URL"`
	SupportContactText string `yaml:"support_contact_text" envconfig:"WHATSAPP_TXT"`
	SupportContactURL  string `yaml:"support_contact_url" envconfig:"WHATSAPP_URL"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample" envconfig:"LOG_DEBUG_SAMPLE"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	File        string `yaml:"file" envconfig:"LOG_FILE"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// JournalConfig enables update deduplication backed by Postgres.
type JournalConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"JOURNAL_ENABLED"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	RetentionHours int    `yaml:"retention_hours" envconfig:"JOURNAL_RETENTION_HOURS"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled" envconfig:"METRICS_ENABLED"`
	Path    string `yaml:"path" envconfig:"METRICS_PATH"`
}

const (
	// RunModeWebhook serves updates over the built-in HTTP endpoint.
	RunModeWebhook = "webhook"
	// RunModeLongpoll pulls updates with getUpdates.
	RunModeLongpoll = "longpoll"
)

// Defaults of the original deployment.
const (
	DefaultChannelURL         = faq.DefaultChannelURL
	DefaultGroupURL           = faq.DefaultGroupURL
	DefaultRaffleRulesURL     = faq.DefaultRaffleRulesURL
	DefaultWarrantyFormURL    = faq.DefaultWarrantyFormURL
	DefaultSupportContactText = faq.DefaultSupportContactText
	DefaultSupportContactURL  = faq.DefaultSupportContactURL

	DefaultWebhookPort    = 8080
	DefaultWebhookPath    = "/telegram"
	DefaultMetricsPath    = "/metrics"
	DefaultRequestTimeout = 10
	DefaultRetentionHours = 48
)

// ErrMissingToken is returned by Normalize when no bot token is configured.
var ErrMissingToken = errors.New("telegram token is required")

// Config aggregates all settings of the bot.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Links    LinksConfig    `yaml:"links"`
	Logging  LoggingConfig  `yaml:"logging"`
	Journal  JournalConfig  `yaml:"journal"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Load reads an optional .env file, an optional YAML file and the environment.
// An empty path or a missing file leaves configuration to the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	// .env is optional, production injects variables directly
	_ = godotenv.Load()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return ErrMissingToken
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	switch rm {
	case "":
		rm = RunModeWebhook
	case "polling":
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if cfg.Webhook.Port == 0 {
			cfg.Webhook.Port = DefaultWebhookPort
		}
		if cfg.Webhook.Port < 0 || cfg.Webhook.Port > 65535 {
			return fmt.Errorf("webhook.port out of range: %d", cfg.Webhook.Port)
		}
		path := strings.TrimSpace(cfg.Webhook.Path)
		if path == "" {
			path = DefaultWebhookPath
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		cfg.Webhook.Path = path
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Telegram.RequestTimeoutSeconds <= 0 {
		cfg.Telegram.RequestTimeoutSeconds = DefaultRequestTimeout
	}

	normalizeLinks(&cfg.Links)

	if cfg.Journal.Enabled {
		if strings.TrimSpace(cfg.Journal.Host) == "" || strings.TrimSpace(cfg.Journal.Name) == "" {
			return fmt.Errorf("journal.host and journal.name are required when the journal is enabled")
		}
		if cfg.Journal.Port == "" {
			cfg.Journal.Port = "5432"
		}
		if cfg.Journal.SSLMode == "" {
			cfg.Journal.SSLMode = "disable"
		}
		if cfg.Journal.MaxConnections <= 0 {
			cfg.Journal.MaxConnections = 4
		}
		if cfg.Journal.RetentionHours <= 0 {
			cfg.Journal.RetentionHours = DefaultRetentionHours
		}
	}

	if cfg.Metrics.Enabled == nil {
		enabled := true
		cfg.Metrics.Enabled = &enabled
	}
	if strings.TrimSpace(cfg.Metrics.Path) == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	return nil
}

func normalizeLinks(l *LinksConfig) {
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&l.ChannelURL, DefaultChannelURL)
	fill(&l.GroupURL, DefaultGroupURL)
	fill(&l.RaffleRulesURL, DefaultRaffleRulesURL)
	fill(&l.WarrantyFormURL, DefaultWarrantyFormURL)
	fill(&l.SupportContactText, DefaultSupportContactText)
	fill(&l.SupportContactURL, DefaultSupportContactURL)
}

// MetricsEnabled reports whether the Prometheus endpoint should be served.
func (c *Config) MetricsEnabled() bool {
	return c != nil && c.Metrics.Enabled != nil && *c.Metrics.Enabled
}

// FAQLinks converts the links section for the menu router.
func (l LinksConfig) FAQLinks() faq.Links {
	return faq.Links{
		ChannelURL:         l.ChannelURL,
		GroupURL:           l.GroupURL,
		RaffleRulesURL:     l.RaffleRulesURL,
		WarrantyFormURL:    l.WarrantyFormURL,
		SupportContactText: l.SupportContactText,
		SupportContactURL:  l.SupportContactURL,
	}
}

// Addr returns the listen address of the webhook server.
func (w WebhookConfig) Addr() string {
	return fmt.Sprintf("%s:%d", strings.TrimSpace(w.Listen), w.Port)
}
