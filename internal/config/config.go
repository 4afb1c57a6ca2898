package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"event-booking-bot/internal/logger"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	API_SERVER = "http://localhost:8080/api/v1"
	// таймаут запросов к API фиксированный
	API_TIMEOUT = 10 * time.Second

	MODE_POLLING = "polling"
	MODE_WEBHOOK = "webhook"

	DEFAULT_LISTEN = ":8090"
)

type (
	// configuration contains the application settings
	Conf struct {
		Server Server `yaml:"server"`

		Telegram Telegram `yaml:"telegram"`

		Api Api `yaml:"api"`

		// ограничение частоты сообщений от одного пользователя
		RateLimit RateLimit `yaml:"rate_limit"`

		Logging logger.Config `yaml:"logging"`

		BotConfig  string `yaml:"bot_config"`
		RunInDebug bool   `yaml:"-"`
	}

	Server struct {
		Listen string `yaml:"listen"`
		// путь на котором принимаются обновления в режиме webhook
		WebhookPath string `yaml:"webhook_path"`
	}

	Telegram struct {
		Token string `yaml:"token"`
		// polling | webhook
		Mode string `yaml:"mode"`
		// внешний адрес, который регистрируется в Telegram в режиме webhook
		WebhookURL    string `yaml:"webhook_url"`
		WebhookSecret string `yaml:"webhook_secret"`
	}

	Api struct {
		Addr    string        `yaml:"addr"`
		Timeout time.Duration `yaml:"-"`
	}

	RateLimit struct {
		// сообщений в секунду, 0 - без ограничений
		PerSecond float64 `yaml:"per_second"`
		Burst     int     `yaml:"burst"`
	}
)

// GetConfig читает yaml (если файл есть), затем .env и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func GetConfig(configPath string) (*Conf, error) {
	cnf := &Conf{}

	input, err := os.Open(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("Config file not found, using environment only:", configPath)
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer input.Close()
		if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found")
	}
	cnf.applyEnv(os.Getenv)
	cnf.setDefaults()

	return cnf, cnf.check()
}

func (cnf *Conf) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&cnf.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	set(&cnf.Telegram.Mode, "BOT_MODE")
	set(&cnf.Telegram.WebhookURL, "WEBHOOK_URL")
	set(&cnf.Telegram.WebhookSecret, "WEBHOOK_SECRET")
	set(&cnf.Api.Addr, "API_BASE_URL")
	set(&cnf.Server.Listen, "LISTEN")
}

func (cnf *Conf) setDefaults() {
	if cnf.Api.Addr == "" {
		cnf.Api.Addr = API_SERVER
	}
	cnf.Api.Addr = strings.TrimRight(cnf.Api.Addr, "/")
	cnf.Api.Timeout = API_TIMEOUT

	if cnf.Telegram.Mode == "" {
		cnf.Telegram.Mode = MODE_POLLING
	}
	if cnf.Server.Listen == "" {
		cnf.Server.Listen = DEFAULT_LISTEN
	}
	if cnf.Server.WebhookPath == "" {
		cnf.Server.WebhookPath = "/telegram/webhook"
	}
	if cnf.RateLimit.PerSecond > 0 && cnf.RateLimit.Burst <= 0 {
		cnf.RateLimit.Burst = 1
	}
	if cnf.BotConfig == "" {
		cnf.BotConfig = "./config/bot.yml"
	}
}

func (cnf *Conf) check() error {
	if cnf.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	switch cnf.Telegram.Mode {
	case MODE_POLLING:
	case MODE_WEBHOOK:
		if cnf.Telegram.WebhookURL == "" {
			return errors.New("webhook mode requires telegram.webhook_url")
		}
	default:
		return fmt.Errorf("unknown bot mode: %s", cnf.Telegram.Mode)
	}
	return nil
}
