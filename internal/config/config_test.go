package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram:
  token: "from-file"
api:
  addr: "http://backend:8080/api/v1/"
rate_limit:
  per_second: 2
`), 0o644))

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("API_BASE_URL", "")

	cnf, err := GetConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cnf.Telegram.Token)
	assert.Equal(t, "http://backend:8080/api/v1", cnf.Api.Addr)
	assert.Equal(t, API_TIMEOUT, cnf.Api.Timeout)
	assert.Equal(t, MODE_POLLING, cnf.Telegram.Mode)
	assert.Equal(t, DEFAULT_LISTEN, cnf.Server.Listen)
	assert.Equal(t, 1, cnf.RateLimit.Burst)
}

func TestGetConfigWithoutFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("API_BASE_URL", "")

	cnf, err := GetConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, API_SERVER, cnf.Api.Addr)
	assert.Equal(t, "./config/bot.yml", cnf.BotConfig)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BOT_MODE":    "webhook",
		"WEBHOOK_URL": "https://example.org/telegram/webhook",
		"LISTEN":      " :9000 ",
	}
	cnf := &Conf{}
	cnf.Telegram.Mode = MODE_POLLING

	cnf.applyEnv(func(key string) string { return env[key] })

	assert.Equal(t, MODE_WEBHOOK, cnf.Telegram.Mode)
	assert.Equal(t, "https://example.org/telegram/webhook", cnf.Telegram.WebhookURL)
	assert.Equal(t, ":9000", cnf.Server.Listen)
	assert.Empty(t, cnf.Telegram.Token)
}

func TestCheck(t *testing.T) {
	cases := map[string]struct {
		cnf     Conf
		wantErr bool
	}{
		"no token": {
			cnf:     Conf{Telegram: Telegram{Mode: MODE_POLLING}},
			wantErr: true,
		},
		"polling": {
			cnf: Conf{Telegram: Telegram{Token: "t", Mode: MODE_POLLING}},
		},
		"webhook without url": {
			cnf:     Conf{Telegram: Telegram{Token: "t", Mode: MODE_WEBHOOK}},
			wantErr: true,
		},
		"webhook": {
			cnf: Conf{Telegram: Telegram{Token: "t", Mode: MODE_WEBHOOK, WebhookURL: "https://example.org/hook"}},
		},
		"unknown mode": {
			cnf:     Conf{Telegram: Telegram{Token: "t", Mode: "carrier pigeon"}},
			wantErr: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.cnf.check()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
