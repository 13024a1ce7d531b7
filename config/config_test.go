package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:                 8288,
		JWTSecret:                  "0123456789abcdef0123456789abcdef",
		OrderNumberPrefix:          "JDI",
		ReminderHourUTC:            6,
		NotifyWebhookTimeoutSecond: 5,
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("config_test")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.ServerPort = 0 }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"lowercase prefix", func(c *Config) { c.OrderNumberPrefix = "jdi" }, true},
		{"long prefix", func(c *Config) { c.OrderNumberPrefix = "ABCDEFGHI" }, true},
		{"two letter prefix", func(c *Config) { c.OrderNumberPrefix = "FO" }, false},
		{"reminder hour too large", func(c *Config) { c.ReminderHourUTC = 24 }, true},
		{"negative reminder hour", func(c *Config) { c.ReminderHourUTC = -1 }, true},
		{
			"webhook without timeout",
			func(c *Config) {
				c.NotifyWebhookURL = "https://hooks.example/fieldops"
				c.NotifyWebhookTimeoutSecond = 0
			},
			true,
		},
		{
			"webhook with timeout",
			func(c *Config) { c.NotifyWebhookURL = "https://hooks.example/fieldops" },
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)

			err := validateConfig(config, log)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, config, GetConfig())
		})
	}
}
