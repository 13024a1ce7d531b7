package config

import (
	"regexp"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion             string `mapstructure:"GENERAL_VERSION"`
	Environment                string `mapstructure:"ENVIRONMENT"`
	ServerPort                 int    `mapstructure:"SERVER_PORT"`
	DatabaseHost               string `mapstructure:"DB_HOST"`
	DatabasePort               int    `mapstructure:"DB_PORT"`
	DatabaseName               string `mapstructure:"DB_NAME"`
	DatabaseUser               string `mapstructure:"DB_USER"`
	DatabasePassword           string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress       string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort          int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset         int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins           string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret                  string `mapstructure:"JWT_SECRET"`
	JWTIssuer                  string `mapstructure:"JWT_ISSUER"`
	OrderNumberPrefix          string `mapstructure:"ORDER_NUMBER_PREFIX"`
	NotifyWebhookURL           string `mapstructure:"NOTIFY_WEBHOOK_URL"`
	NotifyWebhookTimeoutSecond int    `mapstructure:"NOTIFY_WEBHOOK_TIMEOUT_SECONDS"`
	SchedulerEnabled           bool   `mapstructure:"SCHEDULER_ENABLED"`
	ReminderHourUTC            int    `mapstructure:"REMINDER_HOUR_UTC"`
}

var ConfigInstance Config

var orderPrefixPattern = regexp.MustCompile(`^[A-Z]{2,8}$`)

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS",
		"JWT_SECRET", "JWT_ISSUER",
		"ORDER_NUMBER_PREFIX", "NOTIFY_WEBHOOK_URL", "NOTIFY_WEBHOOK_TIMEOUT_SECONDS",
		"SCHEDULER_ENABLED", "REMINDER_HOUR_UTC",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("ORDER_NUMBER_PREFIX", "JDI")
	viper.SetDefault("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", 5)
	viper.SetDefault("REMINDER_HOUR_UTC", 6)
	viper.SetDefault("DB_CACHE_RESET", -1)

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"orderPrefix", config.OrderNumberPrefix,
	)
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if len(config.JWTSecret) < 32 {
		return log.ErrMsg("Fatal error: JWT_SECRET must be at least 32 characters")
	}

	if !orderPrefixPattern.MatchString(config.OrderNumberPrefix) {
		return log.Error(
			"Fatal error: ORDER_NUMBER_PREFIX must be 2-8 uppercase letters",
			"prefix", config.OrderNumberPrefix,
		)
	}

	if config.ReminderHourUTC < 0 || config.ReminderHourUTC > 23 {
		return log.Error(
			"Fatal error: REMINDER_HOUR_UTC must be between 0 and 23",
			"hour", config.ReminderHourUTC,
		)
	}

	if config.NotifyWebhookURL != "" && config.NotifyWebhookTimeoutSecond <= 0 {
		return log.ErrMsg(
			"Fatal error: NOTIFY_WEBHOOK_TIMEOUT_SECONDS required when NOTIFY_WEBHOOK_URL is set",
		)
	}

	ConfigInstance = config
	return nil
}
