package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion        string `mapstructure:"GENERAL_VERSION"`
	Environment           string `mapstructure:"ENVIRONMENT"`
	ServerPort            int    `mapstructure:"SERVER_PORT"`
	DatabaseHost          string `mapstructure:"DB_HOST"`
	DatabasePort          int    `mapstructure:"DB_PORT"`
	DatabaseName          string `mapstructure:"DB_NAME"`
	DatabaseUser          string `mapstructure:"DB_USER"`
	DatabasePassword      string `mapstructure:"DB_PASSWORD"`
	DatabaseSSLMode       string `mapstructure:"DB_SSL_MODE"`
	DatabaseMaxOpenConns  int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DatabaseCacheAddress  string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort     int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset    int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins      string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SecurityJWTSecret     string `mapstructure:"SECURITY_JWT_SECRET"`
	SecurityTokenTTLHours int    `mapstructure:"SECURITY_TOKEN_TTL_HOURS"`
	StorageEndpoint       string `mapstructure:"STORAGE_ENDPOINT"`
	StorageAccessKey      string `mapstructure:"STORAGE_ACCESS_KEY"`
	StorageSecretKey      string `mapstructure:"STORAGE_SECRET_KEY"`
	StorageBucket         string `mapstructure:"STORAGE_BUCKET"`
	StorageUseSSL         bool   `mapstructure:"STORAGE_USE_SSL"`
	StorageURLTTLMinutes  int    `mapstructure:"STORAGE_URL_TTL_MINUTES"`
	AIAPIURL              string `mapstructure:"AI_API_URL"`
	AIAPIKey              string `mapstructure:"AI_API_KEY"`
	AIModel               string `mapstructure:"AI_MODEL"`
	PlacesAPIURL          string `mapstructure:"PLACES_API_URL"`
	PlacesAPIKey          string `mapstructure:"PLACES_API_KEY"`
	PlacesCountry         string `mapstructure:"PLACES_COUNTRY"`
	SchedulerEnabled      bool   `mapstructure:"SCHEDULER_ENABLED"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_SSL_MODE", "DB_MAX_OPEN_CONNS",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"SECURITY_JWT_SECRET", "SECURITY_TOKEN_TTL_HOURS",
	"STORAGE_ENDPOINT", "STORAGE_ACCESS_KEY", "STORAGE_SECRET_KEY", "STORAGE_BUCKET",
	"STORAGE_USE_SSL", "STORAGE_URL_TTL_MINUTES",
	"AI_API_URL", "AI_API_KEY", "AI_MODEL",
	"PLACES_API_URL", "PLACES_API_KEY", "PLACES_COUNTRY",
	"SCHEDULER_ENABLED",
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()
	setDefaults()

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

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
		"schedulerEnabled", config.SchedulerEnabled,
	)

	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("SECURITY_TOKEN_TTL_HOURS", 24*7)
	viper.SetDefault("STORAGE_BUCKET", "maidhub")
	viper.SetDefault("STORAGE_URL_TTL_MINUTES", 60)
	viper.SetDefault("AI_MODEL", "gpt-4o-mini")
	viper.SetDefault("PLACES_COUNTRY", "hr")
	viper.SetDefault("SCHEDULER_ENABLED", true)
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.SecurityJWTSecret == "" {
		return log.ErrMsg("Fatal error: SECURITY_JWT_SECRET is required")
	}

	if len(config.SecurityJWTSecret) < 32 && config.Environment == "production" {
		return log.ErrMsg("Fatal error: SECURITY_JWT_SECRET must be at least 32 characters in production")
	}

	if config.SecurityTokenTTLHours <= 0 {
		return log.Error(
			"Fatal error: invalid token ttl",
			"hours", config.SecurityTokenTTLHours,
		)
	}

	if config.StorageEndpoint != "" && (config.StorageAccessKey == "" || config.StorageSecretKey == "") {
		return log.ErrMsg(
			"Fatal error: STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY required when STORAGE_ENDPOINT is set",
		)
	}

	ConfigInstance = config
	return nil
}
