package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	SessionTTLMin  int    `mapstructure:"SESSION_TTL_MIN"`

	// Mongo (submission audit trail).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Gemini oracle.
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	OracleTimeoutSec int    `mapstructure:"ORACLE_TIMEOUT_SEC"`

	// Travel backend (validation + submission).
	TravelAPIBaseURL     string `mapstructure:"TRAVEL_API_BASE_URL"`
	TravelAPIUsername    string `mapstructure:"TRAVEL_API_USERNAME"`
	TravelAPIPassword    string `mapstructure:"TRAVEL_API_PASSWORD"`
	ValidationTimeoutSec int    `mapstructure:"VALIDATION_TIMEOUT_SEC"`
	SubmitTimeoutSec     int    `mapstructure:"SUBMIT_TIMEOUT_SEC"`

	// Reference data tables.
	CityTablePath    string `mapstructure:"CITY_TABLE_PATH"`
	PurposeTablePath string `mapstructure:"PURPOSE_TABLE_PATH"`
}

var AppConfig Config

// LoadConfig initializes Viper to load config values from env, file, or defaults.
func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("SESSION_TTL_MIN", 60)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("ORACLE_TIMEOUT_SEC", 30)
	viper.SetDefault("TRAVEL_API_BASE_URL", "")
	viper.SetDefault("TRAVEL_API_USERNAME", "")
	viper.SetDefault("TRAVEL_API_PASSWORD", "")
	viper.SetDefault("VALIDATION_TIMEOUT_SEC", 10)
	viper.SetDefault("SUBMIT_TIMEOUT_SEC", 30)
	viper.SetDefault("CITY_TABLE_PATH", "data/cities.csv")
	viper.SetDefault("PURPOSE_TABLE_PATH", "data/purposes.csv")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
