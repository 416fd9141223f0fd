package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase service account used for FCM and ID token verification.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// SMS gateway.
	SMSURL        string  `mapstructure:"SMS_URL"`
	SMSAPIKey     string  `mapstructure:"SMS_API_KEY"`
	SMSRatePerSec float64 `mapstructure:"SMS_RATE_PER_SEC"`

	// Monitoring cadence, six-field cron specs (with seconds).
	ReminderCheckSpec  string `mapstructure:"REMINDER_CHECK_SPEC"`
	InventoryCheckSpec string `mapstructure:"INVENTORY_CHECK_SPEC"`
	DailyResetSpec     string `mapstructure:"DAILY_RESET_SPEC"`

	// RetryDelaysRaw is the comma separated wait table between push attempts.
	// The last entry is the wait before escalating.
	RetryDelaysRaw string `mapstructure:"RETRY_DELAYS"`
	RetryDelays    []time.Duration

	LowStockThreshold int `mapstructure:"LOW_STOCK_THRESHOLD"`
	ExpiryWarningDays int `mapstructure:"EXPIRY_WARNING_DAYS"`

	WorkerConcurrency int `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	delays, err := ParseRetryDelays(AppConfig.RetryDelaysRaw)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig.RetryDelays = delays
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "reminderx")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "./config/firebase-adminsdk.json")
	viper.SetDefault("SMS_URL", "")
	viper.SetDefault("SMS_API_KEY", "")
	viper.SetDefault("SMS_RATE_PER_SEC", 5)
	viper.SetDefault("REMINDER_CHECK_SPEC", "0 * * * * *")
	viper.SetDefault("INVENTORY_CHECK_SPEC", "*/10 * * * * *")
	viper.SetDefault("DAILY_RESET_SPEC", "0 0 0 * * *")
	viper.SetDefault("RETRY_DELAYS", "5m,3m,2m")
	viper.SetDefault("LOW_STOCK_THRESHOLD", 2)
	viper.SetDefault("EXPIRY_WARNING_DAYS", 7)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
}

// ParseRetryDelays turns "5m,3m,2m" into a delay table. An empty table is rejected.
func ParseRetryDelays(raw string) ([]time.Duration, error) {
	var delays []time.Duration
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, fmt.Errorf("invalid RETRY_DELAYS entry %q: %w", part, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid RETRY_DELAYS entry %q: must be positive", part)
		}
		delays = append(delays, d)
	}
	if len(delays) == 0 {
		return nil, fmt.Errorf("RETRY_DELAYS must contain at least one delay")
	}
	return delays, nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
