package utils

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	QueueDB  int
}

type GatewayConfig struct {
	BaseURL        string
	KeyID          string
	KeySecret      string
	WebhookSecret  string
	TimeoutSeconds int
}

// PolicyConfig is the per-kind validation policy for booking intents.
// Weekdays use Go's time.Weekday names, blackout dates are YYYY-MM-DD.
type PolicyConfig struct {
	HorizonDays      int
	MaxOccupants     int
	MaxUnits         int
	ExcludedWeekdays []string
	BlackoutDates    []string
	AllowDeferred    bool
}

type BookingConfig struct {
	PendingTTLMinutes int
	CommitRetries     int
	CommitBackoffMS   int
	Visit             PolicyConfig
	Stay              PolicyConfig
	Subscription      PolicyConfig
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("PENDING_TTL_MINUTES", 30)
	viper.SetDefault("COMMIT_RETRIES", 3)
	viper.SetDefault("COMMIT_BACKOFF_MS", 200)
	viper.SetDefault("VISIT_HORIZON_DAYS", 14)
	viper.SetDefault("VISIT_MAX_OCCUPANTS", 3)
	viper.SetDefault("VISIT_MAX_UNITS", 1)
	viper.SetDefault("STAY_HORIZON_DAYS", 90)
	viper.SetDefault("STAY_MAX_OCCUPANTS", 6)
	viper.SetDefault("STAY_MAX_UNITS", 30)
	viper.SetDefault("STAY_ALLOW_DEFERRED", true)
	viper.SetDefault("SUBSCRIPTION_HORIZON_DAYS", 30)
	viper.SetDefault("SUBSCRIPTION_MAX_OCCUPANTS", 1)
	viper.SetDefault("SUBSCRIPTION_MAX_UNITS", 12)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
			QueueDB:  viper.GetInt("REDIS_QUEUE_DB"),
		},
		Gateway: GatewayConfig{
			BaseURL:        viper.GetString("GATEWAY_BASE_URL"),
			KeyID:          viper.GetString("GATEWAY_KEY_ID"),
			KeySecret:      viper.GetString("GATEWAY_KEY_SECRET"),
			WebhookSecret:  viper.GetString("GATEWAY_WEBHOOK_SECRET"),
			TimeoutSeconds: viper.GetInt("GATEWAY_TIMEOUT_SECONDS"),
		},
		Booking: BookingConfig{
			PendingTTLMinutes: viper.GetInt("PENDING_TTL_MINUTES"),
			CommitRetries:     viper.GetInt("COMMIT_RETRIES"),
			CommitBackoffMS:   viper.GetInt("COMMIT_BACKOFF_MS"),
			Visit:             loadPolicy("VISIT"),
			Stay:              loadPolicy("STAY"),
			Subscription:      loadPolicy("SUBSCRIPTION"),
		},
	}

	return config, nil
}

func loadPolicy(prefix string) PolicyConfig {
	return PolicyConfig{
		HorizonDays:      viper.GetInt(prefix + "_HORIZON_DAYS"),
		MaxOccupants:     viper.GetInt(prefix + "_MAX_OCCUPANTS"),
		MaxUnits:         viper.GetInt(prefix + "_MAX_UNITS"),
		ExcludedWeekdays: splitList(viper.GetString(prefix + "_EXCLUDED_WEEKDAYS")),
		BlackoutDates:    splitList(viper.GetString(prefix + "_BLACKOUT_DATES")),
		AllowDeferred:    viper.GetBool(prefix + "_ALLOW_DEFERRED"),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
