package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port             string
	DBConn           string
	LogLevel         string
	JWTSecret        string
	TokenTTL         time.Duration
	ECBURL           string
	RatesCacheTTL    time.Duration
	BaseCurrency     string
	HMACSecret       string
	EncryptionKey    []byte
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SenderEmail      string
	ReminderSchedule string
	RunMigrations    bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_conn", "host=localhost port=5436 user=test password=test dbname=finance sslmode=disable")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("jwt_secret", "secret")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("ecb_url", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml")
	v.SetDefault("rates_cache_ttl", "1h")
	v.SetDefault("base_currency", "EUR")
	v.SetDefault("hmac_secret", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6")
	v.SetDefault("encryption_key", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6")
	v.SetDefault("smtp_host", "localhost")
	v.SetDefault("smtp_port", "25")
	v.SetDefault("smtp_username", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("sender_email", "noreply@finance.local")
	v.SetDefault("reminder_schedule", "0 9 1 * *")
	v.SetDefault("run_migrations", true)
}

// NewConfig loads configuration from an optional .env file and environment variables
func NewConfig() (*Config, error) {
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	defaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	cfg := &Config{
		Port:             v.GetString("port"),
		DBConn:           v.GetString("db_conn"),
		LogLevel:         v.GetString("log_level"),
		JWTSecret:        v.GetString("jwt_secret"),
		TokenTTL:         v.GetDuration("token_ttl"),
		ECBURL:           v.GetString("ecb_url"),
		RatesCacheTTL:    v.GetDuration("rates_cache_ttl"),
		BaseCurrency:     strings.ToUpper(v.GetString("base_currency")),
		HMACSecret:       v.GetString("hmac_secret"),
		SMTPHost:         v.GetString("smtp_host"),
		SMTPPort:         v.GetString("smtp_port"),
		SMTPUsername:     v.GetString("smtp_username"),
		SMTPPassword:     v.GetString("smtp_password"),
		SenderEmail:      v.GetString("sender_email"),
		ReminderSchedule: v.GetString("reminder_schedule"),
		RunMigrations:    v.GetBool("run_migrations"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("HMAC_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration")
	}

	key, err := hex.DecodeString(v.GetString("encryption_key"))
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 16, 24 or 32 bytes, got %d", len(key))
	}
	cfg.EncryptionKey = key

	return cfg, nil
}
