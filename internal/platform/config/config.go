package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	LogLevel      string

	// CurrencyPrecision is the number of decimal places of the minor unit (2 for cents, 0 for XOF).
	CurrencyPrecision int32
	// PointValueMinor is the value of one loyalty point in minor units.
	PointValueMinor int64

	KafkaBrokers []string
	PayrollTopic string

	RateLimit          string
	CORSAllowedOrigins []string
	MigrationsPath     string

	// DiscrepancyApprovers seeds the in-memory permission set when no database is configured.
	DiscrepancyApprovers []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CURRENCY_PRECISION", 2)
	v.SetDefault("POINT_VALUE_MINOR", 1)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("PAYROLL_TOPIC", "pos.payroll.deductions")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("DISCREPANCY_APPROVERS", "")
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		CurrencyPrecision:  v.GetInt32("CURRENCY_PRECISION"),
		PointValueMinor:    v.GetInt64("POINT_VALUE_MINOR"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		PayrollTopic:       v.GetString("PAYROLL_TOPIC"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),

		DiscrepancyApprovers: splitList(v.GetString("DISCREPANCY_APPROVERS")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Falling back to the in-memory store.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.CurrencyPrecision < 0 || cfg.CurrencyPrecision > 6 {
		log.Printf("Warning: Invalid value for CURRENCY_PRECISION (%d). Defaulting to 2.\n", cfg.CurrencyPrecision)
		cfg.CurrencyPrecision = 2
	}
	if cfg.PointValueMinor <= 0 {
		log.Printf("Warning: Invalid value for POINT_VALUE_MINOR (%d). Defaulting to 1.\n", cfg.PointValueMinor)
		cfg.PointValueMinor = 1
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: KAFKA_BROKERS not set. Payroll deductions will only be stored locally.")
	}

	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
