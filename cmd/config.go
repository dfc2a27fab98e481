package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string
	AppEnv   string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisURL       string
	IdempotencyTTL time.Duration

	KafkaBrokers          []string
	KafkaOrderEventsTopic string

	Timezone                string
	BulkDeliveryFeeDiscount decimal.Decimal
	BulkDeliveryLeadTime    time.Duration
	AssignmentSweepSchedule string
	AssignmentMaxAttempts   int
	JoinMaxAttempts         int
}

var defaults = map[string]any{
	"HTTP_PORT":                  "8080",
	"APP_ENV":                    "development",
	"LOG_LEVEL":                  "info",
	"DB_HOST":                    "localhost",
	"DB_PORT":                    "5432",
	"DB_USER":                    "postgres",
	"DB_PASSWORD":                "",
	"DB_NAME":                    "kirana",
	"DB_SSLMODE":                 "disable",
	"REDIS_URL":                  "redis://localhost:6379/0",
	"IDEMPOTENCY_TTL":            "24h",
	"KAFKA_BROKERS":              "",
	"KAFKA_ORDER_EVENTS_TOPIC":   "kirana.order-events",
	"TIMEZONE":                   "Asia/Kolkata",
	"BULK_DELIVERY_FEE_DISCOUNT": "20.00",
	"BULK_DELIVERY_LEAD_TIME":    "2h",
	"ASSIGNMENT_SWEEP_SCHEDULE":  "*/30 * * * * *",
	"ASSIGNMENT_MAX_ATTEMPTS":    3,
	"JOIN_MAX_ATTEMPTS":          5,
}

// LoadConfig reads envFile when it exists, then the process environment,
// which wins over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	discount, err := decimal.NewFromString(v.GetString("BULK_DELIVERY_FEE_DISCOUNT"))
	if err != nil {
		return Config{}, fmt.Errorf("BULK_DELIVERY_FEE_DISCOUNT: %w", err)
	}

	cfg := Config{
		HTTPPort:                v.GetString("HTTP_PORT"),
		AppEnv:                  v.GetString("APP_ENV"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		DBHost:                  v.GetString("DB_HOST"),
		DBPort:                  v.GetString("DB_PORT"),
		DBUser:                  v.GetString("DB_USER"),
		DBPassword:              v.GetString("DB_PASSWORD"),
		DBName:                  v.GetString("DB_NAME"),
		DBSslMode:               v.GetString("DB_SSLMODE"),
		RedisURL:                v.GetString("REDIS_URL"),
		IdempotencyTTL:          v.GetDuration("IDEMPOTENCY_TTL"),
		KafkaBrokers:            splitList(v.GetString("KAFKA_BROKERS")),
		KafkaOrderEventsTopic:   v.GetString("KAFKA_ORDER_EVENTS_TOPIC"),
		Timezone:                v.GetString("TIMEZONE"),
		BulkDeliveryFeeDiscount: discount,
		BulkDeliveryLeadTime:    v.GetDuration("BULK_DELIVERY_LEAD_TIME"),
		AssignmentSweepSchedule: v.GetString("ASSIGNMENT_SWEEP_SCHEDULE"),
		AssignmentMaxAttempts:   v.GetInt("ASSIGNMENT_MAX_ATTEMPTS"),
		JoinMaxAttempts:         v.GetInt("JOIN_MAX_ATTEMPTS"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errList []error
	if c.IdempotencyTTL <= 0 {
		errList = append(errList, errors.New("IDEMPOTENCY_TTL must be a positive duration"))
	}
	if c.BulkDeliveryLeadTime < 0 {
		errList = append(errList, errors.New("BULK_DELIVERY_LEAD_TIME must not be negative"))
	}
	if c.BulkDeliveryFeeDiscount.IsNegative() {
		errList = append(errList, errors.New("BULK_DELIVERY_FEE_DISCOUNT must not be negative"))
	}
	if c.AssignmentMaxAttempts < 1 {
		errList = append(errList, errors.New("ASSIGNMENT_MAX_ATTEMPTS must be at least 1"))
	}
	if c.JoinMaxAttempts < 1 {
		errList = append(errList, errors.New("JOIN_MAX_ATTEMPTS must be at least 1"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errList = append(errList, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(errList...)
}

// DSN is the PostgreSQL connection string. Every value is quoted so an
// empty or spaced value does not swallow the next keyword.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		quoteDSN(c.DBHost), quoteDSN(c.DBPort), quoteDSN(c.DBUser),
		quoteDSN(c.DBPassword), quoteDSN(c.DBName), quoteDSN(c.DBSslMode))
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSN(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// Location is the time zone ordering windows and bulk order dates use.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
