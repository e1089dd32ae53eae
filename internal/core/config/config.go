package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// PublicBaseURL is the externally visible origin used to build share links.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL" default:"http://localhost:3000"`

	// Redis holds the session store configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// RabbitMQ holds the event broker configuration.
	RabbitMQ RabbitMQConfig `mapstructure:",squash"`

	// Payment holds the payment capture configuration.
	Payment PaymentConfig `mapstructure:",squash"`

	// Booking holds the booking lifecycle configuration.
	Booking BookingConfig `mapstructure:",squash"`

	// Mail holds the confirmation email configuration.
	Mail MailConfig `mapstructure:",squash"`

	// Renderer holds the PDF export configuration.
	Renderer RendererConfig `mapstructure:",squash"`
}

// RedisConfig holds the session-scoped storage settings.
type RedisConfig struct {
	// URL is the Redis connection URL (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"REDIS_URL" required:"true"`
	// CartTTL is the sliding expiration of a session cart.
	CartTTL string `mapstructure:"CART_TTL" default:"24h"`
	// DraftTTL is the expiration of a staged booking draft and wizard state.
	DraftTTL string `mapstructure:"DRAFT_TTL" default:"30m"`
	// TrimTTL is the expiration of a trim editor session.
	TrimTTL string `mapstructure:"TRIM_TTL" default:"2h"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// DSN is the PostgreSQL connection string.
	DSN string `mapstructure:"DATABASE_DSN" required:"true"`
	// RunMigrations applies embedded migrations at startup.
	RunMigrations bool `mapstructure:"RUN_MIGRATIONS" default:"true"`
}

// RabbitMQConfig holds the broker connection details.
type RabbitMQConfig struct {
	// URL is the AMQP URL. Event publishing is disabled when empty.
	URL string `mapstructure:"RABBITMQ_URL"`
}

// PaymentConfig holds the payment authorization settings.
type PaymentConfig struct {
	// GatewayURL is the remote authorization endpoint. The simulated gateway is used when empty.
	GatewayURL string `mapstructure:"PAYMENT_GATEWAY_URL"`
	// Timeout bounds a single authorization call.
	Timeout string `mapstructure:"PAYMENT_TIMEOUT" default:"10s"`
	// Latency is the artificial delay of the simulated gateway.
	Latency string `mapstructure:"PAYMENT_LATENCY" default:"2s"`
	// Currency is the ISO currency code charged.
	Currency string `mapstructure:"PAYMENT_CURRENCY" default:"USD"`
}

// BookingConfig holds the cancellation policy applied to new bookings.
type BookingConfig struct {
	// CancellationFee is the flat fee withheld from refunds.
	CancellationFee string `mapstructure:"CANCELLATION_FEE" default:"5.00"`
	// CancellationPolicy is shown verbatim to the guest.
	CancellationPolicy string `mapstructure:"CANCELLATION_POLICY" default:"Free cancellation up to 24 hours before check-in. A cancellation fee applies to all cancellations."`
	// CancellationLatency is the processing delay of a cancellation.
	CancellationLatency string `mapstructure:"CANCELLATION_LATENCY" default:"1500ms"`
}

// MailConfig holds SendGrid credentials. Emails are skipped when APIKey is empty.
type MailConfig struct {
	// APIKey is the SendGrid API key.
	APIKey string `mapstructure:"SENDGRID_API_KEY"`
	// From is the sender address of confirmation emails.
	From string `mapstructure:"MAIL_FROM" default:"bookings@example.com"`
}

// RendererConfig holds headless browser settings for PDF export.
type RendererConfig struct {
	// BrowserBin overrides the Chromium binary; empty lets rod download or locate one.
	BrowserBin string `mapstructure:"BROWSER_BIN"`
	// Timeout bounds a single PDF render.
	Timeout string `mapstructure:"RENDER_TIMEOUT" default:"30s"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := validateDurations(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Duration parses a duration setting, falling back when it is empty or malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// validateDurations rejects malformed duration strings early instead of silently using fallbacks.
func validateDurations(cfg *AppConfig) error {
	durations := map[string]string{
		"CART_TTL":             cfg.Redis.CartTTL,
		"DRAFT_TTL":            cfg.Redis.DraftTTL,
		"TRIM_TTL":             cfg.Redis.TrimTTL,
		"PAYMENT_TIMEOUT":      cfg.Payment.Timeout,
		"PAYMENT_LATENCY":      cfg.Payment.Latency,
		"CANCELLATION_LATENCY": cfg.Booking.CancellationLatency,
		"RENDER_TIMEOUT":       cfg.Renderer.Timeout,
	}
	for key, value := range durations {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
