// Package config loads the runtime configuration of the server from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	envFile = ".env"

	MailTransportSMTP    = "smtp"
	MailTransportMailgun = "mailgun"
)

type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	ServiceName string `mapstructure:"SERVICE_NAME"`

	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RunMigrations bool   `mapstructure:"RUN_MIGRATIONS"`
	RedisURL      string `mapstructure:"REDIS_URL"`

	AuthKey       string `mapstructure:"AUTH_KEY"`
	ActivationKey string `mapstructure:"ACTIVATION_KEY"`

	FrontendURL            string `mapstructure:"FRONTEND_URL"`
	SessionCookieName      string `mapstructure:"SESSION_COOKIE_NAME"`
	CookieSecure           bool   `mapstructure:"COOKIE_SECURE"`
	CreatedAtOffsetMinutes int    `mapstructure:"CREATED_AT_OFFSET_MINUTES"`

	MailTransport       string `mapstructure:"MAIL_TRANSPORT"`
	MailFrom            string `mapstructure:"MAIL_FROM"`
	Email               string `mapstructure:"EMAIL"`
	AppPassword         string `mapstructure:"APP_PASSWORD"`
	SMTPHost            string `mapstructure:"SMTP_HOST"`
	SMTPPort            int    `mapstructure:"SMTP_PORT"`
	SMTPRequireTLS      bool   `mapstructure:"SMTP_REQUIRE_TLS"`
	MailgunDomain       string `mapstructure:"MAILGUN_DOMAIN"`
	MailgunAPIKey       string `mapstructure:"MAILGUN_API_KEY"`
	MailgunAPIBase      string `mapstructure:"MAILGUN_API_BASE"`
	EmailValidationType string `mapstructure:"EMAIL_VALIDATION_TYPE"`

	MetricsPort int `mapstructure:"METRICS_PORT"`
}

var keys = []string{
	"ENVIRONMENT", "PORT", "LOG_LEVEL", "SERVICE_NAME",
	"DATABASE_URL", "RUN_MIGRATIONS", "REDIS_URL",
	"AUTH_KEY", "ACTIVATION_KEY",
	"FRONTEND_URL", "SESSION_COOKIE_NAME", "COOKIE_SECURE", "CREATED_AT_OFFSET_MINUTES",
	"MAIL_TRANSPORT", "MAIL_FROM", "EMAIL", "APP_PASSWORD", "SMTP_HOST", "SMTP_PORT", "SMTP_REQUIRE_TLS",
	"MAILGUN_DOMAIN", "MAILGUN_API_KEY", "MAILGUN_API_BASE", "EMAIL_VALIDATION_TYPE",
	"METRICS_PORT",
}

// Load reads the optional .env file and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s file: %w", envFile, err)
		}
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, AutomaticEnv alone is not enough.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "3002")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("SERVICE_NAME", "url-shrinker")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("FRONTEND_URL", "https://urlshrinker.netlify.app")
	v.SetDefault("SESSION_COOKIE_NAME", "shrinker_session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CREATED_AT_OFFSET_MINUTES", 330)
	v.SetDefault("MAIL_TRANSPORT", MailTransportSMTP)
	v.SetDefault("MAIL_FROM", "Do Not Reply <do-not-reply@gmail.com>")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_REQUIRE_TLS", true)
	v.SetDefault("MAILGUN_API_BASE", "https://api.mailgun.net/v3")
	v.SetDefault("EMAIL_VALIDATION_TYPE", "regex")
	v.SetDefault("METRICS_PORT", 9090)
}

// Validate checks that every setting the server cannot start without is present.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.AuthKey == "" {
		errs = append(errs, errors.New("AUTH_KEY is not set"))
	}
	if c.ActivationKey == "" {
		errs = append(errs, errors.New("ACTIVATION_KEY is not set"))
	}
	if c.AuthKey != "" && c.AuthKey == c.ActivationKey {
		errs = append(errs, errors.New("AUTH_KEY and ACTIVATION_KEY must differ"))
	}
	if c.MailTransport != MailTransportSMTP && c.MailTransport != MailTransportMailgun {
		errs = append(errs, fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport))
	}
	if c.SessionCookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE_NAME is empty"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether outgoing mail is really delivered.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CreatedAtLocation is the fixed offset link creation times are rendered in.
func (c *Config) CreatedAtLocation() *time.Location {
	return time.FixedZone("", c.CreatedAtOffsetMinutes*60)
}
