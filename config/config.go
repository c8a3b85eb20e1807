package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the validated process configuration. Every field maps to an
// environment variable of the same name as its mapstructure tag.
type Config struct {
	SupabaseURL            string `mapstructure:"SUPABASE_URL" validate:"required,url"`
	SupabasePublishableKey string `mapstructure:"SUPABASE_PUBLISHABLE_KEY" validate:"required"`
	SupabaseSecretKey      string `mapstructure:"SUPABASE_SECRET_KEY"`

	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required,url"`
	DirectURL   string `mapstructure:"DIRECT_URL" validate:"omitempty,url"`

	AppName string `mapstructure:"APP_NAME" validate:"required"`
	AppURL  string `mapstructure:"APP_URL" validate:"required,url"`
	AppEnv  string `mapstructure:"APP_ENV" validate:"oneof=development production test"`
	Port    string `mapstructure:"PORT" validate:"required,numeric"`

	MailTransport string `mapstructure:"MAIL_TRANSPORT" validate:"oneof=resend smtp"`
	ResendAPIKey  string `mapstructure:"RESEND_API_KEY" validate:"required_if=MailTransport resend"`
	SMTPHost      string `mapstructure:"SMTP_HOST" validate:"required_if=MailTransport smtp"`
	SMTPPort      string `mapstructure:"SMTP_PORT" validate:"omitempty,numeric"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom     string `mapstructure:"EMAIL_FROM" validate:"required"`
	ContactEmail  string `mapstructure:"CONTACT_EMAIL" validate:"required,email"`

	SlackWebhookURL string `mapstructure:"SLACK_WEBHOOK_URL" validate:"omitempty,url"`

	BenchmarkAPIBaseURL string `mapstructure:"BENCHMARK_API_BASE_URL" validate:"required,url"`

	ContentDir        string `mapstructure:"CONTENT_DIR" validate:"required"`
	PublicDir         string `mapstructure:"PUBLIC_DIR" validate:"required"`
	SessionSecret     string `mapstructure:"SESSION_SECRET" validate:"required,min=16"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`
	LogLevel          string `mapstructure:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

var defaults = map[string]string{
	"APP_NAME":               "GT Abhishek",
	"APP_URL":                "https://gtabhishek.com",
	"APP_ENV":                EnvDevelopment,
	"PORT":                   "8080",
	"MAIL_TRANSPORT":         "resend",
	"SMTP_PORT":              "587",
	"EMAIL_FROM":             "GT Abhishek <hello@gtabhishek.com>",
	"BENCHMARK_API_BASE_URL": "https://ai-trigger.gtabhishek.com",
	"CONTENT_DIR":            "content",
	"PUBLIC_DIR":             "public",
	"LOG_LEVEL":              "info",
}

// Load reads .env (if present), an optional config file and the process
// environment, then validates the result. Environment variables win over
// the file.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	for _, key := range keys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field rule and reports all failures at once.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Errorf("%s: failed %q rule", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(problems...))
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// BaseURL is AppURL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimSuffix(c.AppURL, "/")
}

func keys() []string {
	t := reflect.TypeOf(Config{})
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
