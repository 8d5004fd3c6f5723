package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DBDSN       string
	CORSOrigins []string

	InitialAdminEmail    string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	Google   GoogleConfig
	Payments PaymentsConfig
	SMTP     SMTPConfig
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

func (g GoogleConfig) Enabled() bool { return g.ClientID != "" && g.ClientSecret != "" }

type PaymentsConfig struct {
	// Provider is "stripe" or "mock".
	Provider            string
	Currency            string
	StripeAPIKey        string
	StripeWebhookSecret string
	MockWebhookSecret   string
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // none|starttls|tls
	SkipVerifyTLS bool
	From          string
	FromName      string
}

func (s SMTPConfig) Enabled() bool { return s.Host != "" && s.From != "" }

func (c Config) IsProduction() bool { return c.Environment == "production" }

// Load reads configuration from the process environment. Callers load .env
// files beforehand.
func Load() (Config, error) {
	cfg := Config{
		Port:        envOr("PORT", "8080"),
		Environment: envOr("ENVIRONMENT", "development"),
		DBDSN:       os.Getenv("DB_DSN"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),

		InitialAdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("INITIAL_ADMIN_EMAIL"))),
		SessionTTL:           durationOr("SESSION_TTL", 7*24*time.Hour),
		SessionSweepInterval: durationOr("SESSION_SWEEP_INTERVAL", 15*time.Minute),

		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		},
		Payments: PaymentsConfig{
			Provider:            envOr("PAYMENT_PROVIDER", "stripe"),
			Currency:            strings.ToLower(envOr("PAYMENT_CURRENCY", "usd")),
			StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
			StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			MockWebhookSecret:   os.Getenv("MOCK_WEBHOOK_SECRET"),
		},
		SMTP: SMTPConfig{
			Host:          os.Getenv("SMTP_HOST"),
			Port:          envOr("SMTP_PORT", "1025"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       envOr("SMTP_TLS_MODE", "none"),
			SkipVerifyTLS: boolOr("SMTP_SKIP_VERIFY_TLS", false),
			From:          os.Getenv("MAIL_FROM"),
			FromName:      envOr("MAIL_FROM_NAME", "FundEd"),
		},
	}

	if cfg.DBDSN == "" {
		return Config{}, errors.New("DB_DSN environment variable is required")
	}
	if cfg.Payments.Provider != "stripe" && cfg.Payments.Provider != "mock" {
		return Config{}, errors.New("PAYMENT_PROVIDER must be stripe or mock")
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationOr(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func boolOr(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
