package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	MetricsAddr  string // optional private listener for Prometheus scrapes
	DBPath       string
	CSRFKey      []byte
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool

	TemplatesDir string
	StaticDir    string
	ContentPath  string

	// Admin sign-in
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	GitHubAPIURL       string
	AdminGitHubLogin   string

	// Lead relay
	LeadWebhookURL  string
	SendGridAPIKey  string
	SendGridBaseURL string
	LeadNotifyEmail string
	MailFromEmail   string
	MailFromName    string
	OutboundTimeout time.Duration

	BlockedCountries []string
	GeoCountryHeader string

	HourlyRate float64
}

// LoadConfig reads the environment, after loading an optional .env file
// from the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8585"),
		MetricsAddr:  getEnv("METRICS_ADDR", ""),
		DBPath:       getEnv("DB_PATH", "./harborform.db"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",

		TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),
		StaticDir:    getEnv("STATIC_DIR", "static"),
		ContentPath:  getEnv("CONTENT_PATH", "content/site.yaml"),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubCallbackURL:  getEnv("GITHUB_CALLBACK_URL", "http://localhost:8585/auth/github/callback"),
		GitHubAPIURL:       getEnv("GITHUB_API_URL", "https://api.github.com"),
		AdminGitHubLogin:   getEnv("ADMIN_GITHUB_LOGIN", ""),

		LeadWebhookURL:  getEnv("LEAD_WEBHOOK_URL", ""),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		SendGridBaseURL: getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
		LeadNotifyEmail: getEnv("LEAD_NOTIFY_EMAIL", ""),
		MailFromEmail:   getEnv("MAIL_FROM_EMAIL", "hello@harbordigital.co"),
		MailFromName:    getEnv("MAIL_FROM_NAME", "Harbor Digital"),

		BlockedCountries: parseList(getEnv("BLOCKED_COUNTRIES", "CN,RU,KP,IR")),
		GeoCountryHeader: getEnv("GEO_COUNTRY_HEADER", "CF-IPCountry"),
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	timeout, err := time.ParseDuration(getEnv("OUTBOUND_TIMEOUT", "30s"))
	if err != nil || timeout < 0 {
		slog.Warn("Invalid OUTBOUND_TIMEOUT. Falling back to 30s.", "OUTBOUND_TIMEOUT", os.Getenv("OUTBOUND_TIMEOUT"))
		timeout = 30 * time.Second
	}
	cfg.OutboundTimeout = timeout

	rate, err := strconv.ParseFloat(getEnv("HOURLY_RATE", "100"), 64)
	if err != nil || rate < 0 {
		slog.Warn("Invalid HOURLY_RATE. Falling back to 100.", "HOURLY_RATE", os.Getenv("HOURLY_RATE"))
		rate = 100
	}
	cfg.HourlyRate = rate

	if cfg.AdminGitHubLogin == "" {
		slog.Warn("ADMIN_GITHUB_LOGIN not set. Nobody will be able to sign in to /admin.")
	}

	return cfg, nil
}

// EmailEnabled reports whether lead notifications can be sent.
func (c *Config) EmailEnabled() bool {
	return c.SendGridAPIKey != "" && c.LeadNotifyEmail != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadKey decodes a base64 secret of at least 32 bytes, or falls back to a
// random key that will not survive a restart.
func loadKey(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		// Only to avoid a panic; never fit for production.
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		paddedKey := make([]byte, n)
		copy(paddedKey, fallbackKey)
		return paddedKey
	}
	return b
}
