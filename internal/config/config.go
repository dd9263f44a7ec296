// AngelaMos | 2026
// config.go

package config

import (
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Session   SessionConfig   `koanf:"session"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Site      SiteConfig      `koanf:"site"`
	EmailJS   EmailJSConfig   `koanf:"emailjs"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig points at the external scheduling API that owns all
// employee, schedule, shift and billing data.
type APIConfig struct {
	BaseURL      string        `koanf:"base_url"`
	Timeout      time.Duration `koanf:"timeout"`
	TunnelBypass bool          `koanf:"tunnel_bypass"`
}

type SessionConfig struct {
	CookieName   string        `koanf:"cookie_name"`
	CookieSecret string        `koanf:"cookie_secret"`
	TTL          time.Duration `koanf:"ttl"`
	Secure       bool          `koanf:"secure"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type RateLimitConfig struct {
	Requests        int           `koanf:"requests"`
	Window          time.Duration `koanf:"window"`
	Burst           int           `koanf:"burst"`
	FeedbackPerHour int           `koanf:"feedback_per_hour"`
	FeedbackBurst   int           `koanf:"feedback_burst"`
}

// SiteConfig drives canonical URLs, sitemap entries and social meta.
type SiteConfig struct {
	Name        string `koanf:"name"`
	BaseURL     string `koanf:"base_url"`
	Description string `koanf:"description"`
	Twitter     string `koanf:"twitter"`
	Instagram   string `koanf:"instagram"`
}

type EmailJSConfig struct {
	Endpoint   string `koanf:"endpoint"`
	ServiceID  string `koanf:"service_id"`
	TemplateID string `koanf:"template_id"`
	APIKey     string `koanf:"api_key"`
}

type AnalyticsConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Endpoint      string `koanf:"endpoint"`
	MeasurementID string `koanf:"measurement_id"`
	APISecret     string `koanf:"api_secret"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		k := koanf.New(".")

		if err := loadDefaults(k); err != nil {
			loadErr = fmt.Errorf("load defaults: %w", err)
			return
		}

		if configPath != "" {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				loadErr = fmt.Errorf("load config file: %w", err)
				return
			}
		}

		if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
			loadErr = fmt.Errorf("load env vars: %w", err)
			return
		}

		cfg = &Config{}
		if err := k.Unmarshal("", cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err := validate(cfg); err != nil {
			loadErr = fmt.Errorf("validate config: %w", err)
			return
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "EscalaPronta Web",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"api.base_url":      "http://localhost:3000",
		"api.timeout":       "30s",
		"api.tunnel_bypass": true,

		"session.cookie_name": "escalapronta_session",
		"session.ttl":         "168h",
		"session.secure":      false,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"rate_limit.requests":          300,
		"rate_limit.window":            "1m",
		"rate_limit.burst":             50,
		"rate_limit.feedback_per_hour": 20,
		"rate_limit.feedback_burst":    5,

		"site.name":        "EscalaPronta",
		"site.base_url":    "https://escalapronta.com.br",
		"site.description": "Gere automaticamente a escala semanal da sua equipe em segundos. Sem planilhas, sem dor de cabeça.",
		"site.twitter":     "https://twitter.com/escalapronta",
		"site.instagram":   "https://instagram.com/escalapronta",

		"emailjs.endpoint": "https://api.emailjs.com/api/v1.0/email/send",

		"analytics.enabled":  false,
		"analytics.endpoint": "https://www.google-analytics.com/mp/collect",

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "escalapronta-web",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"API_BASE_URL":                "api.base_url",
	"API_TIMEOUT":                 "api.timeout",
	"API_TUNNEL_BYPASS":           "api.tunnel_bypass",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"SESSION_COOKIE_SECRET":       "session.cookie_secret",
	"SESSION_TTL":                 "session.ttl",
	"SESSION_SECURE":              "session.secure",
	"SITE_BASE_URL":               "site.base_url",
	"EMAILJS_SERVICE_ID":          "emailjs.service_id",
	"EMAILJS_TEMPLATE_ID":         "emailjs.template_id",
	"EMAILJS_API_KEY":             "emailjs.api_key",
	"GA_MEASUREMENT_ID":           "analytics.measurement_id",
	"GA_API_SECRET":               "analytics.api_secret",
	"GA_ENABLED":                  "analytics.enabled",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Session.CookieSecret == "" {
		return fmt.Errorf("SESSION_COOKIE_SECRET is required")
	}

	if _, err := c.Session.SecretKey(); err != nil {
		return err
	}

	if c.App.Environment == "production" {
		if !c.Session.Secure {
			return fmt.Errorf("SESSION_SECURE must be true in production")
		}
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	return nil
}

// SecretKey decodes the cookie secret into the 32-byte key the cookie
// sealer expects.
func (s *SessionConfig) SecretKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s.CookieSecret)
	if err != nil {
		return nil, fmt.Errorf("SESSION_COOKIE_SECRET must be base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf(
			"SESSION_COOKIE_SECRET must decode to 32 bytes, got %d",
			len(key),
		)
	}
	return key, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
