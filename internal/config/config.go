package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Addr           string
	BackendURL     string
	KeyID          string
	Currency       string
	MerchantName   string
	Description    string
	ThemeColor     string
	PollInterval   time.Duration
	PollAttempts   int
	HTTPTimeout    time.Duration
	AllowedOrigins []string
	OTLPEndpoint   string

	// SimulateKeySecret signs simulated successes so a real backend accepts them.
	SimulateKeySecret string
}

// Load reads the configuration from the environment, loading a .env file
// first when one is present. BackendURL and KeyID are required.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := &Config{
		Env:               get("ENV", "development"),
		Addr:              get("ADDR", ":8080"),
		BackendURL:        strings.TrimRight(get("CHECKOUT_BACKEND_URL", ""), "/"),
		KeyID:             get("CHECKOUT_KEY_ID", ""),
		Currency:          get("CHECKOUT_CURRENCY", "INR"),
		MerchantName:      get("CHECKOUT_MERCHANT_NAME", "Demo Store"),
		Description:       get("CHECKOUT_DESCRIPTION", "UPI Payment - Scan QR or use UPI apps"),
		ThemeColor:        get("CHECKOUT_THEME_COLOR", "#00D4AA"),
		OTLPEndpoint:      get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SimulateKeySecret: get("SIMULATE_KEY_SECRET", ""),
	}

	for _, req := range []struct {
		key string
		val string
	}{
		{"CHECKOUT_BACKEND_URL", cfg.BackendURL},
		{"CHECKOUT_KEY_ID", cfg.KeyID},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("config: missing required environment variable %s", req.key)
		}
	}

	var err error
	if cfg.PollInterval, err = time.ParseDuration(get("CHECKOUT_POLL_INTERVAL", "100ms")); err != nil || cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("config: invalid CHECKOUT_POLL_INTERVAL")
	}
	if cfg.PollAttempts, err = strconv.Atoi(get("CHECKOUT_POLL_ATTEMPTS", "50")); err != nil || cfg.PollAttempts <= 0 {
		return nil, fmt.Errorf("config: invalid CHECKOUT_POLL_ATTEMPTS")
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(get("CHECKOUT_HTTP_TIMEOUT", "10s")); err != nil || cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("config: invalid CHECKOUT_HTTP_TIMEOUT")
	}

	for _, o := range strings.Split(get("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
