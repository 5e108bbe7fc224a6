package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/foodshare-matching/internal/matcher"
	"github.com/example/foodshare-matching/internal/quality"
)

// ServerConfig captures all tunable parameters for the HTTP API process.
// Values are primarily loaded from environment variables with sane defaults
// so the binary can run locally without excessive setup.
type ServerConfig struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisGeoKey   string

	KafkaBrokers []string
	KafkaTopic   string

	PGDSN string

	// Matching policy. All of these are policy knobs, not code constants.
	MinShelfLifeHours float64
	RadiusKm          float64
	FullCreditKm      float64
	ScoringEnabled    bool

	AnthropicAPIKey  string
	AnthropicModel   string
	RationaleTimeout time.Duration

	NotifyWebhook string

	LogLevel      string
	RunMigrations bool
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr:          ":8080",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		RedisGeoKey:       "recipients_geo",
		KafkaTopic:        "recipient-updates",
		MinShelfLifeHours: quality.DefaultMinShelfLifeHours,
		RadiusKm:          matcher.DefaultRadiusKm,
		FullCreditKm:      5,
		ScoringEnabled:    true,
		AnthropicModel:    "claude-haiku-4-5-20251001",
		RationaleTimeout:  5 * time.Second,
		LogLevel:          "info",
	}
}

func LoadServerConfig() (ServerConfig, error) {
	cfg := defaultServerConfig()
	var errs []error

	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	setDurationFromEnv(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setStringFromEnv(&cfg.RedisGeoKey, "REDIS_GEO_KEY")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")

	cfg.PGDSN = os.Getenv("PG_DSN")

	setFloatFromEnv(&cfg.MinShelfLifeHours, "QUALITY_MIN_SHELF_LIFE_HOURS", &errs)
	setFloatFromEnv(&cfg.RadiusKm, "MATCH_RADIUS_KM", &errs)
	setFloatFromEnv(&cfg.FullCreditKm, "MATCH_FULL_CREDIT_KM", &errs)
	if v := os.Getenv("MATCH_SCORING_ENABLED"); v != "" {
		cfg.ScoringEnabled = strings.EqualFold(v, "true")
	}

	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	setStringFromEnv(&cfg.AnthropicModel, "ANTHROPIC_MODEL")
	setDurationFromEnv(&cfg.RationaleTimeout, "RATIONALE_TIMEOUT", &errs)

	cfg.NotifyWebhook = strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK"))

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")

	if cfg.RadiusKm <= 0 {
		errs = append(errs, fmt.Errorf("MATCH_RADIUS_KM must be > 0"))
	}
	if cfg.FullCreditKm < 0 || cfg.FullCreditKm > cfg.RadiusKm {
		errs = append(errs, fmt.Errorf("MATCH_FULL_CREDIT_KM must be within [0, MATCH_RADIUS_KM]"))
	}

	return cfg, errors.Join(errs...)
}

// Scoring builds the ranking policy from the stock tables plus any JSON
// overrides in MATCH_AFFINITIES / MATCH_MEAL_WINDOWS. Tables stay data, not
// code, so new food categories and organization types need no code change.
func (c ServerConfig) Scoring() (matcher.ScoringConfig, error) {
	sc := matcher.DefaultScoring()
	sc.Enabled = c.ScoringEnabled
	sc.RadiusKm = c.RadiusKm
	sc.FullCreditKm = c.FullCreditKm

	if raw := os.Getenv("MATCH_AFFINITIES"); raw != "" {
		affinities := map[string][]string{}
		if err := json.Unmarshal([]byte(raw), &affinities); err != nil {
			return sc, fmt.Errorf("invalid MATCH_AFFINITIES: %w", err)
		}
		sc.Affinities = affinities
	}
	if raw := os.Getenv("MATCH_MEAL_WINDOWS"); raw != "" {
		windows := map[string][]matcher.Window{}
		if err := json.Unmarshal([]byte(raw), &windows); err != nil {
			return sc, fmt.Errorf("invalid MATCH_MEAL_WINDOWS: %w", err)
		}
		sc.MealWindows = windows
	}
	return sc, nil
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setFloatFromEnv(target *float64, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = f
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
