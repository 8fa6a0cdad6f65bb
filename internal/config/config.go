package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	MigrateOnStart bool          `mapstructure:"MIGRATE_ON_START"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DrainTimeout   time.Duration `mapstructure:"DRAIN_TIMEOUT"`

	AIURL       string `mapstructure:"AI_URL"`
	AIModel     string `mapstructure:"AI_MODEL"`
	AIAPIKey    string `mapstructure:"AI_API_KEY"`
	AIMaxTokens int    `mapstructure:"AI_MAX_TOKENS"`

	SearchURL    string `mapstructure:"SEARCH_URL"`
	SearchAPIKey string `mapstructure:"SEARCH_API_KEY"`

	ProviderTimeout time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	ProviderRPS     float64       `mapstructure:"PROVIDER_RPS"`
	ProviderBurst   int           `mapstructure:"PROVIDER_BURST"`

	PipelineWorkers   int `mapstructure:"PIPELINE_WORKERS"`
	PipelineQueueSize int `mapstructure:"PIPELINE_QUEUE_SIZE"`

	GeocodeURL       string `mapstructure:"GEOCODE_URL"`
	GeocodeUserAgent string `mapstructure:"GEOCODE_USER_AGENT"`

	RedisURL       string        `mapstructure:"REDIS_URL"`
	SearchCacheTTL time.Duration `mapstructure:"SEARCH_CACHE_TTL"`

	OtelEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OtelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

var defaults = map[string]any{
	"ENV":                         "dev",
	"PORT":                        "8080",
	"DATABASE_URL":                "",
	"MIGRATE_ON_START":            true,
	"ADMIN_KEY":                   "",
	"CORS_ALLOWED_ORIGINS":        "*",
	"REQUEST_TIMEOUT":             "30s",
	"LOG_LEVEL":                   "info",
	"DRAIN_TIMEOUT":               "20s",
	"AI_URL":                      "",
	"AI_MODEL":                    "",
	"AI_API_KEY":                  "",
	"AI_MAX_TOKENS":               1024,
	"SEARCH_URL":                  "",
	"SEARCH_API_KEY":              "",
	"PROVIDER_TIMEOUT":            "30s",
	"PROVIDER_RPS":                5.0,
	"PROVIDER_BURST":              5,
	"PIPELINE_WORKERS":            4,
	"PIPELINE_QUEUE_SIZE":         256,
	"GEOCODE_URL":                 "",
	"GEOCODE_USER_AGENT":          "beacon-backend",
	"REDIS_URL":                   "",
	"SEARCH_CACHE_TTL":            "15m",
	"OTEL_ENABLED":                false,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_EXPORTER_OTLP_INSECURE": false,
}

func Load() (Config, error) {
	return load(".env")
}

func load(envFile string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	// AutomaticEnv only resolves keys viper already knows about
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.CORSAllowed = strings.TrimSpace(cfg.CORSAllowed)
	return cfg, nil
}

// CORSOrigins splits the comma separated allow list.
func (c Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
