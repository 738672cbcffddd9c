// Package config carrega a configuração do domain-finder com viper:
// padrões, arquivo YAML opcional, variáveis DOMAIN_FINDER_* e flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "DOMAIN_FINDER"

type Config struct {
	ListenAddr  string            `mapstructure:"listen_addr"`
	Log         LogConfig         `mapstructure:"log"`
	Lookup      LookupConfig      `mapstructure:"lookup"`
	Probe       ProbeConfig       `mapstructure:"probe"`
	Suggest     SuggestConfig     `mapstructure:"suggest"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency"`
	Redis       RedisConfig       `mapstructure:"redis"`
	History     HistoryConfig     `mapstructure:"history"`
	Stats       StatsConfig       `mapstructure:"stats"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Auth        AuthConfig        `mapstructure:"auth"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type LookupConfig struct {
	Labels       []string `mapstructure:"labels"`
	DefaultLabel string   `mapstructure:"default_label"`
	// KnownLabels vazio desliga a validação de label.
	KnownLabels         []string `mapstructure:"known_labels"`
	IncludeSeed         bool     `mapstructure:"include_seed"`
	ExcludeQueryLabel   bool     `mapstructure:"exclude_query_label"`
	ValidateSuggestions bool     `mapstructure:"validate_suggestions"`
	OnlyUnregistered    bool     `mapstructure:"only_unregistered"`
}

type ProbeConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
}

type SuggestConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BaseURL        string        `mapstructure:"base_url"`
	Strategies     []string      `mapstructure:"strategies"`
	MaxPerStrategy int           `mapstructure:"max_per_strategy"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	RPS        float64       `mapstructure:"rps"`
	Burst      int           `mapstructure:"burst"`
	KeyHeader  string        `mapstructure:"key_header"`
	TrustXFF   bool          `mapstructure:"trust_xff"`
	RetryAfter time.Duration `mapstructure:"retry_after"`
	AddHeaders bool          `mapstructure:"add_headers"`
	IdleTTL    time.Duration `mapstructure:"idle_ttl"`
}

type ConcurrencyConfig struct {
	Max     int           `mapstructure:"max"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type HistoryConfig struct {
	// Backend: none, memory, redis ou sqlite.
	Backend      string        `mapstructure:"backend"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	Prefix       string        `mapstructure:"prefix"`
	TTL          time.Duration `mapstructure:"ttl"`
	MaxEntries   int           `mapstructure:"max_entries"`
	DefaultLimit int           `mapstructure:"default_limit"`
}

type StatsConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

type AuthConfig struct {
	UserHeader string `mapstructure:"user_header"`
}

// DefaultLabels é a lista de labels do fan-out quando nada é configurado.
func DefaultLabels() []string {
	return []string{"com", "org", "net", "dev", "io"}
}

// SetDefaults registra os valores padrão em v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("lookup.labels", DefaultLabels())
	v.SetDefault("lookup.default_label", "com")
	v.SetDefault("lookup.known_labels", []string{})
	v.SetDefault("lookup.include_seed", true)
	v.SetDefault("lookup.exclude_query_label", false)
	v.SetDefault("lookup.validate_suggestions", true)
	v.SetDefault("lookup.only_unregistered", false)

	v.SetDefault("probe.timeout", 10*time.Second)
	v.SetDefault("probe.max_concurrency", 16)
	v.SetDefault("probe.acquire_timeout", time.Duration(0))

	v.SetDefault("suggest.enabled", true)
	v.SetDefault("suggest.base_url", "https://api.datamuse.com")
	v.SetDefault("suggest.strategies", []string{"sl", "sp", "ml", "rel_trg"})
	v.SetDefault("suggest.max_per_strategy", 3)
	v.SetDefault("suggest.timeout", 5*time.Second)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 10.0)
	// burst 0 = derivado de rps (ver Load)
	v.SetDefault("ratelimit.burst", 0)
	v.SetDefault("ratelimit.key_header", "")
	v.SetDefault("ratelimit.trust_xff", false)
	v.SetDefault("ratelimit.retry_after", time.Second)
	v.SetDefault("ratelimit.add_headers", false)
	v.SetDefault("ratelimit.idle_ttl", 15*time.Minute)

	v.SetDefault("concurrency.max", 100)
	v.SetDefault("concurrency.timeout", time.Duration(0))

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.sqlite_path", "domain-finder.db")
	v.SetDefault("history.prefix", "domainfinder:history")
	v.SetDefault("history.ttl", 30*24*time.Hour)
	v.SetDefault("history.max_entries", 100)
	v.SetDefault("history.default_limit", 50)

	v.SetDefault("stats.enabled", false)
	v.SetDefault("stats.prefix", "domainfinder:ratelimit")
	v.SetDefault("stats.ttl", 24*time.Hour)

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.otlp_endpoint", "localhost:4317")
	v.SetDefault("tracing.sample_rate", 1.0)

	v.SetDefault("auth.user_header", "X-User")
}

// New cria um viper com padrões e leitura de ambiente (DOMAIN_FINDER_PROBE_TIMEOUT etc).
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile lê o arquivo de configuração, se path não for vazio.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// Load converte v em Config e valida.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	// IMPORTANTE: o "burst" permite uma rajada inicial de requisições.
	// Com RPS < 1 um burst alto dá a impressão de que o limiter não funciona.
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 20
		if cfg.RateLimit.RPS > 0 && cfg.RateLimit.RPS < 1 {
			cfg.RateLimit.Burst = 1
		}
	}

	cfg.History.Backend = strings.ToLower(strings.TrimSpace(cfg.History.Backend))
	cfg.Tracing.Exporter = strings.ToLower(strings.TrimSpace(cfg.Tracing.Exporter))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("listen_addr is required")
	}
	if len(c.Lookup.Labels) == 0 {
		return errors.New("lookup.labels must not be empty")
	}
	if strings.TrimSpace(c.Lookup.DefaultLabel) == "" {
		return errors.New("lookup.default_label is required")
	}
	if c.Probe.Timeout <= 0 {
		return errors.New("probe.timeout must be > 0")
	}
	if c.Probe.MaxConcurrency < 0 {
		return errors.New("probe.max_concurrency must be >= 0")
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return errors.New("ratelimit.rps must be > 0")
	}
	if c.RateLimit.Burst <= 0 {
		return errors.New("ratelimit.burst must be > 0")
	}
	if c.Concurrency.Max < 0 {
		return errors.New("concurrency.max must be >= 0")
	}

	switch c.History.Backend {
	case "none", "memory":
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("redis.addr is required when history.backend=redis")
		}
	case "sqlite":
		if strings.TrimSpace(c.History.SQLitePath) == "" {
			return errors.New("history.sqlite_path is required when history.backend=sqlite")
		}
	default:
		return fmt.Errorf("unsupported history.backend %q", c.History.Backend)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log.format %q", c.Log.Format)
	}
	return nil
}

// NeedsRedis indica se algum componente usa o cliente redis.
// Stats sem redis.addr ficam em memória.
func (c Config) NeedsRedis() bool {
	return c.History.Backend == "redis" || (c.Stats.Enabled && strings.TrimSpace(c.Redis.Addr) != "")
}
