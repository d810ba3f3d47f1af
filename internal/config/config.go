package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix             = "SEALNOTE"
	defaultHTTPAddress    = "0.0.0.0:8080"
	defaultDatabasePath   = "sealnote.db"
	defaultBaseURL        = "http://localhost:3000"
	defaultLogLevel       = "info"
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultLimiterBackend = "memory"
	defaultRedisAddress   = "localhost:6379"
	defaultSweepInterval  = 10 * time.Minute
	limiterBackendMemory  = "memory"
	limiterBackendRedis   = "redis"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress    string
	BaseURL        string
	DatabasePath   string
	LogLevel       string
	GeminiAPIKey   string
	GeminiModel    string
	LimiterBackend string
	RedisAddress   string
	RedisPassword  string
	RedisDB        int
	SweepInterval  time.Duration
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("http.base_url", defaultBaseURL)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("database.sweep_interval", defaultSweepInterval)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("gemini.model", defaultGeminiModel)
	configViper.SetDefault("ratelimit.backend", defaultLimiterBackend)
	configViper.SetDefault("redis.address", defaultRedisAddress)
	configViper.SetDefault("redis.db", 0)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:    configViper.GetString("http.address"),
		BaseURL:        strings.TrimRight(configViper.GetString("http.base_url"), "/"),
		DatabasePath:   configViper.GetString("database.path"),
		LogLevel:       configViper.GetString("log.level"),
		GeminiAPIKey:   configViper.GetString("gemini.api_key"),
		GeminiModel:    configViper.GetString("gemini.model"),
		LimiterBackend: configViper.GetString("ratelimit.backend"),
		RedisAddress:   configViper.GetString("redis.address"),
		RedisPassword:  configViper.GetString("redis.password"),
		RedisDB:        configViper.GetInt("redis.db"),
		SweepInterval:  configViper.GetDuration("database.sweep_interval"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("http.base_url is required")
	}
	switch c.LimiterBackend {
	case limiterBackendMemory:
	case limiterBackendRedis:
		if strings.TrimSpace(c.RedisAddress) == "" {
			return fmt.Errorf("redis.address is required when ratelimit.backend is %q", limiterBackendRedis)
		}
	default:
		return fmt.Errorf("ratelimit.backend must be %q or %q", limiterBackendMemory, limiterBackendRedis)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("database.sweep_interval must be positive")
	}
	return nil
}

// UseRedisLimiter reports whether the rate limiter should share counters through Redis.
func (c AppConfig) UseRedisLimiter() bool {
	return c.LimiterBackend == limiterBackendRedis
}
