package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendHTTP   = "http"
	BackendOpenAI = "openai"

	ModeDevelopment = "development"
)

type Config struct {
	Server      ServerConfig
	Knowledge   KnowledgeConfig
	Session     SessionConfig
	OpenAI      OpenAIConfig
	RedisConfig RedisConfig
	CacheEnable bool   `env:"CACHE_ENABLE"`
	Mode        string `env:"APP_MODE" envDefault:"production"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type KnowledgeConfig struct {
	UseMockData bool          `env:"KNOWLEDGE_USE_MOCK_DATA"`
	Backend     string        `env:"KNOWLEDGE_BACKEND" envDefault:"http"`
	BaseURL     string        `env:"KNOWLEDGE_BASE_URL" envDefault:"http://localhost:8000"`
	QueryPath   string        `env:"KNOWLEDGE_QUERY_PATH" envDefault:"/api/v1/kolam/knowledge"`
	HealthPath  string        `env:"KNOWLEDGE_HEALTH_PATH" envDefault:"/health"`
	Timeout     time.Duration `env:"KNOWLEDGE_TIMEOUT" envDefault:"0s"`
	MockDelay   time.Duration `env:"KNOWLEDGE_MOCK_DELAY" envDefault:"1s"`
	CorpusPath  string        `env:"KNOWLEDGE_CORPUS_PATH"`
}

type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
}

type OpenAIConfig struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL" envDefault:"http://localhost:8000/v1"`
	Model      string `env:"OPENAI_MODEL" envDefault:"default"`
	ImageModel string `env:"OPENAI_IMAGE_MODEL"`
}

// UseMockData reports whether the local corpus replaces the remote service.
// Development mode implies it.
func (c *Config) UseMockData() bool {
	return c.Knowledge.UseMockData || c.Mode == ModeDevelopment
}

func (c *Config) Validate() error {
	switch c.Knowledge.Backend {
	case BackendHTTP, BackendOpenAI:
	default:
		return fmt.Errorf("unsupported knowledge backend {%s}", c.Knowledge.Backend)
	}
	if c.Knowledge.MockDelay < 0 {
		return fmt.Errorf("mock delay must not be negative")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session sweep interval must be positive")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}
	if c.Server.ThrottleLimit <= 0 {
		return fmt.Errorf("server throttle limit must be positive")
	}
	return nil
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
