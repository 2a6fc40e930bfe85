package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration, shared by the API server
// and the worker. Loaded from YAML with environment overrides for secrets.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Lmstfy   LmstfyConfig   `mapstructure:"lmstfy"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Callback CallbackConfig `mapstructure:"callback"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// QueueConfig describes the task queue the demands travel through.
// MaxTries is the broker-side retry budget: a job unacked that many times
// lands in the dead letter instead of looping forever.
type QueueConfig struct {
	Name           string        `mapstructure:"name"`
	MaxTries       int           `mapstructure:"max_tries"`
	ConsumeTimeout time.Duration `mapstructure:"consume_timeout"`
	TTR            time.Duration `mapstructure:"ttr"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CallbackConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig is optional; an empty Addr disables the delivered-marker
// store and the worker falls back to plain at-least-once behavior.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	MarkerTTL time.Duration `mapstructure:"marker_ttl"`
}

type WorkerConfig struct {
	Instances    int           `mapstructure:"instances"`
	ErrorBackoff time.Duration `mapstructure:"error_backoff"`
}

// Load reads the config file at configPath and applies env overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "tccprot")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.port", "5000")
	v.SetDefault("lmstfy.port", 7777)
	v.SetDefault("lmstfy.namespace", "tccprot")
	v.SetDefault("queue.name", "ai_task_queue")
	v.SetDefault("queue.max_tries", 3)
	v.SetDefault("queue.consume_timeout", 10*time.Second)
	v.SetDefault("queue.ttr", 120*time.Second)
	v.SetDefault("gemini.model", "gemini-2.5-flash-preview-09-2025")
	v.SetDefault("gemini.timeout", 45*time.Second)
	v.SetDefault("callback.timeout", 15*time.Second)
	v.SetDefault("redis.marker_ttl", 24*time.Hour)
	v.SetDefault("worker.instances", 1)
	v.SetDefault("worker.error_backoff", 3*time.Second)

	v.AutomaticEnv()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	// Secrets come from the environment when present.
	if apiKey := v.GetString("GEMINI_API_KEY"); apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}
	if token := v.GetString("LMSTFY_TOKEN"); token != "" {
		cfg.Lmstfy.Token = token
	}

	return &cfg, nil
}

// Validate checks the fields both binaries depend on.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if c.Queue.Name == "" {
		return fmt.Errorf("queue.name is required")
	}
	if c.Queue.MaxTries < 1 {
		return fmt.Errorf("queue.max_tries must be at least 1")
	}
	if c.Worker.Instances < 1 {
		return fmt.Errorf("worker.instances must be at least 1")
	}
	return nil
}

// DedupEnabled reports whether the Redis delivered-marker store is on.
func (c *Config) DedupEnabled() bool {
	return c.Redis.Addr != ""
}
