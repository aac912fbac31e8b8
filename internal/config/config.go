package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"video_syncer/internal/domain"
)

type Config struct {
	Collector    CollectorConfig    `yaml:"collector"`
	Transcript   TranscriptConfig   `yaml:"transcript"`
	Notify       NotifyConfig       `yaml:"notify"`
	Storage      StorageConfig      `yaml:"storage"`
	Sync         SyncConfig         `yaml:"sync"`
	Pipeline     PipelineConfig     `yaml:"pipeline"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	LogLevel     string             `yaml:"log_level"`
}

type CollectorConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Token      string        `yaml:"token"`
	Platform   string        `yaml:"platform"`
	LinkType   string        `yaml:"link_type"`
	UpdateMode string        `yaml:"update_mode"`
	PageTurns  int           `yaml:"page_turns"`
	URLs       []string      `yaml:"urls"`
	Timeout    time.Duration `yaml:"timeout"`
	Retry      RetryConfig   `yaml:"retry"`
}

type TranscriptConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   RetryConfig   `yaml:"retry"`
}

type NotifyConfig struct {
	Webhook  WebhookConfig  `yaml:"webhook"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

type WebhookConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	Token           string        `yaml:"token"`
	WebhookURL      string        `yaml:"webhook_url"`
	TemplateID      string        `yaml:"template_id"`
	TemplateVersion string        `yaml:"template_version"`
	Timeout         time.Duration `yaml:"timeout"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type StorageConfig struct {
	// Driver is one of postgres, pgx or memory.
	Driver   string         `yaml:"driver"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type SyncConfig struct {
	DefaultTable string `yaml:"default_table"`
	PageSize     int    `yaml:"page_size"`
	ChunkSize    int    `yaml:"chunk_size"`
}

type PipelineConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Cleanup         bool          `yaml:"cleanup"`
	MaxConcurrency  int           `yaml:"max_concurrency"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxPollAttempts int           `yaml:"max_poll_attempts"`
}

type SubscriptionConfig struct {
	Interval time.Duration `yaml:"interval"`
	PollStep time.Duration `yaml:"poll_step"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML document after expanding ${VAR} references.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	// pipeline stages default to on; yaml leaves absent bools untouched
	cfg := Config{
		Pipeline: PipelineConfig{Enabled: true, Cleanup: true},
	}
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Validate reports missing settings that would make every run fail before any network call.
func (c *Config) Validate() error {
	if c.Collector.BaseURL == "" {
		return fmt.Errorf("%w: collector.base_url is required", domain.ErrValidation)
	}
	if strings.TrimSpace(c.Collector.Token) == "" {
		return fmt.Errorf("%w: collector.token is required", domain.ErrValidation)
	}
	if !slices.ContainsFunc(c.Collector.URLs, func(u string) bool { return strings.TrimSpace(u) != "" }) {
		return fmt.Errorf("%w: collector.urls needs at least one url", domain.ErrValidation)
	}
	if c.Pipeline.Enabled {
		if c.Transcript.BaseURL == "" {
			return fmt.Errorf("%w: transcript.base_url is required when the pipeline is enabled", domain.ErrValidation)
		}
		if strings.TrimSpace(c.Transcript.Token) == "" {
			return fmt.Errorf("%w: transcript.token is required when the pipeline is enabled", domain.ErrValidation)
		}
	}
	switch c.Storage.Driver {
	case "postgres", "pgx", "memory":
	default:
		return fmt.Errorf("%w: unknown storage driver %q", domain.ErrValidation, c.Storage.Driver)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Collector.Platform == "" {
		c.Collector.Platform = "auto"
	}
	if c.Collector.LinkType == "" {
		c.Collector.LinkType = "user"
	}
	if c.Collector.UpdateMode == "" {
		c.Collector.UpdateMode = "incremental"
	}
	if c.Collector.PageTurns == 0 {
		c.Collector.PageTurns = 1
	}
	if c.Collector.Timeout == 0 {
		c.Collector.Timeout = 2 * time.Minute
	}
	c.Collector.Retry.setDefaults()

	if c.Transcript.Timeout == 0 {
		c.Transcript.Timeout = 30 * time.Second
	}
	c.Transcript.Retry.setDefaults()

	if c.Notify.Webhook.Timeout == 0 {
		c.Notify.Webhook.Timeout = 10 * time.Second
	}
	if c.Notify.RabbitMQ.URL != "" {
		if c.Notify.RabbitMQ.Exchange == "" {
			c.Notify.RabbitMQ.Exchange = "video_syncer"
		}
		if c.Notify.RabbitMQ.RoutingKey == "" {
			c.Notify.RabbitMQ.RoutingKey = "new_rows"
		}
		if c.Notify.RabbitMQ.QueueName == "" {
			c.Notify.RabbitMQ.QueueName = "video_syncer_new_rows"
		}
	}
	if len(c.Notify.Kafka.Brokers) > 0 && c.Notify.Kafka.Topic == "" {
		c.Notify.Kafka.Topic = "video_syncer.new_rows"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.Database.Port == 0 {
		c.Storage.Database.Port = 5432
	}
	if c.Storage.Database.SSLMode == "" {
		c.Storage.Database.SSLMode = "disable"
	}

	if c.Sync.DefaultTable == "" {
		c.Sync.DefaultTable = "videos"
	}
	if c.Sync.PageSize == 0 {
		c.Sync.PageSize = 500
	}
	if c.Sync.ChunkSize == 0 {
		c.Sync.ChunkSize = 500
	}

	if c.Pipeline.MaxConcurrency == 0 {
		c.Pipeline.MaxConcurrency = 5
	}
	if c.Pipeline.PollInterval == 0 {
		c.Pipeline.PollInterval = 5 * time.Second
	}
	if c.Pipeline.MaxPollAttempts == 0 {
		c.Pipeline.MaxPollAttempts = 60
	}

	if c.Subscription.Interval == 0 {
		c.Subscription.Interval = 30 * time.Minute
	}
	if c.Subscription.PollStep == 0 {
		c.Subscription.PollStep = 2 * time.Second
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (r *RetryConfig) setDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 3
	}
	if r.InitialBackoff == 0 {
		r.InitialBackoff = 1 * time.Second
	}
	if r.MaxBackoff == 0 {
		r.MaxBackoff = 30 * time.Second
	}
}
