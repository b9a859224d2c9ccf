// Package config loads the docfmt service configuration from a YAML file,
// .env files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-docfmt/internal/llm"
	"github.com/goliatone/go-docfmt/internal/logger"
)

// Config is the root configuration document.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Presets       PresetsConfig       `yaml:"presets"`
	LLM           llm.Config          `yaml:"llm"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Logging       logger.Config       `yaml:"logging"`
	Render        RenderConfig        `yaml:"render"`
}

type ServerConfig struct {
	Address         string        `yaml:"address" env:"DOCFMT_ADDRESS"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"DOCFMT_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"DOCFMT_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DOCFMT_SHUTDOWN_TIMEOUT"`
	// MaxUploadBytes bounds each multipart request.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"DOCFMT_MAX_UPLOAD_BYTES"`
	Debug          bool  `yaml:"debug" env:"DOCFMT_DEBUG"`
}

// PresetsConfig locates institution presets. Directory presets take
// precedence over the embedded ones.
type PresetsConfig struct {
	Dir             string `yaml:"dir" env:"DOCFMT_PRESETS_DIR"`
	DisableEmbedded bool   `yaml:"disable_embedded" env:"DOCFMT_PRESETS_DISABLE_EMBEDDED"`
}

// ElasticsearchConfig enables rule retrieval when Addresses is non-empty.
type ElasticsearchConfig struct {
	Addresses []string `yaml:"addresses" env:"ELASTICSEARCH_ADDRESSES"`
	Username  string   `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	Password  string   `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	APIKey    string   `yaml:"api_key" env:"ELASTICSEARCH_API_KEY"`
	Index     string   `yaml:"index" env:"ELASTICSEARCH_INDEX"`
	TopK      int      `yaml:"top_k" env:"ELASTICSEARCH_TOP_K"`
	ChunkSize int      `yaml:"chunk_size" env:"ELASTICSEARCH_CHUNK_SIZE"`
	// Ingest stores uploaded rule documents before searching.
	Ingest bool `yaml:"ingest" env:"ELASTICSEARCH_INGEST"`
}

// Enabled reports whether retrieval is configured.
func (c ElasticsearchConfig) Enabled() bool {
	return len(c.Addresses) > 0
}

type RenderConfig struct {
	DefaultRenderer string `yaml:"default_renderer" env:"DOCFMT_RENDERER"`
	TemplatesDir    string `yaml:"templates_dir" env:"DOCFMT_TEMPLATES_DIR"`
	Lang            string `yaml:"lang" env:"DOCFMT_LANG"`
}

const (
	DefaultAddress        = ":8000"
	DefaultMaxUploadBytes = 20 << 20
	DefaultRenderer       = "docx"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}

// SetDefaults fills unset fields.
func SetDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 2 * time.Minute
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = llm.DefaultBaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = llm.DefaultModel
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = llm.DefaultTemperature
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = llm.DefaultTimeout
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = "style_rules"
	}
	if cfg.Elasticsearch.TopK == 0 {
		cfg.Elasticsearch.TopK = 4
	}
	if cfg.Elasticsearch.ChunkSize == 0 {
		cfg.Elasticsearch.ChunkSize = 1000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = logger.DefaultLevel
	}
	if cfg.Render.DefaultRenderer == "" {
		cfg.Render.DefaultRenderer = DefaultRenderer
	}
	if cfg.Render.Lang == "" {
		cfg.Render.Lang = "zh-CN"
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Server.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("llm.max_retries must not be negative, got %d", c.LLM.MaxRetries))
	}
	if c.Elasticsearch.TopK < 0 {
		errs = append(errs, fmt.Errorf("elasticsearch.top_k must not be negative, got %d", c.Elasticsearch.TopK))
	}
	if c.Elasticsearch.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("elasticsearch.chunk_size must not be negative, got %d", c.Elasticsearch.ChunkSize))
	}
	if c.Presets.DisableEmbedded && strings.TrimSpace(c.Presets.Dir) == "" {
		errs = append(errs, errors.New("presets.dir is required when embedded presets are disabled"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
}
