package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"insales/catsync/internal/layout"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	InSales  InSalesConfig  `mapstructure:"insales"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Layout   layout.Options `mapstructure:"layout"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// InSalesConfig holds the catalog admin API configuration
type InSalesConfig struct {
	BaseURL              string        `mapstructure:"base_url"` // https://shop.myinsales.ru
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRetries           int           `mapstructure:"max_retries"`
	RetryDelay           time.Duration `mapstructure:"retry_delay"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	PerPage              int           `mapstructure:"per_page"`
	MaxCategoryPages     int           `mapstructure:"max_category_pages"`
	MaxItemPages         int           `mapstructure:"max_item_pages"`

	// Names of the extra collection fields holding the tag blocks
	UpperFieldTitle string `mapstructure:"upper_field_title"`
	LowerFieldTitle string `mapstructure:"lower_field_title"`

	// Authentication
	APIKey   string `mapstructure:"api_key"`
	Password string `mapstructure:"password"`
}

// OpenAIConfig holds the text generation API configuration
type OpenAIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	AssistantID  string        `mapstructure:"assistant_id"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxPolls     int           `mapstructure:"max_polls"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN returns the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	Database      int           `mapstructure:"database"`
	ConsumerGroup string        `mapstructure:"consumer_group"`
	MinIdleTime   time.Duration `mapstructure:"min_idle_time"`
	LeaseTTL      time.Duration `mapstructure:"lease_ttl"`
	Workers       int           `mapstructure:"workers"`
	MaxRetries    int           `mapstructure:"max_retries"` // retry stream attempts before an update is dropped
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path looks for config.yaml in the current directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// defaults and environment are enough to run
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if c.InSales.PerPage < 1 || c.InSales.PerPage > 250 {
		return fmt.Errorf("insales.per_page must be between 1 and 250, got %d", c.InSales.PerPage)
	}
	if c.InSales.MaxRetries < 1 {
		return fmt.Errorf("insales.max_retries must be at least 1, got %d", c.InSales.MaxRetries)
	}
	if c.OpenAI.MaxPolls < 1 {
		return fmt.Errorf("openai.max_polls must be at least 1, got %d", c.OpenAI.MaxPolls)
	}
	if c.Redis.MinIdleTime <= 0 || c.Redis.LeaseTTL <= 0 {
		return fmt.Errorf("redis.min_idle_time and redis.lease_ttl must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("insales.base_url", "")
	v.SetDefault("insales.timeout", 30*time.Second)
	v.SetDefault("insales.max_retries", 3)
	v.SetDefault("insales.retry_delay", 2*time.Second)
	v.SetDefault("insales.max_requests_per_second", 2)
	v.SetDefault("insales.per_page", 250)
	v.SetDefault("insales.max_category_pages", 10)
	v.SetDefault("insales.max_item_pages", 20)
	v.SetDefault("insales.upper_field_title", "Блок ссылок сверху")
	v.SetDefault("insales.lower_field_title", "Блок ссылок")
	v.SetDefault("insales.api_key", "")
	v.SetDefault("insales.password", "")

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.assistant_id", "")
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.max_tokens", 2000)
	v.SetDefault("openai.timeout", 60*time.Second)
	v.SetDefault("openai.poll_interval", 3*time.Second)
	v.SetDefault("openai.max_polls", 40)

	d := layout.DefaultOptions()
	v.SetDefault("layout.markers.keywords", d.Markers.Keywords)
	v.SetDefault("layout.markers.tile", d.Markers.Tile)
	v.SetDefault("layout.markers.upper", d.Markers.Upper)
	v.SetDefault("layout.markers.lower", d.Markers.Lower)
	v.SetDefault("layout.markers.stats", d.Markers.Stats)
	v.SetDefault("layout.markers.products", d.Markers.Products)
	v.SetDefault("layout.marker_column", d.MarkerColumn)
	v.SetDefault("layout.keyword_column", d.KeywordColumn)
	v.SetDefault("layout.keywords_data_start", d.KeywordsStart)
	v.SetDefault("layout.scan_limit", d.ScanLimit)
	v.SetDefault("layout.keyword_scan_limit", d.KeywordScanLimit)
	v.SetDefault("layout.keyword_gap", d.KeywordGap)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "catsync")
	v.SetDefault("database.user", "catsync_user")
	v.SetDefault("database.password", "catsync_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "catsync_consumer")
	v.SetDefault("redis.min_idle_time", 2*time.Minute)
	v.SetDefault("redis.lease_ttl", 5*time.Minute)
	v.SetDefault("redis.workers", 2)
	v.SetDefault("redis.max_retries", 5)

	v.SetDefault("log.level", "info")
}
