package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/llmcost-cli/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Selector   SelectorConfig   `yaml:"selector" mapstructure:"selector"`
	Budget     BudgetConfig     `yaml:"budget" mapstructure:"budget"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Estimate   EstimateConfig   `yaml:"estimate" mapstructure:"estimate"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// CatalogConfig points at an optional model catalog override file.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SelectorConfig configures tier pricing boundaries and the blended-rate
// token split used when ranking models.
type SelectorConfig struct {
	EnterpriseFloorPer1K float64    `yaml:"enterprise_floor_per_1k" mapstructure:"enterprise_floor_per_1k"`
	PremiumFloorPer1K    float64    `yaml:"premium_floor_per_1k" mapstructure:"premium_floor_per_1k"`
	StandardCeilingPer1K float64    `yaml:"standard_ceiling_per_1k" mapstructure:"standard_ceiling_per_1k"`
	Split                cost.Split `yaml:"split" mapstructure:"split"`
}

// BudgetConfig configures daily spend limits and alerting.
type BudgetConfig struct {
	DailyUSD       float64 `yaml:"daily_usd" mapstructure:"daily_usd"`
	AlertThreshold float64 `yaml:"alert_threshold" mapstructure:"alert_threshold"`
}

// RetryConfig configures the usage-write retry policy.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// EstimateConfig configures heuristic token estimation.
type EstimateConfig struct {
	CharsPerToken float64 `yaml:"chars_per_token" mapstructure:"chars_per_token"`
}

// MonitoringConfig configures background budget checks and webhook alerts.
type MonitoringConfig struct {
	WebhookURL        string `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs int    `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LLMCOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "llmcost.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 50)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("selector.enterprise_floor_per_1k", 0.001)
	v.SetDefault("selector.premium_floor_per_1k", 0.0002)
	v.SetDefault("selector.standard_ceiling_per_1k", 0.0005)
	v.SetDefault("selector.split.input", 0.6)
	v.SetDefault("selector.split.output", 0.4)
	v.SetDefault("budget.daily_usd", 50.0)
	v.SetDefault("budget.alert_threshold", 0.8)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 100)
	v.SetDefault("retry.max_backoff_ms", 2000)
	v.SetDefault("estimate.chars_per_token", 4.0)
	v.SetDefault("monitoring.check_interval_secs", 300)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
