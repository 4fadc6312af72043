package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Decision DecisionConfig `yaml:"decision" mapstructure:"decision"`
	Sweep    SweepConfig    `yaml:"sweep" mapstructure:"sweep"`
	Audit    AuditConfig    `yaml:"audit" mapstructure:"audit"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DecisionConfig holds the clarification decision thresholds and the
// per-priority response timeout table.
type DecisionConfig struct {
	ConfidenceLow             float64 `yaml:"confidence_low" mapstructure:"confidence_low"`
	ConfidenceMedium          float64 `yaml:"confidence_medium" mapstructure:"confidence_medium"`
	ConfidenceHigh            float64 `yaml:"confidence_high" mapstructure:"confidence_high"`
	ConflictSeverityThreshold float64 `yaml:"conflict_severity_threshold" mapstructure:"conflict_severity_threshold"`
	TimeoutLowSecs            int     `yaml:"timeout_low_secs" mapstructure:"timeout_low_secs"`
	TimeoutMediumSecs         int     `yaml:"timeout_medium_secs" mapstructure:"timeout_medium_secs"`
	TimeoutHighSecs           int     `yaml:"timeout_high_secs" mapstructure:"timeout_high_secs"`
	TimeoutCriticalSecs       int     `yaml:"timeout_critical_secs" mapstructure:"timeout_critical_secs"`
}

// SweepConfig configures the background expiry sweep.
type SweepConfig struct {
	IntervalSecs int `yaml:"interval_secs" mapstructure:"interval_secs"`
	RetrySecs    int `yaml:"retry_secs" mapstructure:"retry_secs"`
}

// AuditConfig configures the audit event sink.
type AuditConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RespondRPS     float64  `yaml:"respond_rps" mapstructure:"respond_rps"`
	RespondBurst   int      `yaml:"respond_burst" mapstructure:"respond_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("CLAIMCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("decision.confidence_low", 0.5)
	v.SetDefault("decision.confidence_medium", 0.7)
	v.SetDefault("decision.confidence_high", 0.85)
	v.SetDefault("decision.conflict_severity_threshold", 0.6)
	v.SetDefault("decision.timeout_low_secs", 3600)
	v.SetDefault("decision.timeout_medium_secs", 1800)
	v.SetDefault("decision.timeout_high_secs", 900)
	v.SetDefault("decision.timeout_critical_secs", 300)
	v.SetDefault("sweep.interval_secs", 300)
	v.SetDefault("sweep.retry_secs", 60)
	v.SetDefault("audit.driver", "memory")
	v.SetDefault("audit.sqlite_path", "claimcheck_audit.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.respond_rps", 5)
	v.SetDefault("server.respond_burst", 10)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
