package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the YAML config, layers the environment-specific file on top
// and lets environment variables override individual keys.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env overlay is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "credit-assist"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Dialogue.BaselineAnnualRate == 0 {
		cfg.Dialogue.BaselineAnnualRate = 3.5
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Capabilities.Classifier.Timeout == 0 {
		cfg.Capabilities.Classifier.Timeout = 10 * time.Second
	}
	if cfg.Capabilities.Classifier.MaxRetries == 0 {
		cfg.Capabilities.Classifier.MaxRetries = 2
	}
	if cfg.Capabilities.Tagger.Timeout == 0 {
		cfg.Capabilities.Tagger.Timeout = 10 * time.Second
	}
	if cfg.Capabilities.Tagger.MaxRetries == 0 {
		cfg.Capabilities.Tagger.MaxRetries = 2
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validate(cfg *Config) error {
	if cfg.Dialogue.BaselineAnnualRate <= 0 {
		return fmt.Errorf("dialogue.baseline_annual_rate must be positive, got %v", cfg.Dialogue.BaselineAnnualRate)
	}
	if cfg.Dialogue.FilingFee < 0 {
		return fmt.Errorf("dialogue.filing_fee must not be negative, got %v", cfg.Dialogue.FilingFee)
	}
	if cfg.Server.Port == cfg.Server.MetricsPort {
		return fmt.Errorf("server.port and server.metrics_port must differ")
	}
	return nil
}
