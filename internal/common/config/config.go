package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App          App          `mapstructure:"app"`
	Server       Server       `mapstructure:"server"`
	Dialogue     Dialogue     `mapstructure:"dialogue"`
	Redis        Redis        `mapstructure:"redis"`
	Capabilities Capabilities `mapstructure:"capabilities"`
	Logging      Logging      `mapstructure:"logging"`
}

type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type Server struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

// Dialogue holds the tunables of the orchestration pipeline.
type Dialogue struct {
	// BaselineAnnualRate is the annual rate (percent) used for simulations
	// and for the direct TAEG branch of financial calculations.
	BaselineAnnualRate float64 `mapstructure:"baseline_annual_rate"`
	// FilingFee is the fixed filing fee (EUR) reported in cost breakdowns.
	FilingFee float64 `mapstructure:"filing_fee"`
}

type Redis struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	// ContextTTL expires idle conversation contexts; zero keeps them forever.
	ContextTTL time.Duration `mapstructure:"context_ttl"`
}

// Capabilities configures the injected model-serving endpoints.
type Capabilities struct {
	Classifier Endpoint `mapstructure:"classifier"`
	Tagger     Endpoint `mapstructure:"tagger"`
}

type Endpoint struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
