// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Flash     FlashConfig     `mapstructure:"flash"`
	Chains    []ChainConfig   `mapstructure:"chains"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EngineConfig holds the profitability engine thresholds.
type EngineConfig struct {
	MinProfitBps         float64 `mapstructure:"min_profit_bps"`
	MaxSlippageBps       float64 `mapstructure:"max_slippage_bps"`
	SafetyMargin         float64 `mapstructure:"safety_margin"`
	GasSafetyMultiplier  float64 `mapstructure:"gas_safety_multiplier"`
	MaxTVLFraction       float64 `mapstructure:"max_tvl_fraction"`
	TargetSlippage       float64 `mapstructure:"target_slippage"`
	SlippageImpactFactor float64 `mapstructure:"slippage_impact_factor"`
}

// MinProfitBpsDecimal returns the minimum profit threshold as a decimal.
func (c *EngineConfig) MinProfitBpsDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitBps)
}

// MaxSlippageBpsDecimal returns the slippage ceiling as a decimal.
func (c *EngineConfig) MaxSlippageBpsDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxSlippageBps)
}

// SafetyMarginDecimal returns the safety margin as a decimal fraction.
func (c *EngineConfig) SafetyMarginDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SafetyMargin)
}

// GasSafetyMultiplierDecimal returns the gas check multiplier as a decimal.
func (c *EngineConfig) GasSafetyMultiplierDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.GasSafetyMultiplier)
}

// MaxTVLFractionDecimal returns the slippage guard bound as a decimal fraction.
func (c *EngineConfig) MaxTVLFractionDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxTVLFraction)
}

// TargetSlippageDecimal returns the target slippage as a decimal fraction.
func (c *EngineConfig) TargetSlippageDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TargetSlippage)
}

// SlippageImpactFactorDecimal returns the per-dollar slippage impact coefficient.
func (c *EngineConfig) SlippageImpactFactorDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippageImpactFactor)
}

// ScannerConfig holds the scan loop configuration.
type ScannerConfig struct {
	Capital          float64       `mapstructure:"capital"`
	ScansPerMinute   int           `mapstructure:"scans_per_minute"`
	SnapshotFile     string        `mapstructure:"snapshot_file"`
	SnapshotMaxAge   time.Duration `mapstructure:"snapshot_max_age"`
	MaxConcurrency   int           `mapstructure:"max_concurrency"`
	TUIMode          bool          `mapstructure:"-"` // set at runtime, not from config file
}

// CapitalDecimal returns the scan capital as a decimal.
func (c *ScannerConfig) CapitalDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Capital)
}

// FlashConfig holds the flash-loan provider table.
type FlashConfig struct {
	Sources []FlashSourceConfig `mapstructure:"sources"`
}

// FlashSourceConfig describes one flash-loan provider.
type FlashSourceConfig struct {
	Name       string  `mapstructure:"name"`
	FeeRate    float64 `mapstructure:"fee_rate"`
	MinLoanUSD float64 `mapstructure:"min_loan_usd"`
	MaxLoanUSD float64 `mapstructure:"max_loan_usd"`
	Available  bool    `mapstructure:"available"`
}

// ChainConfig describes one execution chain.
type ChainConfig struct {
	Name                   string  `mapstructure:"name"`
	AvgGasCostUSD          float64 `mapstructure:"avg_gas_cost_usd"`
	BlockTimeSeconds       float64 `mapstructure:"block_time_seconds"`
	IsL2                   bool    `mapstructure:"is_l2"`
	RecommendedMinTradeUSD float64 `mapstructure:"recommended_min_trade_usd"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("OMNI")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "OMNI_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "OMNI_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "OMNI_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("engine.min_profit_bps", "OMNI_MIN_PROFIT_BPS")
	v.BindEnv("engine.max_slippage_bps", "OMNI_MAX_SLIPPAGE_BPS")
	v.BindEnv("engine.safety_margin", "OMNI_SAFETY_MARGIN")
	v.BindEnv("engine.gas_safety_multiplier", "OMNI_GAS_SAFETY_MULTIPLIER")
	v.BindEnv("engine.max_tvl_fraction", "OMNI_MAX_TVL_FRACTION")

	v.BindEnv("scanner.capital", "OMNI_CAPITAL")
	v.BindEnv("scanner.scans_per_minute", "OMNI_SCANS_PER_MINUTE")
	v.BindEnv("scanner.snapshot_file", "OMNI_SNAPSHOT_FILE")

	v.BindEnv("telemetry.enabled", "OMNI_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "OMNI_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "OMNI_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "omniarb-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Engine thresholds
	v.SetDefault("engine.min_profit_bps", 30.0)
	v.SetDefault("engine.max_slippage_bps", 50.0)
	v.SetDefault("engine.safety_margin", 0.20)
	v.SetDefault("engine.gas_safety_multiplier", 1.5)
	v.SetDefault("engine.max_tvl_fraction", 0.10)
	v.SetDefault("engine.target_slippage", 0.005)
	v.SetDefault("engine.slippage_impact_factor", 0.00001)

	// Scanner defaults
	v.SetDefault("scanner.capital", 10_000.0)
	v.SetDefault("scanner.scans_per_minute", 60)
	v.SetDefault("scanner.snapshot_max_age", "5s")
	v.SetDefault("scanner.max_concurrency", 8)

	// Flash-loan providers, ascending fee order
	v.SetDefault("flash.sources", []map[string]any{
		{"name": "dydx", "fee_rate": 0.0, "min_loan_usd": 10_000.0, "max_loan_usd": 100_000_000.0, "available": true},
		{"name": "balancer", "fee_rate": 0.0, "min_loan_usd": 5_000.0, "max_loan_usd": 50_000_000.0, "available": true},
		{"name": "uniswap", "fee_rate": 0.0005, "min_loan_usd": 1_000.0, "max_loan_usd": 25_000_000.0, "available": true},
		{"name": "aave", "fee_rate": 0.0009, "min_loan_usd": 100.0, "max_loan_usd": 500_000_000.0, "available": true},
	})

	// Execution chains, cheapest-first within the L2 set
	v.SetDefault("chains", []map[string]any{
		{"name": "arbitrum", "avg_gas_cost_usd": 0.10, "block_time_seconds": 0.25, "is_l2": true, "recommended_min_trade_usd": 1_000.0},
		{"name": "optimism", "avg_gas_cost_usd": 0.15, "block_time_seconds": 2.0, "is_l2": true, "recommended_min_trade_usd": 1_000.0},
		{"name": "polygon", "avg_gas_cost_usd": 0.02, "block_time_seconds": 2.0, "is_l2": true, "recommended_min_trade_usd": 500.0},
		{"name": "base", "avg_gas_cost_usd": 0.05, "block_time_seconds": 2.0, "is_l2": true, "recommended_min_trade_usd": 500.0},
		{"name": "bsc", "avg_gas_cost_usd": 0.10, "block_time_seconds": 3.0, "is_l2": false, "recommended_min_trade_usd": 1_000.0},
		{"name": "ethereum_mainnet", "avg_gas_cost_usd": 50.0, "block_time_seconds": 12.0, "is_l2": false, "recommended_min_trade_usd": 1_000_000.0},
	})

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "omniarb-engine")
	v.SetDefault("telemetry.trace_provider", "CONSOLE_PROVIDER")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8088)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.MinProfitBps < 0 {
		return fmt.Errorf("engine.min_profit_bps must be >= 0")
	}
	if c.Engine.SafetyMargin < 0 || c.Engine.SafetyMargin >= 1 {
		return fmt.Errorf("engine.safety_margin must be in [0, 1)")
	}
	if c.Engine.MaxTVLFraction <= 0 || c.Engine.MaxTVLFraction > 1 {
		return fmt.Errorf("engine.max_tvl_fraction must be in (0, 1]")
	}
	if c.Engine.GasSafetyMultiplier < 1 {
		return fmt.Errorf("engine.gas_safety_multiplier must be >= 1")
	}
	if c.Scanner.Capital <= 0 {
		return fmt.Errorf("scanner.capital must be positive")
	}
	for _, src := range c.Flash.Sources {
		if src.FeeRate < 0 || src.MinLoanUSD < 0 || src.MaxLoanUSD < src.MinLoanUSD {
			return fmt.Errorf("flash source %q has invalid loan bracket", src.Name)
		}
	}
	return nil
}
