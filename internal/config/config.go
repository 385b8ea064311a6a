package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config represents the simulator core's configuration
type Config struct {
	// Admin is the gin-based health/metrics/reference-data reload
	// surface - never a trading entrypoint.
	Admin struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"admin"`

	// Matching configures the per-instrument worker pool and the
	// expiry sweep driving GTD/Day Tick checks.
	Matching struct {
		WorkerPoolCapacity int `mapstructure:"worker_pool_capacity"`
		TickIntervalMillis int `mapstructure:"tick_interval_millis"`
	} `mapstructure:"matching"`

	// Venues seeds internal/core/datalayer's Venue repository at
	// startup.
	Venues []VenueConfig `mapstructure:"venues"`

	// Instruments seeds the router's instrument catalogue.
	Instruments []InstrumentConfig `mapstructure:"instruments"`

	// Monitoring configuration
	Monitoring struct {
		PrometheusPort int    `mapstructure:"prometheus_port"`
		LogLevel       string `mapstructure:"log_level"`
	} `mapstructure:"monitoring"`
}

// VenueConfig is one venue entry of the configuration file.
type VenueConfig struct {
	VenueID            string `mapstructure:"venue_id"`
	Name               string `mapstructure:"name"`
	Timezone           string `mapstructure:"timezone"`
	CancelOnDisconnect bool   `mapstructure:"cancel_on_disconnect"`
	SupportTIFDay      bool   `mapstructure:"support_tif_day"`
	SupportTIFIOC      bool   `mapstructure:"support_tif_ioc"`
	SupportTIFFOK      bool   `mapstructure:"support_tif_fok"`
	SupportTIFGTD      bool   `mapstructure:"support_tif_gtd"`
	SupportTIFGTC      bool   `mapstructure:"support_tif_gtc"`
}

// InstrumentConfig is one instrument entry of the configuration file.
type InstrumentConfig struct {
	InstrumentID   uint64   `mapstructure:"instrument_id"`
	Symbol         string   `mapstructure:"symbol"`
	VenueID        string   `mapstructure:"venue_id"`
	PriceTick      float64  `mapstructure:"price_tick"`
	QuantityTick   float64  `mapstructure:"quantity_tick"`
	MinPrice       float64  `mapstructure:"min_price"`
	MaxPrice       float64  `mapstructure:"max_price"`
	MinQuantity    float64  `mapstructure:"min_quantity"`
	MaxQuantity    float64  `mapstructure:"max_quantity"`
	SupportedTIFs  []string `mapstructure:"supported_tifs"`
	SupportedSides []string `mapstructure:"supported_sides"`
}

var (
	config   *Config
	configMu sync.Mutex
)

// LoadConfig reads the configuration from configPath, applying defaults
// and the TRADSYS_ environment prefix on top. Unlike the package's
// earlier sync.Once-memoized form, every call re-reads the file: the
// admin server's /reload endpoint depends on this to pick up an edited
// reference-data file (internal/bootstrap.System.Reload).
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}
	setDefaultsOn(cfg)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config path
	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/simcore")
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("TRADSYS")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults and environment variables
	}

	// Unmarshal config
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	configMu.Lock()
	config = cfg
	configMu.Unlock()

	return cfg, nil
}

// GetConfig returns the most recently loaded configuration, loading the
// default search path on first use.
func GetConfig() *Config {
	configMu.Lock()
	loaded := config
	configMu.Unlock()
	if loaded == nil {
		cfg, err := LoadConfig("")
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		return cfg
	}
	return loaded
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Marshal config to JSON
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaultsOn sets default values on cfg before the config file is
// unmarshaled over it.
func setDefaultsOn(cfg *Config) {
	// Admin defaults
	cfg.Admin.Host = "0.0.0.0"
	cfg.Admin.Port = 8080

	// Matching defaults
	cfg.Matching.WorkerPoolCapacity = 1
	cfg.Matching.TickIntervalMillis = 1000

	// Monitoring defaults
	cfg.Monitoring.PrometheusPort = 9090
	cfg.Monitoring.LogLevel = "info"
}

// InitLogger initializes the logger based on the configuration
func InitLogger(cfg *Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	switch cfg.Monitoring.LogLevel {
	case "debug":
		logger, err = zap.NewDevelopment()
	case "info", "warn", "error":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewProduction()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}
