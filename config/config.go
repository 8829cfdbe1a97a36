package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"dnse-connect/common"
)

// Config is the application configuration, read from a YAML file with
// environment overrides for the credentials.
type Config struct {
	BaseURL   string `yaml:"base_url" validate:"omitempty,url"`
	Username  string `yaml:"username" validate:"required"`
	Password  string `yaml:"password" validate:"required"`
	AccountNo string `yaml:"account_no"`

	// Accounts maps a friendly alias to a sub-account number.
	Accounts map[string]string `yaml:"accounts"`

	MarketData MarketDataConfig `yaml:"market_data"`

	// TokenCachePath enables JWT reuse across CLI runs when set.
	TokenCachePath string `yaml:"token_cache_path"`
}

// MarketDataConfig locates the MQTT-over-websocket market data broker.
type MarketDataConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LoadConfig reads and validates the configuration file. DNSE_USERNAME and
// DNSE_PASSWORD environment variables override the file values.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if v := os.Getenv("DNSE_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("DNSE_PASSWORD"); v != "" {
		cfg.Password = v
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = common.APIBaseURL
	}
	if cfg.MarketData.Host == "" {
		cfg.MarketData.Host = common.MarketDataHost
	}
	if cfg.MarketData.Port == 0 {
		cfg.MarketData.Port = common.MarketDataPort
	}
	if cfg.MarketData.Path == "" {
		cfg.MarketData.Path = common.MarketDataPath
	}
}

// ResolveAccount maps an alias through the accounts table, passing through
// anything that is not an alias. An empty name resolves to the configured
// default account.
func (cfg *Config) ResolveAccount(name string) string {
	if name == "" {
		return cfg.AccountNo
	}
	if no, ok := cfg.Accounts[name]; ok {
		return no
	}
	return name
}
