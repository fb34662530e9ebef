package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string   `yaml:"port"`
	ReadTimeout  int      `yaml:"readTimeout"`
	WriteTimeout int      `yaml:"writeTimeout"`
	IdleTimeout  int      `yaml:"idleTimeout"`
	AllowOrigins []string `yaml:"allowOrigins"`
	EnablePprof  bool     `yaml:"enablePprof"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json or console
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// NetworkConfig selects the Alephium network and the node to talk to.
type NetworkConfig struct {
	Identifier           string  `yaml:"identifier"` // mainnet, testnet, devnet
	NodeURL              string  `yaml:"nodeURL"`
	ExplorerURL          string  `yaml:"explorerURL"`
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int     `yaml:"rateLimitBurst"`
	BlockCacheMinutes    int     `yaml:"blockCacheMinutes"`
}

// WalletConfig configures the node-hosted wallet used as signer.
type WalletConfig struct {
	Name        string `yaml:"name"`
	Password    string `yaml:"password"`
	PasswordEnv string `yaml:"passwordEnv"`
	AutoConnect bool   `yaml:"autoConnect"`
}

// TransferConfig tunes the send flow and its confirmation polling.
type TransferConfig struct {
	PollIntervalMillis            int64 `yaml:"pollIntervalMillis"`
	MaxPollAttempts               int   `yaml:"maxPollAttempts"`               // 0 = poll until terminal
	TransientErrorNotifyThreshold int   `yaml:"transientErrorNotifyThreshold"` // 0 = never surface transient errors
	TxNotFoundThreshold           int   `yaml:"txNotFoundThreshold"`           // consecutive TxNotFound replies before failing
	NotificationDurationMillis    int64 `yaml:"notificationDurationMillis"`
}

// BalanceConfig holds configuration for the BalanceService.
type BalanceConfig struct {
	CacheTTLSeconds int `yaml:"cacheTTLSeconds"`
}

// NetworkInfoConfig holds configuration for the NetworkInfoService.
type NetworkInfoConfig struct {
	CacheTTLSeconds int `yaml:"cacheTTLSeconds"`
}

// TokensConfig holds configuration for the token list used by the converter.
type TokensConfig struct {
	BaseURL              string `yaml:"baseURL"`
	Dir                  string `yaml:"dir"` // when set, token lists are read from <dir>/<network>.json
	CacheTTLMinutes      int    `yaml:"cacheTTLMinutes"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Network     NetworkConfig     `yaml:"network"`
	Wallet      WalletConfig      `yaml:"wallet"`
	Transfer    TransferConfig    `yaml:"transfer"`
	Balance     BalanceConfig     `yaml:"balance"`
	NetworkInfo NetworkInfoConfig `yaml:"networkInfo"`
	Tokens      TokensConfig      `yaml:"tokens"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// defaultWalletPasswordEnv is consulted when wallet.password and wallet.passwordEnv are both empty.
const defaultWalletPasswordEnv = "ALPH_WALLET_PASSWORD"

// Load reads the YAML configuration file from the given path, unmarshals it and applies defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Failed to parse config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config data from %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse unmarshals raw YAML and applies defaults and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.File != "" {
		if cfg.Logging.MaxSizeMB <= 0 {
			cfg.Logging.MaxSizeMB = 100
		}
		if cfg.Logging.MaxBackups <= 0 {
			cfg.Logging.MaxBackups = 5
		}
		if cfg.Logging.MaxAgeDays <= 0 {
			cfg.Logging.MaxAgeDays = 30
		}
	}

	if cfg.Network.Identifier == "" {
		cfg.Network.Identifier = "testnet"
		logrus.Infof("Network.Identifier not set, defaulting to %s", cfg.Network.Identifier)
	}
	cfg.Network.Identifier = strings.ToLower(cfg.Network.Identifier)
	if cfg.Network.RequestTimeoutMillis <= 0 {
		cfg.Network.RequestTimeoutMillis = 10000
		logrus.Infof("Network.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Network.RequestTimeoutMillis)
	}
	if cfg.Network.RateLimitPerSecond <= 0 {
		cfg.Network.RateLimitPerSecond = 20
	}
	if cfg.Network.RateLimitBurst <= 0 {
		cfg.Network.RateLimitBurst = 10
	}
	if cfg.Network.BlockCacheMinutes <= 0 {
		cfg.Network.BlockCacheMinutes = 60
	}

	if cfg.Wallet.Password == "" {
		envName := cfg.Wallet.PasswordEnv
		if envName == "" {
			envName = defaultWalletPasswordEnv
		}
		cfg.Wallet.Password = os.Getenv(envName)
	}

	if cfg.Transfer.PollIntervalMillis <= 0 {
		cfg.Transfer.PollIntervalMillis = 5000
		logrus.Infof("Transfer.PollIntervalMillis not set, defaulting to %d ms", cfg.Transfer.PollIntervalMillis)
	}
	if cfg.Transfer.TxNotFoundThreshold <= 0 {
		cfg.Transfer.TxNotFoundThreshold = 3
	}
	if cfg.Transfer.NotificationDurationMillis <= 0 {
		cfg.Transfer.NotificationDurationMillis = 5000
	}

	if cfg.Balance.CacheTTLSeconds <= 0 {
		cfg.Balance.CacheTTLSeconds = 30
	}
	if cfg.NetworkInfo.CacheTTLSeconds <= 0 {
		cfg.NetworkInfo.CacheTTLSeconds = 15
	}

	if cfg.Tokens.BaseURL == "" {
		cfg.Tokens.BaseURL = "https://raw.githubusercontent.com/alephium/token-list/master/tokens"
		logrus.Infof("Tokens.BaseURL not set, defaulting to %s", cfg.Tokens.BaseURL)
	}
	if cfg.Tokens.CacheTTLMinutes <= 0 {
		cfg.Tokens.CacheTTLMinutes = 60
	}
	if cfg.Tokens.RequestTimeoutMillis <= 0 {
		cfg.Tokens.RequestTimeoutMillis = cfg.Network.RequestTimeoutMillis
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate reports configuration errors that defaults cannot fix.
func (cfg *Config) Validate() error {
	if cfg.Transfer.MaxPollAttempts < 0 {
		return fmt.Errorf("transfer.maxPollAttempts must not be negative, got %d", cfg.Transfer.MaxPollAttempts)
	}
	if cfg.Transfer.TransientErrorNotifyThreshold < 0 {
		return fmt.Errorf("transfer.transientErrorNotifyThreshold must not be negative, got %d", cfg.Transfer.TransientErrorNotifyThreshold)
	}
	if cfg.Wallet.AutoConnect && cfg.Wallet.Name == "" {
		return fmt.Errorf("wallet.name is required when wallet.autoConnect is enabled")
	}
	return nil
}

// Provider exposes a loaded configuration through port.ConfigProvider.
type Provider struct {
	cfg *Config
}

// NewProvider wraps cfg.
func NewProvider(cfg *Config) *Provider {
	return &Provider{cfg: cfg}
}

// GetConfig returns the wrapped configuration.
func (p *Provider) GetConfig() *Config {
	return p.cfg
}
