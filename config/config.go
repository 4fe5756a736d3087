package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const EnvPrefix = "ETHWALLET"

type Config struct {
	Network     string            `mapstructure:"network"`
	Nodes       map[string]string `mapstructure:"nodes"`
	NetworksDir string            `mapstructure:"networks_dir"`
	Log         LogConfig         `mapstructure:"log"`
	Gas         GasConfig         `mapstructure:"gas"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	History     HistoryConfig     `mapstructure:"history"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GasConfig holds the values used when the node can't give a usable gas
// price or gas limit.
type GasConfig struct {
	FallbackPriceGwei  string `mapstructure:"fallback_price_gwei"`
	FallbackTokenLimit uint64 `mapstructure:"fallback_token_limit"`
	FallbackCoinLimit  uint64 `mapstructure:"fallback_coin_limit"`
}

func (g GasConfig) FallbackPrice() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(g.FallbackPriceGwei)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid gas.fallback_price_gwei %q: %w", g.FallbackPriceGwei, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("gas.fallback_price_gwei must be positive, got %s", price)
	}
	return price, nil
}

type StorageConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

type HistoryConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	BatchSize     uint64        `mapstructure:"batch_size"`
	Confirmations uint64        `mapstructure:"confirmations"`
	StartBlock    uint64        `mapstructure:"start_block"`
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".ethwallet")
}

func setDefaults(v *viper.Viper) {
	home := defaultHome()

	v.SetDefault("network", "mainnet")
	v.SetDefault("nodes", map[string]string{})
	v.SetDefault("networks_dir", filepath.Join(home, "networks"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("gas.fallback_price_gwei", "21")
	v.SetDefault("gas.fallback_token_limit", 55000)
	v.SetDefault("gas.fallback_coin_limit", 21000)

	v.SetDefault("storage.path", filepath.Join(home, "db"))
	v.SetDefault("storage.in_memory", false)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "wallet-transfers")
	v.SetDefault("kafka.batch_size", 100)
	v.SetDefault("kafka.batch_timeout", time.Second)

	v.SetDefault("history.poll_interval", 15*time.Second)
	v.SetDefault("history.batch_size", 50)
	v.SetDefault("history.confirmations", 2)
	v.SetDefault("history.start_block", 0)
}

// Load reads the config file at path, or ethwallet.yaml in the working
// directory and ~/.ethwallet when path is empty. Environment variables such
// as ETHWALLET_LOG_LEVEL override the file. v may carry flags bound by the
// caller; a fresh viper is used when it is nil.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ethwallet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultHome())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := config.Gas.FallbackPrice(); err != nil {
		return nil, err
	}
	return &config, nil
}
