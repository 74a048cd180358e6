package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Owner    OwnerConfig
	Discord  DiscordConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ImportConfig holds ingestion settings.
type ImportConfig struct {
	ChannelAddress string `mapstructure:"channel_address"`
}

// OwnerConfig identifies the account holder whose notifications are ingested.
type OwnerConfig struct {
	Name          string
	PhoneNumber   string `mapstructure:"phone_number"`
	AccountNumber string `mapstructure:"account_number"`
}

// DiscordConfig holds optional run-summary notification settings. An empty
// bot token disables notifications.
type DiscordConfig struct {
	BotToken  string `mapstructure:"bot_token"`
	ChannelID string `mapstructure:"channel_id"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// MOMOLEDGER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", "momoledger.db")
	v.SetDefault("import.channel_address", "M-Money")
	v.SetDefault("owner.name", "Account Owner")
	v.SetDefault("owner.phone_number", "")
	v.SetDefault("owner.account_number", "")
	v.SetDefault("discord.bot_token", "")
	v.SetDefault("discord.channel_id", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("MOMOLEDGER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("momoledger")
	}

	v.SetEnvPrefix("MOMOLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Owner.AccountNumber == "" {
		return Config{}, fmt.Errorf("owner.account_number is not set")
	}
	return c, nil
}
