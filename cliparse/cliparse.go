// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/danielhkuo/quickly-elect/auth"
)

const (
	DefaultPort         = 3318
	DefaultAMQPExchange = "election.events"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// AdminIdentity is fixed for the life of the process.
	AdminIdentity   string
	IdentityKeySalt string
	ReceiptSalt     string

	AMQPURL      string
	AMQPExchange string

	LogLevel  string
	LogFormat string

	ConfigFile    string
	PrintAdminKey bool
}

// env names for every viper key
var envKeys = map[string]string{
	"port":              "PORT",
	"database.url":      "DATABASE_URL",
	"database.type":     "DATABASE_TYPE",
	"admin.identity":    "ADMIN_IDENTITY",
	"identity.key_salt": "IDENTITY_KEY_SALT",
	"receipt.salt":      "RECEIPT_SALT",
	"amqp.url":          "AMQP_URL",
	"amqp.exchange":     "AMQP_EXCHANGE",
	"log.level":         "LOG_LEVEL",
	"log.format":        "LOG_FORMAT",
	"config":            "CONFIG_FILE",
}

// ParseFlags builds the config. Flags win over the environment (a .env file
// is loaded first), which wins over the optional config file, which wins
// over defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-elect", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or memory)")
	fs.StringVar(&cfg.ConfigFile, "c", "", "Config file (yaml, json or toml)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminIdentity, "admin", "", "Admin identity (0x + 40 hex)")
	fs.StringVar(&cfg.IdentityKeySalt, "key-salt", "", "Identity key salt (prefer env)")
	fs.StringVar(&cfg.ReceiptSalt, "receipt-salt", "", "Ballot receipt salt (prefer env)")

	fs.StringVar(&cfg.AMQPURL, "amqp", "", "AMQP broker URL for event publishing")
	fs.StringVar(&cfg.AMQPExchange, "amqp-exchange", "", "AMQP exchange name")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.BoolVar(&cfg.PrintAdminKey, "print-admin-key", false, "Print the admin identity key and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	_ = godotenv.Load(".env")
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}

	v.SetDefault("port", DefaultPort)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("amqp.exchange", DefaultAMQPExchange)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = v.GetString("config")
	}
	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", cfg.ConfigFile, err)
		}
	}

	// Fall back to environment variables and the config file
	if cfg.Port == 0 {
		cfg.Port = v.GetInt("port")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid port")
	}
	fallback(&cfg.DatabaseType, v, "database.type")
	fallback(&cfg.DatabaseURL, v, "database.url")
	fallback(&cfg.AdminIdentity, v, "admin.identity")
	fallback(&cfg.IdentityKeySalt, v, "identity.key_salt")
	fallback(&cfg.ReceiptSalt, v, "receipt.salt")
	fallback(&cfg.AMQPURL, v, "amqp.url")
	fallback(&cfg.AMQPExchange, v, "amqp.exchange")
	fallback(&cfg.LogLevel, v, "log.level")
	fallback(&cfg.LogFormat, v, "log.format")

	cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
	switch cfg.DatabaseType {
	case "sqlite", "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case "memory":
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminIdentity == "" {
		return Config{}, errors.New("ADMIN_IDENTITY required")
	}
	admin, err := auth.NormalizeIdentity(cfg.AdminIdentity)
	if err != nil {
		return Config{}, fmt.Errorf("ADMIN_IDENTITY: %w", err)
	}
	cfg.AdminIdentity = admin

	if cfg.IdentityKeySalt == "" {
		return Config{}, errors.New("IDENTITY_KEY_SALT required")
	}
	if cfg.ReceiptSalt == "" {
		return Config{}, errors.New("RECEIPT_SALT required")
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	return cfg, nil
}

func fallback(dst *string, v *viper.Viper, key string) {
	if *dst == "" {
		*dst = v.GetString(key)
	}
}
