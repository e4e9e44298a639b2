package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/satheeshds/phonebook/logger"
)

// MemoryDatabase selects the in-memory store instead of a SQL database.
const MemoryDatabase = "memory"

type Config struct {
	Port            int
	DatabaseURL     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Log             logger.Options
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 3001)
	v.SetDefault("database_url", "./data/phonebook.db")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// New returns a viper instance reading environment variables (PORT,
// DATABASE_URL, LOG_LEVEL, ...) and, when present, the dotenv file envFile.
func New(envFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}
	return v, nil
}

// Load decodes v into a Config.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Port:            v.GetInt("port"),
		DatabaseURL:     strings.TrimSpace(v.GetString("database_url")),
		AllowedOrigins:  v.GetStringSlice("allowed_origins"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		Log: logger.Options{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}
	if c.Port <= 0 || c.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return Config{}, errors.New("database_url must not be empty")
	}
	return c, nil
}

// Addr is the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
