package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Board    BoardConfig    `mapstructure:"board"`
}

// ServerConfig configures the front-end listener and session handling.
type ServerConfig struct {
	WebSocket   WebSocketConfig `mapstructure:"websocket"`
	MaxSessions int             `mapstructure:"max_sessions"`
	LeasePeriod time.Duration   `mapstructure:"lease_period"`
}

// WebSocketConfig configures the WebSocket listener.
type WebSocketConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// DatabaseConfig configures the PostgreSQL match archive. Archiving is
// disabled when URL is empty.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// AuthConfig holds the bcrypt hash of the admin password. Admin commands
// are disabled when it is empty.
type AuthConfig struct {
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

// BoardConfig optionally points at an external board geometry file; the
// built-in standard board is used when empty.
type BoardConfig struct {
	GeometryPath string `mapstructure:"geometry_path"`
}

// Load reads configuration from the given YAML file, applying defaults
// and AMALGAM_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.websocket.address", ":8089")
	v.SetDefault("server.max_sessions", 512)
	v.SetDefault("server.lease_period", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.max_conns", 8)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.connect_timeout", 5*time.Second)

	v.SetEnvPrefix("AMALGAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
