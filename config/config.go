package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration, loaded once at startup.
type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	Redis RedisConfig `mapstructure:"redis"`
	MySQL MySQLConfig `mapstructure:"mysql"`
	JWT   JWTConfig   `mapstructure:"jwt"`
	Log   LogConfig   `mapstructure:"log"`
	Hub   HubConfig   `mapstructure:"hub"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RedisConfig points at the shared cache. The address is mandatory:
// presence, member sets and the recent-message lists all live there.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MySQLConfig points at the durable store (channels, memberships, messages).
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File enables rotated file output in addition to stdout when set.
	File string `mapstructure:"file"`
}

type HubConfig struct {
	MailboxSize      int           `mapstructure:"mailbox_size"`
	SessionBuffer    int           `mapstructure:"session_buffer"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	EvictionInterval time.Duration `mapstructure:"eviction_interval"`
}

var (
	ErrRedisAddrRequired = errors.New("config: redis address is required")
	ErrMySQLDSNRequired  = errors.New("config: mysql dsn is required")
	ErrJWTSecretRequired = errors.New("config: jwt secret is required")
)

// LoadConfig reads configuration from an optional file plus CHANNEL_* env vars.
// Absence of either backing-store endpoint is startup-fatal.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http.addr", ":8090")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("hub.mailbox_size", 2048)
	v.SetDefault("hub.session_buffer", 1024)
	v.SetDefault("hub.idle_timeout", 30*time.Minute)
	v.SetDefault("hub.eviction_interval", 15*time.Minute)

	v.SetEnvPrefix("CHANNEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Redis.Addr == "" {
		return nil, ErrRedisAddrRequired
	}
	if cfg.MySQL.DSN == "" {
		return nil, ErrMySQLDSNRequired
	}
	if cfg.JWT.Secret == "" {
		return nil, ErrJWTSecretRequired
	}

	return &cfg, nil
}
