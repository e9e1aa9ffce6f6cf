package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig     `mapstructure:"http"`
	LogLevel   string         `mapstructure:"log_level"`
	MySQL      DatabaseConfig `mapstructure:"mysql"`
	ClickHouse DatabaseConfig `mapstructure:"clickhouse"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Payments   PaymentsConfig `mapstructure:"payments"`
	Site       SiteConfig     `mapstructure:"site"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	AuditTopic string   `mapstructure:"audit_topic"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

type PaymentsConfig struct {
	// MaxAmount is the inclusive ceiling for a single payment.
	MaxAmount string `mapstructure:"max_amount"`
}

// MaxAmountDecimal parses the configured ceiling; invalid config falls
// back to the historical default of 999999.99.
func (p PaymentsConfig) MaxAmountDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(p.MaxAmount)
	if err != nil || d.Sign() <= 0 {
		return decimal.New(99999999, -2)
	}
	return d
}

// SiteConfig is the static presentation configuration handed to the HTTP
// layer at startup. It replaces the mutable per-request site settings the
// old console kept in the database.
type SiteConfig struct {
	Title   string `mapstructure:"title"`
	Header  string `mapstructure:"header"`
	Version string `mapstructure:"version"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (SUPDESK_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (SUPDESK_*)
	v.SetEnvPrefix("SUPDESK")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
