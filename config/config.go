package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Log        LogConfig        `mapstructure:"log"`
	Settlement SettlementConfig `mapstructure:"settlement"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig backs workflow locks, gateway dedup and the ledger cache,
// which all share one connection pool.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// GatewayConfig holds the shared secret the payment gateway signs callbacks with.
type GatewayConfig struct {
	SigningSecret string `mapstructure:"signing_secret"` // empty = signature check disabled
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// SettlementConfig drives the settlement sweeps and the cancellation rules.
type SettlementConfig struct {
	SweepInterval       time.Duration `mapstructure:"sweep_interval"`
	PayoutInterval      time.Duration `mapstructure:"payout_interval"`
	BatchSize           int           `mapstructure:"batch_size"`
	Workers             int           `mapstructure:"workers"`
	LockTTL             time.Duration `mapstructure:"lock_ttl"`
	CancellationWindow  time.Duration `mapstructure:"cancellation_window"`
	RefundDelay         time.Duration `mapstructure:"refund_delay"`
	CompletionDelay     time.Duration `mapstructure:"completion_delay"`
	MaxProcessingErrors int           `mapstructure:"max_processing_errors"`
	LedgerCacheTTL      time.Duration `mapstructure:"ledger_cache_ttl"`
	DefaultPolicy       PolicyConfig  `mapstructure:"default_policy"`
}

// PolicyConfig is the fee policy used when no active policy is stored.
// Amounts are decimal strings so they never pass through float64.
type PolicyConfig struct {
	FeePercentage  string `mapstructure:"fee_percentage"`
	MinimumFee     string `mapstructure:"minimum_fee"`
	MaximumFee     string `mapstructure:"maximum_fee"` // empty = uncapped
	PayoutWaitHour int    `mapstructure:"payout_wait_hours"`
}

// CancellationWindowHours returns the cancellation window in whole hours.
func (s SettlementConfig) CancellationWindowHours() int {
	return int(s.CancellationWindow / time.Hour)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: TSE_ (Tutor Settlement Engine).
// Nested keys use underscore: TSE_DATABASE_HOST, TSE_SETTLEMENT_SWEEP_INTERVAL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "tutor_settlement")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "2s")
	v.SetDefault("redis.write_timeout", "2s")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "tutor-settlement")
	v.SetDefault("gateway.signing_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("settlement.sweep_interval", "2m")
	v.SetDefault("settlement.payout_interval", "5m")
	v.SetDefault("settlement.batch_size", 200)
	v.SetDefault("settlement.workers", 8)
	v.SetDefault("settlement.lock_ttl", "1m")
	v.SetDefault("settlement.cancellation_window", "6h")
	v.SetDefault("settlement.refund_delay", "48h")
	v.SetDefault("settlement.completion_delay", "1m")
	v.SetDefault("settlement.max_processing_errors", 10)
	v.SetDefault("settlement.ledger_cache_ttl", "1m")
	v.SetDefault("settlement.default_policy.fee_percentage", "2")
	v.SetDefault("settlement.default_policy.minimum_fee", "0.50")
	v.SetDefault("settlement.default_policy.maximum_fee", "")
	v.SetDefault("settlement.default_policy.payout_wait_hours", 24)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: TSE_DATABASE_HOST -> database.host
	v.SetEnvPrefix("TSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
