package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration, loaded from the environment.
// Defaults target local development.
type Config struct {
	Server    Server
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Biometric BiometricConfig
	Sweep     SweepConfig
	Lock      LockConfig
	Auth      AuthConfig
	Log       LogConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"TRUIDA_ADDR"             envDefault:":8080"`
	ReadTimeout     time.Duration `env:"TRUIDA_READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"TRUIDA_WRITE_TIMEOUT"    envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"TRUIDA_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Environment     string        `env:"TRUIDA_ENV"              envDefault:"dev"`
}

// PostgresConfig selects the durable stores. An empty URL keeps everything in memory.
type PostgresConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS"    envDefault:"10"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	Migrate         bool          `env:"DATABASE_MIGRATE"           envDefault:"true"`
}

// RedisConfig enables distributed record locks. An empty URL uses in-process locks.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// KafkaConfig enables the access-event stream. No brokers disables it.
type KafkaConfig struct {
	Brokers           []string `env:"KAFKA_BROKERS"            envSeparator:","`
	Topic             string   `env:"KAFKA_ACCESS_TOPIC"       envDefault:"truida.access-events"`
	ClientID          string   `env:"KAFKA_CLIENT_ID"          envDefault:"truida"`
	Partitions        int32    `env:"KAFKA_TOPIC_PARTITIONS"   envDefault:"3"`
	ReplicationFactor int16    `env:"KAFKA_TOPIC_REPLICATION"  envDefault:"1"`
	EnsureTopic       bool     `env:"KAFKA_ENSURE_TOPIC"       envDefault:"true"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type BiometricConfig struct {
	Digest string `env:"BIOMETRIC_DIGEST" envDefault:"sha256"`
}

type SweepConfig struct {
	Interval      time.Duration `env:"SWEEP_INTERVAL"      envDefault:"1m"`
	Opportunistic bool          `env:"SWEEP_OPPORTUNISTIC" envDefault:"true"`
	// OnVerify sweeps after each decided verification, taking the
	// whole-store lock on every call.
	OnVerify bool `env:"SWEEP_ON_VERIFY" envDefault:"false"`
}

type LockConfig struct {
	WaitTimeout time.Duration `env:"LOCK_WAIT_TIMEOUT" envDefault:"5s"`
	TTL         time.Duration `env:"LOCK_TTL"          envDefault:"10s"`
}

type AuthConfig struct {
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string        `env:"JWT_ISSUER"      envDefault:"truida"`
	StaffTokenTTL time.Duration `env:"STAFF_TOKEN_TTL" envDefault:"12h"`
	AdminToken    string        `env:"ADMIN_API_TOKEN" envDefault:"dev-admin-token"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// FromEnv builds the Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Lock.WaitTimeout <= 0 {
		return Config{}, fmt.Errorf("LOCK_WAIT_TIMEOUT must be positive")
	}
	if cfg.Sweep.Interval <= 0 {
		return Config{}, fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
