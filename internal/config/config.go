// Package config loads server configuration from a YAML file and
// environment variables.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting of the back-office server.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL" env-default:"Info"`
	HTTPServer `yaml:"http_server"`

	// DatabaseDSN is the Postgres connection string of the shared store.
	DatabaseDSN string `yaml:"database_dsn" env:"DATABASE_DSN" env-required:"true"`

	// DataDir is where the local JSON store and pending queue live.
	DataDir string `yaml:"data_dir" env:"DATA_DIR" env-default:"data"`

	// DeviceName identifies this installation in sync logs.
	DeviceName string `yaml:"device_name" env:"DEVICE_NAME" env-default:"back-office"`

	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`

	// ProbeInterval is how often connectivity is re-checked.
	ProbeInterval time.Duration `yaml:"probe_interval" env:"PROBE_INTERVAL" env-default:"5m"`

	// SyncLogRetention bounds how long sync history is kept.
	SyncLogRetention time.Duration `yaml:"sync_log_retention" env:"SYNC_LOG_RETENTION" env-default:"720h"`

	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`
}

// HTTPServer groups the listener settings.
type HTTPServer struct {
	Address     string        `yaml:"address" env:"SERVER_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"SERVER_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// MustConfig reads the config file named by -config/CONFIG_PATH, falling
// back to environment variables alone when no file exists. It exits on
// any error.
func MustConfig() *Config {
	var path string
	flag.StringVar(&path, "config", "config.yaml", "path to config file")
	flag.StringVar(&path, "c", "config.yaml", "path to config file (shorthand)")
	flag.Parse()

	if env := os.Getenv("CONFIG_PATH"); env != "" {
		path = env
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("cannot read config %s: %v", path, err)
		}
		return &cfg
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %v", err)
	}
	return &cfg
}
