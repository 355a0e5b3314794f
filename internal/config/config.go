package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string          `yaml:"env" env:"ENV" env-default:"local"`
	DatabaseUrl string          `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	MaxConns    int32           `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	Server      ServerConfig    `yaml:"rest"`
	JWT         JWTSecret       `yaml:"jwt"`
	CORS        CORSConfig      `yaml:"cors"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Journal     JournalConfig   `yaml:"journal"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
}

type JWTSecret struct {
	Secret string `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

// RateLimitConfig limits requests per authenticated user.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"10"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

type JournalConfig struct {
	// DefaultTimezone applies to users without a stored timezone.
	DefaultTimezone string `yaml:"default_timezone" env:"JOURNAL_DEFAULT_TIMEZONE" env-default:"UTC"`
}

// Load reads the YAML file at path; environment variables override it.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var config Config
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if config.RateLimit.RPS <= 0 || config.RateLimit.Burst <= 0 {
		return nil, errors.New("rate_limit.rps and rate_limit.burst must be positive")
	}
	return &config, nil
}

func MustLoad() *Config {
	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to read .env: %v", err)
	}

	path := fetchConfigPath()
	if path == "" {
		panic("Config file not found in path")
	}

	log.Printf("Loading config from %s", path)
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "config path")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "./config/local.yaml"
	}

	return res
}
