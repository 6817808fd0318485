package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration read from the environment.
type Config struct {
	DatabaseURL       string
	ServerPort        string
	AllowedOrigins    []string
	PrometheusEnabled bool
	Location          *time.Location
	MaxConns          int32
	// Operator is recorded as criado_por on sales rung up at the terminal.
	Operator string
}

// Load reads configuration from environment variables, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ServerPort:        os.Getenv("SERVER_PORT"),
		AllowedOrigins:    splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		PrometheusEnabled: os.Getenv("PROMETHEUS_ENABLED") == "true",
		MaxConns:          10,
		Operator:          os.Getenv("PDV_OPERATOR"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	if cfg.Operator == "" {
		cfg.Operator = "caixa"
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		log.Printf("invalid SERVER_PORT value %q, defaulting to 8080", cfg.ServerPort)
		cfg.ServerPort = "8080"
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Printf("invalid DB_MAX_CONNS value %q, defaulting to 10", v)
		} else {
			cfg.MaxConns = int32(n)
		}
	}

	loc, err := loadLocation(os.Getenv("TIMEZONE"))
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	return cfg, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
