package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	TokenFile   string
	ViaCEPURL   string
	ViaCEPRPM   int
	LogLevel    string
	PageSize    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("API_URL")), "/"),
		HTTPTimeout: getDuration("HTTP_TIMEOUT", 15*time.Second),
		TokenFile:   getEnv("TOKEN_FILE", defaultTokenFile()),
		ViaCEPURL:   strings.TrimRight(getEnv("VIACEP_URL", "https://viacep.com.br"), "/"),
		ViaCEPRPM:   getInt("VIACEP_RPM", 30),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		PageSize:    getInt("PAGE_SIZE", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_URL is required")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	if strings.TrimSpace(c.TokenFile) == "" {
		return fmt.Errorf("TOKEN_FILE cannot be empty")
	}

	if c.ViaCEPURL == "" {
		return fmt.Errorf("VIACEP_URL cannot be empty")
	}

	if c.ViaCEPRPM <= 0 {
		return fmt.Errorf("VIACEP_RPM must be positive")
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}

	return nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./.gerenciador/session.json"
	}

	return filepath.Join(dir, "gerenciador", "session.json")
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}

	return d
}
