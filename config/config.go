// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// EvelopURLsConfig holds every remote endpoint of the booking flow. The
// home page doubles as the route-catalog and dates-feed source; the rest
// are the session-bound steps of the search protocol.
type EvelopURLsConfig struct {
	HomePage           string `yaml:"home_page"`
	AvailabilitySubmit string `yaml:"availability_submit"`
	Valuation          string `yaml:"valuation"`
	AvailabilitySelect string `yaml:"availability_select"`
	PriceReload        string `yaml:"price_reload"`
}

type HTTPConfig struct {
	TimeoutStr string `yaml:"timeout"`
	Timeout    time.Duration
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	EvelopURLs EvelopURLsConfig `yaml:"evelop_urls"`
	HTTP       HTTPConfig       `yaml:"http"`
}

var AppConfig Config

// LoadConfig reads the YAML configuration file, applies environment
// overrides for credentials and parses durations.
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Credentials may come from the environment (.env is loaded in main).
	if v := os.Getenv("DB_USER"); v != "" {
		AppConfig.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		AppConfig.Database.Password = v
	}

	if AppConfig.HTTP.TimeoutStr != "" {
		AppConfig.HTTP.Timeout, err = time.ParseDuration(AppConfig.HTTP.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse http timeout: %w", err)
		}
	} else {
		// Every remote call must be bounded: an unbounded hang on any of
		// the up to 5 sequential calls in the round-trip price path would
		// block the whole search.
		AppConfig.HTTP.Timeout = 30 * time.Second
	}

	return nil
}
