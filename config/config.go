// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
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

type ScraperConfig struct {
	RegistryURL           string `yaml:"registry_url"`
	Headless              bool   `yaml:"headless"`
	ProbeTimeoutStr       string `yaml:"probe_timeout"`
	DelayBetweenProbesStr string `yaml:"delay_between_probes"`
	MaxDomainsPerRun      int    `yaml:"max_domains_per_run"`

	ProbeTimeout       time.Duration // Parsed duration
	DelayBetweenProbes time.Duration // Parsed duration
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
}

var AppConfig Config

// LoadConfig reads configuration from the YAML file, then applies .env /
// environment overrides for credentials so secrets never need to live in
// the config file.
func LoadConfig(configPath string) error {
	// A missing .env is fine; vars may come from the environment itself.
	_ = godotenv.Load()

	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(file, &AppConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment overrides (deployment secrets)
	if v := os.Getenv("DB_HOST"); v != "" {
		AppConfig.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		AppConfig.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		AppConfig.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		AppConfig.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		AppConfig.Database.DBName = v
	}

	// Parse durations
	if AppConfig.Scraper.ProbeTimeoutStr != "" {
		AppConfig.Scraper.ProbeTimeout, err = time.ParseDuration(AppConfig.Scraper.ProbeTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse probe_timeout: %w", err)
		}
	} else {
		AppConfig.Scraper.ProbeTimeout = 40 * time.Second // Default
	}

	if AppConfig.Scraper.DelayBetweenProbesStr != "" {
		AppConfig.Scraper.DelayBetweenProbes, err = time.ParseDuration(AppConfig.Scraper.DelayBetweenProbesStr)
		if err != nil {
			return fmt.Errorf("failed to parse delay_between_probes: %w", err)
		}
	} else {
		AppConfig.Scraper.DelayBetweenProbes = 350 * time.Millisecond // Default
	}

	if AppConfig.Scraper.MaxDomainsPerRun <= 0 {
		// Safety ceiling so a careless "check all" never turns into a mass
		// scraping run against the registry.
		AppConfig.Scraper.MaxDomainsPerRun = 200
	}

	return nil
}
