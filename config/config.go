package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	History  HistoryConfig  `yaml:"history"`
	Sentry   SentryConfig   `yaml:"sentry"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"APP_NAME" default:"weatherlookup"`
	Version string `yaml:"version" envconfig:"APP_VERSION" default:"1.0.0"`
	Env     string `yaml:"env" envconfig:"APP_ENV" default:"development"`
}

type ServerConfig struct {
	Port string `yaml:"port" envconfig:"PORT" default:"8080"`
}

// UpstreamConfig holds everything the two proxy clients need. The
// OpenWeatherMap key is deliberately not validated at startup: its
// absence is reported per-request by the weather proxy.
type UpstreamConfig struct {
	PostcodeBaseURL string  `yaml:"postcode_base_url" envconfig:"POSTCODE_BASE_URL" default:"https://api.postcodes.io/postcodes"`
	WeatherBaseURL  string  `yaml:"weather_base_url" envconfig:"WEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5/forecast"`
	WeatherAPIKey   string  `yaml:"weather_api_key" envconfig:"OPENWEATHER_API_KEY"`
	RequestsPerSec  float64 `yaml:"requests_per_sec" envconfig:"UPSTREAM_RPS" default:"5"`
	Burst           int     `yaml:"burst" envconfig:"UPSTREAM_BURST" default:"5"`
}

type HistoryConfig struct {
	DBPath string `yaml:"db_path" envconfig:"HISTORY_DB_PATH" default:"weatherlookup.db"`
}

type SentryConfig struct {
	DSN string `yaml:"dsn" envconfig:"SENTRY_DSN"`
}

type ConfigProvider interface {
	Load() (*Config, error)
	Validate(cnf *Config) error
}

type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	var cnf Config

	if err := p.loadFromFile(&cnf); err != nil {
		return nil, err
	}

	// Environment variables override the file
	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return &cnf, nil
}

// loadFromFile fills cnf from the YAML file if it exists; a missing
// file is not an error, defaults and environment take over.
func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		return nil
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", p.path, err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(cnf *Config) error {
	if cnf.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if cnf.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if cnf.Upstream.PostcodeBaseURL == "" {
		return fmt.Errorf("upstream.postcode_base_url is required")
	}
	if cnf.Upstream.WeatherBaseURL == "" {
		return fmt.Errorf("upstream.weather_base_url is required")
	}
	if cnf.Upstream.RequestsPerSec <= 0 {
		return fmt.Errorf("upstream.requests_per_sec must be positive")
	}
	if cnf.History.DBPath == "" {
		return fmt.Errorf("history.db_path is required")
	}
	return nil
}

func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider("config/config.yaml"))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}

	return cnf, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
