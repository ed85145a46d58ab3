// Package config loads the dashboard configuration from YAML with defaults, validation and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/logger"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvModelDir = "FORECAST_MODEL_DIR"
	EnvPort     = "FORECAST_PORT"
	EnvLogLevel = "FORECAST_LOG_LEVEL"
)

type Config struct {
	Server    Server        `yaml:"server"`
	Models    Models        `yaml:"models"`
	Dashboard Dashboard     `yaml:"dashboard"`
	Log       logger.Config `yaml:"log"`
	Metrics   Metrics       `yaml:"metrics"`
}

type Server struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s" validate:"gt=0"`
}

type Models struct {
	Dir string `yaml:"dir" default:"models" validate:"required"`
}

type Dashboard struct {
	Title        string `yaml:"title" default:"Forecasting Nepal Economic and Social Development"`
	DefaultDate  string `yaml:"default_date" default:"2030-01-01" validate:"datetime=2006-01-02"`
	HorizonYears int    `yaml:"horizon_years" default:"10" validate:"gte=1,lte=50"`
	Footer       string `yaml:"footer" default:"Developed by Dipen Sherpa | © 2025"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics" validate:"startswith=/"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. Fields absent from the file take their
// default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML, or the defaults if path is empty, and overrides it with
// environment variables.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvModelDir); v != "" {
		c.Models.Dir = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks the config values are usable
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// DefaultTime parses the configured default forecast date
func (d Dashboard) DefaultTime() (time.Time, error) {
	return time.Parse(time.DateOnly, d.DefaultDate)
}
