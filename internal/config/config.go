package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the server. All fields have working
// defaults so a missing config file is not an error.
type Config struct {
	Server struct {
		Port int `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path" default:"./abtest.db" validate:"required"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`
	Auth struct {
		// TokenFile receives the generated admin token on startup so the
		// token command can read it back.
		TokenFile string `yaml:"token_file" default:".abtest-token"`
	} `yaml:"auth"`
}

var validate = validator.New()

// Load reads a YAML config file, fills defaults, applies environment
// overrides, and validates the result. An empty path or a missing file
// yields the default configuration.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&c)

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("ABTEST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("ABTEST_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("ABTEST_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ABTEST_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}
