// Package config loads the service configuration from an optional YAML file
// and IMAGE_VARIANTS_* environment variables.
//
// Precedence, highest first: environment, config file, struct defaults.
// Nested keys map to environment names by upper-casing and replacing dots with
// underscores, e.g. output.minio.bucket -> IMAGE_VARIANTS_OUTPUT_MINIO_BUCKET.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ironsheep/image-variants/internal/logging"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "IMAGE_VARIANTS"

// Output backends.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// Config is the full service configuration.
type Config struct {
	Log     logging.Config `mapstructure:"log"`
	Resize  ResizeConfig   `mapstructure:"resize"`
	Output  OutputConfig   `mapstructure:"output"`
	Catalog string         `mapstructure:"catalog"`
}

// ResizeConfig selects the sampling engine and the default output quality.
type ResizeConfig struct {
	Engine  string `mapstructure:"engine" default:"imaging" validate:"oneof=imaging xdraw nfnt bild"`
	Quality int    `mapstructure:"quality" default:"82" validate:"min=1,max=100"`
}

// OutputConfig selects where variants are written.
type OutputConfig struct {
	Backend string      `mapstructure:"backend" default:"local" validate:"oneof=local minio"`
	Dir     string      `mapstructure:"dir" default:"variants"`
	Minio   MinioConfig `mapstructure:"minio"`
}

// MinioConfig configures the minio backend.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket" default:"variants"`
	Location  string `mapstructure:"location"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

var envKeys = []string{
	"log.level",
	"log.format",
	"log.file",
	"log.max_size_mb",
	"log.max_backups",
	"log.max_age_days",
	"log.compress",
	"resize.engine",
	"resize.quality",
	"output.backend",
	"output.dir",
	"output.minio.endpoint",
	"output.minio.access_key",
	"output.minio.secret_key",
	"output.minio.bucket",
	"output.minio.location",
	"output.minio.prefix",
	"output.minio.use_ssl",
	"catalog",
}

// Default returns the configuration with only defaults applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config (path: %s): %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and backend requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Output.Backend == BackendMinio {
		var missing []string
		if c.Output.Minio.Endpoint == "" {
			missing = append(missing, "output.minio.endpoint")
		}
		if c.Output.Minio.Bucket == "" {
			missing = append(missing, "output.minio.bucket")
		}
		if len(missing) > 0 {
			return fmt.Errorf("invalid config: %w: %s", errMissingMinio, strings.Join(missing, ", "))
		}
	}
	return nil
}

var errMissingMinio = errors.New("minio backend requires")
