// Package config holds the runtime configuration shared by all commands.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/idelchi/gogen/pkg/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override flags, e.g. PACKCRYPT_KEY.
const EnvPrefix = "PACKCRYPT"

// ErrUsage is returned for invalid flag combinations and values.
var ErrUsage = errors.New("usage error")

// Config is populated from flags, environment variables and positional arguments.
type Config struct {
	// Positional arguments
	Input  string `yaml:"input"  validate:"required"`
	Output string `yaml:"output"`

	// Key material
	Key     string `yaml:"key"      validate:"exclusive=KeyFile" mask:"filled"`
	KeyFile string `yaml:"key-file" mapstructure:"key-file" validate:"omitempty,file"`
	Ask     bool   `yaml:"ask"      validate:"exclusive_bool=Key KeyFile"`

	// Selection
	Exclude     []string `yaml:"exclude"`
	ExcludeFrom string   `yaml:"exclude-from" mapstructure:"exclude-from" validate:"omitempty,file"`

	// Behavior
	Parallel     int  `yaml:"parallel"      validate:"min=1"`
	VerifyHeader bool `yaml:"verify-header" mapstructure:"verify-header"`
	Dry          bool `yaml:"dry"`

	// Output
	Quiet bool `yaml:"quiet"`
	Stats bool `yaml:"stats"`
	Show  bool `yaml:"-"`

	// Set by the command, not by flags
	Decrypt bool `yaml:"decrypt" mapstructure:"-"`
}

// Load binds the command's flags and PACKCRYPT_* environment variables into a Config.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Parallel == 0 {
		cfg.Parallel = 1
	}

	return &cfg, nil
}

// Display reports whether the configuration should be shown instead of running the command.
func (c *Config) Display() bool {
	return c.Show
}

// Validate validates config against its struct tags.
func (c *Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return fmt.Errorf("registering exclusive: %w", err)
	}

	errs := validator.Validate(config)

	switch {
	case errs == nil:
		return nil
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrUsage, errs[0])
	default:
		return fmt.Errorf("%ws:\n%w", ErrUsage, errors.Join(errs...))
	}
}

// HasKey reports whether key material was supplied in any form.
func (c *Config) HasKey() bool {
	return c.Key != "" || c.KeyFile != "" || c.Ask
}

// Render renders the configuration as YAML with the key masked.
func (c *Config) Render() (string, error) {
	shown := *c
	if shown.Key != "" {
		shown.Key = strings.Repeat("*", len(shown.Key))
	}

	out, err := yaml.Marshal(shown)
	if err != nil {
		return "", fmt.Errorf("rendering configuration: %w", err)
	}

	return string(out), nil
}
