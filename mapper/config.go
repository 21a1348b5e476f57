package mapper

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"config-mapper/naming"
	"config-mapper/options"
)

// Config holds the engine settings.
type Config struct {
	// Naming is the strategy applied to field names without alias.
	Naming string `mapstructure:"naming" yaml:"naming"`
	// OmitDefaults drops properties equal to the constructor default.
	OmitDefaults bool `mapstructure:"omit_defaults" yaml:"omit_defaults"`
	// OmitEmpty drops null properties and empty containers.
	OmitEmpty bool `mapstructure:"omit_empty" yaml:"omit_empty"`
	// SilentValidation swallows every validation failure.
	SilentValidation bool `mapstructure:"silent_validation" yaml:"silent_validation"`
	// LegacyKeys lets confpath act as a fallback key.
	LegacyKeys bool `mapstructure:"legacy_keys" yaml:"legacy_keys"`
	// StrictKeys turns unknown mapping keys into errors.
	StrictKeys bool `mapstructure:"strict_keys" yaml:"strict_keys"`
	// Coercion lists the allowed scalar coercion categories; empty means
	// the defaults.
	Coercion []string `mapstructure:"coercion" yaml:"coercion"`
}

// DefaultConfig returns identity naming and the default coercions.
func DefaultConfig() Config {
	return Config{Naming: naming.Identity.String()}
}

// Strategy resolves the naming strategy.
func (c Config) Strategy() (naming.Strategy, error) {
	return naming.Parse(c.Naming)
}

// Categories resolves the coercion categories.
func (c Config) Categories() (options.CategoryEnum, error) {
	if len(c.Coercion) == 0 {
		return options.CategoryDefault, nil
	}

	return options.ParseCategories(c.Coercion...)
}

// Validate checks that every setting resolves.
func (c Config) Validate() error {
	if _, err := c.Strategy(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, err := c.Categories(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// ConfigFromMap decodes raw settings, rejecting unknown keys. Scalars are
// weakly typed, so "true" and 1 both enable a flag.
func ConfigFromMap(raw map[string]any) (Config, error) {
	cfg := DefaultConfig()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}

	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig parses YAML settings.
func LoadConfig(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return ConfigFromMap(raw)
}
