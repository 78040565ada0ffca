package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Validatable is implemented by config structs that check cross-field rules
// after the environment has been parsed.
type Validatable interface {
	Validate() error
}

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
//
// Example:
//
//	type Config struct {
//	    Port      int    `env:"HTTP_PORT" envDefault:"8080"`
//	    ProjectID string `env:"SANITY_PROJECT_ID,required"`
//	}
func Load(cfg any) error {
	return LoadWithPrefix(cfg, "")
}

// LoadWithPrefix is Load with every variable name prefixed, e.g. "STOREFRONT_".
// If cfg implements Validatable its Validate method runs after parsing.
func LoadWithPrefix(cfg any, prefix string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if v, ok := cfg.(Validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}
	return nil
}
