// Package config fills env-tagged structs from the process environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg, which must be a pointer to a
// struct using `env` and `envDefault` tags:
//
//	type Config struct {
//	    StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
//	    DebounceMS  int    `env:"DEBOUNCE_MS" envDefault:"250"`
//	}
func Load(cfg any) error {
	return LoadWith(cfg, env.Options{})
}

// LoadFrom parses cfg from vars instead of the process environment. Missing
// variables fall back to their envDefault.
func LoadFrom(cfg any, vars map[string]string) error {
	return LoadWith(cfg, env.Options{Environment: vars})
}

// LoadWith parses cfg using explicit env options, for example a Prefix when
// several front ends share one environment.
func LoadWith(cfg any, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
