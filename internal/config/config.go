/*
Copyright 2025 The Wardflow Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads and validates the engine configuration. Values come
// from defaults, an optional YAML config file, and UAO_-prefixed environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Solver backend names accepted in configuration.
const (
	BackendSimplex = "simplex"
	BackendRemote  = "remote"
)

// Reference defaults. The noise floor and rounding precision are reference
// constants with no derivation; they are overridable but must not be
// re-derived, since downstream consumers depend on stable output shapes.
const (
	DefaultOverflowUnit    = "Overflow"
	DefaultOverflowCost    = 100.0
	DefaultNeutralAffinity = 0.5
	DefaultNoiseFloor      = 0.1
	DefaultRoundingDigits  = 2
	DefaultTolerance       = 1e-3
	DefaultSolveTimeout    = 30 * time.Second
)

// Config holds every tunable of the optimization engine.
type Config struct {
	// SolverBackend selects the LP backend: simplex or remote.
	SolverBackend string `mapstructure:"solverBackend"`

	// Tolerance is the solver's numeric stopping tolerance.
	Tolerance float64 `mapstructure:"tolerance"`

	// SolveTimeout is the hard per-solve deadline. Zero disables it.
	SolveTimeout time.Duration `mapstructure:"solveTimeout"`

	// SerializeSolves forces solve calls through a mutex, for backends
	// that are not reentrant.
	SerializeSolves bool `mapstructure:"serializeSolves"`

	// RemoteSolverURL is the base URL of the remote solver service.
	// Required when SolverBackend is remote.
	RemoteSolverURL string `mapstructure:"remoteSolverURL"`

	// OverflowUnit names the synthetic feasibility sink appended to every
	// problem.
	OverflowUnit string `mapstructure:"overflowUnit"`

	// OverflowCost is the per-patient penalty for routing into the sink.
	OverflowCost float64 `mapstructure:"overflowCost"`

	// NeutralAffinity is the clinical-fit score assumed for (service, unit)
	// pairs with no affinity entry.
	NeutralAffinity float64 `mapstructure:"neutralAffinity"`

	// NoiseFloor discards solver residues at or below this value when
	// decoding the solution vector.
	NoiseFloor float64 `mapstructure:"noiseFloor"`

	// RoundingDigits is the decimal precision of reported patient counts.
	RoundingDigits int `mapstructure:"roundingDigits"`

	// DemandDSN is the Postgres connection string for the demand source.
	// Empty when demand comes from static rows.
	DemandDSN string `mapstructure:"demandDSN"`

	// LogVerbosity is the maximum enabled logr V level.
	LogVerbosity int `mapstructure:"logVerbosity"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		SolverBackend:   BackendSimplex,
		Tolerance:       DefaultTolerance,
		SolveTimeout:    DefaultSolveTimeout,
		OverflowUnit:    DefaultOverflowUnit,
		OverflowCost:    DefaultOverflowCost,
		NeutralAffinity: DefaultNeutralAffinity,
		NoiseFloor:      DefaultNoiseFloor,
		RoundingDigits:  DefaultRoundingDigits,
	}
}

// Load reads configuration from the optional file at path and from the
// environment, layered over Default(). Passing an empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("solverBackend", def.SolverBackend)
	v.SetDefault("tolerance", def.Tolerance)
	v.SetDefault("solveTimeout", def.SolveTimeout)
	v.SetDefault("serializeSolves", def.SerializeSolves)
	v.SetDefault("overflowUnit", def.OverflowUnit)
	v.SetDefault("overflowCost", def.OverflowCost)
	v.SetDefault("neutralAffinity", def.NeutralAffinity)
	v.SetDefault("noiseFloor", def.NoiseFloor)
	v.SetDefault("roundingDigits", def.RoundingDigits)
	v.SetDefault("logVerbosity", def.LogVerbosity)

	v.SetEnvPrefix("UAO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	switch c.SolverBackend {
	case BackendSimplex:
	case BackendRemote:
		if c.RemoteSolverURL == "" {
			return fmt.Errorf("remoteSolverURL is required with the remote backend")
		}
	default:
		return fmt.Errorf("unsupported solver backend: %q", c.SolverBackend)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be > 0, got %v", c.Tolerance)
	}
	if c.SolveTimeout < 0 {
		return fmt.Errorf("solveTimeout must be >= 0, got %v", c.SolveTimeout)
	}
	if c.OverflowUnit == "" {
		return fmt.Errorf("overflowUnit must not be empty")
	}
	if c.OverflowCost <= 0 {
		return fmt.Errorf("overflowCost must be > 0, got %v", c.OverflowCost)
	}
	if c.NeutralAffinity < 0 || c.NeutralAffinity > 1 {
		return fmt.Errorf("neutralAffinity must be between 0 and 1, got %v", c.NeutralAffinity)
	}
	if c.NoiseFloor < 0 {
		return fmt.Errorf("noiseFloor must be >= 0, got %v", c.NoiseFloor)
	}
	if c.RoundingDigits < 0 {
		return fmt.Errorf("roundingDigits must be >= 0, got %v", c.RoundingDigits)
	}
	return nil
}
