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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendSimplex, cfg.SolverBackend)
	assert.Equal(t, DefaultTolerance, cfg.Tolerance)
	assert.Equal(t, DefaultSolveTimeout, cfg.SolveTimeout)
	assert.Equal(t, DefaultOverflowUnit, cfg.OverflowUnit)
	assert.Equal(t, DefaultOverflowCost, cfg.OverflowCost)
	assert.Equal(t, DefaultNeutralAffinity, cfg.NeutralAffinity)
	assert.Equal(t, DefaultNoiseFloor, cfg.NoiseFloor)
	assert.Equal(t, DefaultRoundingDigits, cfg.RoundingDigits)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("UAO_NOISEFLOOR", "0.25")
	t.Setenv("UAO_OVERFLOWUNIT", "Holding")
	t.Setenv("UAO_SOLVETIMEOUT", "5s")
	t.Setenv("UAO_LOGVERBOSITY", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.NoiseFloor)
	assert.Equal(t, "Holding", cfg.OverflowUnit)
	assert.Equal(t, 5*time.Second, cfg.SolveTimeout)
	assert.Equal(t, 2, cfg.LogVerbosity)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("solverBackend: remote\nremoteSolverURL: http://solver:8080\nroundingDigits: 3\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.SolverBackend)
	assert.Equal(t, "http://solver:8080", cfg.RemoteSolverURL)
	assert.Equal(t, 3, cfg.RoundingDigits)
	assert.Equal(t, DefaultNoiseFloor, cfg.NoiseFloor, "unset keys keep their defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(*Config) {},
		},
		{
			name: "remote backend with URL",
			mutate: func(c *Config) {
				c.SolverBackend = BackendRemote
				c.RemoteSolverURL = "http://solver:8080"
			},
		},
		{
			name:    "remote backend without URL",
			mutate:  func(c *Config) { c.SolverBackend = BackendRemote },
			wantErr: "remoteSolverURL",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.SolverBackend = "cplex" },
			wantErr: "unsupported solver backend",
		},
		{
			name:    "non-positive tolerance",
			mutate:  func(c *Config) { c.Tolerance = 0 },
			wantErr: "tolerance",
		},
		{
			name:    "negative solve timeout",
			mutate:  func(c *Config) { c.SolveTimeout = -time.Second },
			wantErr: "solveTimeout",
		},
		{
			name:    "empty overflow unit",
			mutate:  func(c *Config) { c.OverflowUnit = "" },
			wantErr: "overflowUnit",
		},
		{
			name:    "non-positive overflow cost",
			mutate:  func(c *Config) { c.OverflowCost = 0 },
			wantErr: "overflowCost",
		},
		{
			name:    "neutral affinity out of range",
			mutate:  func(c *Config) { c.NeutralAffinity = 1.5 },
			wantErr: "neutralAffinity",
		},
		{
			name:    "negative noise floor",
			mutate:  func(c *Config) { c.NoiseFloor = -0.1 },
			wantErr: "noiseFloor",
		},
		{
			name:    "negative rounding digits",
			mutate:  func(c *Config) { c.RoundingDigits = -1 },
			wantErr: "roundingDigits",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
