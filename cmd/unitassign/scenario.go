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

package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wardflow/unit-assignment-optimizer/internal/demand"
	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
	"github.com/wardflow/unit-assignment-optimizer/internal/optimizer"
	"github.com/wardflow/unit-assignment-optimizer/pkg/core"
)

// scenarioFile is the YAML shape of a scenario definition. Demand comes from
// exactly one of the inline rows or the SQL query.
type scenarioFile struct {
	// Demand holds inline demand rows; unit is optional per row.
	Demand []demandRow `yaml:"demand"`

	// DemandQuery is a SQL query selecting (service[, unit], count) rows,
	// run against the configured Postgres DSN.
	DemandQuery string `yaml:"demandQuery"`

	Capacity    map[string]float64            `yaml:"capacity"`
	Affinity    map[string]map[string]float64 `yaml:"affinity"`
	Constraints []core.Constraint             `yaml:"constraints"`
}

type demandRow struct {
	Service string  `yaml:"service"`
	Unit    string  `yaml:"unit"`
	Count   float64 `yaml:"count"`
}

func newScenarioCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run a simulation scenario from a YAML file",
		Long: `scenario runs the diffing flow: demand rows (inline or from a Postgres
query) are aggregated into totals and a baseline, the allocation is
optimized, and every assignment is reported with its delta against the
baseline.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := logging.IntoContext(cmd.Context(), logging.NewLogger(cfg.LogVerbosity))

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading scenario file: %w", err)
			}
			var sc scenarioFile
			if err := yaml.Unmarshal(raw, &sc); err != nil {
				return fmt.Errorf("parsing scenario file: %w", err)
			}

			source, cleanup, err := demandSource(&sc, cfg.DemandDSN)
			if err != nil {
				return err
			}
			defer cleanup()

			eng, err := optimizer.New(cfg)
			if err != nil {
				return err
			}

			result, err := eng.RunScenario(ctx, optimizer.ScenarioSpec{
				Source:            source,
				Capacity:          sc.Capacity,
				Constraints:       sc.Constraints,
				AffinityOverrides: sc.Affinity,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the scenario YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// demandSource picks the demand source for a scenario: inline rows when
// present, otherwise the SQL query against the configured DSN.
func demandSource(sc *scenarioFile, dsn string) (demand.Source, func(), error) {
	noop := func() {}

	if len(sc.Demand) > 0 {
		rows := make([]demand.Row, len(sc.Demand))
		for i, r := range sc.Demand {
			rows[i] = demand.Row{Service: r.Service, Unit: r.Unit, Count: r.Count}
		}
		return &demand.StaticSource{Rows: rows}, noop, nil
	}

	if sc.DemandQuery == "" {
		return nil, noop, fmt.Errorf("scenario needs either inline demand rows or a demandQuery")
	}
	if dsn == "" {
		return nil, noop, fmt.Errorf("demandQuery requires a Postgres DSN (UAO_DEMANDDSN or config file)")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, noop, fmt.Errorf("opening demand database: %w", err)
	}
	cleanup := func() {
		_ = db.Close()
	}
	return demand.NewPostgresSource(db, sc.DemandQuery), cleanup, nil
}
