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

// unitassign is the command-line front end of the unit-assignment
// optimization engine.
package main

import (
	"context"
	"os"

	_ "github.com/lib/pq" // postgres driver for the demand source
	"github.com/spf13/cobra"

	"github.com/wardflow/unit-assignment-optimizer/internal/config"
	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "unitassign",
		Short: "Optimize patient-to-unit assignments with an LP solver",
		Long: `unitassign turns patient demand, bed capacity, clinical-fit scores and
hard routing rules into a linear program, solves it, and reports the optimal
allocation. Demand can be supplied inline as JSON or queried from Postgres
via a scenario file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to engine config file (YAML)")
	root.AddCommand(newSolveCmd())
	root.AddCommand(newScenarioCmd())
	return root
}

// loadConfig layers the optional --config file and UAO_ environment
// variables over the reference defaults.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func main() {
	// Bootstrap logger for startup; commands rebuild it with the configured
	// verbosity once config is loaded.
	logger := logging.NewLogger(0)
	ctx := logging.IntoContext(context.Background(), logger)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
