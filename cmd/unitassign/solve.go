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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardflow/unit-assignment-optimizer/internal/logging"
	"github.com/wardflow/unit-assignment-optimizer/internal/optimizer"
)

func newSolveCmd() *cobra.Command {
	var (
		demandJSON      string
		capacityJSON    string
		affinityJSON    string
		constraintsJSON string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one assignment problem from JSON payloads",
		Long: `solve runs the primary entry point once. Inputs are the four JSON
payloads of the engine contract; the result (or an {"error": ...} value) is
printed to stdout. The command always exits 0 when the engine produced a
result value, including an error value, matching the embeddable boundary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := logging.IntoContext(cmd.Context(), logging.NewLogger(cfg.LogVerbosity))
			eng, err := optimizer.New(cfg)
			if err != nil {
				return err
			}

			out := eng.SolveUnitAssignment(ctx,
				[]byte(demandJSON),
				[]byte(capacityJSON),
				[]byte(affinityJSON),
				[]byte(constraintsJSON))
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&demandJSON, "demand", "{}", "demand JSON: service -> patient count")
	cmd.Flags().StringVar(&capacityJSON, "capacity", "{}", "capacity JSON: unit -> bed count")
	cmd.Flags().StringVar(&affinityJSON, "affinity", "", "affinity JSON: service -> unit -> score in [0,1]")
	cmd.Flags().StringVar(&constraintsJSON, "constraints", "", "constraints JSON: array of force_flow rules")
	return cmd
}
