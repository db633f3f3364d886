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

package demand

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresSource runs a caller-supplied demand query against a database/sql
// handle. The query must select either (service, count) or
// (service, unit, count); the unit column may be NULL, which is treated the
// same as a two-column row. How the SQL is authored and validated is the
// caller's concern.
type PostgresSource struct {
	db    *sql.DB
	query string
	args  []any
}

// NewPostgresSource returns a source for the given query and arguments.
func NewPostgresSource(db *sql.DB, query string, args ...any) *PostgresSource {
	return &PostgresSource{db: db, query: query, args: args}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Fetch implements Source.
func (s *PostgresSource) Fetch(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, s.query, s.args...)
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Err: err}
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Err: err}
	}
	if len(cols) != 2 && len(cols) != 3 {
		return nil, &FetchError{
			Source: s.Name(),
			Err:    fmt.Errorf("demand query returned %d columns, want 2 or 3", len(cols)),
		}
	}

	var out []Row
	for rows.Next() {
		var (
			service string
			unit    sql.NullString
			count   float64
		)
		if len(cols) == 2 {
			err = rows.Scan(&service, &count)
		} else {
			err = rows.Scan(&service, &unit, &count)
		}
		if err != nil {
			return nil, &FetchError{Source: s.Name(), Err: err}
		}
		out = append(out, Row{Service: service, Unit: unit.String, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{Source: s.Name(), Err: err}
	}

	return out, nil
}
