// Package migrations carries the schema migration files for the trip
// planner database, embedded so goose can run them without a checkout.
package migrations

import "embed"

// FS exposes every *.sql migration in this directory.
// Hand it to a goose.Provider together with the Postgres dialect.
//
//go:embed *.sql
var FS embed.FS
