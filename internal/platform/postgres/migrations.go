package postgres

import "embed"

// MigrationTableName is the table goose uses to track applied migrations.
const MigrationTableName = "schema_migrations"

// MigrationsDir is the directory of the migrations inside MigrationsFS.
const MigrationsDir = "migrations"

// MigrationsFS holds the goose SQL migrations.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
