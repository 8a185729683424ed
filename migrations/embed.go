// Package migrations embebe las migraciones SQL.
package migrations

import "embed"

// PostgresFS contiene las migraciones del schema de usuarios.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// PostgresDir es el directorio dentro de PostgresFS.
const PostgresDir = "postgres"
