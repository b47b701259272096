// Package migrations holds the embedded schema migrations for each
// supported database dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
