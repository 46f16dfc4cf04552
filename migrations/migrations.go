package migrations

import "embed"

// FS holds the SQL migrations applied by golang-migrate. The statements are kept portable between sqlite and postgres.
//
//go:embed *.sql
var FS embed.FS
