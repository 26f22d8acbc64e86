package migrations

import "embed"

// FS holds the SQL migration files, named <version>_<title>.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
