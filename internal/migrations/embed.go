// Package migrations holds the versioned SQL schema of the amiigo database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
