// Package migrations carries the versioned PostgreSQL schema.
package migrations

import "embed"

// Files holds every NNNNNN_name.up.sql / .down.sql pair
//
//go:embed *.sql
var Files embed.FS
