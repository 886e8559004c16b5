package db

import "embed"

// Migrations holds the schema as NNNN_name.up.sql / NNNN_name.down.sql pairs.
//
//go:embed migrations/*.sql
var Migrations embed.FS
