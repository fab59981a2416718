package store

import (
	"database/sql"
	"fmt"
	"strings"
)

//go:generate sh -c "cd ../.. && go run internal/store/tools/generate_schema.go"

// SchemaHeader starts the generated schema.sql.
const SchemaHeader = `-- This file is auto-generated from migration files.
-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/store' to regenerate.
-- Source: internal/store/migrations/files/*.sql

`

// DumpSchema returns the CREATE statements of a migrated database, tables
// first, then indexes. SQLite internals and the migration bookkeeping table
// are left out.
func DumpSchema(db *sql.DB) (string, error) {
	const query = `
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY
		  CASE type
		    WHEN 'table' THEN 1
		    WHEN 'index' THEN 2
		  END,
		  name
	`

	rows, err := db.Query(query)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString(SchemaHeader)
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scan failed: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows error: %w", err)
	}
	return b.String(), nil
}

// DB exposes the underlying connection.
func (s *SQLiteStore) DB() *sql.DB { return s.db }
