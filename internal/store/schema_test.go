package store

import (
	"strings"
	"testing"
)

func TestDumpSchema(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	schema, err := DumpSchema(s.DB())
	if err != nil {
		t.Fatalf("DumpSchema() error = %v", err)
	}

	if !strings.HasPrefix(schema, SchemaHeader) {
		t.Error("DumpSchema() is missing the header")
	}
	for _, want := range []string{"CREATE TABLE callers", "CREATE TABLE call_events", "CREATE TABLE products", "CREATE INDEX idx_callers_position"} {
		if !strings.Contains(schema, want) {
			t.Errorf("DumpSchema() missing %q", want)
		}
	}
	if strings.Contains(schema, "schema_migrations") {
		t.Error("DumpSchema() includes the migration table")
	}

	tables := strings.Index(schema, "CREATE TABLE products")
	index := strings.Index(schema, "CREATE INDEX")
	if index < tables {
		t.Error("DumpSchema() lists indexes before tables")
	}
}
