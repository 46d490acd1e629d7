package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/storage"
)

// SetupTestStore creates a migrated in-memory trip cache seeded with tables.
// It automatically handles cleanup.
func SetupTestStore(t *testing.T, tables ...*dataset.Table) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, table := range tables {
		if err := store.SaveTable(ctx, table); err != nil {
			t.Fatalf("failed to seed %s trips: %v", table.City, err)
		}
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return store
}

// ReadFixture parses one of the CSV fixtures into a table for city.
func ReadFixture(t *testing.T, city, content string) *dataset.Table {
	t.Helper()

	table, err := dataset.ReadCSV(context.Background(), strings.NewReader(content), city+".csv")
	if err != nil {
		t.Fatalf("failed to parse %s fixture: %v", city, err)
	}
	table.City = city
	return table
}
