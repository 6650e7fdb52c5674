package storage

import (
	"database/sql"
	"testing"

	"go.uber.org/zap"

	"onlinebooking/internal/storage/migrations"
)

func TestNewMigratorNeedsDB(t *testing.T) {
	if _, err := NewMigrator(nil, migrations.FS, zap.NewNop()); err == nil {
		t.Fatal("NewMigrator(nil) returned no error")
	}
}

func TestMigratorVersions(t *testing.T) {
	// sql.Open does not connect; loading the migrations needs no server
	db, err := sql.Open("postgres", "host=localhost dbname=onlinebooking sslmode=disable")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	m, err := NewMigrator(db, migrations.FS, zap.NewNop())
	if err != nil {
		t.Fatalf("NewMigrator: %v", err)
	}
	if got := m.Versions(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Versions() = %v, want [1]", got)
	}
}
