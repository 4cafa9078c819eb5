package storage

import (
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "nested", "royale.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLiteRepository(db)
}

func TestRosterConfig_EmptyThenSaved(t *testing.T) {
	repo := newTestRepo(t)

	cfg, err := repo.GetRosterConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected no stored config, got %+v", cfg)
	}

	if err := repo.SaveRosterConfig(`[{"name":"Ana"}]`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveRosterConfig(`[{"name":"Bruno"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	cfg, err = repo.GetRosterConfig()
	if err != nil || cfg == nil {
		t.Fatalf("expected stored config, got %+v %v", cfg, err)
	}
	if cfg.Body != `[{"name":"Bruno"}]` {
		t.Fatalf("expected latest body, got %q", cfg.Body)
	}
}
