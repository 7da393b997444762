package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amineweldmaryem/boutique/internal/config"
)

func TestPrepareSQLiteDSN(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	file := filepath.Join(dir, "shop.db")

	got, err := prepareSQLiteDSN(file)
	if err != nil {
		t.Fatalf("prepare dsn failed: %v", err)
	}
	if got != file+"?"+sqliteDefaultPragmas {
		t.Fatalf("unexpected dsn %s", got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("sqlite dir should be created: %v", err)
	}

	got, err = prepareSQLiteDSN(file + "?cache=shared")
	if err != nil || got != file+"?cache=shared&"+sqliteDefaultPragmas {
		t.Fatalf("query should be extended, got %s err %v", got, err)
	}

	explicit := file + "?_pragma=journal_mode(DELETE)"
	if got, _ := prepareSQLiteDSN(explicit); got != explicit {
		t.Fatalf("explicit pragma must be kept, got %s", got)
	}

	memory := "file:orders?mode=memory&cache=shared"
	if got, _ := prepareSQLiteDSN(memory); got != memory {
		t.Fatalf("memory dsn must be untouched, got %s", got)
	}
	if _, err := prepareSQLiteDSN("  "); err == nil {
		t.Fatalf("empty dsn should fail")
	}
}

func TestOpenDBMigratesSQLite(t *testing.T) {
	db, err := OpenDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		Pool:   config.DatabasePoolConfig{MaxOpenConns: 1},
	})
	if err != nil {
		t.Fatalf("open db failed: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !db.Migrator().HasTable(&SalesAnalytics{}) {
		t.Fatalf("sales analytics table missing")
	}
	if err := InitDefaultAdmin(db, "", "s3cret-pass"); err != nil {
		t.Fatalf("init admin failed: %v", err)
	}
	if err := InitDefaultAdmin(db, "other", "x"); err != nil {
		t.Fatalf("second init should be noop: %v", err)
	}
	var count int64
	db.Model(&Admin{}).Count(&count)
	if count != 1 {
		t.Fatalf("want exactly one admin got %d", count)
	}
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDB(config.DatabaseConfig{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
