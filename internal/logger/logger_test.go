package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolveLogFilePathCreatesDirAndDefaultName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	got, err := resolveLogFilePath(Options{Dir: dir})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	if filepath.Dir(got) != dir {
		t.Fatalf("unexpected log dir: got=%s want=%s", filepath.Dir(got), dir)
	}
	if filepath.Base(got) != "app.log" {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Info("stock_decrement_done", zap.Uint("product_id", 7))
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"message":"stock_decrement_done"`) || !strings.Contains(text, `"product_id":7`) {
		t.Fatalf("expected json log line, got=%s", text)
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestFromContextCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L
	L = zap.New(core)
	t.Cleanup(func() { L = prev })

	ctx := WithContext(context.Background(), "request_id", "req-1")
	ctx = WithContext(ctx, "order_id", uint(42))
	FromContext(ctx).Infow("order_deleted")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 log entry got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" {
		t.Fatalf("want request_id req-1 got %v", fields["request_id"])
	}
	if fields["order_id"] != uint64(42) {
		t.Fatalf("want order_id 42 got %v (%T)", fields["order_id"], fields["order_id"])
	}
}

func TestNewHonoursExplicitLevel(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Level: "warn", Dir: tmpDir, Filename: "lvl.log"})
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "lvl.log"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if strings.Contains(string(content), "hidden") || !strings.Contains(string(content), "shown") {
		t.Fatalf("level filter not applied: %s", content)
	}
}
