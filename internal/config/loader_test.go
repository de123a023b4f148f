package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrwong99/worldforge/internal/config"
)

func TestLoad_ReadsFileFromDisk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Domain.ID != "frontier" {
		t.Errorf("domain.id: got %q, want %q", cfg.Domain.ID, "frontier")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestValidate_MultipleErrorsAreJoined(t *testing.T) {
	t.Parallel()
	yaml := `
domain:
  id: d
  entity_kinds:
    - kind: npc
    - kind: npc
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected errors, got nil")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "duplicate") {
		t.Errorf("error should mention duplicate, got: %v", err)
	}
	if !strings.Contains(errStr, "subtypes") {
		t.Errorf("error should mention missing subtypes, got: %v", err)
	}
}

func TestValidate_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	yaml := `
domain:
  id: d
  not_a_real_field: true
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field under KnownFields(true), got nil")
	}
}

func TestValidate_ScaleFactorDefaultsToOne(t *testing.T) {
	t.Parallel()
	yaml := `
domain:
  id: d
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.ScaleFactor != 1.0 {
		t.Errorf("engine.scale_factor: got %v, want 1.0", cfg.Engine.ScaleFactor)
	}
}
