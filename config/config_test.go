package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.DataPath != "data/library.db" {
		t.Errorf("DataPath = %q", c.DataPath)
	}
	if c.FontSize != 20 {
		t.Errorf("FontSize = %g, want 20", c.FontSize)
	}
	if c.ViewportWidth != 390 || c.ViewportHeight != 844 {
		t.Errorf("viewport = %gx%g, want 390x844", c.ViewportWidth, c.ViewportHeight)
	}
	if c.BatchSize != 5 {
		t.Errorf("BatchSize = %d, want 5", c.BatchSize)
	}
	if c.Bionic {
		t.Error("Bionic should default to false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.FontSize != 20 {
		t.Errorf("FontSize = %g, want default 20", c.FontSize)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "font_size: 24\nbionic: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.FontSize != 24 {
		t.Errorf("FontSize = %g, want 24", c.FontSize)
	}
	if !c.Bionic {
		t.Error("Bionic = false, want true")
	}
	// Unset fields keep their defaults.
	if c.ViewportWidth != 390 {
		t.Errorf("ViewportWidth = %g, want 390", c.ViewportWidth)
	}
	if c.DataPath != "data/library.db" {
		t.Errorf("DataPath = %q, want default", c.DataPath)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("READLITE_DATA_PATH", "/var/lib/readlite/books.db")
	c := Default().FromEnv()
	if c.DataPath != "/var/lib/readlite/books.db" {
		t.Errorf("DataPath = %q", c.DataPath)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("font_size: [nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load should fail on invalid YAML")
	}
}
