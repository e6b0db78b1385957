package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[runtime]
stack-size = 1024
trace = true
step-limit = 5000

[log]
verbosity = 2
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Runtime.StackSize != 1024 || !c.Runtime.Trace || c.Runtime.StepLimit != 5000 {
		t.Errorf("runtime = %+v", c.Runtime)
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("verbosity = %d, want 2", c.Log.Verbosity)
	}
	if c.Dir == "" {
		t.Error("Dir not set")
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[runtime]`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Runtime.StackSize != 256 {
		t.Errorf("default stack size = %d, want 256", c.Runtime.StackSize)
	}
	if c.Runtime.Trace || c.Runtime.StepLimit != 0 {
		t.Errorf("runtime = %+v, want zero trace and step limit", c.Runtime)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadBadToml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `runtime = [`)
	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[runtime]
stack-size = 64
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if c.Runtime.StackSize != 64 {
		t.Errorf("stack size = %d, want 64", c.Runtime.StackSize)
	}
}

func TestFindAndLoadFallsBackToDefaults(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if c.Runtime.StackSize != 256 {
		t.Errorf("default stack size = %d, want 256", c.Runtime.StackSize)
	}
}
