package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSkipsMissingAndKeepsProcessValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	data := "# tuning\nPHYSICS_SCENE=\"stack\"\nPHYSICS_ITERATIONS=7\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHYSICS_ITERATIONS", "3")
	t.Setenv("PHYSICS_SCENE", "")
	os.Unsetenv("PHYSICS_SCENE")

	loaded, err := Load(filepath.Join(dir, "missing.env"), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0] != path {
		t.Errorf("loaded: got %v", loaded)
	}
	if got := os.Getenv("PHYSICS_SCENE"); got != "stack" {
		t.Errorf("PHYSICS_SCENE: got %q", got)
	}
	if got := os.Getenv("PHYSICS_ITERATIONS"); got != "3" {
		t.Errorf("PHYSICS_ITERATIONS: got %q, want the process value", got)
	}
}
