package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogfStampsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "physics.txt")
	l := New(path)
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.Local) }
	var echo bytes.Buffer
	l.SetEcho(&echo)

	l.Logf("physics: world reset after %d ticks", 42)

	want := "[2024-05-01 12:30:00] physics: world reset after 42 ticks"
	if lines := l.Lines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("Lines: got %q", lines)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want+"\n" {
		t.Errorf("file: got %q", data)
	}
	if echo.String() != want+"\n" {
		t.Errorf("echo: got %q", echo.String())
	}
}

func TestLinesAreBounded(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "log.txt"))
	l.limit = 3
	for i := range 5 {
		l.Logf("line %d", i)
	}
	lines := l.Lines()
	if len(lines) != 3 || !strings.HasSuffix(lines[0], "line 2") || !strings.HasSuffix(lines[2], "line 4") {
		t.Errorf("got %q", lines)
	}
}
