package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/physics.txt"

// Logger stores lines of text in memory and appends them to a file on disk.
// It is safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	path  string
	echo  io.Writer
	lines []string
	limit int
	now   func() time.Time
}

// New returns a Logger writing to path (LogFilePath when empty) and ensures the
// directory exists.
func New(path string) *Logger {
	if path == "" {
		path = LogFilePath
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	return &Logger{path: path, limit: 1024, now: time.Now}
}

// SetEcho mirrors every stamped line to w as well (nil turns it off).
func (l *Logger) SetEcho(w io.Writer) {
	l.mu.Lock()
	l.echo = w
	l.mu.Unlock()
}

// Log appends a line to the logger and to the log file. Each entry is prefixed
// with [timestamp] using local time. Only the newest lines are kept in memory.
func (l *Logger) Log(line string) {
	stamped := "[" + l.now().Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, stamped)
	if len(l.lines) > l.limit {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-l.limit:]...)
	}
	if l.echo != nil {
		_, _ = io.WriteString(l.echo, stamped+"\n")
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Logf formats and logs a line.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
