package commands

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	r := NewRegistry()
	var ticks int
	var ran bool
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.IntVar(&ticks, "ticks", 10, "")
	r.Register("run", "simulate a scene", fs, func() error {
		ran = true
		return nil
	})

	if err := r.Execute([]string{"run", "-ticks", "250"}); err != nil {
		t.Fatal(err)
	}
	if !ran || ticks != 250 {
		t.Errorf("got ran=%v ticks=%d", ran, ticks)
	}
	if err := r.Execute(nil); !errors.Is(err, ErrUsage) {
		t.Errorf("no args: got %v", err)
	}
	if err := r.Execute([]string{"fly"}); !errors.Is(err, ErrUsage) {
		t.Errorf("unknown: got %v", err)
	}
	fs.SetOutput(&bytes.Buffer{})
	if err := r.Execute([]string{"run", "-ticks", "many"}); err == nil {
		t.Error("bad flag value accepted")
	}
}

func TestUsageIsSorted(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"serve", "bench", "run"} {
		r.Register(n, n+" things", flag.NewFlagSet(n, flag.ContinueOnError), func() error { return nil })
	}
	var buf bytes.Buffer
	r.Usage(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "bench") || !strings.Contains(lines[2], "serve things") {
		t.Errorf("usage:\n%s", buf.String())
	}
}
