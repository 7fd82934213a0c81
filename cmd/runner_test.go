package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wavecrate/cuedex/internal/shared"
	testutil "github.com/wavecrate/cuedex/internal/testing"
)

func TestNewRunner(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})

		if r.config == nil {
			t.Error("config should default")
		}
		if r.logger == nil {
			t.Error("logger should default")
		}
		if r.output == nil {
			t.Error("output should default")
		}
	})

	t.Run("keeps provided dependencies", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := shared.DefaultConfig()
		r := NewRunner(RunnerOpts{Config: cfg, Output: &buf})

		if r.config != cfg {
			t.Error("provided config replaced")
		}
		r.writePlain("hello")
		if buf.String() != "hello" {
			t.Errorf("output = %q", buf.String())
		}
	})
}

func TestRunnerWriters(t *testing.T) {
	t.Run("writeJSON pretty prints", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]int{"tracks": 3}, true); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "\"tracks\": 3") {
			t.Errorf("output = %q", out)
		}
		if !strings.HasSuffix(out, "\n") {
			t.Error("output should end with newline")
		}
	})

	t.Run("writeJSON compact", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]int{"tracks": 3}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := buf.String(); got != "{\"tracks\":3}\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("write errors propagate", func(t *testing.T) {
		r := NewRunner(RunnerOpts{Output: &testutil.FWriter{}})

		if err := r.writeJSON("x", false); err == nil {
			t.Error("expected error from failing writer")
		}
		if err := r.writePlain("x"); err == nil {
			t.Error("expected error from failing writer")
		}
		if err := r.writePlainln("x"); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("unmarshalable data fails", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(func() {}, false); err == nil {
			t.Error("expected marshal error")
		}
	})
}

func TestRegister(t *testing.T) {
	r := NewRunner(RunnerOpts{})
	commands := r.register()

	want := map[string]bool{"resolve": false, "cache": false, "setup": false, "tui": false}
	for _, cmd := range commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
