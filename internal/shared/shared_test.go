package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "value") {
		t.Errorf("log output = %q", out)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cuedex.log")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Info("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("ids should be unique")
	}
	if len(a) != 36 {
		t.Errorf("id length = %d, want 36", len(a))
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"tracks": 3}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(compact) != `{"tracks":3}` {
		t.Errorf("compact = %s", compact)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("pretty output not indented: %s", pretty)
	}
}

func TestCacheKey(t *testing.T) {
	t.Run("stable", func(t *testing.T) {
		if CacheKey("search", "strobe deadmau5") != CacheKey("search", "strobe deadmau5") {
			t.Error("same parts should hash identically")
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		if CacheKey("search", "Strobe") != CacheKey("search", "strobe") {
			t.Error("case should not change the key")
		}
	})

	t.Run("part boundaries matter", func(t *testing.T) {
		if CacheKey("ab", "c") == CacheKey("a", "bc") {
			t.Error("different part splits should differ")
		}
	})

	t.Run("fixed length", func(t *testing.T) {
		if len(CacheKey("release", strings.Repeat("x", 4096))) != 32 {
			t.Error("key length should be independent of input size")
		}
	})
}
