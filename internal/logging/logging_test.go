package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("with custom output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(Config{Level: InfoLevel, Output: buf})
		if logger.writer != buf {
			t.Error("Logger should use provided output writer")
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := NewLogger(Config{Level: "loud", Output: &bytes.Buffer{}})
		if logger.config.Level != InfoLevel {
			t.Errorf("Level = %q, want %q", logger.config.Level, InfoLevel)
		}
	})
}

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		configLvl LogLevel
		logLvl    LogLevel
		shouldLog bool
	}{
		{"debug logs debug", DebugLevel, DebugLevel, true},
		{"info skips debug", InfoLevel, DebugLevel, false},
		{"info logs warn", InfoLevel, WarnLevel, true},
		{"warn skips info", WarnLevel, InfoLevel, false},
		{"error skips warn", ErrorLevel, WarnLevel, false},
		{"error logs error", ErrorLevel, ErrorLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLogger(Config{Level: tt.configLvl, Output: buf})

			logger.log(tt.logLvl, "test message", nil)

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldLog {
				t.Errorf("shouldLog = %v, but hasOutput = %v", tt.shouldLog, hasOutput)
			}
		})
	}
}

func TestHumanFormatSortsFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: DebugLevel, Output: buf})

	logger.Info("published", map[string]interface{}{"zeta": 1, "alpha": "a", "mid": true})

	out := buf.String()
	if !strings.Contains(out, "[info] published | alpha=a, mid=true, zeta=1") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: InfoLevel, Format: JSONFormat, Output: buf})

	logger.Warn("file failed", map[string]interface{}{"path": "a/B.java"})

	var entry logEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry.Level != "warn" || entry.Message != "file failed" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["path"] != "a/B.java" {
		t.Errorf("path field = %v", entry.Fields["path"])
	}
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := NewLogger(Config{Level: InfoLevel, Output: buf})
	child := parent.With(map[string]interface{}{"run": "r1"})

	child.Info("start", map[string]interface{}{"files": 3})
	parent.Info("plain", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "files=3, run=r1") {
		t.Errorf("child line missing fields: %s", lines[0])
	}
	if strings.Contains(lines[1], "run=") {
		t.Errorf("parent must not inherit child fields: %s", lines[1])
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	logger.Error("ignored", nil)
	if logger.shouldLog(ErrorLevel) {
		t.Error("discard logger should not log errors")
	}
}

func TestConcurrentLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: InfoLevel, Output: buf})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.With(map[string]interface{}{"worker": i}).Info("tick", nil)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"WARNING": WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
