package main

import (
	"reflect"
	"strings"
	"testing"

	"javabrowser/internal/config"
)

func TestIsEqual(t *testing.T) {
	tests := []struct {
		name string
		a    interface{}
		b    interface{}
		want bool
	}{
		{"equal strings", "hello", "hello", true},
		{"different strings", "hello", "world", false},
		{"equal floats", 8.0, 8.0, true},
		{"different bools", true, false, false},
		{"nil values", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("isEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestComputeDiff(t *testing.T) {
	defaults, err := toMap(config.DefaultConfig())
	if err != nil {
		t.Fatalf("toMap: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Publish.Gzip = true
	cfg.Logging.Level = "debug"
	current, err := toMap(cfg)
	if err != nil {
		t.Fatalf("toMap: %v", err)
	}

	want := map[string]interface{}{
		"publish": map[string]interface{}{"gzip": true},
		"logging": map[string]interface{}{"level": "debug"},
	}
	if got := computeDiff(current, defaults); !reflect.DeepEqual(got, want) {
		t.Errorf("computeDiff = %v, want %v", got, want)
	}
	if got := computeDiff(defaults, defaults); len(got) != 0 {
		t.Errorf("diff of defaults = %v", got)
	}
}

func TestFormatConfigHuman(t *testing.T) {
	out := formatConfigHuman(ConfigShowResponse{
		UsedDefaults: true,
		Config: map[string]interface{}{
			"version": 1,
			"render":  map[string]interface{}{"hasOverlay": true},
		},
	})
	for _, want := range []string{"Source: defaults", "render.hasOverlay: true\nversion: 1\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
