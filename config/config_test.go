package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.World.Size <= 0 {
		t.Errorf("world.size = %v, want positive", cfg.World.Size)
	}
	if cfg.World.DT <= 0 {
		t.Errorf("world.dt = %v, want positive", cfg.World.DT)
	}
	if cfg.Field.Resolution < 4 {
		t.Errorf("field.resolution = %d, want >= 4", cfg.Field.Resolution)
	}
	if cfg.Population.Initial > cfg.Population.AgentCapacity {
		t.Errorf("initial %d exceeds capacity %d",
			cfg.Population.Initial, cfg.Population.AgentCapacity)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("world:\n  size: 2.0\n  edge_policy: clamp\nfield:\n  resolution: 64\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(override) failed: %v", err)
	}

	if cfg.World.Size != 2.0 {
		t.Errorf("world.size = %v, want 2.0", cfg.World.Size)
	}
	if cfg.Field.Resolution != 64 {
		t.Errorf("field.resolution = %d, want 64", cfg.Field.Resolution)
	}
	// Fields absent from the override keep their defaults.
	if cfg.Population.AgentCapacity <= 0 {
		t.Errorf("agent_capacity = %d, want default", cfg.Population.AgentCapacity)
	}
	if cfg.Derived.Wrap {
		t.Error("clamp policy should not derive wrap")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero size", func(c *Config) { c.World.Size = 0 }},
		{"zero dt", func(c *Config) { c.World.DT = 0 }},
		{"bad edge policy", func(c *Config) { c.World.EdgePolicy = "bounce" }},
		{"tiny resolution", func(c *Config) { c.Field.Resolution = 2 }},
		{"zero capacity", func(c *Config) { c.Population.AgentCapacity = 0 }},
		{"initial over capacity", func(c *Config) {
			c.Population.AgentCapacity = 10
			c.Population.Initial = 11
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestComputeDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.World.Size = 1.5
	cfg.World.EdgePolicy = EdgeWrap
	cfg.ComputeDerived()

	if cfg.Derived.WorldMin != -1.5 || cfg.Derived.WorldMax != 1.5 {
		t.Errorf("world extent = [%v, %v], want [-1.5, 1.5]",
			cfg.Derived.WorldMin, cfg.Derived.WorldMax)
	}
	if cfg.Derived.WorldSpan != 3.0 {
		t.Errorf("world span = %v, want 3.0", cfg.Derived.WorldSpan)
	}
	if !cfg.Derived.Wrap {
		t.Error("wrap policy should derive wrap = true")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.World.Seed = 1234

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config failed: %v", err)
	}
	if loaded.World.Seed != 1234 {
		t.Errorf("seed = %d, want 1234", loaded.World.Seed)
	}
	if loaded.World.Size != cfg.World.Size {
		t.Errorf("size = %v, want %v", loaded.World.Size, cfg.World.Size)
	}
}
