package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_OverlaysOnlySetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbw.toml")
	content := []byte("can_device = \"can1\"\nsteering_ratio = 16.0\nbuttons = true\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts := gatewayDefaults()
	if err := opts.LoadFile(path); err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if opts.CANDevice != "can1" {
		t.Errorf("can device: expected can1, got %s", opts.CANDevice)
	}
	if opts.SteeringRatio != 16.0 {
		t.Errorf("steering ratio: expected 16.0, got %f", opts.SteeringRatio)
	}
	if !opts.Buttons {
		t.Error("buttons: expected true")
	}
	// Unset keys keep their defaults.
	if opts.RedisServerAddr != "127.0.0.1" || opts.RedisServerPort != 6379 {
		t.Errorf("redis defaults changed: %s:%d", opts.RedisServerAddr, opts.RedisServerPort)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	opts := gatewayDefaults()
	if err := opts.LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
