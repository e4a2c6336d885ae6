package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Defaults.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("expected default model, got %q", cfg.Defaults.Model)
	}

	if cfg.Batch.MaxWorkers != 4 {
		t.Errorf("expected batch.max_workers 4, got %d", cfg.Batch.MaxWorkers)
	}

	if cfg.Timeouts.Step != 5*time.Minute {
		t.Errorf("expected step timeout 5m, got %v", cfg.Timeouts.Step)
	}

	if cfg.Timeouts.CLI != 5*time.Minute {
		t.Errorf("expected cli timeout 5m, got %v", cfg.Timeouts.CLI)
	}

	if cfg.Budgets.Daily != 10.0 {
		t.Errorf("expected daily budget 10.0, got %f", cfg.Budgets.Daily)
	}

	if cfg.Budgets.Monthly != 100.0 {
		t.Errorf("expected monthly budget 100.0, got %f", cfg.Budgets.Monthly)
	}

	if cfg.Bedrock.Enabled {
		t.Error("expected bedrock disabled by default")
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
bedrock:
  enabled: true
  region: us-west-2
  profile: dev
defaults:
  model: claude-haiku-4-5-20251001
batch:
  max_workers: 8
timeouts:
  step: 10m
  cli: 2m
budgets:
  daily: 5.5
  monthly: 42
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if !cfg.Bedrock.Enabled || cfg.Bedrock.Region != "us-west-2" || cfg.Bedrock.Profile != "dev" {
		t.Errorf("bedrock config = %+v", cfg.Bedrock)
	}

	if cfg.Defaults.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("expected model override, got %q", cfg.Defaults.Model)
	}

	if cfg.Batch.MaxWorkers != 8 {
		t.Errorf("expected max_workers 8, got %d", cfg.Batch.MaxWorkers)
	}

	if cfg.Timeouts.Step != 10*time.Minute {
		t.Errorf("expected step timeout 10m, got %v", cfg.Timeouts.Step)
	}

	if cfg.Timeouts.CLI != 2*time.Minute {
		t.Errorf("expected cli timeout 2m, got %v", cfg.Timeouts.CLI)
	}

	if cfg.Budgets.Daily != 5.5 || cfg.Budgets.Monthly != 42 {
		t.Errorf("budgets = %+v", cfg.Budgets)
	}
}

func TestLoadFromPath_DefaultsFillGaps(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("anthropic:\n  api_key: k\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Batch.MaxWorkers != 4 {
		t.Errorf("expected default max_workers 4, got %d", cfg.Batch.MaxWorkers)
	}
	if cfg.Timeouts.Step != 5*time.Minute {
		t.Errorf("expected default step timeout, got %v", cfg.Timeouts.Step)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/vibe"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
