package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if !cfg.IncludeContext {
		t.Error("IncludeContext should default to true")
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d, want 8", cfg.TopK)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.TUITheme != "tokyonight" {
		t.Errorf("TUITheme = %q", cfg.TUITheme)
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Markdown.Style = %q", cfg.Markdown.Style)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("missing file should yield defaults, got %q", cfg.BaseURL)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.BaseURL = "http://kb.internal:9000"
	cfg.TopK = 12
	cfg.Verbose = true
	cfg.TUITheme = "nord"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.BaseURL != "http://kb.internal:9000" {
		t.Errorf("BaseURL = %q", loaded.BaseURL)
	}
	if loaded.TopK != 12 || !loaded.Verbose || loaded.TUITheme != "nord" {
		t.Errorf("roundtrip lost fields: %+v", loaded)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KBCHAT_BASE_URL", "http://override:7000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "http://override:7000" {
		t.Errorf("env override ignored, BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoadConfigCorruptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".kbchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("expected error for corrupt config")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("corrupt config should fall back to defaults, got %q", cfg.BaseURL)
	}
}

func TestGetDownloadDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.DownloadDir = filepath.Join(home, "downloads")

	dir, err := GetDownloadDir(cfg)
	if err != nil {
		t.Fatalf("GetDownloadDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("download dir not created: %v", err)
	}
}
