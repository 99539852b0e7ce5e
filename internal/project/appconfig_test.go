package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/BoxPack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.EstimatorScale = 12.5
	cfg.WaveCount = 5
	cfg.Theme = "dark"
	cfg.PredictTimeout = 3 * time.Second
	cfg.DefaultContainer = model.Container{Label: "Crate", Width: 40, Height: 20, Depth: 50, MaxWeight: 15}
	cfg.CategorySavings = []model.CategorySavings{{Category: "Electronics", CO2Kg: 1.5, PlasticKg: 0.5}}
	cfg.RecentFiles = []string{"/tmp/items1.csv", "/tmp/items2.xlsx"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.EstimatorScale != 12.5 {
		t.Errorf("expected EstimatorScale=12.5, got %f", loaded.EstimatorScale)
	}
	if loaded.WaveCount != 5 {
		t.Errorf("expected WaveCount=5, got %d", loaded.WaveCount)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.PredictTimeout != 3*time.Second {
		t.Errorf("expected PredictTimeout=3s, got %v", loaded.PredictTimeout)
	}
	if loaded.DefaultContainer != cfg.DefaultContainer {
		t.Errorf("expected container %+v, got %+v", cfg.DefaultContainer, loaded.DefaultContainer)
	}
	if len(loaded.CategorySavings) != 1 || loaded.CategorySavings[0].Category != "Electronics" {
		t.Errorf("expected Electronics savings, got %+v", loaded.CategorySavings)
	}
	if len(loaded.RecentFiles) != 2 {
		t.Errorf("expected 2 recent files, got %d", len(loaded.RecentFiles))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.ReferenceUtilization != defaults.ReferenceUtilization {
		t.Errorf("expected default reference %f, got %f", defaults.ReferenceUtilization, cfg.ReferenceUtilization)
	}
	if cfg.DefaultSavings != defaults.DefaultSavings {
		t.Errorf("expected default savings %+v, got %+v", defaults.DefaultSavings, cfg.DefaultSavings)
	}
	if cfg.PredictTimeout != defaults.PredictTimeout {
		t.Errorf("expected default timeout %v, got %v", defaults.PredictTimeout, cfg.PredictTimeout)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigEnvOverride(t *testing.T) {
	t.Setenv("BOXPACK_WAVE_COUNT", "7")
	t.Setenv("BOXPACK_LOG_LEVEL", "debug")
	t.Setenv("BOXPACK_PREDICT_TIMEOUT", "750ms")

	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.WaveCount != 7 {
		t.Errorf("expected WaveCount=7 from env, got %d", cfg.WaveCount)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug from env, got %s", cfg.Log.Level)
	}
	if cfg.PredictTimeout != 750*time.Millisecond {
		t.Errorf("expected timeout 750ms from env, got %v", cfg.PredictTimeout)
	}
}

func TestLoadAppConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"light","wave_count":2}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" || cfg.WaveCount != 2 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.EstimatorScale != 10 {
		t.Errorf("expected default estimator scale, got %f", cfg.EstimatorScale)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"theme":"light","recent_files":null,"category_savings":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentFiles == nil {
		t.Error("RecentFiles should not be nil after loading")
	}
	if cfg.CategorySavings == nil {
		t.Error("CategorySavings should not be nil after loading")
	}
}
