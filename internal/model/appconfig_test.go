package model

import "testing"

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.EstimatorScale != 10 {
		t.Errorf("expected estimator scale 10, got %f", cfg.EstimatorScale)
	}
	if cfg.ReferenceUtilization != 0.86 {
		t.Errorf("expected reference utilization 0.86, got %f", cfg.ReferenceUtilization)
	}
	if cfg.WaveCount != 3 {
		t.Errorf("expected 3 waves, got %d", cfg.WaveCount)
	}
	if !cfg.DefaultContainer.Valid() {
		t.Error("default container should be valid")
	}
	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentFiles == nil {
		t.Error("RecentFiles should not be nil")
	}
}

func TestAddRecentFile(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentFile("a.csv", 3)
	cfg.AddRecentFile("b.csv", 3)
	cfg.AddRecentFile("a.csv", 3)
	cfg.AddRecentFile("c.csv", 3)
	cfg.AddRecentFile("d.csv", 3)

	want := []string{"d.csv", "c.csv", "a.csv"}
	if len(cfg.RecentFiles) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.RecentFiles)
	}
	for i := range want {
		if cfg.RecentFiles[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], cfg.RecentFiles[i])
		}
	}
}

func TestAppConfigSavingsTable(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.CategorySavings = []CategorySavings{{Category: "Books", CO2Kg: 0.1, PlasticKg: 0.05}}

	table := cfg.SavingsTable()
	if got := table.Lookup("Books"); got.CO2Kg != 0.1 || got.PlasticKg != 0.05 {
		t.Errorf("unexpected Books rate %+v", got)
	}
	if got := table.Lookup("Toys"); got != cfg.DefaultSavings {
		t.Errorf("expected default rate for unknown category, got %+v", got)
	}
}
