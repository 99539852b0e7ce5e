package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoxPack/internal/model"
)

// DefaultStatsPath returns ~/.boxpack/import_stats.json.
func DefaultStatsPath() string {
	return filepath.Join(DefaultConfigDir(), "import_stats.json")
}

// SaveImportStats writes the running import counters to path.
func SaveImportStats(path string, stats model.ImportStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadImportStats reads the counters from path. A missing file yields zero
// counters.
func LoadImportStats(path string) (model.ImportStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.ImportStats{}, nil
		}
		return model.ImportStats{}, err
	}
	var stats model.ImportStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return model.ImportStats{}, fmt.Errorf("failed to parse import stats: %w", err)
	}
	return stats, nil
}

// AccumulateImportStats adds delta to the counters stored at path and
// returns the new totals.
func AccumulateImportStats(path string, delta model.ImportStats) (model.ImportStats, error) {
	current, err := LoadImportStats(path)
	if err != nil {
		return model.ImportStats{}, err
	}
	total := current.Add(delta)
	if err := SaveImportStats(path, total); err != nil {
		return model.ImportStats{}, fmt.Errorf("failed to save import stats: %w", err)
	}
	return total, nil
}
