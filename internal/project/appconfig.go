package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. BOXPACK_WAVE_COUNT
// or BOXPACK_LOG_LEVEL.
const EnvPrefix = "BOXPACK"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.boxpack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".boxpack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the JSON file at path, applying
// BOXPACK_* environment overrides on top. A missing file yields the defaults
// (still subject to environment overrides).
func LoadAppConfig(path string) (model.AppConfig, error) {
	v := viper.New()
	setDefaults(v, model.DefaultAppConfig())

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return model.AppConfig{}, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return model.AppConfig{}, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := model.AppConfig{
		EstimatorScale:       v.GetFloat64("estimator_scale"),
		ReferenceUtilization: v.GetFloat64("reference_utilization"),
		WaveCount:            v.GetInt("wave_count"),
		DefaultContainer: model.Container{
			Label:     v.GetString("default_container.label"),
			Width:     v.GetFloat64("default_container.width"),
			Height:    v.GetFloat64("default_container.height"),
			Depth:     v.GetFloat64("default_container.depth"),
			MaxWeight: v.GetFloat64("default_container.max_weight"),
		},
		DefaultSavings: model.SavingsRate{
			CO2Kg:     v.GetFloat64("default_savings.co2_kg"),
			PlasticKg: v.GetFloat64("default_savings.plastic_kg"),
		},
		PredictURL:     v.GetString("predict_url"),
		PredictTimeout: v.GetDuration("predict_timeout"),
		InventoryPath:  v.GetString("inventory_path"),
		DatabasePath:   v.GetString("database_path"),
		CartPath:       v.GetString("cart_path"),
		StatsPath:      v.GetString("stats_path"),
		Log: model.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		RecentFiles: v.GetStringSlice("recent_files"),
		Theme:       v.GetString("theme"),
	}
	if err := v.UnmarshalKey("category_savings", &cfg.CategorySavings); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse category_savings: %w", err)
	}

	// Ensure slices are never nil
	if cfg.RecentFiles == nil {
		cfg.RecentFiles = []string{}
	}
	if cfg.CategorySavings == nil {
		cfg.CategorySavings = []model.CategorySavings{}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d model.AppConfig) {
	v.SetDefault("estimator_scale", d.EstimatorScale)
	v.SetDefault("reference_utilization", d.ReferenceUtilization)
	v.SetDefault("wave_count", d.WaveCount)
	v.SetDefault("default_container.label", d.DefaultContainer.Label)
	v.SetDefault("default_container.width", d.DefaultContainer.Width)
	v.SetDefault("default_container.height", d.DefaultContainer.Height)
	v.SetDefault("default_container.depth", d.DefaultContainer.Depth)
	v.SetDefault("default_container.max_weight", d.DefaultContainer.MaxWeight)
	v.SetDefault("default_savings.co2_kg", d.DefaultSavings.CO2Kg)
	v.SetDefault("default_savings.plastic_kg", d.DefaultSavings.PlasticKg)
	v.SetDefault("predict_url", d.PredictURL)
	v.SetDefault("predict_timeout", d.PredictTimeout)
	v.SetDefault("inventory_path", d.InventoryPath)
	v.SetDefault("database_path", d.DatabasePath)
	v.SetDefault("cart_path", d.CartPath)
	v.SetDefault("stats_path", d.StatsPath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("recent_files", d.RecentFiles)
	v.SetDefault("theme", d.Theme)
}
