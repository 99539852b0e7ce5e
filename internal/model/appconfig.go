package model

import "time"

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, console
	Output string `json:"output"` // stdout, stderr, or file path
}

// CategorySavings is the savings rate for one item category.
type CategorySavings struct {
	Category  string  `json:"category" mapstructure:"category"`
	CO2Kg     float64 `json:"co2_kg" mapstructure:"co2_kg"`
	PlasticKg float64 `json:"plastic_kg" mapstructure:"plastic_kg"`
}

// AppConfig holds application-wide preferences and packing defaults.
type AppConfig struct {
	// Packing defaults
	EstimatorScale       float64   `json:"estimator_scale"`       // K in base = K*cbrt(weight)
	ReferenceUtilization float64   `json:"reference_utilization"` // Ceiling on reported utilization, 0..1
	WaveCount            int       `json:"wave_count"`            // Animation stages per preview
	DefaultContainer     Container `json:"default_container"`

	// Savings per packed item. CategorySavings overrides DefaultSavings for
	// matching item categories.
	DefaultSavings  SavingsRate       `json:"default_savings"`
	CategorySavings []CategorySavings `json:"category_savings"`

	// Box prediction endpoint
	PredictURL     string        `json:"predict_url"`
	PredictTimeout time.Duration `json:"predict_timeout"`

	// Storage
	InventoryPath string `json:"inventory_path"` // Empty = default location
	DatabasePath  string `json:"database_path"`  // Empty = in-memory order store
	CartPath      string `json:"cart_path"`      // Empty = in-memory cart
	StatsPath     string `json:"stats_path"`     // Empty = default location

	Log LogConfig `json:"log"`

	// Application preferences
	RecentFiles []string `json:"recent_files"`
	Theme       string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		EstimatorScale:       10,
		ReferenceUtilization: 0.86,
		WaveCount:            3,
		DefaultContainer:     NewContainer("Default", 30, 30, 30),
		DefaultSavings:       SavingsRate{CO2Kg: 0.2, PlasticKg: 0.46},
		CategorySavings:      []CategorySavings{},
		PredictURL:           "http://127.0.0.1:5000/predict",
		PredictTimeout:       10 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		RecentFiles: []string{},
		Theme:       "system",
	}
}

// AddRecentFile records path at the front of the recent-files list, keeping
// at most max entries and no duplicates.
func (c *AppConfig) AddRecentFile(path string, max int) {
	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if max > 0 && len(files) > max {
		files = files[:max]
	}
	c.RecentFiles = files
}

// SavingsTable builds the lookup table used by the metrics calculator.
func (c AppConfig) SavingsTable() SavingsTable {
	table := SavingsTable{"": c.DefaultSavings}
	for _, cs := range c.CategorySavings {
		table[cs.Category] = SavingsRate{CO2Kg: cs.CO2Kg, PlasticKg: cs.PlasticKg}
	}
	return table
}
