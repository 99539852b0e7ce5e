// Package bootstrap wires config, logging, storage and the order service
// for the desktop app and the CLI.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/cart"
	"github.com/piwi3910/BoxPack/internal/logging"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/orders"
	"github.com/piwi3910/BoxPack/internal/predict"
	"github.com/piwi3910/BoxPack/internal/project"
)

// Options override parts of the loaded configuration.
type Options struct {
	ConfigPath   string // Empty = default location
	DatabasePath string // Overrides config when set
	LogLevel     string // Overrides config when set
	NoPredict    bool   // Skip the predictor; every order gets the fallback box
}

// Env is a fully wired runtime.
type Env struct {
	Config        model.AppConfig
	ConfigPath    string
	Logger        *zap.Logger
	Inventory     model.BoxInventory
	InventoryPath string
	StatsPath     string
	Store         orders.Store
	Service       *orders.Service
	Cart          cart.Store

	closeStore func() error
}

// Open loads the config and builds every dependency. Call Close when done.
func Open(opts Options) (*Env, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return nil, err
	}
	if opts.DatabasePath != "" {
		cfg.DatabasePath = opts.DatabasePath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	inv, invPath, err := project.LoadOrCreateInventory(cfg.InventoryPath)
	if err != nil {
		log.Warn("using default box inventory", zap.Error(err))
		inv = model.DefaultBoxInventory()
	}

	env := &Env{
		Config:        cfg,
		ConfigPath:    configPath,
		Logger:        log,
		Inventory:     inv,
		InventoryPath: invPath,
		StatsPath:     cfg.StatsPath,
	}
	if env.StatsPath == "" {
		env.StatsPath = project.DefaultStatsPath()
	}

	if err := env.openStore(); err != nil {
		_ = log.Sync()
		return nil, err
	}

	if cfg.CartPath != "" {
		env.Cart = cart.NewFileStore(cfg.CartPath)
	} else {
		env.Cart = cart.NewMemoryStore()
	}

	var predictor predict.Predictor
	if !opts.NoPredict && cfg.PredictURL != "" {
		predictor = predict.NewClient(cfg.PredictURL, cfg.PredictTimeout, log)
	}
	env.Service = orders.NewService(env.Store, predictor, cfg, inv, log)

	log.Debug("environment ready",
		zap.String("config", configPath),
		zap.String("inventory", invPath),
		zap.String("database", cfg.DatabasePath),
		zap.Bool("predictor", predictor != nil),
	)
	return env, nil
}

func (e *Env) openStore() error {
	if e.Config.DatabasePath == "" {
		s := orders.NewMemoryStore()
		e.Store, e.closeStore = s, s.Close
		return nil
	}
	db, err := orders.OpenSQLite(e.Config.DatabasePath)
	if err != nil {
		return err
	}
	s, err := orders.NewSQLStore(db, e.Logger)
	if err != nil {
		return err
	}
	e.Store, e.closeStore = s, s.Close
	return nil
}

// Close releases the order store and flushes the logger.
func (e *Env) Close() error {
	var err error
	if e.closeStore != nil {
		err = e.closeStore()
	}
	_ = e.Logger.Sync()
	return err
}
