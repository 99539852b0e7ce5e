package ui

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/project"
)

var themeOptions = []string{"system", "light", "dark"}

// showSettingsDialog edits a copy of the config. Packing settings apply on
// the next start; the theme applies immediately.
func (a *App) showSettingsDialog() {
	cfg := a.config

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	stringEntry := func(val *string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.OnChanged = func(text string) { *val = text }
		return e
	}

	packingSection := widget.NewCard("Packing", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Estimator Scale (K)"), floatEntry(&cfg.EstimatorScale),
			widget.NewLabel("Reference Utilization"), floatEntry(&cfg.ReferenceUtilization),
			widget.NewLabel("Animation Stages"), intEntry(&cfg.WaveCount),
		))

	savingsSection := widget.NewCard("Savings per Item", "Used when the box predictor reports no impact",
		container.NewGridWithColumns(2,
			widget.NewLabel("CO₂ (kg)"), floatEntry(&cfg.DefaultSavings.CO2Kg),
			widget.NewLabel("Plastic (kg)"), floatEntry(&cfg.DefaultSavings.PlasticKg),
		))

	timeout := cfg.PredictTimeout.Seconds()
	predictSection := widget.NewCard("Box Predictor", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Endpoint URL"), stringEntry(&cfg.PredictURL),
			widget.NewLabel("Timeout (s)"), floatEntry(&timeout),
		))

	storageSection := widget.NewCard("Storage", "Empty paths use the defaults",
		container.NewGridWithColumns(2,
			widget.NewLabel("Order Database"), stringEntry(&cfg.DatabasePath),
			widget.NewLabel("Cart File"), stringEntry(&cfg.CartPath),
			widget.NewLabel("Inventory File"), stringEntry(&cfg.InventoryPath),
			widget.NewLabel("Import Stats File"), stringEntry(&cfg.StatsPath),
		))

	themeSelect := widget.NewSelect(themeOptions, func(s string) { cfg.Theme = s })
	themeSelect.SetSelected(cfg.Theme)
	logLevel := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(s string) { cfg.Log.Level = s })
	logLevel.SetSelected(cfg.Log.Level)
	appearanceSection := widget.NewCard("Application", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Theme"), themeSelect,
			widget.NewLabel("Log Level"), logLevel,
		))

	content := container.NewVScroll(container.NewVBox(
		packingSection,
		savingsSection,
		predictSection,
		storageSection,
		appearanceSection,
	))

	d := dialog.NewCustomConfirm("Settings", "Save", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		cfg.PredictTimeout = time.Duration(timeout * float64(time.Second))
		if cfg.WaveCount < 1 || cfg.ReferenceUtilization <= 0 || cfg.ReferenceUtilization > 1 || cfg.EstimatorScale <= 0 {
			dialog.ShowError(fmt.Errorf("stages must be ≥ 1, reference in (0,1] and scale > 0"), a.window)
			return
		}
		if err := project.SaveAppConfig(a.configPath, cfg); err != nil {
			a.showError(err)
			return
		}
		a.config = cfg
		a.ApplyTheme()
		a.log.Info("settings saved", zap.String("path", a.configPath))
	}, a.window)
	d.Resize(fyne.NewSize(560, 640))
	d.Show()
}

// ApplyTheme sets the configured light/dark variant.
func (a *App) ApplyTheme() {
	a.app.Settings().SetTheme(NewBoxPackThemeFor(a.config.Theme))
}

// ─── Backup / Restore ──────────────────────────────────────

func (a *App) backupData() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := project.ExportAllData(path, a.config, a.inventory); err != nil {
			a.showError(err)
			return
		}
		dialog.ShowInformation("Backup Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("boxpack-backup.json")
	d.Show()
}

func (a *App) restoreData() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		data, err := project.ImportAllData(reader.URI().Path())
		if err != nil {
			a.showError(err)
			return
		}
		if err := project.SaveAppConfig(a.configPath, data.Config); err != nil {
			a.showError(err)
			return
		}
		a.recordEdit("Restore Backup")
		a.config = data.Config
		a.inventory = data.Inventory
		a.saveInventory()
		a.ApplyTheme()
		dialog.ShowInformation("Restore Complete",
			fmt.Sprintf("Restored settings and %d boxes from a backup made %s.", len(data.Inventory.Boxes), data.CreatedAt),
			a.window)
	}, a.window)
}
