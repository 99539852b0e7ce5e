package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/importer"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/project"
)

const searchStrategy = "Search (genetic)"

// ─── Pack Panel ────────────────────────────────────────────

func (a *App) buildPackPanel() fyne.CanvasObject {
	a.packContainer = container.NewVBox()
	a.refreshPackList()

	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importItems()
	})
	clearBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		a.packSpecs = nil
		a.refreshPackList()
	})

	boxSelect := widget.NewSelect(a.inventory.Names(), nil)
	boxSelect.PlaceHolder = "Select box..."
	if names := a.inventory.Names(); len(names) > 0 {
		boxSelect.SetSelected(names[0])
	}
	a.onInventoryChanged = func() {
		boxSelect.Options = a.inventory.Names()
		boxSelect.Refresh()
	}

	strategies := []string{}
	for _, s := range engine.DefaultOrderings() {
		strategies = append(strategies, s.Name)
	}
	strategies = append(strategies, searchStrategy)
	strategySelect := widget.NewSelect(strategies, nil)
	strategySelect.SetSelected(strategies[0])

	packBtn := widget.NewButtonWithIcon("Pack", theme.MediaPlayIcon(), func() {
		a.packImported(boxSelect.Selected, strategySelect.Selected)
	})
	packBtn.Importance = widget.HighImportance
	compareBtn := widget.NewButtonWithIcon("Compare Orderings", theme.ListIcon(), func() {
		a.compareImported(boxSelect.Selected)
	})

	return container.NewBorder(
		container.NewVBox(
			container.NewHBox(
				widget.NewLabelWithStyle("Items", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
				layout.NewSpacer(),
				importBtn,
				clearBtn,
			),
			container.NewHBox(
				widget.NewLabel("Box"), boxSelect,
				widget.NewLabel("Ordering"), strategySelect,
				layout.NewSpacer(),
				compareBtn,
				packBtn,
			),
		),
		nil, nil, nil,
		container.NewVScroll(a.packContainer),
	)
}

func (a *App) refreshPackList() {
	if a.packContainer == nil {
		return
	}
	a.packContainer.RemoveAll()

	if len(a.packSpecs) == 0 {
		a.packContainer.Add(widget.NewLabel("No items. Import a CSV or Excel item list to begin."))
		return
	}

	header := container.NewGridWithColumns(7,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Width", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Height", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Depth", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Weight", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Qty", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Shape", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	a.packContainer.Add(header)
	a.packContainer.Add(widget.NewSeparator())

	dim := func(v float64) string {
		if v <= 0 {
			return "est."
		}
		return fmt.Sprintf("%.1f", v)
	}
	for _, s := range a.packSpecs {
		a.packContainer.Add(container.NewGridWithColumns(7,
			widget.NewLabel(s.Label),
			widget.NewLabel(dim(s.Declared.Width)),
			widget.NewLabel(dim(s.Declared.Height)),
			widget.NewLabel(dim(s.Declared.Depth)),
			widget.NewLabel(fmt.Sprintf("%.2f", s.Weight)),
			widget.NewLabel(fmt.Sprintf("%d", s.Quantity)),
			widget.NewLabel(s.Shape.String()),
		))
	}
}

func (a *App) importItems() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.importItemsFrom(reader.URI().Path())
	}, a.window)
}

// maxRecentFiles bounds the File > Recent Item Lists menu.
const maxRecentFiles = 10

func (a *App) importItemsFrom(path string) {
	a.handleImportResult(importer.Import(path))

	a.config.AddRecentFile(path, maxRecentFiles)
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.log.Warn("failed to save recent files", zap.Error(err))
	}
	a.SetupMenus()
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	if len(result.Warnings) > 0 {
		a.log.Warn("import warnings", zap.Strings("warnings", result.Warnings))
	}
	if len(result.Items) == 0 {
		return
	}

	a.packSpecs = append(a.packSpecs, result.Items...)
	a.refreshPackList()

	msg := fmt.Sprintf("Successfully imported %d items.", len(result.Items))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func (a *App) packContainerFor(name string) (model.Container, bool) {
	preset := a.inventory.FindByName(name)
	if preset == nil {
		dialog.ShowInformation("No box", "Select a box from the inventory first.", a.window)
		return model.Container{}, false
	}
	if len(a.packSpecs) == 0 {
		dialog.ShowInformation("Nothing to pack", "Import at least one item first.", a.window)
		return model.Container{}, false
	}
	return preset.ToContainer(), true
}

func (a *App) packImported(boxName, strategy string) {
	c, ok := a.packContainerFor(boxName)
	if !ok {
		return
	}
	items, err := a.service.EstimateSpecs(a.packSpecs)
	if err != nil {
		a.showError(err)
		return
	}

	var result model.PackingResult
	if strategy == searchStrategy {
		sr, err := engine.SearchOrdering(c, items, engine.DefaultGeneticConfig())
		if err != nil {
			a.showError(err)
			return
		}
		result = sr.Result
	} else {
		for _, s := range engine.DefaultOrderings() {
			if s.Name == strategy {
				items = s.Apply(items)
				break
			}
		}
		result, err = engine.Pack(c, items)
		if err != nil {
			a.showError(err)
			return
		}
	}

	p, err := a.service.Finish(result)
	if err != nil {
		a.showError(err)
		return
	}
	a.showPreview(p, fmt.Sprintf("%s %s", c.Label, strategy))
	a.tabs.SelectIndex(tabPreview)
}

func (a *App) compareImported(boxName string) {
	c, ok := a.packContainerFor(boxName)
	if !ok {
		return
	}
	items, err := a.service.EstimateSpecs(a.packSpecs)
	if err != nil {
		a.showError(err)
		return
	}
	results, err := engine.CompareOrderings(c, items, engine.DefaultOrderings())
	if err != nil {
		a.showError(err)
		return
	}
	best := engine.BestComparison(results)

	rows := []fyne.CanvasObject{container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Ordering", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Placed", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Unplaced", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Utilization", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)}
	for i, r := range results {
		name := widget.NewLabel(r.Strategy)
		if i == best {
			name.TextStyle = fyne.TextStyle{Bold: true}
		}
		rows = append(rows, container.NewGridWithColumns(4,
			name,
			widget.NewLabel(fmt.Sprintf("%d", r.PlacedCount)),
			widget.NewLabel(fmt.Sprintf("%d", r.UnplacedCount)),
			widget.NewLabel(fmt.Sprintf("%.1f%%", r.Utilization*100)),
		))
	}

	d := dialog.NewCustom("Compare Orderings", "Close", container.NewVBox(rows...), a.window)
	d.Resize(fyne.NewSize(560, 300))
	d.Show()
}
