package ui

import (
	"fmt"
	"math"
	"math/rand"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/export"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/orders"
	"github.com/piwi3910/BoxPack/internal/preview"
	"github.com/piwi3910/BoxPack/internal/ui/widgets"
)

type exportFormat int

const (
	formatPDF exportFormat = iota
	formatLabels
	formatDXF
	formatXLSX
	formatPNG
)

func (f exportFormat) fileName(title string) string {
	switch f {
	case formatLabels:
		return title + "-labels.pdf"
	case formatDXF:
		return title + ".dxf"
	case formatXLSX:
		return title + ".xlsx"
	case formatPNG:
		return title + ".png"
	default:
		return title + ".pdf"
	}
}

// ─── Preview Panel ─────────────────────────────────────────

func (a *App) buildPreviewPanel() fyne.CanvasObject {
	a.boxCanvas = widgets.NewBoxCanvas(model.PackingResult{}, 480, 360)
	a.summaryContainer = container.NewStack(widgets.RenderPackingSummary(model.PackingResult{}, model.Metrics{}))

	stageSelect := widget.NewSelect([]string{"All stages"}, nil)
	stageSelect.SetSelected("All stages")
	stageSelect.OnChanged = func(s string) {
		a.boxCanvas.Highlight(stageSelect.SelectedIndex() - 1)
	}

	playBtn := widget.NewButtonWithIcon("Replay", theme.MediaPlayIcon(), func() {
		a.boxCanvas.Play(nil)
	})
	looseCheck := widget.NewCheck("Loose fit", func(on bool) {
		a.looseFit = on
		a.boxCanvas.SetResult(a.displayResult())
		a.boxCanvas.Highlight(stageSelect.SelectedIndex() - 1)
	})
	exportSelect := widget.NewSelect([]string{"PDF Report", "Labels", "DXF", "Excel", "PNG"}, nil)
	exportSelect.PlaceHolder = "Export..."
	exportSelect.OnChanged = func(string) {
		idx := exportSelect.SelectedIndex()
		if idx < 0 {
			return
		}
		exportSelect.ClearSelected()
		a.exportPreview(exportFormat(idx))
	}

	a.onPreviewChanged = func(stages int) {
		opts := []string{"All stages"}
		for s := 0; s < stages; s++ {
			opts = append(opts, fmt.Sprintf("Stage %d", s+1))
		}
		stageSelect.Options = opts
		stageSelect.SetSelected("All stages")
	}

	toolbar := container.NewHBox(
		playBtn,
		widget.NewLabel("Highlight"), stageSelect,
		looseCheck,
		layout.NewSpacer(),
		exportSelect,
	)

	split := container.NewHSplit(a.boxCanvas, a.summaryContainer)
	split.Offset = 0.65
	return container.NewBorder(toolbar, nil, nil, nil, split)
}

// showPreview loads p into the preview tab and starts the drop-in animation.
func (a *App) showPreview(p orders.Preview, title string) {
	a.current = p
	a.previewTitle = title

	a.boxCanvas.SetResult(a.displayResult())
	if a.onPreviewChanged != nil {
		a.onPreviewChanged(p.Result.StageCount())
	}
	a.summaryContainer.RemoveAll()
	a.summaryContainer.Add(widgets.RenderPackingSummary(p.Result, p.Metrics))
	a.summaryContainer.Refresh()
	a.boxCanvas.Play(nil)

	a.log.Info("preview shown",
		zap.String("title", title),
		zap.String("container", p.Container.Label),
		zap.String("source", p.ContainerSource),
		zap.Int("stages", p.Result.StageCount()),
	)
}

// displayResult is the current result as drawn on screen. With loose fit on,
// boxes are nudged by up to 2% of the shortest container side.
func (a *App) displayResult() model.PackingResult {
	r := a.current.Result
	if !a.looseFit {
		return r
	}
	c := r.Container
	amount := 0.02 * math.Min(c.Width, math.Min(c.Height, c.Depth))
	return preview.Jitter(r, amount, rand.New(rand.NewSource(int64(len(r.Placed)))))
}

func (a *App) exportPreview(format exportFormat) {
	if a.current.Result.ContainerVolume <= 0 {
		dialog.ShowInformation("No preview", "Preview an order or pack items before exporting.", a.window)
		return
	}
	p := a.current
	report := export.Report{Title: a.previewTitle, Result: p.Result, Metrics: p.Metrics}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		switch format {
		case formatLabels:
			err = export.ExportLabels(path, p.OrderID, p.Result)
		case formatDXF:
			err = export.ExportDXF(path, p.Result)
		case formatXLSX:
			err = export.ExportXLSX(path, report)
		case formatPNG:
			opts := preview.DefaultRenderOptions()
			opts.Width, opts.Height = 1600, 1200
			err = preview.SavePNG(path, p.Result, opts)
		default:
			err = export.ExportPDF(path, report)
		}
		if err != nil {
			a.showError(err)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(format.fileName(sanitizeFileName(a.previewTitle)))
	d.Show()
}

func sanitizeFileName(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch r {
		case ' ', '/', '\\', ':':
			out[i] = '-'
		}
	}
	if len(out) == 0 {
		return "preview"
	}
	return string(out)
}
