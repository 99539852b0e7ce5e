package widgets

import (
	"fmt"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/model"
)

// RenderPackingSummary builds the metrics panel shown next to a preview.
func RenderPackingSummary(result model.PackingResult, m model.Metrics) fyne.CanvasObject {
	if result.ContainerVolume <= 0 {
		return widget.NewLabel("No preview yet. Select an order and click Preview.")
	}

	c := result.Container
	header := widget.NewLabel(fmt.Sprintf("%s (%.1f × %.1f × %.1f)", c.Label, c.Width, c.Height, c.Depth))
	header.TextStyle = fyne.TextStyle{Bold: true}

	items := []fyne.CanvasObject{
		header,
		widget.NewLabel(fmt.Sprintf("Utilization: %.1f%% (raw %.1f%%)", m.ScaledPercent(), m.RawUtilization*100)),
		widget.NewLabel(fmt.Sprintf("Placed: %d   Unplaced: %d", m.PlacedCount, m.UnplacedCount)),
		widget.NewLabel(fmt.Sprintf("Weight: %.2f", m.PlacedWeight)),
		widget.NewLabel(fmt.Sprintf("CO₂ saved: %.2f kg   Plastic saved: %.2f kg", m.CO2SavedKg, m.PlasticSavedKg)),
	}

	if stages := buildStageBreakdown(result); len(stages) > 0 {
		items = append(items, widget.NewSeparator())
		stagesHeader := widget.NewLabel("Stages:")
		stagesHeader.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, stagesHeader)
		for _, line := range stages {
			items = append(items, widget.NewLabel(line))
		}
	}

	if lines := buildUnplacedBreakdown(result); len(lines) > 0 {
		warning := widget.NewLabel(fmt.Sprintf("WARNING: %d items could not be placed.", len(result.Unplaced)))
		warning.Importance = widget.DangerImportance
		items = append(items, widget.NewSeparator(), warning)
		for _, line := range lines {
			items = append(items, widget.NewLabel(line))
		}
	}

	return container.NewVScroll(container.NewVBox(items...))
}

// buildStageBreakdown reports item count and volume share per stage.
func buildStageBreakdown(result model.PackingResult) []string {
	stages := engine.Stages(result)
	var lines []string
	for s, items := range stages {
		vol := 0.0
		for _, p := range items {
			vol += p.Volume()
		}
		share := 0.0
		if result.ContainerVolume > 0 {
			share = vol / result.ContainerVolume * 100
		}
		lines = append(lines, fmt.Sprintf("  Stage %d: %d item(s), %.1f%% of volume", s+1, len(items), share))
	}
	return lines
}

// buildUnplacedBreakdown groups rejected items by reason.
func buildUnplacedBreakdown(result model.PackingResult) []string {
	counts := result.UnplacedByReason()
	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)

	lines := make([]string, 0, len(reasons))
	for _, r := range reasons {
		lines = append(lines, fmt.Sprintf("  %s: %d", r, counts[model.Reason(r)]))
	}
	return lines
}
