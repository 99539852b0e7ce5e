package ui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/project"
)

const actionTimeout = 30 * time.Second

var statusOptions = []string{string(model.StatusPending), string(model.StatusPaid), string(model.StatusCancelled)}

// ─── Orders Panel ──────────────────────────────────────────

func (a *App) buildOrdersPanel() fyne.CanvasObject {
	a.ordersContainer = container.NewVBox()
	a.statsContainer = container.NewHBox()
	a.refreshOrdersList()
	a.refreshStats()

	importBtn := widget.NewButtonWithIcon("Import Selected", theme.DownloadIcon(), func() {
		a.importSelectedOrders()
	})
	previewAllBtn := widget.NewButtonWithIcon("Preview All", theme.ViewRefreshIcon(), func() {
		a.previewAllOrders()
	})

	return container.NewBorder(
		container.NewVBox(
			container.NewHBox(
				widget.NewLabelWithStyle("Orders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
				layout.NewSpacer(),
				previewAllBtn,
				importBtn,
			),
			a.statsContainer,
		),
		nil, nil, nil,
		container.NewVScroll(a.ordersContainer),
	)
}

func (a *App) refreshOrdersList() {
	if a.ordersContainer == nil {
		return
	}
	a.ordersContainer.RemoveAll()

	// Drop selections for orders that left the store.
	present := make(map[string]bool, len(a.orderList))
	for _, o := range a.orderList {
		present[o.ID] = true
	}
	for id := range a.selectedOrders {
		if !present[id] {
			delete(a.selectedOrders, id)
		}
	}

	if len(a.orderList) == 0 {
		a.ordersContainer.Add(widget.NewLabel("No orders yet. Check out a cart to place one."))
		return
	}

	header := container.NewGridWithColumns(8,
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("Date", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Customer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Items", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Total", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Box", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Status", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.ordersContainer.Add(header)
	a.ordersContainer.Add(widget.NewSeparator())

	for _, o := range a.orderList {
		id := o.ID
		check := widget.NewCheck("", func(b bool) {
			if b {
				a.selectedOrders[id] = true
			} else {
				delete(a.selectedOrders, id)
			}
		})
		check.Checked = a.selectedOrders[id]

		status := widget.NewSelect(statusOptions, nil)
		status.Selected = string(o.Status)
		status.OnChanged = func(s string) {
			a.updateOrderStatus(id, model.OrderStatus(s))
		}

		row := container.NewGridWithColumns(8,
			check,
			widget.NewLabel(o.Date.Local().Format("2006-01-02 15:04")),
			widget.NewLabel(o.Customer),
			widget.NewLabel(fmt.Sprintf("%d", o.Units())),
			widget.NewLabel(o.Total.StringFixed(2)),
			widget.NewLabel(o.BoxInfo.Category),
			status,
			widget.NewButtonWithIcon("", theme.VisibilityIcon(), func() {
				a.previewOrder(id)
			}),
		)
		a.ordersContainer.Add(row)
	}
}

func (a *App) refreshStats() {
	if a.statsContainer == nil {
		return
	}
	stats, err := project.LoadImportStats(a.statsPath)
	if err != nil {
		a.log.Warn("failed to load import stats", zap.Error(err))
	}
	a.statsContainer.RemoveAll()
	a.statsContainer.Add(widget.NewLabel(fmt.Sprintf(
		"Imported: %d   Revenue: %s   Paid: %d   Pending: %d   Cancelled: %d",
		stats.Total, stats.Revenue.StringFixed(2), stats.Paid, stats.Pending, stats.Cancelled,
	)))
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) updateOrderStatus(id string, status model.OrderStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	if err := a.service.UpdateStatus(ctx, id, status); err != nil {
		a.showError(err)
	}
}

func (a *App) selectedOrderIDs() []string {
	ids := make([]string, 0, len(a.selectedOrders))
	for id := range a.selectedOrders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *App) importSelectedOrders() {
	ids := a.selectedOrderIDs()
	if len(ids) == 0 {
		dialog.ShowInformation("Nothing selected", "Select at least one order to import.", a.window)
		return
	}

	dialog.ShowConfirm("Import Orders",
		fmt.Sprintf("Import %d order(s)? They will be removed from the list.", len(ids)),
		func(ok bool) {
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			defer cancel()

			delta, err := a.service.ImportOrders(ctx, ids)
			if err != nil {
				a.showError(err)
				return
			}
			total, err := project.AccumulateImportStats(a.statsPath, delta)
			if err != nil {
				a.showError(err)
				return
			}
			a.refreshStats()
			dialog.ShowInformation("Import Complete", fmt.Sprintf(
				"Imported %d order(s), revenue %s.\n\nAll time: %d order(s), revenue %s.",
				delta.Total, delta.Revenue.StringFixed(2), total.Total, total.Revenue.StringFixed(2),
			), a.window)
		}, a.window)
}

func (a *App) previewOrder(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	p, err := a.service.Preview(ctx, id)
	if err != nil {
		a.showError(err)
		return
	}
	a.showPreview(p, "Order "+shortID(id))
	a.tabs.SelectIndex(tabPreview)
}

func (a *App) previewAllOrders() {
	progress := dialog.NewCustomWithoutButtons("Previewing", widget.NewProgressBarInfinite(), a.window)
	progress.Show()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		previews, err := a.service.PreviewAll(ctx)

		fyne.Do(func() {
			progress.Hide()
			if err != nil {
				a.showError(err)
				return
			}
			lines := make([]fyne.CanvasObject, 0, len(previews))
			for _, p := range previews {
				lines = append(lines, widget.NewLabel(fmt.Sprintf(
					"%s  %s  %.1f%%  placed %d  unplaced %d",
					shortID(p.OrderID), p.Container.Label, p.Metrics.ScaledPercent(),
					p.Metrics.PlacedCount, p.Metrics.UnplacedCount,
				)))
			}
			if len(lines) == 0 {
				lines = append(lines, widget.NewLabel("No orders to preview."))
			}
			d := dialog.NewCustom("All Previews", "Close", container.NewVScroll(container.NewVBox(lines...)), a.window)
			d.Resize(fyne.NewSize(520, 400))
			d.Show()
		})
	}()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
