// Package ui is the BoxPack desktop application: order list, animated
// packing preview, cart checkout and box inventory.
package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/cart"
	"github.com/piwi3910/BoxPack/internal/logging"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/orders"
	"github.com/piwi3910/BoxPack/internal/ui/widgets"
)

// Deps are the services the application runs on.
type Deps struct {
	Config        model.AppConfig
	ConfigPath    string
	Inventory     model.BoxInventory
	InventoryPath string
	StatsPath     string
	Service       *orders.Service
	Cart          cart.Store
	Logger        *zap.Logger
}

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	log     *zap.Logger
	history *History

	config        model.AppConfig
	configPath    string
	inventory     model.BoxInventory
	inventoryPath string
	statsPath     string
	service       *orders.Service
	cart          cart.Store

	tabs *container.AppTabs

	// Orders tab; orderList is replaced by the subscription on the UI thread.
	orderList       []model.Order
	selectedOrders  map[string]bool
	ordersContainer *fyne.Container
	statsContainer  *fyne.Container

	// Preview tab
	current          orders.Preview
	looseFit         bool
	boxCanvas        *widgets.BoxCanvas
	summaryContainer *fyne.Container
	previewTitle     string
	onPreviewChanged func(stages int)

	// Cart tab
	cartContainer *fyne.Container
	cartMask      []bool

	// Pack tab
	packSpecs          []model.ItemSpec
	packContainer      *fyne.Container
	onInventoryChanged func()

	sub    *orders.Subscription
	cancel context.CancelFunc
}

func NewApp(application fyne.App, window fyne.Window, deps Deps) *App {
	return &App{
		app:            application,
		window:         window,
		log:            logging.OrNop(deps.Logger).Named("ui"),
		history:        NewHistory(),
		config:         deps.Config,
		configPath:     deps.ConfigPath,
		inventory:      deps.Inventory,
		inventoryPath:  deps.InventoryPath,
		statsPath:      deps.StatsPath,
		service:        deps.Service,
		cart:           deps.Cart,
		selectedOrders: make(map[string]bool),
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Items from CSV/Excel...", func() {
			a.importItems()
			a.tabs.SelectIndex(tabPack)
		}),
		a.recentFilesItem(),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Preview PDF...", func() { a.exportPreview(formatPDF) }),
		fyne.NewMenuItem("Export Labels...", func() { a.exportPreview(formatLabels) }),
		fyne.NewMenuItem("Export DXF...", func() { a.exportPreview(formatDXF) }),
		fyne.NewMenuItem("Export Excel...", func() { a.exportPreview(formatXLSX) }),
		fyne.NewMenuItem("Export PNG...", func() { a.exportPreview(formatPNG) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup Settings...", func() { a.backupData() }),
		fyne.NewMenuItem("Restore Settings...", func() { a.restoreData() }),
	)

	undoItem := fyne.NewMenuItem("Undo", func() { a.undo() })
	undoItem.Disabled = !a.history.CanUndo()
	redoItem := fyne.NewMenuItem("Redo", func() { a.redo() })
	redoItem.Disabled = !a.history.CanRedo()

	editMenu := fyne.NewMenu("Edit",
		undoItem,
		redoItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Box Inventory...", func() { a.showBoxInventoryDialog() }),
		fyne.NewMenuItem("Settings...", func() { a.showSettingsDialog() }),
	)

	ordersMenu := fyne.NewMenu("Orders",
		fyne.NewMenuItem("Import Selected", func() { a.importSelectedOrders() }),
		fyne.NewMenuItem("Preview All", func() { a.previewAllOrders() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() { a.showAboutDialog() }),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, ordersMenu, helpMenu))
}

func (a *App) recentFilesItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Recent Item Lists", nil)
	if len(a.config.RecentFiles) == 0 {
		item.Disabled = true
		return item
	}
	var children []*fyne.MenuItem
	for _, path := range a.config.RecentFiles {
		children = append(children, fyne.NewMenuItem(path, func() {
			a.importItemsFrom(path)
			a.tabs.SelectIndex(tabPack)
		}))
	}
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About BoxPack",
		"BoxPack: shipping box packing preview\n\n"+
			"Estimates item sizes, packs them into the recommended box\n"+
			"and animates the result stage by stage.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Tab indices.
const (
	tabOrders = iota
	tabPreview
	tabCart
	tabPack
)

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Orders", a.buildOrdersPanel()),
		container.NewTabItem("Preview", a.buildPreviewPanel()),
		container.NewTabItem("Cart", a.buildCartPanel()),
		container.NewTabItem("Pack", a.buildPackPanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)
	return a.tabs
}

// Start subscribes to the order store. Snapshots are applied on the UI
// thread until Stop is called.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := a.service.Store().Subscribe(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to orders: %w", err)
	}
	a.sub = sub
	a.cancel = cancel

	go func() {
		for snapshot := range sub.C {
			fyne.Do(func() {
				a.orderList = snapshot
				a.refreshOrdersList()
			})
		}
		a.log.Debug("order subscription closed")
	}()
	return nil
}

// Stop ends the order subscription and any running animation.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.sub != nil {
		a.sub.Close()
	}
	if a.boxCanvas != nil {
		a.boxCanvas.Stop()
	}
}

func (a *App) showError(err error) {
	a.log.Warn("action failed", zap.Error(err))
	dialog.ShowError(err, a.window)
}

// ─── Undo / Redo ───────────────────────────────────────────

func (a *App) snapshot(label string) Snapshot {
	lines, err := a.cart.List()
	if err != nil {
		a.log.Warn("failed to read cart", zap.Error(err))
	}
	return MakeSnapshot(a.inventory.Boxes, lines, label)
}

// recordEdit pushes the current state before an edit.
func (a *App) recordEdit(label string) {
	a.history.Push(a.snapshot(label))
	a.SetupMenus()
}

func (a *App) undo() {
	s, ok := a.history.Undo(a.snapshot("undo"))
	if !ok {
		return
	}
	a.restore(s)
	a.SetupMenus()
}

func (a *App) redo() {
	s, ok := a.history.Redo(a.snapshot("redo"))
	if !ok {
		return
	}
	a.restore(s)
	a.SetupMenus()
}

func (a *App) restore(s Snapshot) {
	a.inventory.Boxes = s.Boxes
	a.saveInventory()

	if err := a.cart.Clear(); err != nil {
		a.showError(err)
		return
	}
	for _, l := range s.Lines {
		if err := a.cart.Add(l); err != nil {
			a.showError(err)
			return
		}
	}
	a.refreshCart()
}
