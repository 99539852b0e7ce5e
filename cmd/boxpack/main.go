// BoxPack: shipping box packing preview
//
// A desktop application that places orders from a cart, recommends a box,
// packs the items and animates the result stage by stage.
//
// Build:
//   go build -o boxpack ./cmd/boxpack
//
// Using fyne-cross for packaging:
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/bootstrap"
	"github.com/piwi3910/BoxPack/internal/ui"
)

func main() {
	env, err := bootstrap.Open(bootstrap.Options{ConfigPath: os.Getenv("BOXPACK_CONFIG")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "boxpack: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	application := app.NewWithID("com.piwi3910.boxpack")
	window := application.NewWindow("BoxPack")

	appUI := ui.NewApp(application, window, ui.Deps{
		Config:        env.Config,
		ConfigPath:    env.ConfigPath,
		Inventory:     env.Inventory,
		InventoryPath: env.InventoryPath,
		StatsPath:     env.StatsPath,
		Service:       env.Service,
		Cart:          env.Cart,
		Logger:        env.Logger,
	})
	appUI.ApplyTheme()
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	if err := appUI.Start(); err != nil {
		env.Logger.Error("failed to start order subscription", zap.Error(err))
	}
	window.SetOnClosed(appUI.Stop)
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
