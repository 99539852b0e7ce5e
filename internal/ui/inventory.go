package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/project"
)

// ─── Box Inventory Dialog ──────────────────────────────────

func (a *App) showBoxInventoryDialog() {
	boxList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		boxList.RemoveAll()

		if len(a.inventory.Boxes) == 0 {
			boxList.Add(widget.NewLabel("No boxes defined."))
			return
		}

		header := container.NewGridWithColumns(7,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Width", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Height", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Depth", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Max Weight", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		boxList.Add(header)
		boxList.Add(widget.NewSeparator())

		for i := range a.inventory.Boxes {
			idx := i
			b := a.inventory.Boxes[idx]
			maxWeight := "-"
			if b.MaxWeight > 0 {
				maxWeight = fmt.Sprintf("%.1f", b.MaxWeight)
			}
			row := container.NewGridWithColumns(7,
				widget.NewLabel(b.Name),
				widget.NewLabel(fmt.Sprintf("%.1f", b.Width)),
				widget.NewLabel(fmt.Sprintf("%.1f", b.Height)),
				widget.NewLabel(fmt.Sprintf("%.1f", b.Depth)),
				widget.NewLabel(maxWeight),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showBoxPresetDialog(idx, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.recordEdit("Delete Box")
					a.inventory.Boxes = append(a.inventory.Boxes[:idx], a.inventory.Boxes[idx+1:]...)
					a.saveInventory()
					refreshList()
				}),
			)
			boxList.Add(row)
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Box", theme.ContentAddIcon(), func() {
		a.showBoxPresetDialog(-1, refreshList)
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importInventory(refreshList)
	})
	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportInventory()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(boxList),
	)

	d := dialog.NewCustom("Box Inventory", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 450))
	d.Show()
}

// showBoxPresetDialog edits the box at idx, or adds a new one when idx < 0.
func (a *App) showBoxPresetDialog(idx int, onDone func()) {
	b := model.BoxPreset{Name: "New Box", Width: 30, Height: 30, Depth: 30}
	title, confirm := "Add Box", "Add"
	if idx >= 0 {
		b = a.inventory.Boxes[idx]
		title, confirm = "Edit Box", "Save"
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Box category, e.g. Medium")
	nameEntry.SetText(b.Name)

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%.1f", b.Width))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(fmt.Sprintf("%.1f", b.Height))
	depthEntry := widget.NewEntry()
	depthEntry.SetText(fmt.Sprintf("%.1f", b.Depth))

	maxWeightEntry := widget.NewEntry()
	maxWeightEntry.SetPlaceHolder("0 = no limit")
	maxWeightEntry.SetText(fmt.Sprintf("%.1f", b.MaxWeight))

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
			widget.NewFormItem("Depth", depthEntry),
			widget.NewFormItem("Max Weight", maxWeightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			d, _ := strconv.ParseFloat(depthEntry.Text, 64)
			mw, _ := strconv.ParseFloat(maxWeightEntry.Text, 64)
			if nameEntry.Text == "" || w <= 0 || h <= 0 || d <= 0 || mw < 0 {
				dialog.ShowError(fmt.Errorf("name is required and dimensions must be > 0"), a.window)
				return
			}

			a.recordEdit(title)
			if idx < 0 {
				a.inventory.Boxes = append(a.inventory.Boxes, model.NewBoxPreset(nameEntry.Text, w, h, d, mw))
			} else {
				a.inventory.Boxes[idx].Name = nameEntry.Text
				a.inventory.Boxes[idx].Width = w
				a.inventory.Boxes[idx].Height = h
				a.inventory.Boxes[idx].Depth = d
				a.inventory.Boxes[idx].MaxWeight = mw
			}
			a.saveInventory()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 380))
	form.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importInventory(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := project.ImportInventory(reader.URI().Path(), a.inventory)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}

		a.recordEdit("Import Boxes")
		a.inventory = merged
		a.saveInventory()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Inventory now contains %d boxes.", len(a.inventory.Boxes)),
			a.window)
	}, a.window)
}

func (a *App) exportInventory() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := project.SaveInventory(path, a.inventory); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Inventory exported to %s", path),
				a.window)
		}
	}, a.window)
	d.SetFileName("boxes.json")
	d.Show()
}

// saveInventory persists the inventory and hands it to the order service.
func (a *App) saveInventory() {
	a.service.SetInventory(a.inventory)
	if a.onInventoryChanged != nil {
		a.onInventoryChanged()
	}
	if a.inventoryPath == "" {
		return
	}
	if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save inventory: %w", err), a.window)
	}
}
