package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/piwi3910/BoxPack/internal/cart"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/orders"
)

var shapeOptions = []string{
	model.ShapeBox.String(),
	model.ShapeCylinder.String(),
	model.ShapeSphere.String(),
}

// ─── Cart Panel ────────────────────────────────────────────

func (a *App) buildCartPanel() fyne.CanvasObject {
	a.cartContainer = container.NewVBox()
	a.refreshCart()

	addBtn := widget.NewButtonWithIcon("Add Product", theme.ContentAddIcon(), func() {
		a.showAddLineDialog()
	})
	checkoutBtn := widget.NewButtonWithIcon("Checkout Selected", theme.ConfirmIcon(), func() {
		a.showCheckoutDialog()
	})
	checkoutBtn.Importance = widget.HighImportance

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Cart", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
			checkoutBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.cartContainer),
	)
}

func (a *App) refreshCart() {
	if a.cartContainer == nil {
		return
	}
	a.cartContainer.RemoveAll()

	lines, err := a.cart.List()
	if err != nil {
		a.cartContainer.Add(widget.NewLabel(fmt.Sprintf("Failed to read cart: %v", err)))
		return
	}
	// New lines start selected.
	mask := make([]bool, len(lines))
	for i := range mask {
		mask[i] = i >= len(a.cartMask) || a.cartMask[i]
	}
	a.cartMask = mask

	if len(lines) == 0 {
		a.cartContainer.Add(widget.NewLabel("Cart is empty. Click 'Add Product' to begin."))
		return
	}

	header := container.NewGridWithColumns(8,
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("Product", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Category", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Price", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Qty", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Weight", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Subtotal", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.cartContainer.Add(header)
	a.cartContainer.Add(widget.NewSeparator())

	for i, l := range lines {
		idx := i
		check := widget.NewCheck("", func(b bool) { a.cartMask[idx] = b })
		check.Checked = a.cartMask[idx]

		row := container.NewGridWithColumns(8,
			check,
			widget.NewLabel(l.Title),
			widget.NewLabel(l.Category),
			widget.NewLabel(l.Price.StringFixed(2)),
			widget.NewLabel(fmt.Sprintf("%d", l.Units())),
			widget.NewLabel(fmt.Sprintf("%.2f", l.Weight)),
			widget.NewLabel(l.Subtotal().StringFixed(2)),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.recordEdit("Remove Product")
				if err := a.cart.Remove(idx); err != nil {
					a.showError(err)
					return
				}
				a.cartMask = append(a.cartMask[:idx], a.cartMask[idx+1:]...)
				a.refreshCart()
			}),
		)
		a.cartContainer.Add(row)
	}

	total := widget.NewLabel("Selected total: " + cart.Total(cart.Select(lines, a.cartMask)).StringFixed(2))
	total.TextStyle = fyne.TextStyle{Bold: true}
	a.cartContainer.Add(widget.NewSeparator())
	a.cartContainer.Add(total)
}

func (a *App) showAddLineDialog() {
	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder("Product name")

	categoryEntry := widget.NewEntry()
	categoryEntry.SetPlaceHolder("Optional")

	priceEntry := widget.NewEntry()
	priceEntry.SetText("0.00")

	qtyEntry := widget.NewEntry()
	qtyEntry.SetText("1")

	weightEntry := widget.NewEntry()
	weightEntry.SetText("1")

	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("Blank = estimate from weight")
	heightEntry := widget.NewEntry()
	heightEntry.SetPlaceHolder("Blank = estimate from weight")
	depthEntry := widget.NewEntry()
	depthEntry.SetPlaceHolder("Blank = estimate from weight")

	shapeSelect := widget.NewSelect(shapeOptions, nil)
	shapeSelect.SetSelected(model.ShapeBox.String())

	form := dialog.NewForm("Add Product", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Product", titleEntry),
			widget.NewFormItem("Category", categoryEntry),
			widget.NewFormItem("Price", priceEntry),
			widget.NewFormItem("Quantity", qtyEntry),
			widget.NewFormItem("Weight", weightEntry),
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
			widget.NewFormItem("Depth", depthEntry),
			widget.NewFormItem("Shape", shapeSelect),
		},
		func(ok bool) {
			if !ok {
				return
			}
			price, err := decimal.NewFromString(priceEntry.Text)
			if err != nil || price.IsNegative() {
				dialog.ShowError(fmt.Errorf("price must be a non-negative number"), a.window)
				return
			}
			q, _ := strconv.Atoi(qtyEntry.Text)
			w, _ := strconv.ParseFloat(weightEntry.Text, 64)
			if titleEntry.Text == "" || q <= 0 || w <= 0 {
				dialog.ShowError(fmt.Errorf("product, quantity and weight are required"), a.window)
				return
			}
			dw, _ := strconv.ParseFloat(widthEntry.Text, 64)
			dh, _ := strconv.ParseFloat(heightEntry.Text, 64)
			dd, _ := strconv.ParseFloat(depthEntry.Text, 64)
			shape, _ := model.ParseShape(shapeSelect.Selected)

			a.recordEdit("Add Product")
			line := cart.Line{
				ProductID: titleEntry.Text,
				Title:     titleEntry.Text,
				Category:  categoryEntry.Text,
				Price:     price,
				Quantity:  q,
				Weight:    w,
				Dims:      model.Dims{Width: dw, Height: dh, Depth: dd},
				Shape:     shape,
			}
			if err := a.cart.Add(line); err != nil {
				a.showError(err)
				return
			}
			a.refreshCart()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 520))
	form.Show()
}

func (a *App) showCheckoutDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Optional")
	emailEntry := widget.NewEntry()
	emailEntry.SetPlaceHolder("Optional")
	addressEntry := widget.NewMultiLineEntry()
	paymentSelect := widget.NewSelect([]string{"Card", "Cash on Delivery", "Bank Transfer"}, nil)
	paymentSelect.SetSelected("Card")
	typeSelect := widget.NewSelect([]string{"Online", "In Store"}, nil)
	typeSelect.SetSelected("Online")

	form := dialog.NewForm("Checkout", "Place Order", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Email", emailEntry),
			widget.NewFormItem("Address", addressEntry),
			widget.NewFormItem("Payment", paymentSelect),
			widget.NewFormItem("Type", typeSelect),
		},
		func(ok bool) {
			if !ok {
				return
			}
			req := orders.PlaceOrderRequest{
				Customer:      model.Customer{DisplayName: nameEntry.Text, Email: emailEntry.Text},
				PaymentMethod: paymentSelect.Selected,
				Address:       addressEntry.Text,
				Type:          typeSelect.Selected,
			}
			a.checkout(req)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 380))
	form.Show()
}

func (a *App) checkout(req orders.PlaceOrderRequest) {
	mask := append([]bool(nil), a.cartMask...)
	a.recordEdit("Checkout")

	// The predictor call may block for its full timeout.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		order, err := a.service.Checkout(ctx, a.cart, mask, req)

		fyne.Do(func() {
			a.cartMask = nil
			a.refreshCart()
			switch {
			case errors.Is(err, cart.ErrEmptyCart):
				dialog.ShowInformation("Nothing selected", "Select at least one cart line to check out.", a.window)
			case err != nil:
				a.showError(err)
			default:
				a.log.Info("order placed from cart", zap.String("order_id", order.ID))
				dialog.ShowInformation("Order Placed", fmt.Sprintf(
					"Order %s placed.\nRecommended box: %s (%s)",
					shortID(order.ID), order.BoxInfo.Category, order.BoxInfo.Dimensions,
				), a.window)
			}
		})
	}()
}
