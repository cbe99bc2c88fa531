package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showUsedAddressesDialog lists receiving or sending addresses that appear in
// the wallet history, with their labels.
func (g *MainGUI) showUsedAddressesDialog(receiving bool) {
	title := "Used Receiving Addresses"
	addresses := g.wallet.UsedReceivingAddresses()
	if !receiving {
		title = "Used Sending Addresses"
		addresses = g.wallet.UsedSendingAddresses()
	}

	if len(addresses) == 0 {
		dialog.ShowInformation(title, "No addresses recorded yet.", g.window)
		return
	}

	list := widget.NewList(
		func() int { return len(addresses) },
		func() fyne.CanvasObject {
			return container.NewGridWithColumns(2,
				widget.NewLabel(""),
				widget.NewLabel(""),
			)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(addresses) {
				return
			}
			row := o.(*fyne.Container)
			addr := row.Objects[0].(*widget.Label)
			addr.SetText(addresses[i])
			addr.TextStyle.Monospace = true
			row.Objects[1].(*widget.Label).SetText(g.wallet.LabelFor(addresses[i]))
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		list.Unselect(id)
		if id < len(addresses) {
			g.window.Clipboard().SetContent(addresses[id])
		}
	}

	hint := widget.NewLabel("Click an address to copy it.")
	content := container.NewBorder(hint, nil, nil, nil, list)

	d := dialog.NewCustom(title, "Close", content, g.window)
	d.Resize(fyne.NewSize(560, 420))
	d.Show()
}
