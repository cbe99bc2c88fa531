package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// createStatsTab builds the wallet statistics view with the rescan controls.
func (g *MainGUI) createStatsTab() fyne.CanvasObject {
	titleLabel := widget.NewLabel("Wallet Statistics")
	titleLabel.TextStyle.Bold = true

	nameLabel := widget.NewLabel("Wallet: " + g.wallet.Name())
	networkLabel := widget.NewLabel("Network: " + string(g.wallet.Network()))
	birthLabel := widget.NewLabel("Birth Height: N/A")
	scanLabel := widget.NewLabel("Last Scan Height: N/A")
	recordsLabel := widget.NewLabel("Transactions: 0")
	utxoLabel := widget.NewLabel("Unspent Outputs: 0")
	scanStateLabel := widget.NewLabel("Status: idle")
	scanStateLabel.TextStyle.Bold = true

	refresh := func() {
		birthLabel.SetText("Birth Height: " + FormatHeight(g.wallet.BirthHeight()))
		scanLabel.SetText("Last Scan Height: " + FormatHeight(g.wallet.LastScanHeight()))
		recordsLabel.SetText("Transactions: " + FormatNumber(int64(len(g.wallet.Records()))))
		utxoLabel.SetText("Unspent Outputs: " + FormatNumber(int64(len(g.wallet.UTXOs()))))
		if g.wallet.RescanInProgress() {
			scanStateLabel.SetText("Status: rescanning")
		} else {
			scanStateLabel.SetText("Status: idle")
		}
	}

	rescanTitle := widget.NewLabel("Rescan")
	rescanTitle.TextStyle.Bold = true

	rescanHeightEntry := widget.NewEntry()
	rescanHeightEntry.SetPlaceHolder("Height to rescan from (empty for birth height)")

	rescanButton := widget.NewButtonWithIcon("Rescan", theme.ViewRefreshIcon(), func() {
		var fromHeight uint32
		if rescanHeightEntry.Text != "" {
			height, err := ParseFormattedUint32(rescanHeightEntry.Text)
			if err != nil {
				dialog.ShowError(fmt.Errorf("invalid height: %v", err), g.window)
				return
			}
			fromHeight = height
		}
		go func() {
			if err := g.wallet.StartRescan(context.Background(), fromHeight); err != nil {
				dialog.ShowError(fmt.Errorf("failed to start rescan: %v", err), g.window)
				return
			}
			refresh()
		}()
	})

	abortButton := widget.NewButtonWithIcon("Abort", theme.MediaStopIcon(), func() {
		g.wallet.AbortRescan()
		refresh()
	})

	refreshButton := widget.NewButton("Refresh", refresh)

	refresh()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			refresh()
		}
	}()

	walletSection := container.NewVBox(
		nameLabel,
		networkLabel,
		birthLabel,
		scanLabel,
		recordsLabel,
		utxoLabel,
		scanStateLabel,
	)

	rescanSection := container.NewVBox(
		rescanTitle,
		rescanHeightEntry,
		container.NewHBox(rescanButton, abortButton, refreshButton),
	)

	return container.NewVBox(
		titleLabel,
		widget.NewSeparator(),
		walletSection,
		widget.NewSeparator(),
		rescanSection,
	)
}
