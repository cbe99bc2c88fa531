package gui

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/wallet"
)

const historyFilterAll = "All"

// createHistoryTab builds the full transaction history: filterable list,
// per-row details dialog and CSV export.
func (g *MainGUI) createHistoryTab() fyne.CanvasObject {
	filter := widget.NewSelect([]string{
		historyFilterAll,
		string(wallet.TxTypeSend),
		string(wallet.TxTypeReceive),
		string(wallet.TxTypeStakeReward),
	}, func(selected string) {
		g.historyFilter = selected
		g.refreshHistory()
	})
	filter.SetSelected(historyFilterAll)

	exportButton := widget.NewButtonWithIcon("Export CSV", theme.DocumentSaveIcon(), func() {
		go g.exportHistoryCSV()
	})

	headers := container.NewGridWithColumns(5,
		historyHeader("Date"),
		historyHeader("Type"),
		historyHeader("Amount"),
		historyHeader("Address / Label"),
		historyHeader("Status"),
	)

	g.historyList = widget.NewList(
		func() int { return len(g.historyRecords) },
		func() fyne.CanvasObject {
			return container.NewGridWithColumns(5,
				widget.NewLabel(""),
				widget.NewLabel(""),
				widget.NewLabel(""),
				widget.NewLabel(""),
				widget.NewLabel(""),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(g.historyRecords) {
				return
			}
			rec := g.historyRecords[id]
			row := obj.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(FormatTime(rec.Date))
			row.Objects[1].(*widget.Label).SetText(string(rec.Type))
			row.Objects[2].(*widget.Label).SetText(signedAmount(rec, g.wallet.DisplayUnit()))
			target := rec.Label
			if target == "" {
				target = ShortenID(rec.Address)
			}
			row.Objects[3].(*widget.Label).SetText(target)
			status := "Pending"
			if rec.Confirmed() {
				status = "Confirmed"
			}
			row.Objects[4].(*widget.Label).SetText(status)
		},
	)
	g.historyList.OnSelected = func(id widget.ListItemID) {
		g.historyList.Unselect(id)
		if id < len(g.historyRecords) {
			g.showTransactionDetails(g.historyRecords[id])
		}
	}

	g.refreshHistory()

	top := container.NewVBox(
		container.NewHBox(widget.NewLabel("Show:"), filter, exportButton),
		widget.NewSeparator(),
		headers,
		widget.NewSeparator(),
	)
	return container.NewBorder(top, nil, nil, nil, g.historyList)
}

func historyHeader(text string) *widget.Label {
	label := widget.NewLabel(text)
	label.TextStyle.Bold = true
	return label
}

// refreshHistory rebuilds the filtered record slice, newest first.
func (g *MainGUI) refreshHistory() {
	if g.historyList == nil || g.wallet == nil {
		return
	}
	records := g.wallet.Records()
	g.historyRecords = g.historyRecords[:0]
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if g.historyFilter != "" && g.historyFilter != historyFilterAll && string(rec.Type) != g.historyFilter {
			continue
		}
		g.historyRecords = append(g.historyRecords, rec)
	}
	g.historyList.Refresh()
}

func signedAmount(rec wallet.TxRecord, unit string) string {
	if rec.Amount > 0 {
		return "+" + FormatAmountWithUnit(rec.Amount, unit)
	}
	return FormatAmountWithUnit(rec.Amount, unit)
}

// showTransactionDetails opens the per-record dialog with the full id, label
// editing and a clipboard shortcut.
func (g *MainGUI) showTransactionDetails(rec wallet.TxRecord) {
	txidValue := widget.NewLabel(rec.TxID)
	txidValue.TextStyle.Monospace = true
	txidValue.Wrapping = fyne.TextWrapBreak

	status := "Pending"
	heightLine := widget.NewLabel("Block Height: unconfirmed")
	if rec.Confirmed() {
		status = "Confirmed"
		heightLine = widget.NewLabel("Block Height: " + FormatHeight(rec.Height))
	}

	addressValue := widget.NewLabel(rec.Address)
	addressValue.TextStyle.Monospace = true
	addressValue.Wrapping = fyne.TextWrapBreak

	labelEntry := widget.NewEntry()
	labelEntry.SetPlaceHolder("Add a label for this address")
	labelEntry.SetText(rec.Label)

	copyButton := widget.NewButton("Copy TXID", func() {
		g.window.Clipboard().SetContent(rec.TxID)
	})

	content := container.NewVBox(
		widget.NewLabel("Transaction ID:"),
		txidValue,
		widget.NewSeparator(),
		widget.NewLabel("Date: "+FormatTime(rec.Date)),
		widget.NewLabel("Type: "+string(rec.Type)),
		widget.NewLabel("Amount: "+signedAmount(rec, g.wallet.DisplayUnit())),
		heightLine,
		widget.NewLabel("Status: "+status),
		widget.NewSeparator(),
		widget.NewLabel("Address:"),
		addressValue,
		widget.NewLabel("Label:"),
		labelEntry,
		widget.NewSeparator(),
		container.NewHBox(copyButton),
	)

	d := dialog.NewCustomConfirm("Transaction Details", "Save", "Close", content, func(save bool) {
		if !save || labelEntry.Text == rec.Label {
			return
		}
		if err := g.wallet.SetLabel(rec.Address, labelEntry.Text); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save label: %v", err), g.window)
			return
		}
		g.refreshHistory()
		g.refreshOverview()
	}, g.window)
	d.Resize(fyne.NewSize(640, 520))
	d.Show()
}

// exportHistoryCSV writes the current (filtered) history to a user-picked
// file. Runs off the UI loop because the dialog bridge blocks.
func (g *MainGUI) exportHistoryCSV() {
	files := &fileDialogs{window: g.window}
	path, ok := files.SaveFile("Export Transaction History", "CSV File (*.csv)")
	if !ok {
		return
	}

	f, err := g.fs.Create(path)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to create %s: %v", path, err), g.window)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "type", "amount_sats", "txid", "address", "label", "height"}); err != nil {
		dialog.ShowError(fmt.Errorf("failed to write %s: %v", path, err), g.window)
		return
	}
	for _, rec := range g.historyRecords {
		row := []string{
			FormatTime(rec.Date),
			string(rec.Type),
			strconv.FormatInt(rec.Amount, 10),
			rec.TxID,
			rec.Address,
			rec.Label,
			strconv.FormatUint(uint64(rec.Height), 10),
		}
		if err := w.Write(row); err != nil {
			dialog.ShowError(fmt.Errorf("failed to write %s: %v", path, err), g.window)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to write %s: %v", path, err), g.window)
		return
	}
	dialog.ShowInformation("Export Complete",
		fmt.Sprintf("%d transactions were exported to %s.", len(g.historyRecords), path), g.window)
}
