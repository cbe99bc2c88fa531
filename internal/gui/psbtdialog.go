package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/btcsuite/btcd/btcutil/psbt"

	"github.com/talonwallet/talon-desktop/internal/psbtops"
)

const broadcastTimeout = 30 * time.Second

// psbtEditor hands decoded transactions to the editor dialog. It satisfies
// the controller's TxEditor hook.
type psbtEditor struct {
	gui *MainGUI
}

func (e *psbtEditor) OpenPSBT(packet *psbt.Packet) {
	e.gui.showTransactionEditor(packet)
}

// showTransactionEditor opens the review dialog for a partially signed
// transaction: summary, sign, export and broadcast.
func (g *MainGUI) showTransactionEditor(packet *psbt.Packet) {
	summary, err := psbtops.Summarize(packet, g.wallet.Params())
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to read transaction: %v", err), g.window)
		return
	}

	status := widget.NewLabel(editorStatusText(summary))
	status.TextStyle = fyne.TextStyle{Bold: true}

	body := container.NewVBox(g.editorSummaryView(summary))

	refresh := func() {
		s, err := psbtops.Summarize(packet, g.wallet.Params())
		if err != nil {
			return
		}
		summary = s
		status.SetText(editorStatusText(summary))
		body.Objects = []fyne.CanvasObject{g.editorSummaryView(summary)}
		body.Refresh()
	}

	var d dialog.Dialog

	signButton := widget.NewButton("Sign", func() {
		go func() {
			signed, err := g.wallet.SignPacket(packet)
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to sign transaction: %v", err), g.window)
				return
			}
			if signed == 0 {
				dialog.ShowInformation("Nothing To Sign",
					"No inputs of this transaction can be signed by this wallet.", g.window)
			}
			refresh()
		}()
	})

	copyButton := widget.NewButton("Copy Base64", func() {
		encoded, err := psbtops.EncodeBase64(packet)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to encode transaction: %v", err), g.window)
			return
		}
		g.window.Clipboard().SetContent(encoded)
	})

	saveButton := widget.NewButton("Save...", func() {
		go func() {
			files := &fileDialogs{window: g.window}
			path, ok := files.SaveFile("Save Transaction Data", "Partially Signed Transaction (*.psbt)")
			if !ok {
				return
			}
			if err := psbtops.SaveToFile(g.fs, packet, path); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save transaction: %v", err), g.window)
				return
			}
			dialog.ShowInformation("Transaction Saved",
				"The transaction data was saved to "+path+".", g.window)
		}()
	})

	broadcastButton := widget.NewButton("Broadcast", func() {
		go func() {
			if err := psbtops.Finalize(packet); err != nil {
				dialog.ShowError(fmt.Errorf("transaction is not fully signed: %v", err), g.window)
				return
			}
			refresh()
			tx, err := psbtops.ExtractTx(packet)
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to extract transaction: %v", err), g.window)
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
			defer cancel()
			txid, err := g.node.Broadcast(ctx, tx)
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to broadcast transaction: %v", err), g.window)
				return
			}
			// record immediately as unconfirmed instead of waiting for rescan
			if err := g.wallet.ProcessTransaction(tx, 0); err != nil {
				dialog.ShowError(fmt.Errorf("failed to record transaction: %v", err), g.window)
			}
			dialog.ShowInformation("Transaction Broadcast",
				"The transaction was sent to the network.\n\nTransaction ID:\n"+txid, g.window)
			if d != nil {
				d.Hide()
			}
			g.refreshOverview()
		}()
	})

	buttons := container.NewHBox(signButton, copyButton, saveButton, broadcastButton)
	content := container.NewVBox(status, widget.NewSeparator(), body, widget.NewSeparator(), buttons)

	d = dialog.NewCustom("Transaction Editor", "Close", content, g.window)
	d.Resize(fyne.NewSize(640, 480))
	d.Show()
}

// editorSummaryView lays out the decoded packet: inputs, outputs, totals.
func (g *MainGUI) editorSummaryView(s *psbtops.Summary) fyne.CanvasObject {
	unit := g.wallet.DisplayUnit()

	txidLabel := widget.NewLabel("Transaction ID: " + s.TxID)
	txidLabel.Wrapping = fyne.TextWrapBreak

	inputs := container.NewVBox(widget.NewLabelWithStyle(
		fmt.Sprintf("Inputs (%d)", len(s.Inputs)), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, in := range s.Inputs {
		line := in.PrevOut
		if in.Address != "" {
			line += "  " + in.Address
		}
		if in.Amount > 0 {
			line += "  " + FormatAmountWithUnit(in.Amount, unit)
		}
		if in.Finalized {
			line += "  [signed]"
		}
		label := widget.NewLabel(line)
		label.Wrapping = fyne.TextWrapBreak
		inputs.Add(label)
	}

	outputs := container.NewVBox(widget.NewLabelWithStyle(
		fmt.Sprintf("Outputs (%d)", len(s.Outputs)), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, out := range s.Outputs {
		line := out.Address + "  " + FormatAmountWithUnit(out.Amount, unit)
		if g.wallet.IsOwnAddress(out.Address) {
			line += "  (own address)"
		}
		label := widget.NewLabel(line)
		label.Wrapping = fyne.TextWrapBreak
		outputs.Add(label)
	}

	fee := "unknown (missing input metadata)"
	if s.FeeKnown {
		fee = FormatAmountWithUnit(s.Fee, unit)
	}
	totals := widget.NewLabel(fmt.Sprintf("Total out: %s    Fee: %s",
		FormatAmountWithUnit(s.TotalOut, unit), fee))

	return container.NewVBox(txidLabel, widget.NewSeparator(), inputs, widget.NewSeparator(), outputs, widget.NewSeparator(), totals)
}

func editorStatusText(s *psbtops.Summary) string {
	if s.Complete {
		return "All inputs signed. Ready to broadcast."
	}
	finalized := 0
	for _, in := range s.Inputs {
		if in.Finalized {
			finalized++
		}
	}
	return fmt.Sprintf("Partially signed: %d of %d inputs finalized.", finalized, len(s.Inputs))
}
