package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/controller"
)

const defaultFeeRate = 2 // sat/vB

// showSendDialog opens the send form, prefilled from a payment request when
// one triggered it. The built packet goes to the transaction editor.
func (g *MainGUI) showSendDialog(req controller.PaymentRequest) {
	recipientEntry := widget.NewEntry()
	recipientEntry.SetPlaceHolder("Enter recipient address...")
	recipientEntry.SetText(req.Address)

	amountEntry := widget.NewEntry()
	amountEntry.SetPlaceHolder("Amount in sats (e.g. 100000)")
	if req.Amount > 0 {
		amountEntry.SetText(strconv.FormatInt(req.Amount, 10))
	}

	feeRateEntry := widget.NewEntry()
	feeRateEntry.SetPlaceHolder("Fee rate in sat/vB")
	feeRateEntry.SetText(strconv.Itoa(defaultFeeRate))

	balanceLabel := widget.NewLabel("Spendable: " +
		FormatAmountWithUnit(g.wallet.Balance(), g.wallet.DisplayUnit()))

	requestNote := widget.NewLabel("")
	requestNote.Wrapping = fyne.TextWrapWord
	if req.Message != "" {
		requestNote.SetText("Payment request: " + req.Message)
	} else if req.Label != "" {
		requestNote.SetText("Payment request from " + req.Label)
	} else {
		requestNote.Hide()
	}

	content := container.NewVBox(
		requestNote,
		widget.NewLabel("Recipient Address:"),
		recipientEntry,
		widget.NewLabel("Amount (sats):"),
		amountEntry,
		widget.NewLabel("Fee Rate (sat/vB):"),
		feeRateEntry,
		widget.NewSeparator(),
		balanceLabel,
	)

	d := dialog.NewCustomConfirm("Send", "Create Transaction", "Cancel", content, func(create bool) {
		if !create {
			return
		}
		addr := recipientEntry.Text
		if addr == "" {
			dialog.ShowError(fmt.Errorf("recipient address is required"), g.window)
			return
		}
		if _, err := chainparams.DecodeAddress(addr, g.wallet.Network()); err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		amount, err := strconv.ParseInt(amountEntry.Text, 10, 64)
		if err != nil || amount <= 0 {
			dialog.ShowError(fmt.Errorf("invalid amount: %q", amountEntry.Text), g.window)
			return
		}
		feeRate, err := strconv.ParseInt(feeRateEntry.Text, 10, 64)
		if err != nil || feeRate <= 0 {
			dialog.ShowError(fmt.Errorf("invalid fee rate: %q", feeRateEntry.Text), g.window)
			return
		}

		packet, err := g.wallet.BuildSend(addr, amount, feeRate)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to build transaction: %v", err), g.window)
			return
		}
		if req.Label != "" {
			if err := g.wallet.SetLabel(addr, req.Label); err == nil {
				g.refreshHistory()
			}
		}
		g.showTransactionEditor(packet)
	}, g.window)
	d.Resize(fyne.NewSize(520, 400))
	d.Show()
}
