package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showSignMessageDialog signs arbitrary text with one of the wallet's
// address keys. Signing may trigger the unlock flow, so it runs off the UI
// loop.
func (g *MainGUI) showSignMessageDialog() {
	addressEntry := widget.NewEntry()
	addressEntry.SetPlaceHolder("One of your receiving addresses")

	messageEntry := widget.NewMultiLineEntry()
	messageEntry.SetPlaceHolder("Message to sign")
	messageEntry.Wrapping = fyne.TextWrapWord

	signatureEntry := widget.NewMultiLineEntry()
	signatureEntry.SetPlaceHolder("Signature appears here")
	signatureEntry.Wrapping = fyne.TextWrapBreak
	signatureEntry.Disable()

	signButton := widget.NewButton("Sign", func() {
		go func() {
			signature, err := g.manager.SignMessage(addressEntry.Text, messageEntry.Text)
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to sign message: %v", err), g.window)
				return
			}
			signatureEntry.Enable()
			signatureEntry.SetText(signature)
			signatureEntry.Disable()
		}()
	})

	copyButton := widget.NewButton("Copy Signature", func() {
		if signatureEntry.Text != "" {
			g.window.Clipboard().SetContent(signatureEntry.Text)
		}
	})

	content := container.NewVBox(
		widget.NewLabel("Address:"),
		addressEntry,
		widget.NewLabel("Message:"),
		messageEntry,
		container.NewHBox(signButton, copyButton),
		widget.NewLabel("Signature:"),
		signatureEntry,
	)

	d := dialog.NewCustom("Sign Message", "Close", content, g.window)
	d.Resize(fyne.NewSize(560, 480))
	d.Show()
}

// showVerifyMessageDialog checks a signature produced by any wallet
// following the same signed-message convention.
func (g *MainGUI) showVerifyMessageDialog() {
	addressEntry := widget.NewEntry()
	addressEntry.SetPlaceHolder("Signer address")

	messageEntry := widget.NewMultiLineEntry()
	messageEntry.SetPlaceHolder("Signed message")
	messageEntry.Wrapping = fyne.TextWrapWord

	signatureEntry := widget.NewMultiLineEntry()
	signatureEntry.SetPlaceHolder("Base64 signature")
	signatureEntry.Wrapping = fyne.TextWrapBreak

	verifyButton := widget.NewButton("Verify", func() {
		go func() {
			valid, err := g.manager.VerifyMessage(addressEntry.Text, messageEntry.Text, signatureEntry.Text)
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to verify message: %v", err), g.window)
				return
			}
			if valid {
				dialog.ShowInformation("Signature Valid",
					"The message was signed by the owner of "+addressEntry.Text+".", g.window)
			} else {
				dialog.ShowInformation("Signature Invalid",
					"The signature does not match the message and address.", g.window)
			}
		}()
	})

	content := container.NewVBox(
		widget.NewLabel("Address:"),
		addressEntry,
		widget.NewLabel("Message:"),
		messageEntry,
		widget.NewLabel("Signature:"),
		signatureEntry,
		verifyButton,
	)

	d := dialog.NewCustom("Verify Message", "Close", content, g.window)
	d.Resize(fyne.NewSize(560, 480))
	d.Show()
}
