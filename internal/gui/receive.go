package gui

import (
	"bytes"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/skip2/go-qrcode"
)

// showReceiveDialog presents the current receive address with a QR code,
// label editing and the option to derive a fresh address.
func (g *MainGUI) showReceiveDialog() {
	address, err := g.wallet.CurrentReceiveAddress()
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to derive address: %v", err), g.window)
		return
	}

	introText := widget.NewLabel("Share this address with anyone who wants to send you coins. Use a fresh address per payer to keep your history tidy.")
	introText.Wrapping = fyne.TextWrapWord

	addressLabel := widget.NewLabel(address)
	addressLabel.TextStyle.Monospace = true
	addressLabel.Wrapping = fyne.TextWrapBreak

	notificationLabel := widget.NewLabel("")
	notificationLabel.Alignment = fyne.TextAlignCenter
	notificationLabel.TextStyle.Bold = true
	notificationLabel.Hide()

	labelEntry := widget.NewEntry()
	labelEntry.SetPlaceHolder("Label for this address (optional)")
	labelEntry.SetText(g.wallet.LabelFor(address))

	qrBox := container.NewCenter(g.generateQRCode(address))

	rebuild := func(addr string) {
		address = addr
		addressLabel.SetText(addr)
		labelEntry.SetText(g.wallet.LabelFor(addr))
		qrBox.Objects = []fyne.CanvasObject{g.generateQRCode(addr)}
		qrBox.Refresh()
	}

	copyButton := widget.NewButton("Copy to Clipboard", func() {
		g.copyToClipboard(address, notificationLabel)
	})

	freshButton := widget.NewButton("New Address", func() {
		fresh, err := g.wallet.NewReceiveAddress()
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to derive address: %v", err), g.window)
			return
		}
		rebuild(fresh)
	})

	saveLabelButton := widget.NewButton("Save Label", func() {
		if err := g.wallet.SetLabel(address, labelEntry.Text); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save label: %v", err), g.window)
		}
	})

	content := container.NewVBox(
		introText,
		widget.NewSeparator(),
		addressLabel,
		container.NewHBox(copyButton, freshButton),
		notificationLabel,
		widget.NewSeparator(),
		qrBox,
		widget.NewSeparator(),
		labelEntry,
		saveLabelButton,
	)

	d := dialog.NewCustom("Receive", "Close", content, g.window)
	d.Resize(fyne.NewSize(480, 620))
	d.Show()
}

func (g *MainGUI) copyToClipboard(text string, notificationLabel *widget.Label) {
	g.window.Clipboard().SetContent(text)

	notificationLabel.SetText("Copied to clipboard")
	notificationLabel.Show()

	go func() {
		time.Sleep(2 * time.Second)
		notificationLabel.SetText("")
		notificationLabel.Hide()
	}()
}

func (g *MainGUI) generateQRCode(address string) fyne.CanvasObject {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		errorLabel := widget.NewLabel("Failed to generate QR code")
		errorLabel.Alignment = fyne.TextAlignCenter
		return errorLabel
	}

	var buf bytes.Buffer
	if err := qr.Write(256, &buf); err != nil {
		errorLabel := widget.NewLabel("Failed to encode QR code")
		errorLabel.Alignment = fyne.TextAlignCenter
		return errorLabel
	}

	imageResource := fyne.NewStaticResource("qr.png", buf.Bytes())
	imageCanvas := canvas.NewImageFromResource(imageResource)
	imageCanvas.FillMode = canvas.ImageFillOriginal
	imageCanvas.SetMinSize(fyne.NewSize(256, 256))

	return imageCanvas
}
