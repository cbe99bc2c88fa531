package gui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/controller"
)

// progressDialog is a modal progress bar with a Cancel button. Dismissing the
// dialog by any means other than Close counts as a cancel request.
type progressDialog struct {
	bar    *widget.ProgressBar
	dialog dialog.Dialog

	mu       sync.Mutex
	canceled bool
	closing  bool
}

func (g *MainGUI) newProgressIndicator(title string) controller.ProgressIndicator {
	bar := widget.NewProgressBar()
	p := &progressDialog{bar: bar}
	p.dialog = dialog.NewCustom(title, "Cancel", bar, g.window)
	p.dialog.SetOnClosed(func() {
		p.mu.Lock()
		if !p.closing {
			p.canceled = true
		}
		p.mu.Unlock()
	})
	p.dialog.Resize(fyne.NewSize(360, 100))
	p.dialog.Show()
	return p
}

func (p *progressDialog) SetPercent(percent int) {
	p.bar.SetValue(float64(percent) / 100)
}

func (p *progressDialog) Canceled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canceled
}

func (p *progressDialog) Close() {
	p.mu.Lock()
	p.closing = true
	p.mu.Unlock()
	p.dialog.Hide()
}
