package gui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/controller"
)

// passphraseDialogs collects wallet passphrases through modal forms. Calls
// block until the user confirms or dismisses the dialog.
type passphraseDialogs struct {
	window fyne.Window
}

type passResult struct {
	pass string
	ok   bool
}

func passphraseTitle(mode controller.PassphraseMode) string {
	switch mode {
	case controller.ModeEncrypt:
		return "Encrypt Wallet"
	case controller.ModeChange:
		return "Change Passphrase"
	default:
		return "Unlock Wallet"
	}
}

func (p *passphraseDialogs) AskPassphrase(mode controller.PassphraseMode) (string, bool) {
	label := "Passphrase"
	if mode == controller.ModeChange {
		label = "Current passphrase"
	}

	result := make(chan passResult, 1)
	entry := widget.NewPasswordEntry()
	items := []*widget.FormItem{widget.NewFormItem(label, entry)}
	d := dialog.NewForm(passphraseTitle(mode), "OK", "Cancel", items, func(ok bool) {
		result <- passResult{pass: entry.Text, ok: ok}
	}, p.window)
	d.Resize(fyne.NewSize(400, 140))
	d.Show()

	res := <-result
	return res.pass, res.ok
}

// AskNewPassphrase asks for a fresh passphrase twice. The form refuses to
// submit while the fields are empty or disagree; the post-check catches the
// stale-validation corner where the first field changed last.
func (p *passphraseDialogs) AskNewPassphrase(mode controller.PassphraseMode) (string, bool) {
	for {
		res, repeat := p.askNewOnce(mode)
		if !res.ok {
			return "", false
		}
		if res.pass != "" && res.pass == repeat {
			return res.pass, true
		}
		dialog.ShowInformation("Passphrase Mismatch",
			"The entered passphrases do not match. Please try again.", p.window)
	}
}

func (p *passphraseDialogs) askNewOnce(mode controller.PassphraseMode) (passResult, string) {
	result := make(chan passResult, 1)

	entry := widget.NewPasswordEntry()
	entry.Validator = func(s string) error {
		if s == "" {
			return errors.New("passphrase must not be empty")
		}
		return nil
	}
	repeat := widget.NewPasswordEntry()
	repeat.Validator = func(s string) error {
		if s != entry.Text {
			return errors.New("passphrases do not match")
		}
		return nil
	}

	items := []*widget.FormItem{
		widget.NewFormItem("New passphrase", entry),
		widget.NewFormItem("Repeat passphrase", repeat),
	}
	d := dialog.NewForm(passphraseTitle(mode), "OK", "Cancel", items, func(ok bool) {
		result <- passResult{pass: entry.Text, ok: ok}
	}, p.window)
	d.Resize(fyne.NewSize(400, 180))
	d.Show()

	res := <-result
	return res, repeat.Text
}
