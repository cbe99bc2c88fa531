package gui

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/configs"
	"github.com/talonwallet/talon-desktop/internal/wallet"
)

// SetupWizard walks a first-time user through creating or importing a
// wallet. It renders directly into the window; onFinish swaps in the main
// view once a wallet exists.
type SetupWizard struct {
	app      fyne.App
	window   fyne.Window
	wallet   *wallet.Manager
	onFinish func()
}

func NewSetupWizard(app fyne.App, window fyne.Window, walletManager *wallet.Manager, onFinish func()) *SetupWizard {
	return &SetupWizard{
		app:      app,
		window:   window,
		wallet:   walletManager,
		onFinish: onFinish,
	}
}

func (s *SetupWizard) Show() {
	s.showWelcome()
}

func (s *SetupWizard) showWelcome() {
	welcomeText := widget.NewRichTextFromMarkdown(`
# Welcome to Talon Desktop

This wizard will help you set up your wallet.

You can either:
- **Create a new wallet** with a generated seed phrase
- **Import an existing wallet** using your seed phrase

**Important**: Make sure to write down your seed phrase and keep it safe!
`)

	networkLabel := widget.NewLabel("Network: " + string(s.wallet.Network()))

	createBtn := widget.NewButton("Create New Wallet", func() {
		s.showGenerateSeed()
	})

	importBtn := widget.NewButton("Import Existing Wallet", func() {
		s.showImport()
	})

	content := container.NewVBox(
		welcomeText,
		networkLabel,
		widget.NewSeparator(),
		createBtn,
		importBtn,
	)

	s.window.SetContent(content)
	s.window.Resize(fyne.NewSize(500, 400))
}

func (s *SetupWizard) showGenerateSeed() {
	mnemonic, err := s.wallet.GenerateNewSeed()
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to generate seed: %v", err), s.window)
		return
	}

	mnemonicText := widget.NewRichTextFromMarkdown(fmt.Sprintf(`
# Your New Wallet Seed Phrase

**IMPORTANT**: Write down these words in the exact order shown below.
This is your only way to recover your wallet if you lose access to this device.

**Store them safely and never share them with anyone!**

## Your Seed Phrase:

%s

**Please confirm that you have written down these words before continuing.**
`, mnemonic))
	mnemonicText.Wrapping = fyne.TextWrapWord

	confirmBtn := widget.NewButton("I Have Written Down My Seed Phrase", func() {
		s.showSeedConfirmation(mnemonic)
	})

	backBtn := widget.NewButton("Back", func() {
		s.showWelcome()
	})

	content := container.NewVBox(
		mnemonicText,
		widget.NewSeparator(),
		container.NewHBox(backBtn, confirmBtn),
	)

	s.window.SetContent(content)
	s.window.Resize(fyne.NewSize(600, 500))
}

func (s *SetupWizard) showSeedConfirmation(mnemonic string) {
	confirmText := widget.NewRichTextFromMarkdown(`
# Confirm Your Seed Phrase

To ensure you have written down your seed phrase correctly, please enter it below.

**This is your last chance to verify you have saved your seed phrase!**
`)

	mnemonicEntry := widget.NewMultiLineEntry()
	mnemonicEntry.SetPlaceHolder("Enter your seed phrase here to confirm...")
	mnemonicEntry.Wrapping = fyne.TextWrapWord

	confirmBtn := widget.NewButton("Confirm Seed Phrase", func() {
		if strings.TrimSpace(mnemonicEntry.Text) != mnemonic {
			dialog.ShowError(errors.New("seed phrase does not match, please try again"), s.window)
			return
		}
		if err := s.wallet.CreateWallet(mnemonic); err != nil {
			dialog.ShowError(fmt.Errorf("failed to create wallet: %v", err), s.window)
			return
		}
		s.onFinish()
	})

	backBtn := widget.NewButton("Back", func() {
		s.showGenerateSeed()
	})

	content := container.NewVBox(
		confirmText,
		widget.NewSeparator(),
		mnemonicEntry,
		widget.NewSeparator(),
		container.NewHBox(backBtn, confirmBtn),
	)

	s.window.SetContent(content)
	s.window.Resize(fyne.NewSize(600, 500))
}

func (s *SetupWizard) showImport() {
	mnemonicEntry := widget.NewMultiLineEntry()
	mnemonicEntry.SetPlaceHolder("Enter your 12 or 24 word seed phrase here...")
	mnemonicEntry.Wrapping = fyne.TextWrapWord

	birthHeightEntry := widget.NewEntry()
	birthHeightEntry.SetText(FormatHeight(configs.DefaultBirthHeightForNetwork(s.wallet.Network())))
	birthHeightLabel := widget.NewLabel("Birth Height (first block your wallet could appear in):")

	importBtn := widget.NewButton("Import Wallet", func() {
		mnemonic := strings.TrimSpace(mnemonicEntry.Text)
		if words := len(strings.Fields(mnemonic)); words != 12 && words != 24 {
			dialog.ShowError(errors.New("seed phrase must be 12 or 24 words"), s.window)
			return
		}
		height, err := ParseFormattedUint32(birthHeightEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid birth height: %v", err), s.window)
			return
		}
		if err := s.wallet.ImportWallet(mnemonic, height); err != nil {
			dialog.ShowError(fmt.Errorf("failed to import wallet: %v", err), s.window)
			return
		}
		s.onFinish()
	})

	backBtn := widget.NewButton("Back", func() {
		s.showWelcome()
	})

	content := container.NewVBox(
		widget.NewLabel("Enter your seed phrase:"),
		mnemonicEntry,
		widget.NewSeparator(),
		birthHeightLabel,
		birthHeightEntry,
		widget.NewSeparator(),
		container.NewHBox(backBtn, importBtn),
	)

	s.window.SetContent(content)
	s.window.Resize(fyne.NewSize(600, 500))
}
