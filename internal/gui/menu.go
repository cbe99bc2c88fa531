package gui

import (
	"fyne.io/fyne/v2"

	"github.com/talonwallet/talon-desktop/internal/controller"
)

// buildMainMenu wires the controller operations into the window menu. The
// handlers run on fresh goroutines because most of them block on dialogs.
func (g *MainGUI) buildMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load Transaction from Clipboard", func() {
			go g.manager.LoadPSBT(controller.SourceClipboard)
		}),
		fyne.NewMenuItem("Load Transaction from File...", func() {
			go g.manager.LoadPSBT(controller.SourceFile)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup Wallet...", func() {
			go g.manager.BackupWallet()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Sign Message...", func() {
			g.showSignMessageDialog()
		}),
		fyne.NewMenuItem("Verify Message...", func() {
			g.showVerifyMessageDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Used Receiving Addresses...", func() {
			g.showUsedAddressesDialog(true)
		}),
		fyne.NewMenuItem("Used Sending Addresses...", func() {
			g.showUsedAddressesDialog(false)
		}),
	)

	walletMenu := fyne.NewMenu("Wallet",
		fyne.NewMenuItem("Encrypt Wallet...", func() {
			go g.manager.EncryptWallet()
		}),
		fyne.NewMenuItem("Change Passphrase...", func() {
			go g.manager.ChangePassphrase()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Unlock Wallet...", func() {
			go g.manager.UnlockWallet()
		}),
		fyne.NewMenuItem("Unlock for Staking Only...", func() {
			go g.manager.UnlockWalletForStaking()
		}),
		fyne.NewMenuItem("Lock Wallet", func() {
			go g.manager.LockWallet()
		}),
	)

	return fyne.NewMainMenu(fileMenu, walletMenu)
}
