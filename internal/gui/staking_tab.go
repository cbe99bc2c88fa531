package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/wallet"
)

// createStakingTab builds the staking view: current state, weight and the
// enable/unlock controls.
func (g *MainGUI) createStakingTab() fyne.CanvasObject {
	titleLabel := widget.NewLabel("Staking")
	titleLabel.TextStyle.Bold = true

	stateLabel := widget.NewLabel("State: disabled")
	stateLabel.TextStyle.Bold = true
	weightLabel := widget.NewLabel("Your weight: N/A")
	networkLabel := widget.NewLabel("Network weight: unknown")
	hintLabel := widget.NewLabel("")
	hintLabel.Wrapping = fyne.TextWrapWord

	var enableCheck *widget.Check

	refresh := func() {
		info := g.wallet.StakingInfo()
		unit := g.wallet.DisplayUnit()

		switch {
		case !info.Enabled:
			stateLabel.SetText("State: disabled")
		case info.Active:
			stateLabel.SetText("State: staking")
		default:
			stateLabel.SetText("State: enabled, waiting for mature coins or unlock")
		}
		weightLabel.SetText("Your weight: " + FormatAmountWithUnit(info.Weight, unit))
		if info.NetworkWeight > 0 {
			networkLabel.SetText("Network weight: " + FormatAmountWithUnit(info.NetworkWeight, unit))
		} else {
			networkLabel.SetText("Network weight: unknown")
		}

		hint := ""
		if info.Enabled && g.wallet.EncryptionStatus() == wallet.StatusLocked {
			hint = "The wallet is locked. Unlock it for staking to start earning rewards."
		} else if info.UnlockedForStakingOnly {
			hint = "Unlocked for staking only. Spending still requires the passphrase."
		}
		hintLabel.SetText(hint)

		if enableCheck != nil && enableCheck.Checked != info.Enabled {
			enableCheck.SetChecked(info.Enabled)
		}
	}

	enableCheck = widget.NewCheck("Enable staking", func(enabled bool) {
		if enabled == g.wallet.StakingInfo().Enabled {
			return
		}
		if err := g.wallet.SetStakingEnabled(enabled); err != nil {
			dialog.ShowError(fmt.Errorf("failed to update staking: %v", err), g.window)
		}
		refresh()
	})

	unlockButton := widget.NewButton("Unlock for Staking", func() {
		go func() {
			g.manager.UnlockWalletForStaking()
			refresh()
		}()
	})

	lockButton := widget.NewButton("Lock Wallet", func() {
		go func() {
			g.manager.LockWallet()
			refresh()
		}()
	})

	g.manager.OnEncryptionStatusChanged(func(wallet.EncryptionStatus) {
		refresh()
	})

	refresh()
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			refresh()
		}
	}()

	return container.NewVBox(
		titleLabel,
		widget.NewSeparator(),
		stateLabel,
		weightLabel,
		networkLabel,
		hintLabel,
		widget.NewSeparator(),
		enableCheck,
		container.NewHBox(unlockButton, lockButton),
	)
}
