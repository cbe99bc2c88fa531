package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/wallet"
)

const recentRowCount = 5

// createOverviewTab builds the home tab: balance, wallet state and the most
// recent history entries.
func (g *MainGUI) createOverviewTab() fyne.CanvasObject {
	g.balanceLabel = widget.NewLabel("Balance: ...")
	g.balanceLabel.TextStyle = fyne.TextStyle{Bold: true}

	g.stakingLabel = widget.NewLabel("Staking: disabled")
	g.lockLabel = widget.NewLabel("Wallet: " + wallet.StatusUnencrypted.String())

	g.syncWarning = widget.NewLabel("Displayed information may be out of date. The wallet is still synchronising with the network.")
	g.syncWarning.Wrapping = fyne.TextWrapWord
	g.syncWarning.TextStyle = fyne.TextStyle{Italic: true}
	g.syncWarning.Hide()

	sendButton := widget.NewButtonWithIcon("Send", theme.MailSendIcon(), func() {
		g.manager.GotoSendPage("")
	})
	receiveButton := widget.NewButtonWithIcon("Receive", theme.DownloadIcon(), func() {
		g.manager.GotoReceivePage()
	})

	recentTitle := widget.NewLabel("Recent Transactions")
	recentTitle.TextStyle = fyne.TextStyle{Bold: true}

	g.recentList = widget.NewList(
		func() int { return len(g.recentRecords) },
		func() fyne.CanvasObject {
			return container.NewGridWithColumns(4,
				widget.NewLabel("date"),
				widget.NewLabel("type"),
				widget.NewLabel("amount"),
				widget.NewLabel("address"),
			)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(g.recentRecords) {
				return
			}
			rec := g.recentRecords[i]
			row := o.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(FormatTime(rec.Date))
			row.Objects[1].(*widget.Label).SetText(string(rec.Type))
			row.Objects[2].(*widget.Label).SetText(FormatAmountWithUnit(rec.Amount, g.wallet.DisplayUnit()))
			target := rec.Label
			if target == "" {
				target = ShortenID(rec.Address)
			}
			row.Objects[3].(*widget.Label).SetText(target)
		},
	)
	g.recentList.OnSelected = func(id widget.ListItemID) {
		g.recentList.Unselect(id)
		if id < len(g.recentRecords) {
			g.showTransactionDetails(g.recentRecords[id])
		}
	}

	header := container.NewVBox(
		g.balanceLabel,
		g.stakingLabel,
		g.lockLabel,
		g.syncWarning,
		widget.NewSeparator(),
		container.NewHBox(sendButton, receiveButton),
		widget.NewSeparator(),
		recentTitle,
	)

	g.refreshOverview()
	return container.NewBorder(header, nil, nil, nil, g.recentList)
}

// refreshOverview pulls the balance, staking state and recent records from
// the wallet. Safe to call before the tab exists.
func (g *MainGUI) refreshOverview() {
	if g.balanceLabel == nil || g.wallet == nil {
		return
	}
	unit := g.wallet.DisplayUnit()
	g.balanceLabel.SetText("Balance: " + FormatAmountWithUnit(g.wallet.Balance(), unit))

	info := g.wallet.StakingInfo()
	staking := "Staking: disabled"
	if info.Enabled {
		staking = "Staking: enabled, weight " + FormatAmountWithUnit(info.Weight, unit)
		if !info.Active {
			staking = "Staking: enabled (inactive)"
		}
	}
	g.stakingLabel.SetText(staking)
	g.setLockStatus(g.wallet.EncryptionStatus())

	g.recentRecords = latestRecords(g.wallet.Records(), recentRowCount)
	g.recentList.Refresh()
}

func (g *MainGUI) setLockStatus(status wallet.EncryptionStatus) {
	if g.lockLabel == nil {
		return
	}
	text := "Wallet: " + status.String()
	if status == wallet.StatusUnlocked && g.wallet.UnlockedForStakingOnly() {
		text += " (staking only)"
	}
	g.lockLabel.SetText(text)
}

// latestRecords returns up to n records, newest first.
func latestRecords(records []wallet.TxRecord, n int) []wallet.TxRecord {
	out := make([]wallet.TxRecord, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out
}
