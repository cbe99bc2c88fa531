package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/afero"

	"github.com/talonwallet/talon-desktop/internal/controller"
	"github.com/talonwallet/talon-desktop/internal/node"
	"github.com/talonwallet/talon-desktop/internal/wallet"
)

// MainGUI is the fyne shell around the controller. It owns the tab layout,
// implements the controller's collaborator hooks and renders its events.
type MainGUI struct {
	app     fyne.App
	window  fyne.Window
	fs      afero.Fs
	manager *controller.Manager
	wallet  *wallet.Manager
	node    *node.Node

	tabs *container.AppTabs

	// overview widgets refreshed from controller events
	balanceLabel  *widget.Label
	stakingLabel  *widget.Label
	lockLabel     *widget.Label
	syncWarning   *widget.Label
	recentList    *widget.List
	recentRecords []wallet.TxRecord

	historyList    *widget.List
	historyRecords []wallet.TxRecord
	historyFilter  string
}

func NewMainGUI(
	app fyne.App,
	window fyne.Window,
	fs afero.Fs,
	walletManager *wallet.Manager,
	nd *node.Node,
) *MainGUI {
	gui := &MainGUI{
		app:    app,
		window: window,
		fs:     fs,
		wallet: walletManager,
		node:   nd,
	}
	gui.manager = controller.NewManager(fs, controller.Collaborators{
		Clipboard:  fyneClipboard{window: window},
		FileDialog: &fileDialogs{window: window},
		Passphrase: &passphraseDialogs{window: window},
		Editor:     &psbtEditor{gui: gui},
		Indicators: gui.newProgressIndicator,
	})

	gui.setupTabs()
	gui.subscribeEvents()
	gui.window.SetMainMenu(gui.buildMainMenu())

	gui.manager.SetWalletBackend(walletManager)
	gui.manager.SetNodeBackend(nd)
	return gui
}

// Controller exposes the GUI's controller for startup wiring.
func (g *MainGUI) Controller() *controller.Manager {
	return g.manager
}

// setupTabs builds one tab per controller page, in page order so the tab
// index doubles as the page value.
func (g *MainGUI) setupTabs() {
	g.tabs = container.NewAppTabs(
		container.NewTabItem("Overview", g.createOverviewTab()),
		container.NewTabItem("History", g.createHistoryTab()),
		container.NewTabItem("Nodes", g.createNodesTab()),
		container.NewTabItem("Stats", g.createStatsTab()),
		container.NewTabItem("FAQ", g.createFAQTab()),
		container.NewTabItem("Staking", g.createStakingTab()),
	)
	g.tabs.OnSelected = func(item *container.TabItem) {
		switch g.tabs.SelectedIndex() {
		case int(controller.PageOverview):
			g.manager.GotoOverviewPage()
		case int(controller.PageHistory):
			g.manager.GotoHistoryPage()
		case int(controller.PageNodes):
			g.manager.GotoNodesPage()
		case int(controller.PageStats):
			g.manager.GotoStatsPage()
		case int(controller.PageFAQ):
			g.manager.GotoFAQPage()
		case int(controller.PageStaking):
			g.manager.GotoStakingPage()
		}
	}
}

// subscribeEvents renders the controller's event feeds. Selecting a tab from
// a page change does not loop: the controller drops same-page transitions.
func (g *MainGUI) subscribeEvents() {
	g.manager.OnMessage(g.showMessage)
	g.manager.OnPageChanged(func(page controller.Page) {
		if int(page) < len(g.tabs.Items) {
			g.tabs.SelectIndex(int(page))
		}
		g.refreshOverview()
		g.refreshHistory()
	})
	g.manager.OnEncryptionStatusChanged(func(status wallet.EncryptionStatus) {
		g.setLockStatus(status)
	})
	g.manager.OnOutOfSyncWarning(func(show bool) {
		if g.syncWarning == nil {
			return
		}
		if show {
			g.syncWarning.Show()
		} else {
			g.syncWarning.Hide()
		}
	})
	g.manager.OnIncomingTransaction(func(tx controller.IncomingTx) {
		g.notifyIncomingTransaction(tx)
		g.refreshOverview()
		g.refreshHistory()
	})
	g.manager.OnShowReceive(func() {
		g.showReceiveDialog()
	})
	g.manager.OnShowSend(func(req controller.PaymentRequest) {
		g.showSendDialog(req)
	})
}

func (g *MainGUI) Content() fyne.CanvasObject {
	return g.tabs
}

// notifyIncomingTransaction surfaces a fresh wallet record as a system
// notification.
func (g *MainGUI) notifyIncomingTransaction(tx controller.IncomingTx) {
	title := "Incoming transaction"
	if tx.Type == wallet.TxTypeSend {
		title = "Sent transaction"
	}
	body := FormatAmountWithUnit(tx.Amount, tx.Unit)
	if tx.Label != "" {
		body += " (" + tx.Label + ")"
	}
	g.app.SendNotification(fyne.NewNotification(title, body))
}
