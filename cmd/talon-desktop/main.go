package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/configs"
	"github.com/talonwallet/talon-desktop/internal/gui"
	"github.com/talonwallet/talon-desktop/internal/logging"
	"github.com/talonwallet/talon-desktop/internal/node"
	"github.com/talonwallet/talon-desktop/internal/setup"
)

var (
	dataDir string
	network string
)

func init() {
	var debug bool
	pflag.BoolVar(&debug, "debug", false, "enable debug logging")
	pflag.StringVar(&dataDir, "datadir", "", "path to data directory for Talon Desktop")
	pflag.StringVar(&network, "network", "", "network to run on (mainnet, testnet, regtest)")
	pflag.Parse()

	if debug {
		logging.SetLogLevel(zerolog.DebugLevel)
	} else {
		logging.SetLogLevel(zerolog.InfoLevel)
	}
}

func main() {
	myApp := app.New()
	myApp.SetIcon(theme.AccountIcon())

	mainWindow := myApp.NewWindow("Talon Desktop")
	mainWindow.Resize(fyne.NewSize(900, 640))
	mainWindow.CenterOnScreen()
	gui.NewTrayManager(myApp, mainWindow)

	if dataDir == "" {
		dataDir = configs.DefaultDataDir()
	} else {
		dataDir = configs.ResolvePath(dataDir)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		logging.L.Err(err).Str("datadir", dataDir).Msg("failed to create data directory")
		return
	}

	config, err := configs.Init(dataDir)
	if err != nil {
		logging.L.Err(err).Msg("failed to load configuration")
		return
	}
	if network != "" {
		// the flag retargets the default endpoint along with the network
		config.Set("network", network)
		config.Set("electrum_url", configs.DefaultElectrumForNetwork(chainparams.Network(network)))
	}

	fs := afero.NewOsFs()
	walletManager, exists, err := setup.NewManagerWithDataDir(fs, config, dataDir)
	if err != nil {
		logging.L.Err(err).Msg("failed to load wallet")
		dialog.ShowError(fmt.Errorf("failed to load wallet: %v", err), mainWindow)
		mainWindow.ShowAndRun()
		return
	}

	nd := node.New(config)
	if err := nd.Start(context.Background()); err != nil {
		logging.L.Warn().Err(err).Msg("node did not start, wallet runs offline")
	}
	walletManager.SetChainSource(nd)

	// catch up with the chain once the first tip arrives
	var catchUp sync.Once
	nd.OnTipChanged(func(height uint32) {
		if !walletManager.Loaded() || walletManager.LastScanHeight() >= height {
			return
		}
		catchUp.Do(func() {
			go func() {
				if err := walletManager.StartRescan(context.Background(), 0); err != nil {
					logging.L.Warn().Err(err).Msg("catch-up rescan failed to start")
				}
			}()
		})
	})

	showMain := func() {
		mainGUI := gui.NewMainGUI(myApp, mainWindow, fs, walletManager, nd)
		mainWindow.SetContent(mainGUI.Content())
	}

	if exists {
		showMain()
	} else {
		wizard := gui.NewSetupWizard(myApp, mainWindow, walletManager, showMain)
		wizard.Show()
	}

	mainWindow.ShowAndRun()
	nd.Stop()
}
