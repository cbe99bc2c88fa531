// Package setup assembles a wallet manager from a data directory at startup.
package setup

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/talonwallet/talon-desktop/internal/wallet"
)

// NewManagerWithDataDir creates a wallet manager rooted at dataDir and loads
// the wallet file when one exists. Returns (manager, exists, error) where
// exists indicates whether a wallet file was found; when it is false the
// caller should run the first-time setup flow.
func NewManagerWithDataDir(fs afero.Fs, config *viper.Viper, dataDir string) (*wallet.Manager, bool, error) {
	manager, err := wallet.NewManager(fs, config, dataDir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	if !manager.HasWallet() {
		return manager, false, nil
	}

	if err := manager.LoadWallet(); err != nil {
		return nil, true, err
	}
	return manager, true, nil
}
