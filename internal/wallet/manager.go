// Package wallet implements the wallet backend the view controller talks to:
// keys and addresses, the encryption state machine, the transaction model,
// persistence and the rescan glue.
package wallet

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/tyler-smith/go-bip39"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/logging"
	"github.com/talonwallet/talon-desktop/internal/rescan"
	"github.com/talonwallet/talon-desktop/internal/storage"
)

// Manager handles wallet state and operations. All exported methods are safe
// for concurrent use.
type Manager struct {
	fs      afero.Fs
	config  *viper.Viper
	dataDir string
	logger  zerolog.Logger
	network chainparams.Network
	params  *chaincfg.Params

	mu            sync.RWMutex
	file          *File
	master        *hdkeychain.ExtendedKey // nil while no wallet is loaded or it is locked
	account       *hdkeychain.ExtendedKey // neutered account node, usable while locked
	stakingUnlock bool                    // unlocked for staking only
	queuedDepth   int

	chain     rescan.ChainSource
	rescanner *rescan.Rescanner

	cbMu              sync.Mutex
	messageCallbacks  []func(title, body string, isError bool)
	statusCallbacks   []func(EncryptionStatus)
	unlockCallbacks   []func()
	progressCallbacks []func(title string, percent int)
	insertCallbacks   []func(rec TxRecord)
}

// NewManager creates a wallet manager rooted at dataDir. No wallet is loaded
// yet; call LoadWallet, CreateWallet or ImportWallet next.
func NewManager(fs afero.Fs, config *viper.Viper, dataDir string) (*Manager, error) {
	network := chainparams.Network(config.GetString("network"))
	params, err := network.Params()
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureDir(fs, dataDir); err != nil {
		return nil, err
	}

	return &Manager{
		fs:      fs,
		config:  config,
		dataDir: dataDir,
		logger:  logging.L.With().Str("component", "wallet").Logger(),
		network: network,
		params:  params,
	}, nil
}

// Name returns the display name of the wallet.
func (m *Manager) Name() string {
	return m.config.GetString("wallet_name")
}

// Network returns the network the wallet runs on.
func (m *Manager) Network() chainparams.Network { return m.network }

// Params returns the chain parameters of the wallet's network.
func (m *Manager) Params() *chaincfg.Params { return m.params }

// DisplayUnit returns the configured amount unit for the UI.
func (m *Manager) DisplayUnit() string {
	return m.config.GetString("display_unit")
}

// HasWallet reports whether a wallet file exists in the data directory.
func (m *Manager) HasWallet() bool {
	exists, err := storage.Exists(m.fs, m.dataDir)
	if err != nil {
		m.logger.Err(err).Msg("failed to check for wallet file")
		return false
	}
	return exists
}

// Loaded reports whether a wallet is loaded in memory.
func (m *Manager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.file != nil
}

// GenerateNewSeed generates a new BIP39 mnemonic.
func (m *Manager) GenerateNewSeed() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// CreateWallet creates a fresh wallet from mnemonic and persists it.
func (m *Manager) CreateWallet(mnemonic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file != nil {
		return fmt.Errorf("a wallet is already loaded")
	}

	master, err := masterFromMnemonic(mnemonic, m.params)
	if err != nil {
		return err
	}
	xpub, err := m.initKeysLocked(master)
	if err != nil {
		return err
	}

	birthHeight := m.config.GetUint32("birth_height")
	m.file = &File{
		Version:        fileVersion,
		Network:        m.network,
		Mnemonic:       mnemonic,
		AccountXPub:    xpub,
		BirthHeight:    birthHeight,
		LastScanHeight: birthHeight,
		Labels:         map[string]string{},
	}

	m.logger.Info().
		Str("network", string(m.network)).
		Uint32("birth_height", birthHeight).
		Msg("created new wallet")

	return m.saveLocked()
}

// ImportWallet restores a wallet from an existing mnemonic. Scanning starts
// from fromHeight, or the configured birth height when zero.
func (m *Manager) ImportWallet(mnemonic string, fromHeight uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file != nil {
		return fmt.Errorf("a wallet is already loaded")
	}

	master, err := masterFromMnemonic(mnemonic, m.params)
	if err != nil {
		return err
	}
	xpub, err := m.initKeysLocked(master)
	if err != nil {
		return err
	}

	if fromHeight == 0 {
		fromHeight = m.config.GetUint32("birth_height")
	}
	m.file = &File{
		Version:        fileVersion,
		Network:        m.network,
		Mnemonic:       mnemonic,
		AccountXPub:    xpub,
		BirthHeight:    fromHeight,
		LastScanHeight: fromHeight,
		Labels:         map[string]string{},
	}

	m.logger.Info().
		Str("network", string(m.network)).
		Uint32("from_height", fromHeight).
		Msg("imported wallet")

	return m.saveLocked()
}

// LoadWallet loads the wallet file from the data directory. An encrypted
// wallet comes up locked.
func (m *Manager) LoadWallet() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := storage.Load(m.fs, m.dataDir)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal wallet data: %w", err)
	}
	if file.Network != m.network {
		return fmt.Errorf("wallet file is for network %s, configured network is %s",
			file.Network, m.network)
	}
	if file.Labels == nil {
		file.Labels = map[string]string{}
	}

	m.file = &file
	m.master = nil
	m.account = nil
	if file.Mnemonic != "" {
		master, err := masterFromMnemonic(file.Mnemonic, m.params)
		if err != nil {
			return fmt.Errorf("wallet file carries an invalid mnemonic: %w", err)
		}
		if _, err := m.initKeysLocked(master); err != nil {
			return err
		}
	} else if file.AccountXPub != "" {
		account, err := hdkeychain.NewKeyFromString(file.AccountXPub)
		if err != nil {
			return fmt.Errorf("wallet file carries an invalid account xpub: %w", err)
		}
		m.account = account
	}

	m.logger.Info().
		Str("network", string(m.network)).
		Int("records", len(file.Records)).
		Int("utxos", len(file.UTXOs)).
		Uint32("last_scan_height", file.LastScanHeight).
		Str("status", m.encryptionStatusLocked().String()).
		Msg("wallet loaded")

	return nil
}

// initKeysLocked derives the account node from master and installs the key
// material. The caller must hold m.mu.
func (m *Manager) initKeysLocked(master *hdkeychain.ExtendedKey) (string, error) {
	account, err := deriveAccountKey(master, m.params.HDCoinType)
	if err != nil {
		return "", err
	}
	xpub, err := account.Neuter()
	if err != nil {
		return "", fmt.Errorf("failed to neuter account key: %w", err)
	}
	m.master = master
	m.account = xpub
	return xpub.String(), nil
}

// saveLocked persists the wallet file. The caller must hold m.mu.
func (m *Manager) saveLocked() error {
	if m.file == nil {
		return fmt.Errorf("no wallet to save")
	}
	data, err := json.MarshalIndent(m.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet data: %w", err)
	}
	return storage.Save(m.fs, m.dataDir, data)
}

// Save persists the wallet file.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

// BackupWallet flushes the wallet and copies the wallet file to path. It
// reports success instead of failing so callers can surface the outcome as a
// user message; errors are logged.
func (m *Manager) BackupWallet(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		m.logger.Error().Msg("backup requested with no wallet loaded")
		return false
	}
	if err := m.saveLocked(); err != nil {
		m.logger.Err(err).Msg("failed to flush wallet before backup")
		return false
	}
	if err := storage.Backup(m.fs, m.dataDir, path); err != nil {
		m.logger.Err(err).Str("path", path).Msg("wallet backup failed")
		return false
	}
	m.logger.Info().Str("path", path).Msg("wallet backup complete")
	return true
}

// BirthHeight returns the height scanning starts from.
func (m *Manager) BirthHeight() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return 0
	}
	return m.file.BirthHeight
}

// LastScanHeight returns the height the last completed rescan reached.
func (m *Manager) LastScanHeight() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return 0
	}
	return m.file.LastScanHeight
}
