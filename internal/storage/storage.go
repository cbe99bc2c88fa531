// Package storage handles the saving and retrieving of the wallet data file.
// All access goes through an afero filesystem so callers can inject a
// memory-backed one in tests.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/talonwallet/talon-desktop/internal/logging"
)

const WalletDataFilename = "wallet.dat"

// WalletPath returns the path of the wallet data file inside dataDir.
func WalletPath(dataDir string) string {
	return filepath.Join(dataDir, WalletDataFilename)
}

// EnsureDir creates dataDir if it does not exist yet.
func EnsureDir(fs afero.Fs, dataDir string) error {
	if err := fs.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Exists reports whether a wallet data file is present in dataDir.
func Exists(fs afero.Fs, dataDir string) (bool, error) {
	return afero.Exists(fs, WalletPath(dataDir))
}

// Save writes the serialised wallet data to dataDir. The data is written to a
// temporary file first and renamed into place so a crash mid-write cannot
// leave a truncated wallet.dat behind.
func Save(fs afero.Fs, dataDir string, data []byte) error {
	walletPath := WalletPath(dataDir)
	tmpPath := walletPath + ".tmp"

	if err := afero.WriteFile(fs, tmpPath, data, 0o600); err != nil {
		logging.L.Err(err).Str("path", tmpPath).Msg("failed to write wallet file")
		return fmt.Errorf("failed to write wallet file: %w", err)
	}
	if err := fs.Rename(tmpPath, walletPath); err != nil {
		logging.L.Err(err).Str("path", walletPath).Msg("failed to replace wallet file")
		return fmt.Errorf("failed to replace wallet file: %w", err)
	}

	logging.L.Trace().Str("path", walletPath).Int("bytes", len(data)).Msg("wallet data saved")
	return nil
}

// Load reads the serialised wallet data from dataDir.
func Load(fs afero.Fs, dataDir string) ([]byte, error) {
	data, err := afero.ReadFile(fs, WalletPath(dataDir))
	if err != nil {
		logging.L.Err(err).Msg("failed to load wallet file")
		return nil, fmt.Errorf("failed to load wallet file: %w", err)
	}
	return data, nil
}

// Backup copies the current wallet data file to dst. When dst is an existing
// directory the wallet file name is appended.
func Backup(fs afero.Fs, dataDir, dst string) error {
	data, err := afero.ReadFile(fs, WalletPath(dataDir))
	if err != nil {
		return fmt.Errorf("failed to read wallet file: %w", err)
	}

	if info, err := fs.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, WalletDataFilename)
	}

	if err := afero.WriteFile(fs, dst, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	logging.L.Info().Str("path", dst).Msg("wallet backup written")
	return nil
}
