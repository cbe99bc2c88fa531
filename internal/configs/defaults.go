// Package configs handles the application configuration file and its
// defaults. Configuration lives in <datadir>/talon.toml and is managed
// through viper.
package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/logging"
)

const (
	ConfigName = "talon"
	ConfigType = "toml"

	DefaultDisplayUnit = chainparams.CoinUnit
	DefaultFeeRate     = 2   // sat/vB
	DefaultAddressGap  = 20  // receive addresses kept under watch
	DefaultDustLimit   = 546 // sats
	DefaultMinChange   = 546 // sats
)

// Default electrum endpoints per network.
const (
	DefaultElectrumMainnet = "ssl://electrum.talon.network:50002"
	DefaultElectrumTestnet = "ssl://testnet.electrum.talon.network:51002"
	DefaultElectrumRegtest = "tcp://127.0.0.1:50001"
)

// DefaultDataDir returns the default data dir "~/.talon-desktop".
// If the home directory cannot be determined it falls back to the current
// directory.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logging.L.Err(err).Msg("error getting home directory")
		logging.L.Info().Msg("falling back to current directory")
		homeDir = "."
	}
	dataDir := filepath.Join(homeDir, ".talon-desktop")
	logging.L.Trace().Str("data_dir", dataDir).Msg("data directory")
	return dataDir
}

// ResolvePath expands a leading "~" to the user home directory.
func ResolvePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// DefaultElectrumForNetwork returns the default electrum endpoint for a given
// network.
func DefaultElectrumForNetwork(n chainparams.Network) string {
	switch n {
	case chainparams.NetworkMainnet:
		return DefaultElectrumMainnet
	case chainparams.NetworkTestnet:
		return DefaultElectrumTestnet
	case chainparams.NetworkRegtest:
		return DefaultElectrumRegtest
	default:
		return ""
	}
}

// DefaultBirthHeightForNetwork returns the block height scanning starts from
// when the wallet has no better information.
func DefaultBirthHeightForNetwork(n chainparams.Network) uint32 {
	switch n {
	case chainparams.NetworkMainnet:
		return 250000
	case chainparams.NetworkTestnet:
		return 50000
	default:
		return 0
	}
}

// SetDefaults installs the default configuration values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("network", string(chainparams.DefaultNetwork))
	v.SetDefault("wallet_name", "default")
	v.SetDefault("electrum_url", DefaultElectrumForNetwork(chainparams.DefaultNetwork))
	v.SetDefault("electrum_servers", []string{})
	v.SetDefault("display_unit", DefaultDisplayUnit)
	v.SetDefault("fee_rate", DefaultFeeRate)
	v.SetDefault("address_gap", DefaultAddressGap)
	v.SetDefault("dust_limit", DefaultDustLimit)
	v.SetDefault("min_change_amount", DefaultMinChange)
	v.SetDefault("birth_height", DefaultBirthHeightForNetwork(chainparams.DefaultNetwork))
}

// Init loads the configuration from dataDir, creating a default talon.toml on
// first run.
func Init(dataDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigType)
	v.AddConfigPath(dataDir)

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		configPath := filepath.Join(dataDir, ConfigName+"."+ConfigType)
		if err := v.WriteConfigAs(configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		logging.L.Info().Str("path", configPath).Msg("created default config file")
	}

	return v, nil
}
