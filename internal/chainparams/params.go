// Package chainparams defines the chain parameters for the Talon network and
// registers them with btcd's chaincfg so address encoding and HD key
// derivation work against the right magic values.
package chainparams

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

// Network identifies one of the supported Talon networks. The string values
// double as config values and CLI flag arguments.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkRegtest Network = "regtest"
)

// DefaultNetwork is used when no network is configured.
const DefaultNetwork = NetworkMainnet

// Coin display constants.
const (
	CoinUnit    = "TAL"
	SatsUnit    = "sats"
	SatsPerCoin = int64(btcutil.SatoshiPerBitcoin)
)

// MessageMagic prefixes the digest of signed messages so signatures cannot be
// replayed as transaction signatures.
const MessageMagic = "Talon Signed Message:\n"

// MainNetParams holds the parameters for the Talon main network.
var MainNetParams = chaincfg.Params{
	Name:        "talon-mainnet",
	Net:         wire.BitcoinNet(0x54614c4e),
	DefaultPort: "16969",

	CoinbaseMaturity: 100,

	// Address encoding magics
	PubKeyHashAddrID:        0x42,
	ScriptHashAddrID:        0x3f,
	PrivateKeyID:            0xc2,
	WitnessPubKeyHashAddrID: 0x06,
	WitnessScriptHashAddrID: 0x0a,

	Bech32HRPSegwit: "tal",

	// BIP32 hierarchical deterministic extended key magics
	HDPrivateKeyID: [4]byte{0x04, 0xa1, 0xe3, 0x7b},
	HDPublicKeyID:  [4]byte{0x04, 0xa1, 0xe7, 0xb4},

	// SLIP-0044 style coin type used in derivation paths.
	HDCoinType: 5353,
}

// TestNetParams holds the parameters for the Talon test network.
var TestNetParams = chaincfg.Params{
	Name:        "talon-testnet",
	Net:         wire.BitcoinNet(0x74614c4e),
	DefaultPort: "26969",

	CoinbaseMaturity: 100,

	PubKeyHashAddrID:        0x7f,
	ScriptHashAddrID:        0x7d,
	PrivateKeyID:            0xef,
	WitnessPubKeyHashAddrID: 0x52,
	WitnessScriptHashAddrID: 0x57,

	Bech32HRPSegwit: "ttal",

	HDPrivateKeyID: [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDPublicKeyID:  [4]byte{0x04, 0x35, 0x83, 0x94},

	HDCoinType: 1,
}

// RegressionNetParams holds the parameters for local regression testing.
var RegressionNetParams = chaincfg.Params{
	Name:        "talon-regtest",
	Net:         wire.BitcoinNet(0x72614c4e),
	DefaultPort: "36969",

	CoinbaseMaturity: 100,

	PubKeyHashAddrID:        0x6f,
	ScriptHashAddrID:        0xc4,
	PrivateKeyID:            0xe0,
	WitnessPubKeyHashAddrID: 0x73,
	WitnessScriptHashAddrID: 0x74,

	Bech32HRPSegwit: "rtal",

	HDPrivateKeyID: [4]byte{0x04, 0x35, 0x87, 0xd0},
	HDPublicKeyID:  [4]byte{0x04, 0x35, 0x83, 0x95},

	HDCoinType: 1,
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}

func mustRegister(params *chaincfg.Params) {
	if err := chaincfg.Register(params); err != nil {
		panic(fmt.Sprintf("failed to register network params %s: %v", params.Name, err))
	}
}

// Valid reports whether n names a known network.
func (n Network) Valid() bool {
	switch n {
	case NetworkMainnet, NetworkTestnet, NetworkRegtest:
		return true
	}
	return false
}

// Params returns the chaincfg parameters for the network.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case NetworkMainnet:
		return &MainNetParams, nil
	case NetworkTestnet:
		return &TestNetParams, nil
	case NetworkRegtest:
		return &RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network: %q", string(n))
	}
}

// DecodeAddress parses addr and verifies it belongs to the network.
func DecodeAddress(addr string, network Network) (btcutil.Address, error) {
	params, err := network.Params()
	if err != nil {
		return nil, err
	}
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	if !decoded.IsForNet(params) {
		return nil, fmt.Errorf("address %s is not valid for %s", addr, network)
	}
	return decoded, nil
}

// FormatAmount renders an amount of satoshis in the requested display unit.
func FormatAmount(sats int64, unit string) string {
	if unit == SatsUnit {
		return fmt.Sprintf("%d %s", sats, SatsUnit)
	}
	coins := btcutil.Amount(sats).ToBTC()
	return fmt.Sprintf("%.8f %s", coins, CoinUnit)
}
