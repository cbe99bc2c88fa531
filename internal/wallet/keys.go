package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/tyler-smith/go-bip39"
)

// Derivation follows the BIP84 layout m/84'/coin'/0'/branch/index with
// P2WPKH addresses. The coin type comes from the chain parameters.
const (
	purposeSegwit  = 84
	branchExternal = 0
	branchChange   = 1
)

func masterFromMnemonic(mnemonic string, params *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	return master, nil
}

// deriveAccountKey derives the hardened account node m/84'/coin'/0'.
func deriveAccountKey(master *hdkeychain.ExtendedKey, coinType uint32) (*hdkeychain.ExtendedKey, error) {
	path := []uint32{
		hdkeychain.HardenedKeyStart + purposeSegwit,
		hdkeychain.HardenedKeyStart + coinType,
		hdkeychain.HardenedKeyStart + 0,
	}
	key := master
	var err error
	for _, child := range path {
		key, err = key.Derive(child)
		if err != nil {
			return nil, fmt.Errorf("failed to derive account key: %w", err)
		}
	}
	return key, nil
}

// deriveChildKey derives branch/index below an account-level key. Works on
// neutered keys since both steps are non-hardened.
func deriveChildKey(account *hdkeychain.ExtendedKey, branch, index uint32) (*hdkeychain.ExtendedKey, error) {
	key, err := account.Derive(branch)
	if err != nil {
		return nil, fmt.Errorf("failed to derive branch key: %w", err)
	}
	key, err = key.Derive(index)
	if err != nil {
		return nil, fmt.Errorf("failed to derive child key: %w", err)
	}
	return key, nil
}

// derivePrivKey derives the full path m/84'/coin'/0'/branch/index from the
// master key.
func derivePrivKey(master *hdkeychain.ExtendedKey, coinType, branch, index uint32) (*hdkeychain.ExtendedKey, error) {
	account, err := deriveAccountKey(master, coinType)
	if err != nil {
		return nil, err
	}
	return deriveChildKey(account, branch, index)
}

// keyScript returns the P2WPKH address and pkScript for a derived key.
func keyScript(key *hdkeychain.ExtendedKey, params *chaincfg.Params) (btcutil.Address, []byte, error) {
	pub, err := key.ECPubKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get public key: %w", err)
	}
	return pubKeyScript(pub, params)
}

func pubKeyScript(pub *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, []byte, error) {
	pkHash := btcutil.Hash160(pub.SerializeCompressed())
	addr, err := btcutil.NewAddressWitnessPubKeyHash(pkHash, params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build address: %w", err)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build pk script: %w", err)
	}
	return addr, script, nil
}
