package wallet

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
)

// messageDigest hashes a message under the network's signing magic, the way
// legacy signmessage does.
func messageDigest(message string) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = wire.WriteVarString(&buf, 0, chainparams.MessageMagic)
	_ = wire.WriteVarString(&buf, 0, message)
	return chainhash.DoubleHashB(buf.Bytes())
}

// SignMessage signs message with the key behind addr, which must be one of
// the wallet's addresses. Returns a base64 compact signature.
func (m *Manager) SignMessage(addr, message string) (string, error) {
	branch, index, ok := m.indexOfAddress(addr)
	if !ok {
		return "", fmt.Errorf("address %s does not belong to this wallet", addr)
	}

	master, err := m.ensureKeys(false)
	if err != nil {
		return "", err
	}
	key, err := derivePrivKey(master, m.params.HDCoinType, branch, index)
	if err != nil {
		return "", err
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return "", fmt.Errorf("failed to get private key: %w", err)
	}

	sig, err := ecdsa.SignCompact(priv, messageDigest(message), true)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyMessage checks a base64 compact signature over message against addr.
// Needs no key material.
func (m *Manager) VerifyMessage(addr, message, sigB64 string) (bool, error) {
	decoded, err := chainparams.DecodeAddress(addr, m.network)
	if err != nil {
		return false, err
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false, fmt.Errorf("signature is not valid base64: %w", err)
	}

	pub, _, err := ecdsa.RecoverCompact(sig, messageDigest(message))
	if err != nil {
		return false, fmt.Errorf("failed to recover public key: %w", err)
	}

	recovered, _, err := pubKeyScript(pub, m.params)
	if err != nil {
		return false, err
	}
	return recovered.EncodeAddress() == decoded.EncodeAddress(), nil
}
