package wallet

import (
	"time"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
)

// EncryptionStatus is the keystore state the UI renders and the passphrase
// flows branch on.
type EncryptionStatus int

const (
	// StatusUnencrypted means the seed is stored in plain text.
	StatusUnencrypted EncryptionStatus = iota
	// StatusLocked means the seed is sealed and no key material is in memory.
	StatusLocked
	// StatusUnlocked means the seed is sealed but currently open in memory.
	StatusUnlocked
)

func (s EncryptionStatus) String() string {
	switch s {
	case StatusUnencrypted:
		return "unencrypted"
	case StatusLocked:
		return "locked"
	case StatusUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// TxType classifies a history record.
type TxType string

const (
	TxTypeSend        TxType = "send"
	TxTypeReceive     TxType = "receive"
	TxTypeStakeReward TxType = "stake-reward"
)

// TxRecord is one entry of the wallet's transaction history.
type TxRecord struct {
	TxID    string    `json:"txid"`
	Height  uint32    `json:"height"` // 0 while unconfirmed
	Date    time.Time `json:"date"`
	Amount  int64     `json:"amount"` // signed sats, negative for outgoing
	Type    TxType    `json:"type"`
	Address string    `json:"address"`
	Label   string    `json:"label,omitempty"`
}

// Confirmed reports whether the record has been mined.
func (r *TxRecord) Confirmed() bool { return r.Height > 0 }

// OwnedUTXO is an unspent output paying one of the wallet's scripts.
type OwnedUTXO struct {
	TxID     string `json:"txid"`
	Vout     uint32 `json:"vout"`
	Amount   int64  `json:"amount"`
	Address  string `json:"address"`
	PkScript []byte `json:"pk_script"`
	Height   uint32 `json:"height"` // 0 while unconfirmed
}

// File is the on-disk wallet layout, persisted as JSON through the storage
// package. Exactly one of Mnemonic and Sealed is set: encrypting the wallet
// clears the plain mnemonic.
type File struct {
	Version        int                 `json:"version"`
	Network        chainparams.Network `json:"network"`
	Mnemonic       string              `json:"mnemonic,omitempty"`
	Sealed         *SealedSeed         `json:"sealed,omitempty"`
	AccountXPub    string              `json:"account_xpub"`
	BirthHeight    uint32              `json:"birth_height"`
	LastScanHeight uint32              `json:"last_scan_height"`
	ReceiveIndex   uint32              `json:"receive_index"`
	ChangeIndex    uint32              `json:"change_index"`
	StakingEnabled bool                `json:"staking_enabled"`
	Labels         map[string]string   `json:"labels,omitempty"`
	Records        []*TxRecord         `json:"records,omitempty"`
	UTXOs          []*OwnedUTXO        `json:"utxos,omitempty"`
}

// fileVersion is bumped when the layout changes incompatibly.
const fileVersion = 1

// unconfirmedDate is used for records discovered from the mempool before a
// block timestamp is known.
func unconfirmedDate() time.Time { return time.Now().UTC() }
