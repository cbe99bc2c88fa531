package wallet

import (
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/psbtops"
)

// Approximate P2WPKH transaction sizes used for fee estimation.
const (
	vbytesOverhead  = 11
	vbytesPerInput  = 68
	vbytesPerOutput = 31
)

// BuildSend funds an unsigned packet paying amount (sats) to addr at
// feeRate (sat/vB; zero picks the configured default). Coin selection is
// largest-first over confirmed outputs; change below the configured minimum
// is folded into the fee. The packet goes to the transaction editor for
// signing, exactly like a loaded one.
func (m *Manager) BuildSend(addr string, amount, feeRate int64) (*psbt.Packet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if feeRate <= 0 {
		feeRate = m.config.GetInt64("fee_rate")
	}
	if amount < m.config.GetInt64("dust_limit") {
		return nil, fmt.Errorf("amount is below the dust limit")
	}

	decoded, err := chainparams.DecodeAddress(addr, m.network)
	if err != nil {
		return nil, err
	}
	payScript, err := txscript.PayToAddrScript(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to build output script: %w", err)
	}

	// Spending is a key-needing operation even though signing happens in the
	// editor: a locked wallet prompts for an unlock first.
	if _, err := m.ensureKeys(false); err != nil {
		return nil, err
	}

	utxos := m.UTXOs()
	sort.Slice(utxos, func(i, j int) bool { return utxos[i].Amount > utxos[j].Amount })

	estimate := func(inputs, outputs int) int64 {
		return feeRate * int64(vbytesOverhead+inputs*vbytesPerInput+outputs*vbytesPerOutput)
	}

	var (
		inputs  []psbtops.FundingInput
		totalIn int64
		fee     int64
	)
	for _, u := range utxos {
		if u.Height == 0 {
			continue // unconfirmed outputs do not fund sends
		}
		hash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("wallet carries an invalid utxo txid: %w", err)
		}
		inputs = append(inputs, psbtops.FundingInput{
			OutPoint: wire.OutPoint{Hash: *hash, Index: u.Vout},
			PrevOut:  wire.NewTxOut(u.Amount, u.PkScript),
		})
		totalIn += u.Amount
		fee = estimate(len(inputs), 2)
		if totalIn >= amount+fee {
			break
		}
	}
	if totalIn < amount+fee {
		return nil, fmt.Errorf("insufficient funds: have %d sats, need %d sats", totalIn, amount+fee)
	}

	outputs := []*wire.TxOut{wire.NewTxOut(amount, payScript)}

	m.mu.Lock()
	change := totalIn - amount - fee
	if change >= m.config.GetInt64("min_change_amount") {
		_, changeScript, err := m.nextChangeAddressLocked()
		if err != nil {
			m.mu.Unlock()
			return nil, err
		}
		outputs = append(outputs, wire.NewTxOut(change, changeScript))
	}
	err = m.saveLocked()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	packet, err := psbtops.NewFundedPacket(inputs, outputs, 0)
	if err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("to", addr).
		Int64("amount", amount).
		Int64("fee_rate", feeRate).
		Int("inputs", len(inputs)).
		Int("outputs", len(outputs)).
		Msg("built unsigned send transaction")

	return packet, nil
}
