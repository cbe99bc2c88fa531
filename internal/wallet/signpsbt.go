package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// scriptKey locates the derivation slot behind a watched pkScript.
type scriptKey struct {
	branch uint32
	index  uint32
}

// scriptIndexLocked maps every watched pkScript to its derivation slot. The
// caller must hold m.mu.
func (m *Manager) scriptIndexLocked() (map[string]scriptKey, error) {
	gap := m.config.GetUint32("address_gap")
	if gap == 0 {
		gap = 1
	}

	out := make(map[string]scriptKey)
	for _, b := range []struct {
		id   uint32
		last uint32
	}{
		{branchExternal, m.file.ReceiveIndex},
		{branchChange, m.file.ChangeIndex},
	} {
		for i := uint32(0); i <= b.last+gap; i++ {
			_, script, err := m.addressAtLocked(b.id, i)
			if err != nil {
				return nil, err
			}
			out[string(script)] = scriptKey{branch: b.id, index: i}
		}
	}
	return out, nil
}

// SignPacket signs every packet input that spends one of the wallet's own
// outputs and reports how many inputs received a signature. Inputs owned by
// other wallets, inputs without witness utxo metadata and already finalized
// inputs are left untouched so the packet can keep circulating between
// signers.
func (m *Manager) SignPacket(p *psbt.Packet) (int, error) {
	if p == nil || p.UnsignedTx == nil {
		return 0, fmt.Errorf("packet carries no unsigned transaction")
	}

	master, err := m.ensureKeys(false)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	if m.file == nil {
		m.mu.RUnlock()
		return 0, fmt.Errorf("no wallet loaded")
	}
	scripts, err := m.scriptIndexLocked()
	coinType := m.params.HDCoinType
	m.mu.RUnlock()
	if err != nil {
		return 0, err
	}

	prevOuts := make(map[wire.OutPoint]*wire.TxOut, len(p.Inputs))
	for i := range p.Inputs {
		if utxo := p.Inputs[i].WitnessUtxo; utxo != nil {
			prevOuts[p.UnsignedTx.TxIn[i].PreviousOutPoint] = utxo
		}
	}
	sigHashes := txscript.NewTxSigHashes(p.UnsignedTx, txscript.NewMultiPrevOutFetcher(prevOuts))

	signed := 0
	for i := range p.Inputs {
		in := &p.Inputs[i]
		if in.FinalScriptSig != nil || in.FinalScriptWitness != nil {
			continue
		}
		utxo := in.WitnessUtxo
		if utxo == nil {
			continue
		}
		slot, ok := scripts[string(utxo.PkScript)]
		if !ok {
			continue
		}

		child, err := derivePrivKey(master, coinType, slot.branch, slot.index)
		if err != nil {
			return signed, err
		}
		priv, err := child.ECPrivKey()
		if err != nil {
			return signed, fmt.Errorf("failed to get private key: %w", err)
		}
		pub := priv.PubKey().SerializeCompressed()
		if hasPartialSig(in, pub) {
			continue
		}

		sig, err := txscript.RawTxInWitnessSignature(
			p.UnsignedTx, sigHashes, i, utxo.Value, utxo.PkScript, txscript.SigHashAll, priv)
		if err != nil {
			return signed, fmt.Errorf("failed to sign input %d: %w", i, err)
		}

		in.PartialSigs = append(in.PartialSigs, &psbt.PartialSig{PubKey: pub, Signature: sig})
		in.SighashType = txscript.SigHashAll
		signed++
	}

	m.logger.Info().
		Int("signed", signed).
		Str("txid", p.UnsignedTx.TxHash().String()).
		Msg("signed psbt inputs")
	return signed, nil
}

func hasPartialSig(in *psbt.PInput, pubKey []byte) bool {
	for _, ps := range in.PartialSigs {
		if string(ps.PubKey) == string(pubKey) {
			return true
		}
	}
	return false
}
