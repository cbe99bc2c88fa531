// Package psbtops wraps the btcutil PSBT primitives used by the transaction
// editor and the PSBT loader: decoding, encoding, summarising and finalising
// partially signed transactions, plus building funded packets for the send
// flow. Signing itself stays with the editor's external signers.
package psbtops

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/spf13/afero"
)

// Decode parses a raw binary PSBT.
func Decode(raw []byte) (*psbt.Packet, error) {
	p, err := psbt.NewFromRawBytes(bytes.NewReader(raw), false)
	if err != nil {
		return nil, fmt.Errorf("failed to decode psbt: %w", err)
	}
	return p, nil
}

// Encode serialises the packet to its raw binary form.
func Encode(p *psbt.Packet) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialise psbt: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 serialises the packet to its base64 text form.
func EncodeBase64(p *psbt.Packet) (string, error) {
	s, err := p.B64Encode()
	if err != nil {
		return "", fmt.Errorf("failed to encode psbt: %w", err)
	}
	return s, nil
}

// SaveToFile writes the raw binary PSBT to path.
func SaveToFile(fs afero.Fs, p *psbt.Packet, path string) error {
	raw, err := Encode(p)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write psbt file: %w", err)
	}
	return nil
}

// InputSummary describes one packet input for display.
type InputSummary struct {
	PrevOut   string // txid:index of the spent output
	Amount    int64  // sats, 0 when the input carries no utxo info
	Address   string // empty for non-standard scripts or missing utxo info
	Finalized bool
}

// OutputSummary describes one packet output for display.
type OutputSummary struct {
	Address string
	Amount  int64
}

// Summary is the display model the editor renders for a packet.
type Summary struct {
	TxID     string
	Inputs   []InputSummary
	Outputs  []OutputSummary
	TotalIn  int64
	TotalOut int64
	Fee      int64
	FeeKnown bool // all inputs carried utxo info
	Complete bool
}

// Summarize builds the display model for a packet. Input amounts and the fee
// are only known when every input carries witness or non-witness utxo
// metadata.
func Summarize(p *psbt.Packet, params *chaincfg.Params) (*Summary, error) {
	if p == nil || p.UnsignedTx == nil {
		return nil, fmt.Errorf("packet carries no unsigned transaction")
	}

	s := &Summary{
		TxID:     p.UnsignedTx.TxHash().String(),
		FeeKnown: true,
		Complete: p.IsComplete(),
	}

	for i, txIn := range p.UnsignedTx.TxIn {
		in := InputSummary{PrevOut: txIn.PreviousOutPoint.String()}
		if i < len(p.Inputs) {
			pin := p.Inputs[i]
			in.Finalized = len(pin.FinalScriptSig) > 0 || len(pin.FinalScriptWitness) > 0
			if utxo := spentOutput(&pin, txIn.PreviousOutPoint.Index); utxo != nil {
				in.Amount = utxo.Value
				in.Address = addressForScript(utxo.PkScript, params)
				s.TotalIn += utxo.Value
			} else {
				s.FeeKnown = false
			}
		} else {
			s.FeeKnown = false
		}
		s.Inputs = append(s.Inputs, in)
	}

	for _, txOut := range p.UnsignedTx.TxOut {
		s.Outputs = append(s.Outputs, OutputSummary{
			Address: addressForScript(txOut.PkScript, params),
			Amount:  txOut.Value,
		})
		s.TotalOut += txOut.Value
	}

	if s.FeeKnown {
		s.Fee = s.TotalIn - s.TotalOut
	}
	return s, nil
}

// spentOutput resolves the output an input spends from its utxo metadata.
func spentOutput(pin *psbt.PInput, prevIndex uint32) *wire.TxOut {
	if pin.WitnessUtxo != nil {
		return pin.WitnessUtxo
	}
	if pin.NonWitnessUtxo != nil && int(prevIndex) < len(pin.NonWitnessUtxo.TxOut) {
		return pin.NonWitnessUtxo.TxOut[prevIndex]
	}
	return nil
}

func addressForScript(pkScript []byte, params *chaincfg.Params) string {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, params)
	if err != nil || len(addrs) == 0 {
		return ""
	}
	return addrs[0].EncodeAddress()
}

// Finalize attempts to finalise every input of the packet. It fails when
// signatures are still missing.
func Finalize(p *psbt.Packet) error {
	if err := psbt.MaybeFinalizeAll(p); err != nil {
		return fmt.Errorf("failed to finalise psbt: %w", err)
	}
	return nil
}

// ExtractTx extracts the fully signed network transaction from a complete
// packet.
func ExtractTx(p *psbt.Packet) (*wire.MsgTx, error) {
	tx, err := psbt.Extract(p)
	if err != nil {
		return nil, fmt.Errorf("failed to extract transaction: %w", err)
	}
	return tx, nil
}

// ExtractRawTx extracts the fully signed network transaction from a complete
// packet and serialises it for broadcast.
func ExtractRawTx(p *psbt.Packet) ([]byte, error) {
	tx, err := ExtractTx(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialise transaction: %w", err)
	}
	return buf.Bytes(), nil
}

// FundingInput is one wallet utxo consumed by a new send transaction.
type FundingInput struct {
	OutPoint wire.OutPoint
	PrevOut  *wire.TxOut
}

// NewFundedPacket builds an unsigned packet spending the given inputs into
// the given outputs, with witness utxo metadata attached so external signers
// can sign it without chain access.
func NewFundedPacket(inputs []FundingInput, outputs []*wire.TxOut, lockTime uint32) (*psbt.Packet, error) {
	outPoints := make([]*wire.OutPoint, len(inputs))
	sequences := make([]uint32, len(inputs))
	for i := range inputs {
		op := inputs[i].OutPoint
		outPoints[i] = &op
		sequences[i] = wire.MaxTxInSequenceNum
	}

	p, err := psbt.New(outPoints, outputs, 2, lockTime, sequences)
	if err != nil {
		return nil, fmt.Errorf("failed to build packet: %w", err)
	}

	updater, err := psbt.NewUpdater(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}
	for i := range inputs {
		if inputs[i].PrevOut == nil {
			continue
		}
		if err := updater.AddInWitnessUtxo(inputs[i].PrevOut, i); err != nil {
			return nil, fmt.Errorf("failed to attach utxo to input %d: %w", i, err)
		}
	}
	return p, nil
}
