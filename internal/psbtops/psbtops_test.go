package psbtops

import (
	"encoding/base64"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
)

// testAddress returns a P2WPKH address and its pkScript with a hash160
// derived from tag.
func testAddress(t *testing.T, tag byte) (string, []byte) {
	t.Helper()
	var h [20]byte
	h[0] = tag
	addr, err := btcutil.NewAddressWitnessPubKeyHash(h[:], &chainparams.MainNetParams)
	require.NoError(t, err)
	script, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)
	return addr.EncodeAddress(), script
}

// fundedTestPacket builds a one-input, two-output unsigned packet with
// witness utxo metadata attached.
func fundedTestPacket(t *testing.T) *psbt.Packet {
	t.Helper()

	_, inScript := testAddress(t, 0x01)
	in := FundingInput{
		OutPoint: wire.OutPoint{Hash: chainhash.Hash{0xaa}, Index: 1},
		PrevOut:  wire.NewTxOut(150_000, inScript),
	}

	_, outScript1 := testAddress(t, 0x02)
	_, outScript2 := testAddress(t, 0x03)
	p, err := NewFundedPacket(
		[]FundingInput{in},
		[]*wire.TxOut{wire.NewTxOut(90_000, outScript1), wire.NewTxOut(50_000, outScript2)},
		0,
	)
	require.NoError(t, err)
	return p
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := fundedTestPacket(t)

	raw, err := Encode(p)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	decoded, err := Decode(raw)
	require.NoError(t, err)

	reEncoded, err := Encode(decoded)
	require.NoError(t, err)
	require.Equal(t, raw, reEncoded)
}

func TestEncodeBase64RoundTrip(t *testing.T) {
	p := fundedTestPacket(t)

	b64, err := EncodeBase64(p)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, p.UnsignedTx.TxHash(), decoded.UnsignedTx.TxHash())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not a psbt"))
	require.Error(t, err)

	_, err = Decode(nil)
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	inAddr, inScript := testAddress(t, 0x01)
	in := FundingInput{
		OutPoint: wire.OutPoint{Hash: chainhash.Hash{0xaa}, Index: 1},
		PrevOut:  wire.NewTxOut(150_000, inScript),
	}
	outAddr1, outScript1 := testAddress(t, 0x02)
	outAddr2, outScript2 := testAddress(t, 0x03)

	p, err := NewFundedPacket(
		[]FundingInput{in},
		[]*wire.TxOut{wire.NewTxOut(90_000, outScript1), wire.NewTxOut(50_000, outScript2)},
		0,
	)
	require.NoError(t, err)

	s, err := Summarize(p, &chainparams.MainNetParams)
	require.NoError(t, err)

	require.Len(t, s.Inputs, 1)
	require.Equal(t, inAddr, s.Inputs[0].Address)
	require.Equal(t, int64(150_000), s.Inputs[0].Amount)
	require.False(t, s.Inputs[0].Finalized)

	require.Len(t, s.Outputs, 2)
	require.Equal(t, outAddr1, s.Outputs[0].Address)
	require.Equal(t, int64(90_000), s.Outputs[0].Amount)
	require.Equal(t, outAddr2, s.Outputs[1].Address)

	require.Equal(t, int64(150_000), s.TotalIn)
	require.Equal(t, int64(140_000), s.TotalOut)
	require.True(t, s.FeeKnown)
	require.Equal(t, int64(10_000), s.Fee)
	require.False(t, s.Complete)
	require.Equal(t, p.UnsignedTx.TxHash().String(), s.TxID)
}

func TestSummarizeFeeUnknownWithoutUtxoInfo(t *testing.T) {
	_, outScript := testAddress(t, 0x02)
	in := FundingInput{
		OutPoint: wire.OutPoint{Hash: chainhash.Hash{0xbb}, Index: 0},
		PrevOut:  nil, // no utxo metadata attached
	}

	p, err := NewFundedPacket([]FundingInput{in}, []*wire.TxOut{wire.NewTxOut(25_000, outScript)}, 0)
	require.NoError(t, err)

	s, err := Summarize(p, &chainparams.MainNetParams)
	require.NoError(t, err)
	require.False(t, s.FeeKnown)
	require.Equal(t, int64(0), s.Inputs[0].Amount)
	require.Equal(t, int64(25_000), s.TotalOut)
}

func TestFinalizeRequiresSignatures(t *testing.T) {
	p := fundedTestPacket(t)
	require.Error(t, Finalize(p))
}

func TestExtractRawTxRequiresCompletePacket(t *testing.T) {
	p := fundedTestPacket(t)
	_, err := ExtractRawTx(p)
	require.Error(t, err)
}

func TestSaveToFile(t *testing.T) {
	p := fundedTestPacket(t)
	fs := afero.NewMemMapFs()

	require.NoError(t, SaveToFile(fs, p, "/out/tx.psbt"))

	raw, err := afero.ReadFile(fs, "/out/tx.psbt")
	require.NoError(t, err)

	expected, err := Encode(p)
	require.NoError(t, err)
	require.Equal(t, expected, raw)
}
