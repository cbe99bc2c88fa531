package node

import (
	"bytes"
	"context"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/setavenger/go-electrum/electrum"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type fakeElectrum struct {
	mu        sync.Mutex
	headers   chan *electrum.SubscribeHeadersResult
	history   map[string][]*electrum.GetMempoolResult
	raws      map[string]string
	broadcast []string
	txid      string
	pingErr   error
	shutdowns int
}

func (f *fakeElectrum) SubscribeHeaders(context.Context) (<-chan *electrum.SubscribeHeadersResult, error) {
	return f.headers, nil
}

func (f *fakeElectrum) GetHistory(_ context.Context, scriptHash string) ([]*electrum.GetMempoolResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[scriptHash], nil
}

func (f *fakeElectrum) GetRawTransaction(_ context.Context, txID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raws[txID], nil
}

func (f *fakeElectrum) BroadcastTransaction(_ context.Context, rawTx string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcast = append(f.broadcast, rawTx)
	return f.txid, nil
}

func (f *fakeElectrum) Ping(context.Context) error { return f.pingErr }

func (f *fakeElectrum) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
}

func newTestNode(t *testing.T) *Node {
	t.Helper()
	v := viper.New()
	v.Set("network", "mainnet")
	v.Set("electrum_url", "ssl://primary.example:50002")
	v.Set("electrum_servers", []string{"tcp://fallback.example:50001"})
	return New(v)
}

func headerHex(t *testing.T, ts time.Time) string {
	t.Helper()
	header := wire.BlockHeader{Version: 1, Timestamp: ts, Bits: 0x1d00ffff}
	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

func TestHeaderTime(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	got, err := headerTime(headerHex(t, ts))
	require.NoError(t, err)
	require.Equal(t, ts.Unix(), got.Unix())

	_, err = headerTime("zz not hex")
	require.Error(t, err)
	_, err = headerTime("00112233") // truncated header
	require.Error(t, err)
}

func TestApplyHeaderUpdatesTip(t *testing.T) {
	n := newTestNode(t)
	require.True(t, n.IsInitialBlockDownload())

	var tips []uint32
	n.OnTipChanged(func(height uint32) { tips = append(tips, height) })

	n.applyHeader(&electrum.SubscribeHeadersResult{
		Height: 812_345,
		Hex:    headerHex(t, time.Now()),
	})

	require.Equal(t, uint32(812_345), n.TipHeight())
	require.False(t, n.IsInitialBlockDownload())
	require.Equal(t, []uint32{812_345}, tips)
}

func TestInitialBlockDownloadHeuristic(t *testing.T) {
	n := newTestNode(t)

	// A day-old tip still counts as syncing.
	n.applyHeader(&electrum.SubscribeHeadersResult{
		Height: 100,
		Hex:    headerHex(t, time.Now().Add(-25*time.Hour)),
	})
	require.True(t, n.IsInitialBlockDownload())

	n.applyHeader(&electrum.SubscribeHeadersResult{
		Height: 101,
		Hex:    headerHex(t, time.Now().Add(-time.Minute)),
	})
	require.False(t, n.IsInitialBlockDownload())
}

func TestSyncChangedFiresOnTransition(t *testing.T) {
	n := newTestNode(t)

	var flips []bool
	n.OnSyncChanged(func(outOfSync bool) { flips = append(flips, outOfSync) })

	// Stale header: still syncing, no transition yet.
	n.applyHeader(&electrum.SubscribeHeadersResult{
		Height: 100, Hex: headerHex(t, time.Now().Add(-25*time.Hour)),
	})
	require.Empty(t, flips)

	// Fresh header: caught up.
	n.applyHeader(&electrum.SubscribeHeadersResult{
		Height: 101, Hex: headerHex(t, time.Now()),
	})
	require.Equal(t, []bool{false}, flips)

	// Stale again: back out of sync.
	n.applyHeader(&electrum.SubscribeHeadersResult{
		Height: 102, Hex: headerHex(t, time.Now().Add(-25*time.Hour)),
	})
	require.Equal(t, []bool{false, true}, flips)
}

func TestConsumePumpsHeaders(t *testing.T) {
	n := newTestNode(t)
	fake := &fakeElectrum{headers: make(chan *electrum.SubscribeHeadersResult, 4)}
	stop := make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- n.consume(context.Background(), stop, fake) }()

	fake.headers <- &electrum.SubscribeHeadersResult{
		Height: 900, Hex: headerHex(t, time.Now()),
	}
	require.Eventually(t, func() bool { return n.TipHeight() == 900 },
		5*time.Second, 10*time.Millisecond)

	// A dropped stream surfaces as an error so the run loop reconnects.
	close(fake.headers)
	select {
	case err := <-done:
		require.ErrorContains(t, err, "header stream closed")
	case <-time.After(5 * time.Second):
		t.Fatal("consume did not return")
	}
}

func TestConsumeStopsCleanly(t *testing.T) {
	n := newTestNode(t)
	fake := &fakeElectrum{headers: make(chan *electrum.SubscribeHeadersResult)}
	stop := make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- n.consume(context.Background(), stop, fake) }()

	close(stop)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consume did not return")
	}
}

func TestBroadcast(t *testing.T) {
	n := newTestNode(t)
	fake := &fakeElectrum{txid: "feedface"}
	n.attach(fake, "ssl://primary.example:50002")

	tx := wire.NewMsgTx(wire.TxVersion)
	prev := wire.OutPoint{Hash: chainhash.Hash{0x01}, Index: 0}
	tx.AddTxIn(wire.NewTxIn(&prev, nil, nil))
	tx.AddTxOut(wire.NewTxOut(1000, []byte{0x00, 0x14}))

	txid, err := n.Broadcast(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, "feedface", txid)

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	require.Equal(t, []string{hex.EncodeToString(buf.Bytes())}, fake.broadcast)
}

func TestBroadcastRequiresConnection(t *testing.T) {
	n := newTestNode(t)
	_, err := n.Broadcast(context.Background(), wire.NewMsgTx(wire.TxVersion))
	require.ErrorContains(t, err, "not connected")
}

func TestGetHistoryMapping(t *testing.T) {
	n := newTestNode(t)
	fake := &fakeElectrum{
		history: map[string][]*electrum.GetMempoolResult{
			"deadbeef": {
				{Hash: "aa", Height: 120},
				nil, // defensive servers sometimes pad
				{Hash: "bb", Height: 0},
			},
		},
		raws: map[string]string{"aa": "010203"},
	}
	n.attach(fake, "ssl://primary.example:50002")

	items, err := n.GetHistory(context.Background(), "deadbeef")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "aa", items[0].TxID)
	require.Equal(t, int32(120), items[0].Height)
	require.Equal(t, "bb", items[1].TxID)

	raw, err := n.GetRawTransaction(context.Background(), "aa")
	require.NoError(t, err)
	require.Equal(t, "010203", raw)
}

func TestDetachShutsDownClient(t *testing.T) {
	n := newTestNode(t)
	fake := &fakeElectrum{}
	n.attach(fake, "ssl://primary.example:50002")
	require.True(t, n.Connected())
	require.Equal(t, "ssl://primary.example:50002", n.ActiveServer())

	n.detach()
	require.False(t, n.Connected())
	require.Empty(t, n.ActiveServer())
	require.Equal(t, 1, fake.shutdowns)
}

func TestStatsSnapshot(t *testing.T) {
	n := newTestNode(t)
	fake := &fakeElectrum{}
	n.attach(fake, "ssl://primary.example:50002")
	n.applyHeader(&electrum.SubscribeHeadersResult{
		Height: 500, Hex: headerHex(t, time.Now().Add(-time.Hour)),
	})

	stats := n.Stats()
	require.Equal(t, "mainnet", stats.Network)
	require.Equal(t, "ssl://primary.example:50002", stats.Server)
	require.True(t, stats.Connected)
	require.Equal(t, uint32(500), stats.TipHeight)
	require.False(t, stats.Syncing)
	require.InDelta(t, time.Hour, stats.TipAge, float64(time.Minute))

	statuses := n.ServerStatuses()
	require.Len(t, statuses, 2)
	require.Equal(t, uint32(500), statuses[0].TipHeight)
	require.True(t, statuses[0].Connected)
}

func TestSplitServerAddr(t *testing.T) {
	for _, tc := range []struct {
		in, scheme, addr string
	}{
		{"ssl://host:50002", "ssl", "host:50002"},
		{"tcp://host:50001", "tcp", "host:50001"},
		{"host:50001", "tcp", "host:50001"},
	} {
		scheme, addr := splitServerAddr(tc.in)
		require.Equal(t, tc.scheme, scheme, tc.in)
		require.Equal(t, tc.addr, addr, tc.in)
	}
}
