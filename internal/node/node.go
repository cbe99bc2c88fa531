// Package node maintains the electrum connection the wallet runs against: it
// follows chain headers, answers sync questions and relays broadcasts and
// history lookups.
package node

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog"
	"github.com/setavenger/go-electrum/electrum"
	"github.com/spf13/viper"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/logging"
	"github.com/talonwallet/talon-desktop/internal/rescan"
)

const (
	// maxTipAge is how stale the best header may be before the node counts
	// as still in initial block download.
	maxTipAge = 24 * time.Hour

	pingInterval   = 30 * time.Second
	reconnectDelay = 10 * time.Second
)

// Stats is a snapshot of the node state for the stats page.
type Stats struct {
	Network   string
	Server    string
	Connected bool
	TipHeight uint32
	TipTime   time.Time
	TipAge    time.Duration
	Syncing   bool
}

// Node follows the chain through one electrum server at a time, with the
// remaining configured servers as fallbacks. All exported methods are safe
// for concurrent use.
type Node struct {
	logger  zerolog.Logger
	network chainparams.Network
	pool    *Pool

	mu        sync.RWMutex
	client    electrumClient
	server    string
	tipHeight uint32
	tipTime   time.Time
	running   bool
	stopChan  chan struct{}

	cbMu    sync.Mutex
	tipCbs  []func(height uint32)
	syncCbs []func(outOfSync bool)
}

// New creates a node over the configured electrum servers. Call Start to
// connect.
func New(config *viper.Viper) *Node {
	servers := config.GetStringSlice("electrum_servers")
	if primary := config.GetString("electrum_url"); primary != "" {
		servers = append([]string{primary}, servers...)
	}
	return &Node{
		logger:  logging.L.With().Str("component", "node").Logger(),
		network: chainparams.Network(config.GetString("network")),
		pool:    NewPool(servers),
	}
}

// OnTipChanged registers a sink for new chain tips.
func (n *Node) OnTipChanged(cb func(height uint32)) {
	n.cbMu.Lock()
	defer n.cbMu.Unlock()
	n.tipCbs = append(n.tipCbs, cb)
}

// OnSyncChanged registers a sink fired whenever the node enters or leaves
// initial block download.
func (n *Node) OnSyncChanged(cb func(outOfSync bool)) {
	n.cbMu.Lock()
	defer n.cbMu.Unlock()
	n.syncCbs = append(n.syncCbs, cb)
}

func (n *Node) emitTipChanged(height uint32) {
	n.cbMu.Lock()
	cbs := append([]func(uint32){}, n.tipCbs...)
	n.cbMu.Unlock()
	for _, cb := range cbs {
		cb(height)
	}
}

func (n *Node) emitSyncChanged(outOfSync bool) {
	n.cbMu.Lock()
	cbs := append([]func(bool){}, n.syncCbs...)
	n.cbMu.Unlock()
	for _, cb := range cbs {
		cb(outOfSync)
	}
}

// Start connects in the background and keeps the header subscription alive,
// moving to the next configured server when the connection drops.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return fmt.Errorf("node already started")
	}
	n.running = true
	n.stopChan = make(chan struct{})
	stop := n.stopChan
	n.mu.Unlock()

	n.logger.Info().
		Str("network", string(n.network)).
		Int("servers", len(n.pool.Servers())).
		Msg("starting node")

	go n.run(ctx, stop)
	return nil
}

// Stop closes the connection and ends the background loop.
func (n *Node) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	select {
	case <-n.stopChan:
	default:
		close(n.stopChan)
	}
	n.mu.Unlock()
	n.logger.Info().Msg("node stop requested")
}

func (n *Node) run(ctx context.Context, stop chan struct{}) {
	defer func() {
		n.mu.Lock()
		n.running = false
		n.mu.Unlock()
		n.logger.Info().Msg("node stopped")
	}()

	for {
		if stopped(ctx, stop) {
			return
		}

		server := n.pool.Next()
		client, err := dial(ctx, server)
		if err != nil {
			n.logger.Warn().Err(err).Str("server", server).Msg("failed to connect")
			n.pool.MarkFailed(server, err)
			if !waitRetry(ctx, stop) {
				return
			}
			continue
		}

		n.attach(client, server)
		err = n.consume(ctx, stop, client)
		n.detach()
		if err != nil {
			n.logger.Warn().Err(err).Str("server", server).Msg("connection lost")
			n.pool.MarkFailed(server, err)
		}

		if stopped(ctx, stop) {
			return
		}
		if !waitRetry(ctx, stop) {
			return
		}
	}
}

// consume subscribes to headers and pumps them until the stream breaks or the
// node stops.
func (n *Node) consume(ctx context.Context, stop chan struct{}, client electrumClient) error {
	headers, err := client.SubscribeHeaders(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to headers: %w", err)
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case header, ok := <-headers:
			if !ok {
				return fmt.Errorf("header stream closed")
			}
			if header != nil {
				n.applyHeader(header)
			}
		case <-ticker.C:
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
		}
	}
}

func (n *Node) attach(client electrumClient, server string) {
	n.mu.Lock()
	n.client = client
	n.server = server
	n.mu.Unlock()
	n.pool.MarkConnected(server)
	n.logger.Info().Str("server", server).Msg("connected")
}

func (n *Node) detach() {
	n.mu.Lock()
	client, server := n.client, n.server
	n.client = nil
	n.server = ""
	n.mu.Unlock()

	if client != nil {
		client.Shutdown()
	}
	if server != "" {
		n.pool.MarkDisconnected(server)
	}
}

// applyHeader records a new best header and notifies the sinks. The header
// timestamp feeds the initial-block-download heuristic.
func (n *Node) applyHeader(header *electrum.SubscribeHeadersResult) {
	if header.Height < 0 {
		return
	}
	tipTime, err := headerTime(header.Hex)
	if err != nil {
		n.logger.Warn().Err(err).Int32("height", header.Height).Msg("undecodable header")
	}

	n.mu.Lock()
	wasSyncing := n.syncingLocked()
	n.tipHeight = uint32(header.Height)
	n.tipTime = tipTime
	server := n.server
	syncing := n.syncingLocked()
	n.mu.Unlock()

	n.pool.MarkSeen(server, uint32(header.Height))
	n.logger.Debug().
		Int32("height", header.Height).
		Time("timestamp", tipTime).
		Msg("new chain tip")

	n.emitTipChanged(uint32(header.Height))
	if wasSyncing != syncing {
		n.emitSyncChanged(syncing)
	}
}

// syncingLocked implements the initial-block-download heuristic: no header
// seen yet, or the best header is older than maxTipAge. The caller must hold
// n.mu.
func (n *Node) syncingLocked() bool {
	if n.tipHeight == 0 || n.tipTime.IsZero() {
		return true
	}
	return time.Since(n.tipTime) > maxTipAge
}

// IsInitialBlockDownload reports whether the connected chain is still
// catching up. Incoming transaction notifications are suppressed while true.
func (n *Node) IsInitialBlockDownload() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.syncingLocked()
}

// TipHeight returns the best known block height.
func (n *Node) TipHeight() uint32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tipHeight
}

// Connected reports whether a server connection is up.
func (n *Node) Connected() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.client != nil
}

// ActiveServer returns the address of the connected server, if any.
func (n *Node) ActiveServer() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.server
}

// ServerStatuses lists the configured servers for the nodes page.
func (n *Node) ServerStatuses() []ServerStatus {
	return n.pool.Status()
}

// Stats returns a snapshot for the stats page.
func (n *Node) Stats() Stats {
	n.mu.RLock()
	defer n.mu.RUnlock()

	stats := Stats{
		Network:   string(n.network),
		Server:    n.server,
		Connected: n.client != nil,
		TipHeight: n.tipHeight,
		TipTime:   n.tipTime,
		Syncing:   n.syncingLocked(),
	}
	if !n.tipTime.IsZero() {
		stats.TipAge = time.Since(n.tipTime)
	}
	return stats
}

// GetHistory lists confirmed and mempool transactions touching scriptHash.
// Part of the chain source the rescanner walks.
func (n *Node) GetHistory(ctx context.Context, scriptHash string) ([]rescan.HistoryItem, error) {
	client, err := n.activeClient()
	if err != nil {
		return nil, err
	}
	entries, err := client.GetHistory(ctx, scriptHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	items := make([]rescan.HistoryItem, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		items = append(items, rescan.HistoryItem{TxID: entry.Hash, Height: entry.Height})
	}
	return items, nil
}

// GetRawTransaction fetches the raw transaction hex for txID.
func (n *Node) GetRawTransaction(ctx context.Context, txID string) (string, error) {
	client, err := n.activeClient()
	if err != nil {
		return "", err
	}
	return client.GetRawTransaction(ctx, txID)
}

// Broadcast submits a signed transaction to the network and returns its txid.
func (n *Node) Broadcast(ctx context.Context, tx *wire.MsgTx) (string, error) {
	client, err := n.activeClient()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	txid, err := client.BroadcastTransaction(ctx, hex.EncodeToString(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("broadcast rejected: %w", err)
	}

	n.logger.Info().Str("txid", txid).Msg("transaction broadcast")
	return txid, nil
}

// Ping checks the active connection.
func (n *Node) Ping(ctx context.Context) error {
	client, err := n.activeClient()
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}

func (n *Node) activeClient() (electrumClient, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.client == nil {
		return nil, fmt.Errorf("not connected to any electrum server")
	}
	return n.client, nil
}

// headerTime extracts the timestamp from a raw block header.
func headerTime(headerHex string) (time.Time, error) {
	raw, err := hex.DecodeString(headerHex)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid header hex: %w", err)
	}
	var header wire.BlockHeader
	if err := header.Deserialize(bytes.NewReader(raw)); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode header: %w", err)
	}
	return header.Timestamp, nil
}

func stopped(ctx context.Context, stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func waitRetry(ctx context.Context, stop chan struct{}) bool {
	select {
	case <-stop:
		return false
	case <-ctx.Done():
		return false
	case <-time.After(reconnectDelay):
		return true
	}
}
