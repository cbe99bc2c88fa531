// Package rescan replays the transaction history of the wallet's watched
// scripts against a chain source. Progress is reported as a percentage so the
// UI can drive a cancelable indicator: 0 opens the run, 100 always closes it,
// even when the run is aborted or fails.
package rescan

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog"
)

var (
	// ErrRescanActive is returned by Start while a run is in flight.
	ErrRescanActive = errors.New("rescan already in progress")
	// ErrAborted is handed to the done callback when Abort cut the run short.
	ErrAborted = errors.New("rescan aborted")
)

// HistoryItem is one transaction touching a watched script. Height follows
// electrum semantics: positive for confirmed, 0 or -1 for mempool entries.
type HistoryItem struct {
	TxID   string
	Height int32
}

// ChainSource is the chain access the rescanner needs. The node package
// provides an electrum-backed implementation.
type ChainSource interface {
	GetHistory(ctx context.Context, scriptHash string) ([]HistoryItem, error)
	GetRawTransaction(ctx context.Context, txID string) (string, error)
	TipHeight() uint32
}

// Target is one watched script to replay.
type Target struct {
	Address  string
	PkScript []byte
}

// FoundTx is a transaction discovered during the walk, delivered at most once
// per run.
type FoundTx struct {
	TxID   string
	Height int32
	Tx     *wire.MsgTx
}

// ScriptHash returns the electrum script hash for a pkScript: the sha256 of
// the script with the byte order reversed, hex encoded.
func ScriptHash(pkScript []byte) string {
	h := sha256.Sum256(pkScript)
	for i, j := 0, len(h)-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
	return hex.EncodeToString(h[:])
}

// Rescanner walks targets against a chain source. A single run is allowed at
// a time; Abort stops the current run between targets.
type Rescanner struct {
	source ChainSource
	logger *zerolog.Logger

	progressCallback func(percent int)
	foundCallback    func(FoundTx)
	doneCallback     func(err error)

	scanning bool
	stopChan chan struct{}
	mu       sync.Mutex
}

// New creates a rescanner reading from source.
func New(source ChainSource, logger *zerolog.Logger) *Rescanner {
	return &Rescanner{source: source, logger: logger}
}

// SetProgressCallback sets the percentage feed for the UI indicator.
func (r *Rescanner) SetProgressCallback(callback func(percent int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progressCallback = callback
}

// SetFoundCallback sets the sink for discovered transactions.
func (r *Rescanner) SetFoundCallback(callback func(FoundTx)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.foundCallback = callback
}

// SetDoneCallback sets the end-of-run hook. err is nil on a clean finish and
// ErrAborted when the run was cut short.
func (r *Rescanner) SetDoneCallback(callback func(err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doneCallback = callback
}

// Running reports whether a run is in flight.
func (r *Rescanner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scanning
}

// Start begins walking targets in a goroutine. History entries confirmed
// below fromHeight are skipped; mempool entries are always replayed.
func (r *Rescanner) Start(ctx context.Context, targets []Target, fromHeight uint32) error {
	r.mu.Lock()
	if r.scanning {
		r.mu.Unlock()
		r.logger.Warn().Msg("rescan already in progress, ignoring start request")
		return ErrRescanActive
	}
	r.scanning = true
	r.stopChan = make(chan struct{})
	stop := r.stopChan
	progress, found, done := r.progressCallback, r.foundCallback, r.doneCallback
	r.mu.Unlock()

	r.logger.Info().
		Int("targets", len(targets)).
		Uint32("from_height", fromHeight).
		Uint32("tip", r.source.TipHeight()).
		Msg("starting rescan")

	go r.run(ctx, stop, targets, fromHeight, progress, found, done)
	return nil
}

// Abort requests the current run to stop. Safe to call repeatedly and when
// nothing is running.
func (r *Rescanner) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.scanning {
		r.logger.Debug().Msg("no rescan running, nothing to abort")
		return
	}
	select {
	case <-r.stopChan:
		// already signalled
	default:
		close(r.stopChan)
		r.logger.Info().Msg("rescan abort requested")
	}
}

func (r *Rescanner) run(
	ctx context.Context,
	stop chan struct{},
	targets []Target,
	fromHeight uint32,
	progress func(int),
	found func(FoundTx),
	done func(error),
) {
	var runErr error
	defer func() {
		report(progress, 100)
		r.mu.Lock()
		r.scanning = false
		r.mu.Unlock()
		if done != nil {
			done(runErr)
		}
		r.logger.Info().Err(runErr).Msg("rescan finished")
	}()

	report(progress, 0)

	seen := make(map[string]struct{})
	for i, target := range targets {
		if stopped(stop) {
			runErr = ErrAborted
			return
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			return
		}

		items, err := r.source.GetHistory(ctx, ScriptHash(target.PkScript))
		if err != nil {
			r.logger.Warn().Err(err).Str("address", target.Address).Msg("failed to fetch history")
			reportStep(progress, i+1, len(targets))
			continue
		}

		for _, item := range items {
			if stopped(stop) {
				runErr = ErrAborted
				return
			}
			if item.Height > 0 && uint32(item.Height) < fromHeight {
				continue
			}
			if _, ok := seen[item.TxID]; ok {
				continue
			}
			seen[item.TxID] = struct{}{}

			tx, err := r.fetchTx(ctx, item.TxID)
			if err != nil {
				r.logger.Warn().Err(err).Str("txid", item.TxID).Msg("failed to fetch transaction")
				continue
			}
			if found != nil {
				found(FoundTx{TxID: item.TxID, Height: item.Height, Tx: tx})
			}
		}

		reportStep(progress, i+1, len(targets))
	}
}

func (r *Rescanner) fetchTx(ctx context.Context, txID string) (*wire.MsgTx, error) {
	rawHex, err := r.source.GetRawTransaction(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("failed to get raw transaction: %w", err)
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raw transaction: %w", err)
	}
	tx := &wire.MsgTx{}
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to deserialise transaction: %w", err)
	}
	return tx, nil
}

func stopped(stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

func report(progress func(int), percent int) {
	if progress != nil {
		progress(percent)
	}
}

// reportStep maps walk progress onto 1..99; the closing 100 is reserved for
// the end of the run.
func reportStep(progress func(int), done, total int) {
	if total == 0 {
		return
	}
	percent := done * 100 / total
	if percent > 99 {
		percent = 99
	}
	report(progress, percent)
}
