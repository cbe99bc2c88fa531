package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/talonwallet/talon-desktop/internal/rescan"
)

// rescanTitle is the label the progress indicator shows during a rescan.
const rescanTitle = "Rescanning..."

// SetChainSource wires the node the wallet scans through and prepares the
// rescanner. Must be called before StartRescan.
func (m *Manager) SetChainSource(source rescan.ChainSource) {
	logger := m.logger.With().Str("component", "rescan").Logger()
	r := rescan.New(source, &logger)
	r.SetProgressCallback(func(percent int) { m.emitProgress(rescanTitle, percent) })
	r.SetFoundCallback(m.processFoundTx)
	r.SetDoneCallback(m.finishRescan)

	m.mu.Lock()
	m.chain = source
	m.rescanner = r
	m.mu.Unlock()
}

// StartRescan replays the watched scripts from fromHeight; zero means the
// wallet's birth height. Discovered transactions are processed in batch mode
// so the controller can suppress per-transaction notifications.
func (m *Manager) StartRescan(ctx context.Context, fromHeight uint32) error {
	m.mu.RLock()
	rescanner := m.rescanner
	m.mu.RUnlock()
	if rescanner == nil {
		return fmt.Errorf("no chain source configured")
	}

	targets, err := m.WatchedTargets()
	if err != nil {
		return err
	}
	if fromHeight == 0 {
		fromHeight = m.BirthHeight()
	}

	m.BeginQueued()
	if err := rescanner.Start(ctx, targets, fromHeight); err != nil {
		m.EndQueued()
		return err
	}
	return nil
}

// AbortRescan asks a running rescan to stop. Advisory and idempotent: the
// walk stops at the next target boundary and the closing progress report
// still arrives.
func (m *Manager) AbortRescan() {
	m.mu.RLock()
	rescanner := m.rescanner
	m.mu.RUnlock()
	if rescanner != nil {
		rescanner.Abort()
	}
}

// RescanInProgress reports whether a rescan run is in flight.
func (m *Manager) RescanInProgress() bool {
	m.mu.RLock()
	rescanner := m.rescanner
	m.mu.RUnlock()
	return rescanner != nil && rescanner.Running()
}

func (m *Manager) processFoundTx(found rescan.FoundTx) {
	height := uint32(0)
	if found.Height > 0 {
		height = uint32(found.Height)
	}
	if err := m.ProcessTransaction(found.Tx, height); err != nil {
		m.logger.Warn().Err(err).Str("txid", found.TxID).Msg("failed to process transaction")
	}
}

func (m *Manager) finishRescan(err error) {
	m.EndQueued()

	switch {
	case err == nil:
		if tip := m.tipHeight(); tip > 0 {
			m.setLastScanHeight(tip)
		}
		m.logger.Info().Msg("rescan complete")
	case errors.Is(err, rescan.ErrAborted):
		m.logger.Info().Msg("rescan aborted")
	default:
		m.logger.Err(err).Msg("rescan failed")
		m.emitMessage("Rescan Failed", err.Error(), true)
	}
}

func (m *Manager) tipHeight() uint32 {
	m.mu.RLock()
	chain := m.chain
	m.mu.RUnlock()
	if chain == nil {
		return 0
	}
	return chain.TipHeight()
}

func (m *Manager) setLastScanHeight(height uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil || height <= m.file.LastScanHeight {
		return
	}
	m.file.LastScanHeight = height
	if err := m.saveLocked(); err != nil {
		m.logger.Err(err).Msg("failed to persist scan height")
	}
}
