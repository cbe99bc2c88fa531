package wallet

import (
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// AddRecord inserts or updates a history record. Only genuinely new records
// fire the transaction-inserted sinks; confirmation updates do not.
func (m *Manager) AddRecord(rec TxRecord) error {
	m.mu.Lock()
	if m.file == nil {
		m.mu.Unlock()
		return fmt.Errorf("no wallet loaded")
	}

	inserted := false
	if existing := m.findRecordLocked(rec.TxID); existing != nil {
		existing.Height = rec.Height
		if !rec.Date.IsZero() {
			existing.Date = rec.Date
		}
		if rec.Label != "" {
			existing.Label = rec.Label
		}
	} else {
		if rec.Date.IsZero() {
			rec.Date = unconfirmedDate()
		}
		recCopy := rec
		m.file.Records = append(m.file.Records, &recCopy)
		inserted = true
	}

	err := m.persistLocked()
	m.mu.Unlock()

	if inserted {
		m.logger.Info().
			Str("txid", rec.TxID).
			Str("type", string(rec.Type)).
			Int64("amount", rec.Amount).
			Msg("added transaction record")
		m.emitTransactionInserted(rec)
	}
	return err
}

func (m *Manager) findRecordLocked(txID string) *TxRecord {
	for _, rec := range m.file.Records {
		if rec.TxID == txID {
			return rec
		}
	}
	return nil
}

// Records returns a copy of the history, newest first.
func (m *Manager) Records() []TxRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return nil
	}
	records := make([]TxRecord, 0, len(m.file.Records))
	for _, rec := range m.file.Records {
		records = append(records, *rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records
}

// Balance sums the wallet's unspent outputs.
func (m *Manager) Balance() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return 0
	}
	var total int64
	for _, u := range m.file.UTXOs {
		total += u.Amount
	}
	return total
}

// UTXOs returns a copy of the unspent output set.
func (m *Manager) UTXOs() []OwnedUTXO {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.file == nil {
		return nil
	}
	utxos := make([]OwnedUTXO, 0, len(m.file.UTXOs))
	for _, u := range m.file.UTXOs {
		utxos = append(utxos, *u)
	}
	return utxos
}

func (m *Manager) findUTXOLocked(txID string, vout uint32) *OwnedUTXO {
	for _, u := range m.file.UTXOs {
		if u.TxID == txID && u.Vout == vout {
			return u
		}
	}
	return nil
}

func (m *Manager) upsertUTXOLocked(utxo *OwnedUTXO) {
	if existing := m.findUTXOLocked(utxo.TxID, utxo.Vout); existing != nil {
		existing.Height = utxo.Height
		return
	}
	m.file.UTXOs = append(m.file.UTXOs, utxo)
}

func (m *Manager) removeUTXOLocked(txID string, vout uint32) {
	for i, u := range m.file.UTXOs {
		if u.TxID == txID && u.Vout == vout {
			m.file.UTXOs = append(m.file.UTXOs[:i], m.file.UTXOs[i+1:]...)
			return
		}
	}
}

// BeginQueued enters batch mode: saves are deferred and the controller
// suppresses per-transaction notifications until EndQueued.
func (m *Manager) BeginQueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queuedDepth++
}

// EndQueued leaves batch mode and flushes the wallet file.
func (m *Manager) EndQueued() {
	m.mu.Lock()
	if m.queuedDepth > 0 {
		m.queuedDepth--
	}
	var err error
	if m.queuedDepth == 0 && m.file != nil {
		err = m.saveLocked()
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Err(err).Msg("failed to flush wallet after batch")
	}
}

// ProcessingQueued reports whether the wallet is replaying transactions in
// batch mode.
func (m *Manager) ProcessingQueued() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queuedDepth > 0
}

// persistLocked saves unless batch mode defers it. The caller must hold m.mu.
func (m *Manager) persistLocked() error {
	if m.queuedDepth > 0 {
		return nil
	}
	return m.saveLocked()
}

// ProcessTransaction applies a chain transaction to the wallet: outputs
// spent by it leave the utxo set, outputs paying watched scripts join it and
// the net effect lands in the history. Unrelated transactions are ignored.
func (m *Manager) ProcessTransaction(tx *wire.MsgTx, height uint32) error {
	scripts, err := m.ownScripts()
	if err != nil {
		return err
	}

	txID := tx.TxHash().String()

	m.mu.Lock()
	if m.file == nil {
		m.mu.Unlock()
		return fmt.Errorf("no wallet loaded")
	}

	var spent int64
	for _, in := range tx.TxIn {
		prev := in.PreviousOutPoint
		if u := m.findUTXOLocked(prev.Hash.String(), prev.Index); u != nil {
			spent += u.Amount
			m.removeUTXOLocked(u.TxID, u.Vout)
		}
	}

	var received int64
	var firstOwn, firstExternal string
	for vout, out := range tx.TxOut {
		if addr, ok := scripts[string(out.PkScript)]; ok {
			received += out.Value
			if firstOwn == "" {
				firstOwn = addr
			}
			m.upsertUTXOLocked(&OwnedUTXO{
				TxID:     txID,
				Vout:     uint32(vout),
				Amount:   out.Value,
				Address:  addr,
				PkScript: out.PkScript,
				Height:   height,
			})
		} else if firstExternal == "" {
			firstExternal = addressForScript(out.PkScript, m.params)
		}
	}

	if spent == 0 && received == 0 {
		m.mu.Unlock()
		return nil
	}

	net := received - spent
	rec := TxRecord{
		TxID:    txID,
		Height:  height,
		Amount:  net,
		Type:    TxTypeReceive,
		Address: firstOwn,
	}
	switch {
	case spent > 0 && net > 0 && isCoinstake(tx):
		rec.Type = TxTypeStakeReward
	case net < 0:
		rec.Type = TxTypeSend
		rec.Address = firstExternal
	}
	rec.Label = m.file.Labels[rec.Address]
	m.mu.Unlock()

	return m.AddRecord(rec)
}

// isCoinstake recognises proof-of-stake reward transactions by their empty
// marker output in the first slot.
func isCoinstake(tx *wire.MsgTx) bool {
	return len(tx.TxIn) > 0 && len(tx.TxOut) >= 2 &&
		tx.TxOut[0].Value == 0 && len(tx.TxOut[0].PkScript) == 0
}

func addressForScript(pkScript []byte, params *chaincfg.Params) string {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, params)
	if err != nil || len(addrs) == 0 {
		return ""
	}
	return addrs[0].EncodeAddress()
}
