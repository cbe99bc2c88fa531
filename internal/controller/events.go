package controller

import (
	"time"

	"github.com/talonwallet/talon-desktop/internal/wallet"
)

// Severity classifies a Message for the GUI: error dialogs versus plain
// informational popups.
type Severity int

const (
	SeverityInformation Severity = iota
	SeverityError
)

// Message is a user-visible notification emitted by the controller or
// forwarded from the wallet backend.
type Message struct {
	Title    string
	Body     string
	Severity Severity
}

// IncomingTx describes a freshly recorded wallet transaction for GUI
// notification purposes.
type IncomingTx struct {
	Date    time.Time
	Unit    string
	Amount  int64
	Type    wallet.TxType
	Address string
	Label   string
	Wallet  string
}

// PaymentRequest asks the send form to open with prefilled fields.
type PaymentRequest struct {
	Address string
	Amount  int64
	Label   string
	Message string
}

// Event subscriptions. Callbacks run synchronously on the goroutine that
// triggered the event; GUI code is expected to hand off to its own loop.

func (m *Manager) OnMessage(fn func(Message)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.messageCbs = append(m.messageCbs, fn)
}

func (m *Manager) OnIncomingTransaction(fn func(IncomingTx)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.incomingCbs = append(m.incomingCbs, fn)
}

func (m *Manager) OnEncryptionStatusChanged(fn func(wallet.EncryptionStatus)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.encStatusCbs = append(m.encStatusCbs, fn)
}

func (m *Manager) OnPageChanged(fn func(Page)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.pageCbs = append(m.pageCbs, fn)
}

func (m *Manager) OnOutOfSyncWarning(fn func(bool)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.outOfSyncCbs = append(m.outOfSyncCbs, fn)
}

func (m *Manager) OnUnlockRequested(fn func()) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.unlockReqCbs = append(m.unlockReqCbs, fn)
}

func (m *Manager) OnShowReceive(fn func()) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.showReceiveCbs = append(m.showReceiveCbs, fn)
}

func (m *Manager) OnShowSend(fn func(PaymentRequest)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.showSendCbs = append(m.showSendCbs, fn)
}

func (m *Manager) emitMessage(msg Message) {
	m.cbMu.Lock()
	cbs := make([]func(Message), len(m.messageCbs))
	copy(cbs, m.messageCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn(msg)
	}
}

func (m *Manager) emitIncomingTransaction(tx IncomingTx) {
	m.cbMu.Lock()
	cbs := make([]func(IncomingTx), len(m.incomingCbs))
	copy(cbs, m.incomingCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn(tx)
	}
}

func (m *Manager) emitEncryptionStatus(status wallet.EncryptionStatus) {
	m.cbMu.Lock()
	cbs := make([]func(wallet.EncryptionStatus), len(m.encStatusCbs))
	copy(cbs, m.encStatusCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn(status)
	}
}

func (m *Manager) emitPageChanged(page Page) {
	m.cbMu.Lock()
	cbs := make([]func(Page), len(m.pageCbs))
	copy(cbs, m.pageCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn(page)
	}
}

func (m *Manager) emitOutOfSyncWarning(show bool) {
	m.cbMu.Lock()
	cbs := make([]func(bool), len(m.outOfSyncCbs))
	copy(cbs, m.outOfSyncCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn(show)
	}
}

func (m *Manager) emitUnlockRequested() {
	m.cbMu.Lock()
	cbs := make([]func(), len(m.unlockReqCbs))
	copy(cbs, m.unlockReqCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}

func (m *Manager) emitShowReceive() {
	m.cbMu.Lock()
	cbs := make([]func(), len(m.showReceiveCbs))
	copy(cbs, m.showReceiveCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}

func (m *Manager) emitShowSend(req PaymentRequest) {
	m.cbMu.Lock()
	cbs := make([]func(PaymentRequest), len(m.showSendCbs))
	copy(cbs, m.showSendCbs)
	m.cbMu.Unlock()
	for _, fn := range cbs {
		fn(req)
	}
}
