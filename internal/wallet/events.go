package wallet

// Callback registration for the view controller. Registration appends under a
// dedicated mutex; emission iterates a snapshot so callbacks may call back
// into the manager or register further callbacks. Emitters are never invoked
// while m.mu is held.

// OnMessage registers a sink for user-facing wallet messages.
func (m *Manager) OnMessage(cb func(title, body string, isError bool)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.messageCallbacks = append(m.messageCallbacks, cb)
}

// OnEncryptionStatusChanged registers a sink for keystore state transitions.
func (m *Manager) OnEncryptionStatusChanged(cb func(EncryptionStatus)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.statusCallbacks = append(m.statusCallbacks, cb)
}

// OnUnlockRequested registers a sink fired when an operation needs the
// wallet unlocked. The sink may unlock the wallet synchronously; the
// operation rechecks the state afterwards.
func (m *Manager) OnUnlockRequested(cb func()) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.unlockCallbacks = append(m.unlockCallbacks, cb)
}

// OnProgress registers a sink for long-running operation progress, reported
// as a title and a 0..100 percentage.
func (m *Manager) OnProgress(cb func(title string, percent int)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.progressCallbacks = append(m.progressCallbacks, cb)
}

// OnTransactionInserted registers a sink for new history records.
func (m *Manager) OnTransactionInserted(cb func(rec TxRecord)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.insertCallbacks = append(m.insertCallbacks, cb)
}

func (m *Manager) emitMessage(title, body string, isError bool) {
	m.cbMu.Lock()
	cbs := append(([]func(string, string, bool))(nil), m.messageCallbacks...)
	m.cbMu.Unlock()
	for _, cb := range cbs {
		cb(title, body, isError)
	}
}

func (m *Manager) emitEncryptionStatus(status EncryptionStatus) {
	m.cbMu.Lock()
	cbs := append(([]func(EncryptionStatus))(nil), m.statusCallbacks...)
	m.cbMu.Unlock()
	for _, cb := range cbs {
		cb(status)
	}
}

func (m *Manager) emitUnlockRequested() {
	m.cbMu.Lock()
	cbs := append(([]func())(nil), m.unlockCallbacks...)
	m.cbMu.Unlock()
	for _, cb := range cbs {
		cb()
	}
}

func (m *Manager) emitProgress(title string, percent int) {
	m.cbMu.Lock()
	cbs := append(([]func(string, int))(nil), m.progressCallbacks...)
	m.cbMu.Unlock()
	for _, cb := range cbs {
		cb(title, percent)
	}
}

func (m *Manager) emitTransactionInserted(rec TxRecord) {
	m.cbMu.Lock()
	cbs := append(([]func(TxRecord))(nil), m.insertCallbacks...)
	m.cbMu.Unlock()
	for _, cb := range cbs {
		cb(rec)
	}
}
