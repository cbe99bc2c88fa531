// Package controller is the interface between the GUI shell and the wallet
// and node backends. It owns no widgets: the GUI injects small collaborator
// interfaces (clipboard, file dialogs, passphrase prompts, progress
// indicators) and subscribes to typed events.
package controller

import (
	"errors"
	"sync"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/logging"
	"github.com/talonwallet/talon-desktop/internal/wallet"
)

// ErrNoWallet is returned by operations that need a wallet backend before one
// was attached.
var ErrNoWallet = errors.New("no wallet backend attached")

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	Text() string
	SetText(text string)
}

// FileDialog lets the user pick paths. Implementations return ok=false when
// the user dismisses the dialog.
type FileDialog interface {
	OpenFile(title, filter string) (path string, ok bool)
	SaveFile(title, filter string) (path string, ok bool)
}

// PassphraseMode tells the prompt which flow it is serving so it can adjust
// its labels.
type PassphraseMode int

const (
	ModeEncrypt PassphraseMode = iota
	ModeUnlock
	ModeChange
)

// PassphrasePrompt collects wallet passphrases from the user. AskNewPassphrase
// is expected to ask twice and verify the repeat itself. ok=false means the
// user canceled.
type PassphrasePrompt interface {
	AskPassphrase(mode PassphraseMode) (pass string, ok bool)
	AskNewPassphrase(mode PassphraseMode) (pass string, ok bool)
}

// ProgressIndicator is a cancelable modal progress display.
type ProgressIndicator interface {
	SetPercent(percent int)
	Canceled() bool
	Close()
}

// IndicatorFactory creates a new indicator showing the given title at zero
// percent.
type IndicatorFactory func(title string) ProgressIndicator

// TxEditor receives decoded transactions for review, signing and broadcast.
type TxEditor interface {
	OpenPSBT(packet *psbt.Packet)
}

// WalletBackend is the slice of the wallet manager the controller drives.
type WalletBackend interface {
	Name() string
	Network() chainparams.Network
	DisplayUnit() string

	EncryptionStatus() wallet.EncryptionStatus
	Encrypt(passphrase string) error
	Unlock(passphrase string, stakingOnly bool) error
	Lock() error
	ChangePassphrase(oldPass, newPass string) error

	BackupWallet(path string) bool
	AbortRescan()
	ProcessingQueued() bool

	SignMessage(address, message string) (string, error)
	VerifyMessage(address, message, signature string) (bool, error)

	OnMessage(fn func(title, body string, isError bool))
	OnEncryptionStatusChanged(fn func(wallet.EncryptionStatus))
	OnUnlockRequested(fn func())
	OnProgress(fn func(title string, percent int))
	OnTransactionInserted(fn func(rec wallet.TxRecord))
}

// NodeBackend is the slice of the node the controller consults.
type NodeBackend interface {
	IsInitialBlockDownload() bool
	OnSyncChanged(fn func(outOfSync bool))
}

// Collaborators bundles the GUI-provided helpers the controller calls out to.
type Collaborators struct {
	Clipboard  Clipboard
	FileDialog FileDialog
	Passphrase PassphrasePrompt
	Editor     TxEditor
	Indicators IndicatorFactory
}

// Manager coordinates the GUI-facing operations: loading transactions,
// progress display, backups, passphrase flows and page navigation.
type Manager struct {
	logger   zerolog.Logger
	fs       afero.Fs
	collab   Collaborators
	progress *Progress

	mu       sync.RWMutex
	wallet   WalletBackend
	node     NodeBackend
	page     Page
	homeMode bool

	cbMu           sync.Mutex
	messageCbs     []func(Message)
	incomingCbs    []func(IncomingTx)
	encStatusCbs   []func(wallet.EncryptionStatus)
	pageCbs        []func(Page)
	outOfSyncCbs   []func(bool)
	unlockReqCbs   []func()
	showReceiveCbs []func()
	showSendCbs    []func(PaymentRequest)
}

// NewManager builds a controller around the given filesystem and GUI
// collaborators. Backends are attached later via SetWalletBackend and
// SetNodeBackend.
func NewManager(fs afero.Fs, collab Collaborators) *Manager {
	m := &Manager{
		logger: logging.L.With().Str("component", "controller").Logger(),
		fs:     fs,
		collab: collab,
		page:   PageOverview,
	}
	m.progress = newProgress(collab.Indicators, m.abortBackendWork)
	return m
}

// SetWalletBackend attaches the wallet and subscribes to its event feeds.
// Callers attach once during startup; passing nil only detaches the backend
// from future operations.
func (m *Manager) SetWalletBackend(w WalletBackend) {
	m.mu.Lock()
	m.wallet = w
	m.mu.Unlock()
	if w == nil {
		return
	}

	w.OnMessage(func(title, body string, isError bool) {
		severity := SeverityInformation
		if isError {
			severity = SeverityError
		}
		m.emitMessage(Message{Title: title, Body: body, Severity: severity})
	})
	w.OnEncryptionStatusChanged(func(status wallet.EncryptionStatus) {
		m.emitEncryptionStatus(status)
	})
	w.OnUnlockRequested(func() {
		m.emitUnlockRequested()
		m.UnlockWallet()
	})
	w.OnProgress(func(title string, percent int) {
		m.progress.Report(title, percent)
	})
	w.OnTransactionInserted(func(rec wallet.TxRecord) {
		m.forwardIncomingTransaction(rec)
	})

	m.emitEncryptionStatus(w.EncryptionStatus())
}

// SetNodeBackend attaches the node and forwards its sync-state changes as
// out-of-sync warnings.
func (m *Manager) SetNodeBackend(n NodeBackend) {
	m.mu.Lock()
	m.node = n
	m.mu.Unlock()
	if n == nil {
		return
	}
	n.OnSyncChanged(func(outOfSync bool) {
		m.ShowOutOfSyncWarning(outOfSync)
	})
}

func (m *Manager) walletBackend() WalletBackend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wallet
}

// abortBackendWork is handed to the progress component so a canceled
// indicator stops the running rescan.
func (m *Manager) abortBackendWork() {
	if w := m.walletBackend(); w != nil {
		m.logger.Info().Msg("progress canceled, aborting rescan")
		w.AbortRescan()
	}
}

// forwardIncomingTransaction notifies the GUI about a new wallet record.
// Notifications are suppressed while the node is still catching up or the
// wallet is replaying queued transactions, since either would flood the
// screen with popups.
func (m *Manager) forwardIncomingTransaction(rec wallet.TxRecord) {
	m.mu.RLock()
	w, n := m.wallet, m.node
	m.mu.RUnlock()
	if w == nil || n == nil {
		return
	}
	if n.IsInitialBlockDownload() {
		return
	}
	if w.ProcessingQueued() {
		return
	}
	m.emitIncomingTransaction(IncomingTx{
		Date:    rec.Date,
		Unit:    w.DisplayUnit(),
		Amount:  rec.Amount,
		Type:    rec.Type,
		Address: rec.Address,
		Label:   rec.Label,
		Wallet:  w.Name(),
	})
}

// ShowOutOfSyncWarning toggles the GUI's out-of-sync indicator.
func (m *Manager) ShowOutOfSyncWarning(show bool) {
	m.emitOutOfSyncWarning(show)
}

// HandlePaymentRequest validates the requested address and opens the send
// form prefilled with the request. It reports whether the request was
// accepted.
func (m *Manager) HandlePaymentRequest(req PaymentRequest) bool {
	w := m.walletBackend()
	if w == nil {
		return false
	}
	if _, err := chainparams.DecodeAddress(req.Address, w.Network()); err != nil {
		m.logger.Warn().Err(err).Str("address", req.Address).Msg("rejected payment request")
		m.emitMessage(Message{
			Title:    "Invalid Payment Request",
			Body:     "The payment request contains an invalid address: " + req.Address,
			Severity: SeverityError,
		})
		return false
	}
	m.setPage(PageOverview, false)
	m.emitShowSend(req)
	return true
}

// SignMessage signs message with the key behind one of the wallet's own
// addresses.
func (m *Manager) SignMessage(address, message string) (string, error) {
	w := m.walletBackend()
	if w == nil {
		return "", ErrNoWallet
	}
	return w.SignMessage(address, message)
}

// VerifyMessage checks a signature produced by SignMessage.
func (m *Manager) VerifyMessage(address, message, signature string) (bool, error) {
	w := m.walletBackend()
	if w == nil {
		return false, ErrNoWallet
	}
	return w.VerifyMessage(address, message, signature)
}
