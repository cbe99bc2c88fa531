package controller

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/spf13/afero"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
	"github.com/talonwallet/talon-desktop/internal/wallet"
)

// Collaborator fakes shared by the controller tests. Everything runs on the
// calling goroutine, mirroring how the GUI drives the controller.

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) Text() string        { return c.text }
func (c *fakeClipboard) SetText(text string) { c.text = text }

type fakeFileDialog struct {
	openPath string
	openOK   bool
	savePath string
	saveOK   bool

	openCalls  int
	saveCalls  int
	lastFilter string
}

func (d *fakeFileDialog) OpenFile(title, filter string) (string, bool) {
	d.openCalls++
	d.lastFilter = filter
	return d.openPath, d.openOK
}

func (d *fakeFileDialog) SaveFile(title, filter string) (string, bool) {
	d.saveCalls++
	d.lastFilter = filter
	return d.savePath, d.saveOK
}

type fakePassphrase struct {
	pass    string
	ok      bool
	newPass string
	newOK   bool

	askCalls    int
	askNewCalls int
	lastMode    PassphraseMode
}

func (p *fakePassphrase) AskPassphrase(mode PassphraseMode) (string, bool) {
	p.askCalls++
	p.lastMode = mode
	return p.pass, p.ok
}

func (p *fakePassphrase) AskNewPassphrase(mode PassphraseMode) (string, bool) {
	p.askNewCalls++
	p.lastMode = mode
	return p.newPass, p.newOK
}

type fakeIndicator struct {
	title    string
	percents []int
	canceled bool
	closes   int
}

func (i *fakeIndicator) SetPercent(percent int) { i.percents = append(i.percents, percent) }
func (i *fakeIndicator) Canceled() bool         { return i.canceled }
func (i *fakeIndicator) Close()                 { i.closes++ }

// indicatorLog is an IndicatorFactory remembering every indicator it made.
type indicatorLog struct {
	created []*fakeIndicator
}

func (l *indicatorLog) factory(title string) ProgressIndicator {
	ind := &fakeIndicator{title: title}
	l.created = append(l.created, ind)
	return ind
}

func (l *indicatorLog) last() *fakeIndicator {
	if len(l.created) == 0 {
		return nil
	}
	return l.created[len(l.created)-1]
}

type fakeEditor struct {
	packets []*psbt.Packet
}

func (e *fakeEditor) OpenPSBT(packet *psbt.Packet) { e.packets = append(e.packets, packet) }

// fakeWallet is a scripted WalletBackend.
type fakeWallet struct {
	name    string
	network chainparams.Network
	unit    string
	status  wallet.EncryptionStatus

	encryptErr error
	unlockErr  error
	lockErr    error
	changeErr  error

	backupOK    bool
	backupPaths []string

	aborts int
	queued bool

	encryptCalls  []string
	unlockCalls   []string
	unlockStaking []bool
	lockCalls     int
	changeCalls   [][2]string

	signature string
	signErr   error
	verifyOK  bool
	verifyErr error

	messageCb  func(title, body string, isError bool)
	statusCb   func(wallet.EncryptionStatus)
	unlockCb   func()
	progressCb func(title string, percent int)
	insertCb   func(rec wallet.TxRecord)
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		name:     "test-wallet",
		network:  chainparams.NetworkMainnet,
		unit:     chainparams.CoinUnit,
		status:   wallet.StatusUnencrypted,
		backupOK: true,
		verifyOK: true,
	}
}

func (w *fakeWallet) Name() string                 { return w.name }
func (w *fakeWallet) Network() chainparams.Network { return w.network }
func (w *fakeWallet) DisplayUnit() string          { return w.unit }

func (w *fakeWallet) EncryptionStatus() wallet.EncryptionStatus { return w.status }

func (w *fakeWallet) Encrypt(passphrase string) error {
	w.encryptCalls = append(w.encryptCalls, passphrase)
	if w.encryptErr != nil {
		return w.encryptErr
	}
	w.status = wallet.StatusLocked
	return nil
}

func (w *fakeWallet) Unlock(passphrase string, stakingOnly bool) error {
	w.unlockCalls = append(w.unlockCalls, passphrase)
	w.unlockStaking = append(w.unlockStaking, stakingOnly)
	if w.unlockErr != nil {
		return w.unlockErr
	}
	w.status = wallet.StatusUnlocked
	return nil
}

func (w *fakeWallet) Lock() error {
	w.lockCalls++
	if w.lockErr != nil {
		return w.lockErr
	}
	w.status = wallet.StatusLocked
	return nil
}

func (w *fakeWallet) ChangePassphrase(oldPass, newPass string) error {
	w.changeCalls = append(w.changeCalls, [2]string{oldPass, newPass})
	return w.changeErr
}

func (w *fakeWallet) BackupWallet(path string) bool {
	w.backupPaths = append(w.backupPaths, path)
	return w.backupOK
}

func (w *fakeWallet) AbortRescan()           { w.aborts++ }
func (w *fakeWallet) ProcessingQueued() bool { return w.queued }

func (w *fakeWallet) SignMessage(address, message string) (string, error) {
	if w.signErr != nil {
		return "", w.signErr
	}
	return w.signature, nil
}

func (w *fakeWallet) VerifyMessage(address, message, signature string) (bool, error) {
	return w.verifyOK, w.verifyErr
}

func (w *fakeWallet) OnMessage(fn func(title, body string, isError bool)) { w.messageCb = fn }

func (w *fakeWallet) OnEncryptionStatusChanged(fn func(wallet.EncryptionStatus)) {
	w.statusCb = fn
}

func (w *fakeWallet) OnUnlockRequested(fn func()) { w.unlockCb = fn }

func (w *fakeWallet) OnProgress(fn func(title string, percent int)) { w.progressCb = fn }

func (w *fakeWallet) OnTransactionInserted(fn func(rec wallet.TxRecord)) { w.insertCb = fn }

type fakeNode struct {
	ibd    bool
	syncCb func(outOfSync bool)
}

func (n *fakeNode) IsInitialBlockDownload() bool { return n.ibd }
func (n *fakeNode) OnSyncChanged(fn func(bool))  { n.syncCb = fn }

// testRig bundles a controller with its collaborator fakes and a message log.
type testRig struct {
	ctl        *Manager
	fs         afero.Fs
	clipboard  *fakeClipboard
	files      *fakeFileDialog
	passphrase *fakePassphrase
	editor     *fakeEditor
	indicators *indicatorLog

	messages []Message
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	return newTestRigFs(t, afero.NewMemMapFs())
}

func newTestRigFs(t *testing.T, fs afero.Fs) *testRig {
	t.Helper()
	rig := &testRig{
		fs:         fs,
		clipboard:  &fakeClipboard{},
		files:      &fakeFileDialog{},
		passphrase: &fakePassphrase{},
		editor:     &fakeEditor{},
		indicators: &indicatorLog{},
	}
	rig.ctl = NewManager(rig.fs, Collaborators{
		Clipboard:  rig.clipboard,
		FileDialog: rig.files,
		Passphrase: rig.passphrase,
		Editor:     rig.editor,
		Indicators: rig.indicators.factory,
	})
	rig.ctl.OnMessage(func(msg Message) { rig.messages = append(rig.messages, msg) })
	return rig
}

// errorMessages filters the recorded messages by severity.
func (r *testRig) errorMessages() []Message {
	var out []Message
	for _, msg := range r.messages {
		if msg.Severity == SeverityError {
			out = append(out, msg)
		}
	}
	return out
}

var errScripted = errors.New("scripted failure")
