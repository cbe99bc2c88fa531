package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talonwallet/talon-desktop/internal/wallet"
)

func TestEncryptWallet(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.newPass = "hunter2hunter2"
	rig.passphrase.newOK = true

	rig.ctl.EncryptWallet()

	require.Equal(t, []string{"hunter2hunter2"}, w.encryptCalls)
	require.Equal(t, ModeEncrypt, rig.passphrase.lastMode)
	require.Len(t, rig.messages, 1)
	msg := rig.messages[0]
	require.Equal(t, "Wallet Encrypted", msg.Title)
	require.Contains(t, msg.Body, "previous backups still contain the unencrypted seed")
	require.Equal(t, SeverityInformation, msg.Severity)
}

func TestEncryptWalletPromptCanceled(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.newOK = false

	rig.ctl.EncryptWallet()

	require.Empty(t, w.encryptCalls)
	require.Empty(t, rig.messages)
}

func TestEncryptWalletAlreadyEncrypted(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.newOK = true

	rig.ctl.EncryptWallet()

	require.Zero(t, rig.passphrase.askNewCalls)
	require.Empty(t, w.encryptCalls)
}

func TestEncryptWalletFailure(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.encryptErr = errScripted
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.newPass = "hunter2hunter2"
	rig.passphrase.newOK = true

	rig.ctl.EncryptWallet()

	require.Len(t, rig.messages, 1)
	require.Equal(t, "Wallet Encryption Failed", rig.messages[0].Title)
	require.Equal(t, SeverityError, rig.messages[0].Severity)
}

func TestUnlockWallet(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.pass = "hunter2hunter2"
	rig.passphrase.ok = true

	rig.ctl.UnlockWallet()

	require.Equal(t, []string{"hunter2hunter2"}, w.unlockCalls)
	require.Equal(t, []bool{false}, w.unlockStaking)
	require.Equal(t, ModeUnlock, rig.passphrase.lastMode)
	require.Empty(t, rig.messages)
}

func TestUnlockWalletWrongPassphrase(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	w.unlockErr = wallet.ErrWrongPassphrase
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.pass = "wrong"
	rig.passphrase.ok = true

	rig.ctl.UnlockWallet()

	require.Len(t, rig.messages, 1)
	msg := rig.messages[0]
	require.Equal(t, "Wallet Unlock Failed", msg.Title)
	require.Equal(t, "The passphrase entered for the wallet decryption was incorrect.", msg.Body)
	require.Equal(t, SeverityError, msg.Severity)
}

func TestUnlockWalletNotLocked(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.ok = true

	rig.ctl.UnlockWallet()

	require.Zero(t, rig.passphrase.askCalls)
	require.Empty(t, w.unlockCalls)
}

func TestUnlockWalletForStaking(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.pass = "hunter2hunter2"
	rig.passphrase.ok = true

	rig.ctl.UnlockWalletForStaking()

	require.Equal(t, []bool{true}, w.unlockStaking)
	require.Empty(t, rig.messages)
}

func TestLockWalletFailure(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusUnlocked
	w.lockErr = errScripted
	rig.ctl.SetWalletBackend(w)

	rig.ctl.LockWallet()

	require.Equal(t, 1, w.lockCalls)
	require.Len(t, rig.messages, 1)
	require.Equal(t, "Wallet Lock Failed", rig.messages[0].Title)
}

func TestChangePassphrase(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.pass = "old-pass"
	rig.passphrase.ok = true
	rig.passphrase.newPass = "new-pass"
	rig.passphrase.newOK = true

	rig.ctl.ChangePassphrase()

	require.Equal(t, [][2]string{{"old-pass", "new-pass"}}, w.changeCalls)
	require.Equal(t, ModeChange, rig.passphrase.lastMode)
	require.Len(t, rig.messages, 1)
	require.Equal(t, "Passphrase Changed", rig.messages[0].Title)
	require.Equal(t, SeverityInformation, rig.messages[0].Severity)
}

func TestChangePassphraseCanceledAtSecondPrompt(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.pass = "old-pass"
	rig.passphrase.ok = true
	rig.passphrase.newOK = false

	rig.ctl.ChangePassphrase()

	require.Equal(t, 1, rig.passphrase.askCalls)
	require.Equal(t, 1, rig.passphrase.askNewCalls)
	require.Empty(t, w.changeCalls)
	require.Empty(t, rig.messages)
}

func TestChangePassphraseUnencryptedWallet(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.ok = true
	rig.passphrase.newOK = true

	rig.ctl.ChangePassphrase()

	require.Zero(t, rig.passphrase.askCalls)
	require.Empty(t, w.changeCalls)
}

func TestChangePassphraseFailure(t *testing.T) {
	rig := newTestRig(t)
	w := newFakeWallet()
	w.status = wallet.StatusLocked
	w.changeErr = wallet.ErrWrongPassphrase
	rig.ctl.SetWalletBackend(w)
	rig.passphrase.pass = "wrong"
	rig.passphrase.ok = true
	rig.passphrase.newPass = "new-pass"
	rig.passphrase.newOK = true

	rig.ctl.ChangePassphrase()

	require.Len(t, rig.messages, 1)
	require.Equal(t, "Passphrase Change Failed", rig.messages[0].Title)
	require.Equal(t, SeverityError, rig.messages[0].Severity)
}
