package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptLocksWallet(t *testing.T) {
	m := newLoadedManager(t)
	require.Equal(t, StatusUnencrypted, m.EncryptionStatus())

	require.NoError(t, m.Encrypt("hunter2"))
	require.Equal(t, StatusLocked, m.EncryptionStatus())

	// The plaintext mnemonic is gone from disk.
	f := readWalletFile(t, m)
	require.Empty(t, f.Mnemonic)
	require.NotNil(t, f.Sealed)

	// Address derivation keeps working off the neutered account key.
	_, err := m.CurrentReceiveAddress()
	require.NoError(t, err)
}

func TestEncryptValidation(t *testing.T) {
	m := newTestManager(t)
	require.Error(t, m.Encrypt("pass"), "no wallet loaded")

	m = newLoadedManager(t)
	require.Error(t, m.Encrypt(""))

	require.NoError(t, m.Encrypt("pass"))
	require.Error(t, m.Encrypt("pass"), "already encrypted")
}

func TestUnlockWrongPassphrase(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.Encrypt("right"))

	require.ErrorIs(t, m.Unlock("wrong", false), ErrWrongPassphrase)
	require.Equal(t, StatusLocked, m.EncryptionStatus())
}

func TestUnlockAndLock(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.Encrypt("pass"))

	require.NoError(t, m.Unlock("pass", false))
	require.Equal(t, StatusUnlocked, m.EncryptionStatus())
	require.False(t, m.UnlockedForStakingOnly())

	require.NoError(t, m.Lock())
	require.Equal(t, StatusLocked, m.EncryptionStatus())
}

func TestLockRequiresEncryptedWallet(t *testing.T) {
	m := newLoadedManager(t)
	require.Error(t, m.Lock())
}

func TestStakingOnlyUnlock(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.Encrypt("pass"))
	require.NoError(t, m.Unlock("pass", true))
	require.True(t, m.UnlockedForStakingOnly())

	// Staking may use the keys, spending and signing may not.
	_, err := m.ensureKeys(true)
	require.NoError(t, err)
	_, err = m.ensureKeys(false)
	require.ErrorIs(t, err, ErrWalletLocked)
}

func TestEncryptionStatusEvents(t *testing.T) {
	m := newLoadedManager(t)

	var seen []EncryptionStatus
	m.OnEncryptionStatusChanged(func(status EncryptionStatus) {
		seen = append(seen, status)
	})

	require.NoError(t, m.Encrypt("pass"))
	require.NoError(t, m.Unlock("pass", false))
	require.NoError(t, m.Lock())

	require.Equal(t, []EncryptionStatus{StatusLocked, StatusUnlocked, StatusLocked}, seen)
}

func TestChangePassphrase(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.Encrypt("old"))

	require.ErrorIs(t, m.ChangePassphrase("wrong", "new"), ErrWrongPassphrase)

	require.NoError(t, m.ChangePassphrase("old", "new"))
	// Lock state is untouched by a passphrase change.
	require.Equal(t, StatusLocked, m.EncryptionStatus())

	require.ErrorIs(t, m.Unlock("old", false), ErrWrongPassphrase)
	require.NoError(t, m.Unlock("new", false))
}

func TestChangePassphraseRejectsEmpty(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.Encrypt("old"))
	require.Error(t, m.ChangePassphrase("old", ""))
}

func TestUnlockRequestedRecheck(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.Encrypt("pass"))

	requests := 0
	m.OnUnlockRequested(func() {
		requests++
		require.NoError(t, m.Unlock("pass", false))
	})

	// The locked wallet asks for an unlock and retries once granted.
	master, err := m.ensureKeys(false)
	require.NoError(t, err)
	require.NotNil(t, master)
	require.Equal(t, 1, requests)

	// Unlocked now; no further requests.
	_, err = m.ensureKeys(false)
	require.NoError(t, err)
	require.Equal(t, 1, requests)
}

func TestUnlockRequestedDenied(t *testing.T) {
	m := newLoadedManager(t)
	require.NoError(t, m.Encrypt("pass"))

	requests := 0
	m.OnUnlockRequested(func() { requests++ })

	_, err := m.ensureKeys(false)
	require.ErrorIs(t, err, ErrWalletLocked)
	require.Equal(t, 1, requests)
}

func TestReloadEncryptedWalletComesUpLocked(t *testing.T) {
	m := newLoadedManager(t)
	addr, err := m.CurrentReceiveAddress()
	require.NoError(t, err)
	require.NoError(t, m.Encrypt("pass"))

	reopened, err := NewManager(m.fs, m.config, testDataDir)
	require.NoError(t, err)
	require.NoError(t, reopened.LoadWallet())
	require.Equal(t, StatusLocked, reopened.EncryptionStatus())

	// Watch addresses derive from the stored account xpub while locked.
	addr2, err := reopened.CurrentReceiveAddress()
	require.NoError(t, err)
	require.Equal(t, addr, addr2)

	require.NoError(t, reopened.Unlock("pass", false))
	require.Equal(t, StatusUnlocked, reopened.EncryptionStatus())
}
