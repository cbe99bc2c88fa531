package controller

import "github.com/talonwallet/talon-desktop/internal/wallet"

// Passphrase flows. Each one drives the injected prompt and reports failures
// back through the message feed; a canceled prompt aborts the flow silently.
// Encryption status changes reach the GUI through the wallet's own event.

// EncryptWallet encrypts a plain-text wallet with a passphrase collected from
// the user.
func (m *Manager) EncryptWallet() {
	w := m.walletBackend()
	if w == nil || w.EncryptionStatus() != wallet.StatusUnencrypted {
		return
	}
	pass, ok := m.collab.Passphrase.AskNewPassphrase(ModeEncrypt)
	if !ok {
		return
	}
	if err := w.Encrypt(pass); err != nil {
		m.logger.Error().Err(err).Msg("wallet encryption failed")
		m.emitMessage(Message{
			Title:    "Wallet Encryption Failed",
			Body:     "Wallet encryption failed: " + err.Error(),
			Severity: SeverityError,
		})
		return
	}
	m.emitMessage(Message{
		Title:    "Wallet Encrypted",
		Body:     "Your wallet is now encrypted. Remember that previous backups still contain the unencrypted seed and should be replaced.",
		Severity: SeverityInformation,
	})
}

// UnlockWallet asks for the passphrase and unlocks a locked wallet. It does
// nothing when the wallet is not in the locked state.
func (m *Manager) UnlockWallet() {
	w := m.walletBackend()
	if w == nil || w.EncryptionStatus() != wallet.StatusLocked {
		return
	}
	pass, ok := m.collab.Passphrase.AskPassphrase(ModeUnlock)
	if !ok {
		return
	}
	if err := w.Unlock(pass, false); err != nil {
		m.logger.Warn().Err(err).Msg("wallet unlock failed")
		m.emitMessage(Message{
			Title:    "Wallet Unlock Failed",
			Body:     "The passphrase entered for the wallet decryption was incorrect.",
			Severity: SeverityError,
		})
	}
}

// UnlockWalletForStaking unlocks a locked wallet for staking only. Spending
// operations still require a full unlock.
func (m *Manager) UnlockWalletForStaking() {
	w := m.walletBackend()
	if w == nil || w.EncryptionStatus() != wallet.StatusLocked {
		return
	}
	pass, ok := m.collab.Passphrase.AskPassphrase(ModeUnlock)
	if !ok {
		return
	}
	if err := w.Unlock(pass, true); err != nil {
		m.logger.Warn().Err(err).Msg("staking unlock failed")
		m.emitMessage(Message{
			Title:    "Wallet Unlock Failed",
			Body:     "The passphrase entered for the wallet decryption was incorrect.",
			Severity: SeverityError,
		})
	}
}

// LockWallet drops the key material of an encrypted wallet from memory.
func (m *Manager) LockWallet() {
	w := m.walletBackend()
	if w == nil {
		return
	}
	if err := w.Lock(); err != nil {
		m.emitMessage(Message{
			Title:    "Wallet Lock Failed",
			Body:     "Unable to lock the wallet: " + err.Error(),
			Severity: SeverityError,
		})
	}
}

// ChangePassphrase re-encrypts the wallet under a new passphrase after
// verifying the old one.
func (m *Manager) ChangePassphrase() {
	w := m.walletBackend()
	if w == nil || w.EncryptionStatus() == wallet.StatusUnencrypted {
		return
	}
	oldPass, ok := m.collab.Passphrase.AskPassphrase(ModeChange)
	if !ok {
		return
	}
	newPass, ok := m.collab.Passphrase.AskNewPassphrase(ModeChange)
	if !ok {
		return
	}
	if err := w.ChangePassphrase(oldPass, newPass); err != nil {
		m.logger.Warn().Err(err).Msg("passphrase change failed")
		m.emitMessage(Message{
			Title:    "Passphrase Change Failed",
			Body:     "The passphrase could not be changed: " + err.Error(),
			Severity: SeverityError,
		})
		return
	}
	m.emitMessage(Message{
		Title:    "Passphrase Changed",
		Body:     "The wallet passphrase was successfully changed.",
		Severity: SeverityInformation,
	})
}
