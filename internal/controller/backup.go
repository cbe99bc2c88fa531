package controller

import "fmt"

// BackupWallet asks for a destination path and writes a copy of the wallet
// file there. A dismissed dialog is a silent no-op; the outcome of an actual
// attempt is always reported to the user.
func (m *Manager) BackupWallet() error {
	w := m.walletBackend()
	if w == nil {
		return ErrNoWallet
	}
	path, ok := m.collab.FileDialog.SaveFile("Backup Wallet", "Wallet Data (*.dat)")
	if !ok {
		return nil
	}
	if !w.BackupWallet(path) {
		m.emitMessage(Message{
			Title:    "Backup Failed",
			Body:     fmt.Sprintf("There was an error trying to save the wallet data to %s.", path),
			Severity: SeverityError,
		})
		return ErrBackupFailed
	}
	m.emitMessage(Message{
		Title:    "Backup Successful",
		Body:     fmt.Sprintf("The wallet data was successfully saved to %s.", path),
		Severity: SeverityInformation,
	})
	return nil
}
